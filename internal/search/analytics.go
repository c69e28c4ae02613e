package search

import (
	"context"
	"fmt"
	"time"

	"github.com/atelierhq/atelier/internal/logger"
	"github.com/atelierhq/atelier/internal/models"
	"github.com/atelierhq/atelier/internal/util"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RecordSearch appends a history row and folds the search into the per-query
// aggregate. The aggregate upsert is a single INSERT .. ON CONFLICT statement,
// so concurrent searches for the same query never lose counts. AvgResults is
// maintained as a running mean.
//
// Callers invoke this off the request path; an error here never fails the
// search that triggered it.
func (s *Service) RecordSearch(ctx context.Context, query string, category Category, resultCount int, sessionID string) error {
	query = util.NormalizeQuery(query)
	if query == "" {
		return nil
	}

	history := models.SearchHistory{
		Query:     query,
		Results:   resultCount,
		SessionID: sessionID,
		Category:  string(category),
	}
	if err := s.db.WithContext(ctx).Create(&history).Error; err != nil {
		return fmt.Errorf("create search history: %w", err)
	}

	now := time.Now().UTC()
	aggregate := models.SearchAnalytics{
		Query:         query,
		SearchCount:   1,
		AvgResults:    float64(resultCount),
		FirstSearched: now,
		LastSearched:  now,
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "query"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"search_count": gorm.Expr("search_analytics.search_count + 1"),
			"avg_results": gorm.Expr(
				"(search_analytics.avg_results * search_analytics.search_count + ?) / (search_analytics.search_count + 1)",
				float64(resultCount),
			),
			"last_searched": now,
		}),
	}).Create(&aggregate).Error
	if err != nil {
		return fmt.Errorf("upsert search analytics: %w", err)
	}
	return nil
}

// RecordClick tracks a click on a search result. The matching history row is
// flagged best-effort; the per-query aggregate update is what the dashboard
// reads, so only that failure is reported.
func (s *Service) RecordClick(ctx context.Context, query, resultID string, sessionID string) error {
	query = util.NormalizeQuery(query)
	if query == "" {
		return nil
	}

	// Flag the most recent unclicked history row for this query, scoped to
	// the session when one is known. Best effort: a miss here just means the
	// click arrived without a matching search, which the aggregate tolerates.
	sub := s.db.Model(&models.SearchHistory{}).
		Select("id").
		Where("query = ?", query).
		Where("clicked = ?", false)
	if sessionID != "" {
		sub = sub.Where("session_id = ?", sessionID)
	}
	sub = sub.Order("created_at DESC").Limit(1)

	err := s.db.WithContext(ctx).
		Model(&models.SearchHistory{}).
		Where("id IN (?)", sub).
		Update("clicked", true).Error
	if err != nil {
		logger.Warn("failed to flag clicked search history row", logger.WithQuery(query), zap.Error(err))
	}

	now := time.Now().UTC()
	var aggregate models.SearchAnalytics
	err = s.db.WithContext(ctx).
		Where(models.SearchAnalytics{Query: query}).
		Attrs(models.SearchAnalytics{FirstSearched: now, LastSearched: now}).
		FirstOrCreate(&aggregate).Error
	if err != nil {
		return fmt.Errorf("load search analytics: %w", err)
	}

	// ClickRate is a percentage; a clicked query that was never recorded as
	// searched keeps rate 0 instead of dividing by zero.
	err = s.db.WithContext(ctx).
		Model(&models.SearchAnalytics{}).
		Where("query = ?", query).
		Updates(map[string]interface{}{
			"click_count":    gorm.Expr("click_count + 1"),
			"click_rate":     gorm.Expr("CASE WHEN search_count > 0 THEN (click_count + 1) * 100.0 / search_count ELSE 0 END"),
			"top_result_ids": PromoteTopResult(aggregate.TopResultIDs, resultID),
		}).Error
	if err != nil {
		return fmt.Errorf("update search analytics: %w", err)
	}
	return nil
}

// PromoteTopResult moves id to the front of the recently-clicked list,
// deduplicating and capping at models.TopResultLimit.
func PromoteTopResult(ids models.StringArray, id string) models.StringArray {
	out := models.StringArray{id}
	for _, existing := range ids {
		if existing == id {
			continue
		}
		out = append(out, existing)
		if len(out) == models.TopResultLimit {
			break
		}
	}
	return out
}
