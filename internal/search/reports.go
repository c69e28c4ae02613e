package search

import (
	"context"
	"fmt"
	"time"

	"github.com/atelierhq/atelier/internal/models"
)

// QueryStats is one row of the top-queries report: the raw aggregate plus
// resolved titles for the recently clicked results.
type QueryStats struct {
	Query         string      `json:"query"`
	SearchCount   int         `json:"search_count"`
	ClickCount    int         `json:"click_count"`
	AvgResults    float64     `json:"avg_results"`
	ClickRate     float64     `json:"click_rate"`
	TopResults    []TopResult `json:"top_results"`
	FirstSearched time.Time   `json:"first_searched"`
	LastSearched  time.Time   `json:"last_searched"`
}

// TopResult is a clicked result id resolved back to its entity, when the
// entity still exists.
type TopResult struct {
	ID    string     `json:"id"`
	Type  ResultType `json:"type,omitempty"`
	Title string     `json:"title,omitempty"`
}

// ZeroResultQuery is a query whose most recent search returned nothing.
type ZeroResultQuery struct {
	Query        string    `json:"query"`
	LastSearched time.Time `json:"last_searched"`
}

// Overview is the admin dashboard payload.
type Overview struct {
	TotalSearches   int64             `json:"total_searches"`
	TotalClicks     int64             `json:"total_clicks"`
	DistinctQueries int64             `json:"distinct_queries"`
	AverageCTR      float64           `json:"average_ctr"`
	TopQueries      []QueryStats      `json:"top_queries"`
	ZeroResults     []ZeroResultQuery `json:"zero_results"`
}

// TopQueries returns the most-searched queries with resolved top results.
func (s *Service) TopQueries(ctx context.Context, limit int) ([]QueryStats, error) {
	if limit < 1 {
		limit = 10
	}

	var rows []models.SearchAnalytics
	err := s.db.WithContext(ctx).
		Order("search_count DESC, last_searched DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("load top queries: %w", err)
	}

	stats := make([]QueryStats, 0, len(rows))
	for _, row := range rows {
		top, err := s.resolveTopResults(ctx, row.TopResultIDs)
		if err != nil {
			return nil, err
		}
		stats = append(stats, QueryStats{
			Query:         row.Query,
			SearchCount:   row.SearchCount,
			ClickCount:    row.ClickCount,
			AvgResults:    row.AvgResults,
			ClickRate:     row.ClickRate,
			TopResults:    top,
			FirstSearched: row.FirstSearched,
			LastSearched:  row.LastSearched,
		})
	}
	return stats, nil
}

// ZeroResultQueries lists distinct queries whose latest search found nothing,
// newest first. These are the content gaps worth writing for.
func (s *Service) ZeroResultQueries(ctx context.Context, limit int) ([]ZeroResultQuery, error) {
	if limit < 1 {
		limit = 20
	}

	// Latest history row per query, filtered to zero results. A query that
	// produced results on a later search no longer counts as a gap.
	var rows []ZeroResultQuery
	err := s.db.WithContext(ctx).Raw(`
		SELECT h.query AS query, h.created_at AS last_searched
		FROM search_histories h
		JOIN (
			SELECT query, MAX(created_at) AS last_at
			FROM search_histories
			GROUP BY query
		) latest ON latest.query = h.query AND latest.last_at = h.created_at
		WHERE h.results = 0
		ORDER BY h.created_at DESC
		LIMIT ?`, limit).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("load zero-result queries: %w", err)
	}
	if rows == nil {
		rows = []ZeroResultQuery{}
	}
	return rows, nil
}

// DashboardOverview assembles totals, top queries and zero-result queries in
// one call. AverageCTR is the mean of per-query click rates, so a rarely
// searched query weighs the same as a popular one.
func (s *Service) DashboardOverview(ctx context.Context, topN int) (*Overview, error) {
	if topN < 1 {
		topN = 10
	}

	var totals struct {
		TotalSearches   int64
		TotalClicks     int64
		DistinctQueries int64
		AverageCTR      float64
	}
	err := s.db.WithContext(ctx).
		Model(&models.SearchAnalytics{}).
		Select(`COALESCE(SUM(search_count), 0) AS total_searches,
			COALESCE(SUM(click_count), 0) AS total_clicks,
			COUNT(*) AS distinct_queries,
			COALESCE(AVG(click_rate), 0) AS average_ctr`).
		Scan(&totals).Error
	if err != nil {
		return nil, fmt.Errorf("load search totals: %w", err)
	}

	topQueries, err := s.TopQueries(ctx, topN)
	if err != nil {
		return nil, err
	}
	zeroResults, err := s.ZeroResultQueries(ctx, topN)
	if err != nil {
		return nil, err
	}

	return &Overview{
		TotalSearches:   totals.TotalSearches,
		TotalClicks:     totals.TotalClicks,
		DistinctQueries: totals.DistinctQueries,
		AverageCTR:      totals.AverageCTR,
		TopQueries:      topQueries,
		ZeroResults:     zeroResults,
	}, nil
}

// resolveTopResults maps clicked result ids back to live entities. Ids whose
// entity has since been deleted are returned bare so the report still shows
// that something was clicked.
func (s *Service) resolveTopResults(ctx context.Context, ids models.StringArray) ([]TopResult, error) {
	if len(ids) == 0 {
		return []TopResult{}, nil
	}

	titles := make(map[string]TopResult, len(ids))

	var projects []models.Project
	if err := s.db.WithContext(ctx).Select("id", "title").Where("id IN ?", []string(ids)).Find(&projects).Error; err != nil {
		return nil, fmt.Errorf("resolve project results: %w", err)
	}
	for _, p := range projects {
		titles[p.ID] = TopResult{ID: p.ID, Type: TypeProject, Title: p.Title}
	}

	var blogs []models.Blog
	if err := s.db.WithContext(ctx).Select("id", "title").Where("id IN ?", []string(ids)).Find(&blogs).Error; err != nil {
		return nil, fmt.Errorf("resolve blog results: %w", err)
	}
	for _, b := range blogs {
		titles[b.ID] = TopResult{ID: b.ID, Type: TypeBlog, Title: b.Title}
	}

	var images []models.Image
	if err := s.db.WithContext(ctx).Select("id", "alt").Where("id IN ?", []string(ids)).Find(&images).Error; err != nil {
		return nil, fmt.Errorf("resolve image results: %w", err)
	}
	for _, img := range images {
		titles[img.ID] = TopResult{ID: img.ID, Type: TypeImage, Title: img.Alt}
	}

	var tags []models.Tag
	if err := s.db.WithContext(ctx).Select("id", "name").Where("id IN ?", []string(ids)).Find(&tags).Error; err != nil {
		return nil, fmt.Errorf("resolve tag results: %w", err)
	}
	for _, t := range tags {
		titles[t.ID] = TopResult{ID: t.ID, Type: TypeTag, Title: t.Name}
	}

	out := make([]TopResult, 0, len(ids))
	for _, id := range ids {
		if resolved, ok := titles[id]; ok {
			out = append(out, resolved)
		} else {
			out = append(out, TopResult{ID: id})
		}
	}
	return out, nil
}
