package handlers

import (
	"context"
	"strings"
	"time"

	"github.com/atelierhq/atelier/internal/logger"
	"github.com/atelierhq/atelier/internal/models"
	"github.com/atelierhq/atelier/internal/util"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// paginationMeta is the meta block attached to every list response
func paginationMeta(page, limit int, total int64) gin.H {
	totalPages := 0
	if limit > 0 && total > 0 {
		totalPages = int((total + int64(limit) - 1) / int64(limit))
	}
	return gin.H{
		"page":        page,
		"limit":       limit,
		"total":       total,
		"total_pages": totalPages,
	}
}

// parsePagination reads page/limit query params with bounds applied
func parsePagination(c *gin.Context) (page, limit int) {
	page = util.ParseInt(c.DefaultQuery("page", "1"), 1)
	if page < 1 {
		page = 1
	}
	limit = util.ParseInt(c.DefaultQuery("limit", "20"), 20)
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}

// resolveTags turns a list of display names into Tag rows, creating missing
// tags keyed by slug. Duplicate and blank names are dropped.
func resolveTags(tx *gorm.DB, names []string) ([]models.Tag, error) {
	tags := make([]models.Tag, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		slug := util.Slugify(name)
		if slug == "" || seen[slug] {
			continue
		}
		seen[slug] = true

		var tag models.Tag
		err := tx.Where(models.Tag{Slug: slug}).
			Attrs(models.Tag{Name: name}).
			FirstOrCreate(&tag).Error
		if err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

// bumpNewTagCounts increments the denormalized usage counter for tags that
// were not previously associated. Counters are never decremented here; the
// reconcile-counters job trues them up.
func bumpNewTagCounts(tx *gorm.DB, before, after []models.Tag) error {
	prev := make(map[string]bool, len(before))
	for _, t := range before {
		prev[t.ID] = true
	}
	for _, t := range after {
		if prev[t.ID] {
			continue
		}
		err := tx.Model(&models.Tag{}).
			Where("id = ?", t.ID).
			UpdateColumn("count", gorm.Expr("count + 1")).Error
		if err != nil {
			return err
		}
	}
	return nil
}

// invalidateSearchCache drops cached search pages after a content write.
// Cache loss is tolerable; failures are only logged.
func (h *Handlers) invalidateSearchCache() {
	if h.cache == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := h.cache.DelPattern(ctx, searchCacheWildcard); err != nil {
		logger.Warn("search cache invalidation failed", zap.Error(err))
	}
}

// publishedAtFor keeps PublishedAt consistent with the Published flag:
// set on first publish, cleared on unpublish.
func publishedAtFor(published bool, current *time.Time) *time.Time {
	if !published {
		return nil
	}
	if current != nil {
		return current
	}
	now := time.Now().UTC()
	return &now
}
