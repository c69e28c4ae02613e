package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/atelierhq/atelier/internal/logger"
	"github.com/atelierhq/atelier/internal/metrics"
	"github.com/atelierhq/atelier/internal/search"
	"github.com/atelierhq/atelier/internal/util"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	searchCacheTTL      = 5 * time.Minute
	analyticsTimeout    = 5 * time.Second
	searchCachePrefix   = "search:"
	searchCacheWildcard = "search:*"
)

// Search handles GET /api/v1/search.
//
// The q parameter is required; a whitespace-only q short-circuits to an empty
// page without touching the store. Result pages are cached for a few minutes,
// but analytics are recorded on every request so cached searches still count.
func (h *Handlers) Search(c *gin.Context) {
	rawQuery, ok := c.GetQuery("q")
	if !ok {
		util.RespondBadRequest(c, "query parameter q is required")
		return
	}

	category, ok := search.ParseCategory(c.Query("category"))
	if !ok {
		util.RespondValidationError(c, "category", "must be one of: all, projects, blogs, images, tags")
		return
	}
	sortMode, ok := search.ParseSortMode(c.Query("sort"))
	if !ok {
		util.RespondValidationError(c, "sort", "must be one of: relevance, recent, views")
		return
	}

	page := util.ParseInt(c.DefaultQuery("page", "1"), 0)
	if page < 1 {
		util.RespondValidationError(c, "page", "must be a positive integer")
		return
	}
	limit := util.ParseInt(c.DefaultQuery("limit", "20"), 0)
	if limit < 1 || limit > search.MaxLimit {
		util.RespondValidationError(c, "limit", fmt.Sprintf("must be between 1 and %d", search.MaxLimit))
		return
	}

	params := search.Params{
		Query:     rawQuery,
		Category:  category,
		Sort:      sortMode,
		Page:      page,
		Limit:     limit,
		SessionID: util.GetSessionID(c),
	}

	query := util.NormalizeQuery(rawQuery)
	if query == "" {
		c.JSON(http.StatusOK, emptySearchResponse(page, limit))
		return
	}

	cacheKey := fmt.Sprintf("%sq=%s|cat=%s|sort=%s|page=%d|limit=%d",
		searchCachePrefix, query, category, sortMode, page, limit)

	if h.cache != nil {
		var cached search.Response
		hit, err := h.cache.GetJSON(c.Request.Context(), cacheKey, &cached)
		if err != nil {
			logger.Warn("search cache read failed", zap.Error(err))
		}
		if hit {
			metrics.CacheHitsTotal.WithLabelValues("search").Inc()
			h.recordSearchAsync(params, cached.Total)
			c.JSON(http.StatusOK, cached)
			return
		}
		metrics.CacheMissesTotal.WithLabelValues("search").Inc()
	}

	start := time.Now()
	resp, err := h.search.Search(c.Request.Context(), params)
	metrics.SearchQueryDuration.WithLabelValues(string(category)).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.SearchErrorsTotal.WithLabelValues(string(category)).Inc()
		util.RespondDataAccessError(c, "search", err)
		return
	}

	metrics.SearchQueriesTotal.WithLabelValues(string(category)).Inc()
	metrics.SearchResultsTotal.WithLabelValues(string(category)).Add(float64(resp.Total))
	if resp.Total == 0 {
		metrics.SearchZeroResultsTotal.Inc()
	}

	if h.cache != nil {
		if err := h.cache.SetJSON(c.Request.Context(), cacheKey, resp, searchCacheTTL); err != nil {
			logger.Warn("search cache write failed", zap.Error(err))
		}
	}

	h.recordSearchAsync(params, resp.Total)
	c.JSON(http.StatusOK, resp)
}

// recordSearchAsync records analytics off the request path. Failures are
// logged and counted but never surface to the client.
func (h *Handlers) recordSearchAsync(p search.Params, total int) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), analyticsTimeout)
		defer cancel()
		if err := h.search.RecordSearch(ctx, p.Query, p.Category, total, p.SessionID); err != nil {
			metrics.AnalyticsWriteFailuresTotal.WithLabelValues("record_search").Inc()
			logger.Warn("failed to record search analytics", logger.WithQuery(p.Query), zap.Error(err))
		}
	}()
}

// TrackClickRequest is the body of POST /api/v1/search/track-click.
// ClickedResult carries the destination url for client-side debugging; only
// the result id feeds the analytics aggregate.
type TrackClickRequest struct {
	Query         string `json:"query" binding:"required"`
	ClickedResult string `json:"clicked_result" binding:"required"`
	ResultID      string `json:"result_id" binding:"required"`
	ResultType    string `json:"result_type" binding:"required"`
}

// TrackClick handles POST /api/v1/search/track-click. Click tracking is
// synchronous; the client fires it on navigation and only needs the 204.
func (h *Handlers) TrackClick(c *gin.Context) {
	var req TrackClickRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, "query, clicked_result, result_id and result_type are required")
		return
	}
	if !search.ValidResultType(req.ResultType) {
		util.RespondValidationError(c, "result_type", "must be one of: project, blog, image, tag")
		return
	}
	if util.NormalizeQuery(req.Query) == "" {
		util.RespondValidationError(c, "query", "must not be blank")
		return
	}

	// Analytics persistence failures stay server-side; the client gets its
	// 204 either way.
	if err := h.search.RecordClick(c.Request.Context(), req.Query, req.ResultID, util.GetSessionID(c)); err != nil {
		metrics.AnalyticsWriteFailuresTotal.WithLabelValues("record_click").Inc()
		logger.Warn("failed to record search click", logger.WithQuery(req.Query), zap.Error(err))
	}

	metrics.SearchClicksTotal.WithLabelValues(req.ResultType).Inc()
	c.Status(http.StatusNoContent)
}

func emptySearchResponse(page, limit int) *search.Response {
	return &search.Response{
		Results: search.GroupedResults{
			Projects: []search.Result{},
			Blogs:    []search.Result{},
			Images:   []search.Result{},
			Tags:     []search.Result{},
		},
		Page:  page,
		Limit: limit,
	}
}
