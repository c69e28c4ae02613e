package handlers

import (
	"net/http"

	"github.com/atelierhq/atelier/internal/database"
	"github.com/atelierhq/atelier/internal/models"
	"github.com/atelierhq/atelier/internal/util"
	"github.com/gin-gonic/gin"
)

// GetSearchDashboard handles GET /api/v1/admin/analytics/search: totals,
// top queries and zero-result queries in one payload.
func (h *Handlers) GetSearchDashboard(c *gin.Context) {
	topN := util.ParseInt(c.DefaultQuery("top", "10"), 10)
	if topN < 1 || topN > 100 {
		util.RespondValidationError(c, "top", "must be between 1 and 100")
		return
	}

	overview, err := h.search.DashboardOverview(c.Request.Context(), topN)
	if err != nil {
		util.RespondDataAccessError(c, "load search dashboard", err)
		return
	}
	c.JSON(http.StatusOK, overview)
}

// GetTopQueries handles GET /api/v1/admin/analytics/search/top-queries
func (h *Handlers) GetTopQueries(c *gin.Context) {
	limit := util.ParseInt(c.DefaultQuery("limit", "10"), 10)
	if limit < 1 || limit > 100 {
		util.RespondValidationError(c, "limit", "must be between 1 and 100")
		return
	}

	stats, err := h.search.TopQueries(c.Request.Context(), limit)
	if err != nil {
		util.RespondDataAccessError(c, "load top queries", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"queries": stats})
}

// GetZeroResultQueries handles GET /api/v1/admin/analytics/search/zero-results
func (h *Handlers) GetZeroResultQueries(c *gin.Context) {
	limit := util.ParseInt(c.DefaultQuery("limit", "20"), 20)
	if limit < 1 || limit > 100 {
		util.RespondValidationError(c, "limit", "must be between 1 and 100")
		return
	}

	queries, err := h.search.ZeroResultQueries(c.Request.Context(), limit)
	if err != nil {
		util.RespondDataAccessError(c, "load zero-result queries", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"queries": queries})
}

// GetSearchHistory handles GET /api/v1/admin/analytics/search/history:
// the raw audit trail, newest first.
func (h *Handlers) GetSearchHistory(c *gin.Context) {
	page, limit := parsePagination(c)

	query := database.DB.Model(&models.SearchHistory{})
	if q := c.Query("q"); q != "" {
		query = query.Where("query = ?", util.NormalizeQuery(q))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		util.RespondDataAccessError(c, "load search history", err)
		return
	}

	var rows []models.SearchHistory
	err := query.
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		util.RespondDataAccessError(c, "load search history", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"history": rows,
		"meta":    paginationMeta(page, limit, total),
	})
}
