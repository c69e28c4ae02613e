package handlers

import (
	"net/http"
	"time"

	"github.com/atelierhq/atelier/internal/models"
	"github.com/atelierhq/atelier/internal/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (suite *HandlersTestSuite) seedPublishedBlog(title string) models.Blog {
	now := time.Now()
	blog := models.Blog{
		Title:       title,
		Slug:        "slug-" + util.Slugify(title),
		Content:     "body text",
		Published:   true,
		PublishedAt: &now,
	}
	require.NoError(suite.T(), suite.db.Create(&blog).Error)
	return blog
}

func (suite *HandlersTestSuite) TestSearchReturnsGroupedResults() {
	t := suite.T()
	suite.seedPublishedBlog("kubernetes at home")

	w := suite.get("/api/v1/search?q=kubernetes")

	assert.Equal(t, http.StatusOK, w.Code)
	response := suite.decode(w)
	assert.Equal(t, float64(1), response["total"])
	assert.Equal(t, float64(1), response["total_pages"])

	results := response["results"].(map[string]interface{})
	blogs := results["blogs"].([]interface{})
	require.Len(t, blogs, 1)
	first := blogs[0].(map[string]interface{})
	assert.Equal(t, "blog", first["type"])
	assert.Equal(t, "kubernetes at home", first["title"])
}

func (suite *HandlersTestSuite) TestSearchMissingQueryParam() {
	t := suite.T()

	w := suite.get("/api/v1/search")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	response := suite.decode(w)
	assert.Equal(t, "BAD_REQUEST", response["code"])
}

func (suite *HandlersTestSuite) TestSearchBlankQueryReturnsEmptyPage() {
	t := suite.T()
	suite.seedPublishedBlog("anything")

	w := suite.get("/api/v1/search?q=%20%20")

	assert.Equal(t, http.StatusOK, w.Code)
	response := suite.decode(w)
	assert.Equal(t, float64(0), response["total"])
}

func (suite *HandlersTestSuite) TestSearchRejectsUnknownCategory() {
	t := suite.T()

	w := suite.get("/api/v1/search?q=go&category=podcasts")

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	response := suite.decode(w)
	assert.Equal(t, "VALIDATION_ERROR", response["code"])
}

func (suite *HandlersTestSuite) TestSearchRejectsBadPagination() {
	t := suite.T()

	assert.Equal(t, http.StatusUnprocessableEntity, suite.get("/api/v1/search?q=go&page=0").Code)
	assert.Equal(t, http.StatusUnprocessableEntity, suite.get("/api/v1/search?q=go&page=abc").Code)
	assert.Equal(t, http.StatusUnprocessableEntity, suite.get("/api/v1/search?q=go&limit=500").Code)
}

func (suite *HandlersTestSuite) TestSearchRecordsAnalytics() {
	t := suite.T()
	suite.seedPublishedBlog("prometheus alerting")

	w := suite.get("/api/v1/search?q=prometheus")
	assert.Equal(t, http.StatusOK, w.Code)

	// Analytics are written off the request path
	var agg models.SearchAnalytics
	require.Eventually(t, func() bool {
		return suite.db.Where("query = ?", "prometheus").First(&agg).Error == nil
	}, 2*time.Second, 20*time.Millisecond)
	assert.Equal(t, 1, agg.SearchCount)
	assert.InDelta(t, 1.0, agg.AvgResults, 0.001)
}

func (suite *HandlersTestSuite) TestTrackClick() {
	t := suite.T()
	blog := suite.seedPublishedBlog("terraform modules")

	w := suite.postJSON("/api/v1/search/track-click", map[string]string{
		"query":          "terraform",
		"clicked_result": "/blog/" + blog.Slug,
		"result_id":      blog.ID,
		"result_type":    "blog",
	}, false)

	assert.Equal(t, http.StatusNoContent, w.Code)

	var agg models.SearchAnalytics
	require.NoError(t, suite.db.Where("query = ?", "terraform").First(&agg).Error)
	assert.Equal(t, 1, agg.ClickCount)
}

func (suite *HandlersTestSuite) TestTrackClickValidation() {
	t := suite.T()

	// Missing fields
	w := suite.postJSON("/api/v1/search/track-click", map[string]string{"query": "x"}, false)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Unknown result type
	w = suite.postJSON("/api/v1/search/track-click", map[string]string{
		"query":          "x",
		"clicked_result": "/blog/x",
		"result_id":      "id",
		"result_type":    "podcast",
	}, false)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	// Blank query
	w = suite.postJSON("/api/v1/search/track-click", map[string]string{
		"query":          "   ",
		"clicked_result": "/blog/x",
		"result_id":      "id",
		"result_type":    "blog",
	}, false)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func (suite *HandlersTestSuite) TestTrackClickToleratesAnalyticsFailure() {
	t := suite.T()

	// Take the aggregate table away so RecordClick fails underneath
	require.NoError(t, suite.db.Migrator().DropTable(&models.SearchAnalytics{}))
	defer func() {
		require.NoError(t, suite.db.AutoMigrate(&models.SearchAnalytics{}))
	}()

	w := suite.postJSON("/api/v1/search/track-click", map[string]string{
		"query":          "ansible",
		"clicked_result": "/blog/ansible",
		"result_id":      "some-id",
		"result_type":    "blog",
	}, false)

	assert.Equal(t, http.StatusNoContent, w.Code)
}

func (suite *HandlersTestSuite) TestSearchDashboardRequiresAuth() {
	t := suite.T()

	w := suite.get("/api/v1/admin/analytics/search")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = suite.adminGet("/api/v1/admin/analytics/search")
	assert.Equal(t, http.StatusOK, w.Code)
}

func (suite *HandlersTestSuite) TestZeroResultsEndpoint() {
	t := suite.T()

	// A search that finds nothing, recorded synchronously for determinism
	require.NoError(t, suite.db.Create(&models.SearchHistory{
		Query:   "nonexistent topic",
		Results: 0,
	}).Error)

	w := suite.adminGet("/api/v1/admin/analytics/search/zero-results")
	assert.Equal(t, http.StatusOK, w.Code)

	response := suite.decode(w)
	queries := response["queries"].([]interface{})
	require.Len(t, queries, 1)
	first := queries[0].(map[string]interface{})
	assert.Equal(t, "nonexistent topic", first["query"])
}
