package handlers

import (
	"net/http"

	"github.com/atelierhq/atelier/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (suite *HandlersTestSuite) TestDeleteTagInUseConflicts() {
	t := suite.T()

	tag := models.Tag{Name: "Go", Slug: "go"}
	require.NoError(t, suite.db.Create(&tag).Error)
	blog := models.Blog{Title: "tagged", Slug: "tagged", Content: "c", Tags: []models.Tag{tag}}
	require.NoError(t, suite.db.Create(&blog).Error)

	w := suite.delete("/api/v1/admin/tags/" + tag.ID)

	assert.Equal(t, http.StatusConflict, w.Code)
	response := suite.decode(w)
	assert.Equal(t, "TAG_IN_USE", response["code"])

	// Still there
	var count int64
	suite.db.Model(&models.Tag{}).Where("id = ?", tag.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func (suite *HandlersTestSuite) TestDeleteUnusedTag() {
	t := suite.T()

	tag := models.Tag{Name: "Orphan", Slug: "orphan"}
	require.NoError(t, suite.db.Create(&tag).Error)

	w := suite.delete("/api/v1/admin/tags/" + tag.ID)
	assert.Equal(t, http.StatusNoContent, w.Code)

	var count int64
	suite.db.Model(&models.Tag{}).Where("id = ?", tag.ID).Count(&count)
	assert.Equal(t, int64(0), count)
}

func (suite *HandlersTestSuite) TestGetTagReportsLiveUsage() {
	t := suite.T()

	tag := models.Tag{Name: "Rust", Slug: "rust", Count: 99} // stale cache on purpose
	require.NoError(t, suite.db.Create(&tag).Error)
	blog := models.Blog{Title: "rusty", Slug: "rusty", Content: "c", Tags: []models.Tag{tag}}
	require.NoError(t, suite.db.Create(&blog).Error)

	w := suite.get("/api/v1/tags/rust")
	assert.Equal(t, http.StatusOK, w.Code)

	response := suite.decode(w)
	assert.Equal(t, float64(1), response["usage"])
}

func (suite *HandlersTestSuite) TestCreateTagDuplicateSlug() {
	t := suite.T()

	w := suite.postJSON("/api/v1/admin/tags", TagRequest{Name: "CLI"}, true)
	assert.Equal(t, http.StatusCreated, w.Code)

	w = suite.postJSON("/api/v1/admin/tags", TagRequest{Name: "cli"}, true)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func (suite *HandlersTestSuite) TestListTagsOrderedByCount() {
	t := suite.T()

	require.NoError(t, suite.db.Create(&models.Tag{Name: "Rarely", Slug: "rarely", Count: 1}).Error)
	require.NoError(t, suite.db.Create(&models.Tag{Name: "Often", Slug: "often", Count: 10}).Error)

	w := suite.get("/api/v1/tags")
	assert.Equal(t, http.StatusOK, w.Code)

	response := suite.decode(w)
	tags := response["tags"].([]interface{})
	require.Len(t, tags, 2)
	first := tags[0].(map[string]interface{})
	assert.Equal(t, "Often", first["name"])
}
