package handlers

import (
	"net/http"

	"github.com/atelierhq/atelier/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (suite *HandlersTestSuite) TestListBlogsHidesDrafts() {
	t := suite.T()
	suite.seedPublishedBlog("public post")
	draft := models.Blog{Title: "draft post", Slug: "draft-post", Content: "wip"}
	require.NoError(t, suite.db.Create(&draft).Error)

	w := suite.get("/api/v1/blogs")

	assert.Equal(t, http.StatusOK, w.Code)
	response := suite.decode(w)
	blogs := response["blogs"].([]interface{})
	require.Len(t, blogs, 1)

	meta := response["meta"].(map[string]interface{})
	assert.Equal(t, float64(1), meta["total"])
}

func (suite *HandlersTestSuite) TestGetBlogIncrementsViews() {
	t := suite.T()
	blog := suite.seedPublishedBlog("view counted")

	w := suite.get("/api/v1/blogs/" + blog.Slug)
	assert.Equal(t, http.StatusOK, w.Code)

	var reloaded models.Blog
	require.NoError(t, suite.db.First(&reloaded, "id = ?", blog.ID).Error)
	assert.Equal(t, 1, reloaded.Views)

	suite.get("/api/v1/blogs/" + blog.Slug)
	require.NoError(t, suite.db.First(&reloaded, "id = ?", blog.ID).Error)
	assert.Equal(t, 2, reloaded.Views)
}

func (suite *HandlersTestSuite) TestGetBlogDraftIsNotFound() {
	t := suite.T()
	draft := models.Blog{Title: "hidden", Slug: "hidden", Content: "wip"}
	require.NoError(t, suite.db.Create(&draft).Error)

	w := suite.get("/api/v1/blogs/hidden")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func (suite *HandlersTestSuite) TestCreateBlogRequiresAuth() {
	t := suite.T()

	w := suite.postJSON("/api/v1/admin/blogs", BlogRequest{Title: "t", Content: "c"}, false)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func (suite *HandlersTestSuite) TestCreateBlogWithTagsAndNestedResources() {
	t := suite.T()

	payload := BlogRequest{
		Title:     "Profiling Go Services",
		Content:   "pprof walkthrough",
		Published: true,
		Tags:      []string{"Go", "Performance"},
		CodeExamples: []CodeExampleRequest{
			{Title: "flame graph", Language: "bash", Code: "go tool pprof"},
		},
		FAQs: []FAQRequest{
			{Question: "Does pprof work in production?", Answer: "Yes, with sampling."},
		},
	}

	w := suite.postJSON("/api/v1/admin/blogs", payload, true)
	assert.Equal(t, http.StatusCreated, w.Code)

	var blog models.Blog
	require.NoError(t, suite.db.Preload("Tags").Preload("CodeExamples").Preload("FAQs").
		Where("slug = ?", "profiling-go-services").First(&blog).Error)
	assert.Len(t, blog.Tags, 2)
	assert.Len(t, blog.CodeExamples, 1)
	assert.Len(t, blog.FAQs, 1)
	assert.NotNil(t, blog.PublishedAt)
	assert.Greater(t, blog.ReadingTime, 0)

	// Tags created on the fly with usage counters bumped
	var tag models.Tag
	require.NoError(t, suite.db.Where("slug = ?", "go").First(&tag).Error)
	assert.Equal(t, 1, tag.Count)
}

func (suite *HandlersTestSuite) TestCreateBlogDuplicateSlugConflicts() {
	t := suite.T()
	suite.seedPublishedBlog("taken")

	w := suite.postJSON("/api/v1/admin/blogs", BlogRequest{
		Title: "another", Slug: "slug-taken", Content: "c",
	}, true)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func (suite *HandlersTestSuite) TestDeleteBlogRemovesNestedResources() {
	t := suite.T()

	w := suite.postJSON("/api/v1/admin/blogs", BlogRequest{
		Title: "Disposable", Content: "c",
		CodeExamples: []CodeExampleRequest{{Code: "rm -rf"}},
	}, true)
	require.Equal(t, http.StatusCreated, w.Code)

	var blog models.Blog
	require.NoError(t, suite.db.Where("slug = ?", "disposable").First(&blog).Error)

	w = suite.delete("/api/v1/admin/blogs/" + blog.ID)
	assert.Equal(t, http.StatusNoContent, w.Code)

	var examples int64
	suite.db.Model(&models.CodeExample{}).Where("blog_id = ?", blog.ID).Count(&examples)
	assert.Equal(t, int64(0), examples)
}

func (suite *HandlersTestSuite) TestCreateProjectValidatesURLs() {
	t := suite.T()

	w := suite.postJSON("/api/v1/admin/projects", ProjectRequest{
		Title:   "Bad URL",
		RepoURL: "not-a-url",
	}, true)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func (suite *HandlersTestSuite) TestListProjectsFeaturedFirst() {
	t := suite.T()
	require.NoError(t, suite.db.Create(&models.Project{
		Title: "Plain", Slug: "plain", Published: true,
	}).Error)
	require.NoError(t, suite.db.Create(&models.Project{
		Title: "Starred", Slug: "starred", Published: true, Featured: true,
	}).Error)

	w := suite.get("/api/v1/projects")
	assert.Equal(t, http.StatusOK, w.Code)

	response := suite.decode(w)
	projects := response["projects"].([]interface{})
	require.Len(t, projects, 2)
	first := projects[0].(map[string]interface{})
	assert.Equal(t, "Starred", first["title"])
}
