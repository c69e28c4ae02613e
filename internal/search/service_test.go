package search

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/atelierhq/atelier/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SearchServiceTestSuite runs the whole search stack against an in-memory
// sqlite database. The service only uses portable SQL, so what passes here
// behaves the same on Postgres.
type SearchServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service *Service
}

func (suite *SearchServiceTestSuite) SetupSuite() {
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		suite.T().Skipf("Skipping search tests: sqlite not available (%v)", err)
		return
	}

	err = db.AutoMigrate(
		&models.Tag{},
		&models.Blog{},
		&models.Project{},
		&models.Image{},
		&models.CodeExample{},
		&models.FAQ{},
		&models.BlogMetric{},
		&models.SearchHistory{},
		&models.SearchAnalytics{},
	)
	require.NoError(suite.T(), err)

	suite.db = db
	suite.service = NewService(db)
}

func (suite *SearchServiceTestSuite) SetupTest() {
	for _, table := range []string{
		"blog_tags", "project_tags", "image_tags",
		"blogs", "projects", "images", "tags",
		"search_histories", "search_analytics",
	} {
		suite.db.Exec("DELETE FROM " + table)
	}
}

func (suite *SearchServiceTestSuite) createBlog(title, content string, published bool, views int, tags ...models.Tag) models.Blog {
	blog := models.Blog{
		Title:     title,
		Slug:      "blog-" + title,
		Content:   content,
		Published: published,
		Views:     views,
		Tags:      tags,
	}
	require.NoError(suite.T(), suite.db.Create(&blog).Error)
	return blog
}

func (suite *SearchServiceTestSuite) createProject(title, description string, published bool, views int) models.Project {
	project := models.Project{
		Title:       title,
		Slug:        "project-" + title,
		Description: description,
		Published:   published,
		Views:       views,
	}
	require.NoError(suite.T(), suite.db.Create(&project).Error)
	return project
}

func (suite *SearchServiceTestSuite) search(q string, opts ...func(*Params)) *Response {
	p := Params{Query: q, Category: CategoryAll, Sort: SortRelevance, Page: 1, Limit: 20}
	for _, opt := range opts {
		opt(&p)
	}
	resp, err := suite.service.Search(context.Background(), p)
	require.NoError(suite.T(), err)
	return resp
}

func (suite *SearchServiceTestSuite) TestMatchesAcrossFields() {
	t := suite.T()
	suite.createBlog("Intro to Goroutines", "concurrency patterns", true, 0)
	suite.createBlog("Unrelated", "this one mentions goroutines in the body", true, 0)
	suite.createProject("Scheduler", "a goroutine visualizer", true, 0)

	resp := suite.search("goroutine")

	assert.Equal(t, 3, resp.Total)
	assert.Len(t, resp.Results.Blogs, 2)
	assert.Len(t, resp.Results.Projects, 1)
}

func (suite *SearchServiceTestSuite) TestMatchIsCaseInsensitive() {
	t := suite.T()
	suite.createBlog("PostgreSQL Indexing", "btree and gin", true, 0)

	resp := suite.search("postgresql")
	assert.Equal(t, 1, resp.Total)

	resp = suite.search("POSTGRESQL")
	assert.Equal(t, 1, resp.Total)
}

func (suite *SearchServiceTestSuite) TestUnpublishedContentIsInvisible() {
	t := suite.T()
	suite.createBlog("Draft on caching", "redis", false, 0)
	suite.createProject("Secret caching project", "redis", false, 0)

	resp := suite.search("caching")

	assert.Equal(t, 0, resp.Total)
	assert.Empty(t, resp.Results.Blogs)
	assert.Empty(t, resp.Results.Projects)
}

func (suite *SearchServiceTestSuite) TestCategoryFilter() {
	t := suite.T()
	suite.createBlog("Docker basics", "containers", true, 0)
	suite.createProject("Docker dashboard", "containers", true, 0)

	resp := suite.search("docker", func(p *Params) { p.Category = CategoryProjects })

	assert.Equal(t, 1, resp.Total)
	assert.Len(t, resp.Results.Projects, 1)
	assert.Empty(t, resp.Results.Blogs)
}

func (suite *SearchServiceTestSuite) TestTitleMatchOutranksBodyMatch() {
	t := suite.T()
	// Body-only match has far more views; the title match still wins
	suite.createBlog("Notes", "all about testing strategies", true, 9000)
	suite.createBlog("Testing in Go", "short post", true, 1)

	resp := suite.search("testing")

	require.Len(t, resp.Results.Blogs, 2)
	assert.Equal(t, "Testing in Go", resp.Results.Blogs[0].Title)
}

func (suite *SearchServiceTestSuite) TestImageMatchedByTagName() {
	t := suite.T()
	tag := models.Tag{Name: "Architecture", Slug: "architecture"}
	require.NoError(t, suite.db.Create(&tag).Error)
	image := models.Image{URL: "https://img.example.com/1.jpg", Alt: "Bridge at dusk", Tags: []models.Tag{tag}}
	require.NoError(t, suite.db.Create(&image).Error)

	resp := suite.search("architecture")

	require.Len(t, resp.Results.Images, 1)
	assert.Equal(t, "Bridge at dusk", resp.Results.Images[0].Title)
	// The tag itself matches too
	require.Len(t, resp.Results.Tags, 1)
	assert.Equal(t, 1, resp.Results.Tags[0].Usage)
}

func (suite *SearchServiceTestSuite) TestPaginationTotals() {
	t := suite.T()
	for i := 0; i < 7; i++ {
		suite.createBlog("pagination post "+string(rune('a'+i)), "filler", true, i)
	}

	resp := suite.search("pagination", func(p *Params) { p.Limit = 3 })
	assert.Equal(t, 7, resp.Total)
	assert.Equal(t, 3, resp.TotalPages)
	assert.Equal(t, 3, resp.Results.Len())

	resp = suite.search("pagination", func(p *Params) { p.Limit = 3; p.Page = 3 })
	assert.Equal(t, 7, resp.Total)
	assert.Equal(t, 1, resp.Results.Len())

	// Past the end: empty page, same totals
	resp = suite.search("pagination", func(p *Params) { p.Limit = 3; p.Page = 5 })
	assert.Equal(t, 7, resp.Total)
	assert.Equal(t, 0, resp.Results.Len())
}

func (suite *SearchServiceTestSuite) TestBlankQueryShortCircuits() {
	t := suite.T()
	suite.createBlog("Something", "content", true, 0)

	resp := suite.search("   ")

	assert.Equal(t, 0, resp.Total)
	assert.Equal(t, 0, resp.TotalPages)
	assert.NotNil(t, resp.Results.Blogs)
}

func (suite *SearchServiceTestSuite) TestViewsSortOrdersAcrossCategories() {
	t := suite.T()
	suite.createBlog("metrics post", "observability", true, 50)
	suite.createProject("metrics dashboard", "observability", true, 200)

	resp := suite.search("metrics", func(p *Params) { p.Sort = SortViews })

	// The project outranks the blog despite lower category priority
	require.Len(t, resp.Results.Projects, 1)
	require.Len(t, resp.Results.Blogs, 1)
	assert.Greater(t, resp.Results.Projects[0].Views, resp.Results.Blogs[0].Views)
}

func (suite *SearchServiceTestSuite) TestViewsSortReachesPastTitleMatches() {
	t := suite.T()
	for i := 0; i < 25; i++ {
		suite.createBlog(fmt.Sprintf("kubernetes tip %02d", i), "filler", true, i)
	}
	// A body-only match with more views than every title match
	suite.createBlog("Operating clusters", "hard-won kubernetes lessons", true, 999999)

	resp := suite.search("kubernetes", func(p *Params) { p.Sort = SortViews })

	assert.Equal(t, 26, resp.Total)
	require.NotEmpty(t, resp.Results.Blogs)
	assert.Equal(t, "Operating clusters", resp.Results.Blogs[0].Title)
	assert.Equal(t, 999999, resp.Results.Blogs[0].Views)
}

func (suite *SearchServiceTestSuite) TestRecentSortReachesPastTitleMatches() {
	t := suite.T()
	old := time.Now().Add(-48 * time.Hour)
	for i := 0; i < 25; i++ {
		blog := suite.createBlog(fmt.Sprintf("docker note %02d", i), "filler", true, 100+i)
		publishedAt := old.Add(time.Duration(i) * time.Minute)
		require.NoError(t, suite.db.Model(&blog).Update("published_at", publishedAt).Error)
	}
	// A body-only match newer than every title match
	latest := suite.createBlog("Fresh writeup", "docker in production", true, 0)
	require.NoError(t, suite.db.Model(&latest).Update("published_at", time.Now()).Error)

	resp := suite.search("docker", func(p *Params) { p.Sort = SortRecent })

	require.NotEmpty(t, resp.Results.Blogs)
	assert.Equal(t, "Fresh writeup", resp.Results.Blogs[0].Title)
}

// ===========================================================================
// Analytics
// ===========================================================================

func (suite *SearchServiceTestSuite) TestRecordSearchCreatesHistoryAndAggregate() {
	t := suite.T()
	ctx := context.Background()

	require.NoError(t, suite.service.RecordSearch(ctx, "wasm", CategoryAll, 4, "session-1"))

	var history models.SearchHistory
	require.NoError(t, suite.db.Where("query = ?", "wasm").First(&history).Error)
	assert.Equal(t, 4, history.Results)
	assert.Equal(t, "session-1", history.SessionID)
	assert.False(t, history.Clicked)

	var agg models.SearchAnalytics
	require.NoError(t, suite.db.Where("query = ?", "wasm").First(&agg).Error)
	assert.Equal(t, 1, agg.SearchCount)
	assert.InDelta(t, 4.0, agg.AvgResults, 0.001)
}

func (suite *SearchServiceTestSuite) TestRecordSearchMaintainsRunningMean() {
	t := suite.T()
	ctx := context.Background()

	require.NoError(t, suite.service.RecordSearch(ctx, "grpc", CategoryAll, 10, ""))
	require.NoError(t, suite.service.RecordSearch(ctx, "grpc", CategoryAll, 0, ""))
	require.NoError(t, suite.service.RecordSearch(ctx, "grpc", CategoryAll, 5, ""))

	var agg models.SearchAnalytics
	require.NoError(t, suite.db.Where("query = ?", "grpc").First(&agg).Error)
	assert.Equal(t, 3, agg.SearchCount)
	assert.InDelta(t, 5.0, agg.AvgResults, 0.001)

	var historyCount int64
	suite.db.Model(&models.SearchHistory{}).Where("query = ?", "grpc").Count(&historyCount)
	assert.Equal(t, int64(3), historyCount)
}

func (suite *SearchServiceTestSuite) TestRecordSearchNormalizesQuery() {
	t := suite.T()
	ctx := context.Background()

	require.NoError(t, suite.service.RecordSearch(ctx, "  sqlite   tips ", CategoryAll, 2, ""))
	require.NoError(t, suite.service.RecordSearch(ctx, "sqlite tips", CategoryAll, 2, ""))

	var agg models.SearchAnalytics
	require.NoError(t, suite.db.Where("query = ?", "sqlite tips").First(&agg).Error)
	assert.Equal(t, 2, agg.SearchCount)
}

func (suite *SearchServiceTestSuite) TestRecordClickUpdatesAggregateAndHistory() {
	t := suite.T()
	ctx := context.Background()

	require.NoError(t, suite.service.RecordSearch(ctx, "vim", CategoryAll, 3, "session-9"))
	require.NoError(t, suite.service.RecordClick(ctx, "vim", "result-123", "session-9"))

	var agg models.SearchAnalytics
	require.NoError(t, suite.db.Where("query = ?", "vim").First(&agg).Error)
	assert.Equal(t, 1, agg.ClickCount)
	assert.InDelta(t, 100.0, agg.ClickRate, 0.001)
	assert.Equal(t, models.StringArray{"result-123"}, agg.TopResultIDs)

	var history models.SearchHistory
	require.NoError(t, suite.db.Where("query = ?", "vim").First(&history).Error)
	assert.True(t, history.Clicked)
}

func (suite *SearchServiceTestSuite) TestRecordClickWithoutPriorSearch() {
	t := suite.T()
	ctx := context.Background()

	// No divide-by-zero, rate stays 0
	require.NoError(t, suite.service.RecordClick(ctx, "orphan", "result-1", ""))

	var agg models.SearchAnalytics
	require.NoError(t, suite.db.Where("query = ?", "orphan").First(&agg).Error)
	assert.Equal(t, 1, agg.ClickCount)
	assert.Equal(t, 0, agg.SearchCount)
	assert.InDelta(t, 0.0, agg.ClickRate, 0.001)
}

func (suite *SearchServiceTestSuite) TestRecordClickCapsTopResults() {
	t := suite.T()
	ctx := context.Background()

	require.NoError(t, suite.service.RecordSearch(ctx, "editors", CategoryAll, 5, ""))
	for _, id := range []string{"r1", "r2", "r3", "r4"} {
		require.NoError(t, suite.service.RecordClick(ctx, "editors", id, ""))
	}

	var agg models.SearchAnalytics
	require.NoError(t, suite.db.Where("query = ?", "editors").First(&agg).Error)
	assert.Equal(t, models.StringArray{"r4", "r3", "r2"}, agg.TopResultIDs)
}

// ===========================================================================
// Reports
// ===========================================================================

func (suite *SearchServiceTestSuite) TestTopQueriesOrderedBySearchCount() {
	t := suite.T()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, suite.service.RecordSearch(ctx, "popular", CategoryAll, 5, ""))
	}
	require.NoError(t, suite.service.RecordSearch(ctx, "rare", CategoryAll, 1, ""))

	stats, err := suite.service.TopQueries(ctx, 10)
	require.NoError(t, err)

	require.Len(t, stats, 2)
	assert.Equal(t, "popular", stats[0].Query)
	assert.Equal(t, 3, stats[0].SearchCount)
}

func (suite *SearchServiceTestSuite) TestTopQueriesResolvesClickedResults() {
	t := suite.T()
	ctx := context.Background()
	blog := suite.createBlog("Resolved Title", "content", true, 0)

	require.NoError(t, suite.service.RecordSearch(ctx, "resolved", CategoryAll, 1, ""))
	require.NoError(t, suite.service.RecordClick(ctx, "resolved", blog.ID, ""))
	require.NoError(t, suite.service.RecordClick(ctx, "resolved", "deleted-id", ""))

	stats, err := suite.service.TopQueries(ctx, 10)
	require.NoError(t, err)

	require.Len(t, stats, 1)
	require.Len(t, stats[0].TopResults, 2)
	assert.Equal(t, "deleted-id", stats[0].TopResults[0].ID)
	assert.Empty(t, stats[0].TopResults[0].Title)
	assert.Equal(t, "Resolved Title", stats[0].TopResults[1].Title)
	assert.Equal(t, TypeBlog, stats[0].TopResults[1].Type)
}

func (suite *SearchServiceTestSuite) TestZeroResultQueriesUseLatestOutcome() {
	t := suite.T()
	ctx := context.Background()

	// First a miss, then a hit: no longer a content gap
	require.NoError(t, suite.service.RecordSearch(ctx, "recovered", CategoryAll, 0, ""))
	require.NoError(t, suite.service.RecordSearch(ctx, "recovered", CategoryAll, 3, ""))
	// A genuine gap
	require.NoError(t, suite.service.RecordSearch(ctx, "missing topic", CategoryAll, 0, ""))

	queries, err := suite.service.ZeroResultQueries(ctx, 10)
	require.NoError(t, err)

	require.Len(t, queries, 1)
	assert.Equal(t, "missing topic", queries[0].Query)
}

func (suite *SearchServiceTestSuite) TestDashboardOverview() {
	t := suite.T()
	ctx := context.Background()

	require.NoError(t, suite.service.RecordSearch(ctx, "alpha", CategoryAll, 2, ""))
	require.NoError(t, suite.service.RecordSearch(ctx, "alpha", CategoryAll, 2, ""))
	require.NoError(t, suite.service.RecordClick(ctx, "alpha", "r1", ""))
	require.NoError(t, suite.service.RecordSearch(ctx, "beta", CategoryAll, 0, ""))

	overview, err := suite.service.DashboardOverview(ctx, 5)
	require.NoError(t, err)

	assert.Equal(t, int64(3), overview.TotalSearches)
	assert.Equal(t, int64(1), overview.TotalClicks)
	assert.Equal(t, int64(2), overview.DistinctQueries)
	// Mean of per-query rates: (50 + 0) / 2
	assert.InDelta(t, 25.0, overview.AverageCTR, 0.001)
	assert.Len(t, overview.TopQueries, 2)
	require.Len(t, overview.ZeroResults, 1)
	assert.Equal(t, "beta", overview.ZeroResults[0].Query)
}

func TestSearchServiceTestSuite(t *testing.T) {
	suite.Run(t, new(SearchServiceTestSuite))
}
