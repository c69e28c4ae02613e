package search

import (
	"testing"
	"time"

	"github.com/atelierhq/atelier/internal/models"
	"github.com/stretchr/testify/assert"
)

func ts(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}

func tsp(s string) *time.Time {
	t := ts(s)
	return &t
}

func TestRankRelevanceKeepsCategoryPriority(t *testing.T) {
	g := GroupedResults{
		Projects: []Result{{Type: TypeProject, ID: "p1"}, {Type: TypeProject, ID: "p2"}},
		Blogs:    []Result{{Type: TypeBlog, ID: "b1"}},
		Images:   []Result{{Type: TypeImage, ID: "i1"}},
		Tags:     []Result{{Type: TypeTag, ID: "t1"}},
	}

	ranked := Rank(g, SortRelevance)

	ids := make([]string, 0, len(ranked))
	for _, r := range ranked {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"p1", "p2", "b1", "i1", "t1"}, ids)
}

func TestRankRecentOrdersGloballyNewestFirst(t *testing.T) {
	g := GroupedResults{
		Projects: []Result{{Type: TypeProject, ID: "old-project", PublishedAt: tsp("2023-01-01")}},
		Blogs:    []Result{{Type: TypeBlog, ID: "new-blog", PublishedAt: tsp("2025-06-01")}},
		Images:   []Result{{Type: TypeImage, ID: "mid-image", CreatedAt: ts("2024-03-01")}},
	}

	ranked := Rank(g, SortRecent)

	assert.Equal(t, "new-blog", ranked[0].ID)
	assert.Equal(t, "mid-image", ranked[1].ID)
	assert.Equal(t, "old-project", ranked[2].ID)
}

func TestRankRecentFallsBackToCreatedAt(t *testing.T) {
	g := GroupedResults{
		Blogs: []Result{
			{Type: TypeBlog, ID: "draft-era", CreatedAt: ts("2025-01-01")},
			{Type: TypeBlog, ID: "published", PublishedAt: tsp("2024-01-01"), CreatedAt: ts("2023-01-01")},
		},
	}

	ranked := Rank(g, SortRecent)

	// CreatedAt stands in for a missing publication time
	assert.Equal(t, "draft-era", ranked[0].ID)
}

func TestRankRecentPutsUndatedLast(t *testing.T) {
	g := GroupedResults{
		Blogs: []Result{{Type: TypeBlog, ID: "undated"}},
		Tags:  []Result{{Type: TypeTag, ID: "dated", CreatedAt: ts("2024-01-01")}},
	}

	ranked := Rank(g, SortRecent)

	assert.Equal(t, "dated", ranked[0].ID)
	assert.Equal(t, "undated", ranked[1].ID)
}

func TestRankViewsDescending(t *testing.T) {
	g := GroupedResults{
		Projects: []Result{{Type: TypeProject, ID: "p", Views: 10, hasViews: true}},
		Blogs:    []Result{{Type: TypeBlog, ID: "b", Views: 500, hasViews: true}},
	}

	ranked := Rank(g, SortViews)

	assert.Equal(t, "b", ranked[0].ID)
	assert.Equal(t, "p", ranked[1].ID)
}

func TestRankViewsPutsViewlessEntitiesAfterZeroViews(t *testing.T) {
	g := GroupedResults{
		Blogs: []Result{{Type: TypeBlog, ID: "zero-views", Views: 0, hasViews: true}},
		Tags:  []Result{{Type: TypeTag, ID: "tag"}},
	}

	ranked := Rank(g, SortViews)

	assert.Equal(t, "zero-views", ranked[0].ID)
	assert.Equal(t, "tag", ranked[1].ID)
}

func TestPaginate(t *testing.T) {
	items := make([]Result, 25)
	for i := range items {
		items[i].ID = string(rune('a' + i))
	}

	assert.Len(t, Paginate(items, 1, 10), 10)
	assert.Len(t, Paginate(items, 3, 10), 5)
	assert.Empty(t, Paginate(items, 4, 10))
	assert.Equal(t, items[10].ID, Paginate(items, 2, 10)[0].ID)
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 0, TotalPages(0, 20))
	assert.Equal(t, 1, TotalPages(1, 20))
	assert.Equal(t, 1, TotalPages(20, 20))
	assert.Equal(t, 2, TotalPages(21, 20))
	assert.Equal(t, 0, TotalPages(10, 0))
}

func TestRegroupPreservesOrderWithinBuckets(t *testing.T) {
	items := []Result{
		{Type: TypeBlog, ID: "b1"},
		{Type: TypeProject, ID: "p1"},
		{Type: TypeBlog, ID: "b2"},
		{Type: TypeTag, ID: "t1"},
	}

	g := Regroup(items)

	assert.Equal(t, []string{"b1", "b2"}, []string{g.Blogs[0].ID, g.Blogs[1].ID})
	assert.Len(t, g.Projects, 1)
	assert.Len(t, g.Tags, 1)
	assert.Empty(t, g.Images)
}

func TestPromoteTopResult(t *testing.T) {
	// Front insert
	got := PromoteTopResult(models.StringArray{"a", "b"}, "c")
	assert.Equal(t, models.StringArray{"c", "a", "b"}, got)

	// Dedup: re-clicking an existing result moves it forward
	got = PromoteTopResult(models.StringArray{"a", "b", "c"}, "b")
	assert.Equal(t, models.StringArray{"b", "a", "c"}, got)

	// Cap at TopResultLimit
	got = PromoteTopResult(models.StringArray{"a", "b", "c"}, "d")
	assert.Len(t, got, models.TopResultLimit)
	assert.Equal(t, models.StringArray{"d", "a", "b"}, got)

	// Empty history
	got = PromoteTopResult(nil, "x")
	assert.Equal(t, models.StringArray{"x"}, got)
}

func TestParseCategory(t *testing.T) {
	cat, ok := ParseCategory("")
	assert.True(t, ok)
	assert.Equal(t, CategoryAll, cat)

	cat, ok = ParseCategory("blogs")
	assert.True(t, ok)
	assert.Equal(t, CategoryBlogs, cat)

	_, ok = ParseCategory("podcasts")
	assert.False(t, ok)
}

func TestParseSortMode(t *testing.T) {
	mode, ok := ParseSortMode("")
	assert.True(t, ok)
	assert.Equal(t, SortRelevance, mode)

	mode, ok = ParseSortMode("views")
	assert.True(t, ok)
	assert.Equal(t, SortViews, mode)

	_, ok = ParseSortMode("alphabetical")
	assert.False(t, ok)
}
