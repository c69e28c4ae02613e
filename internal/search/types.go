package search

import (
	"time"
)

// Category selects which content types a search touches.
type Category string

const (
	CategoryAll      Category = "all"
	CategoryProjects Category = "projects"
	CategoryBlogs    Category = "blogs"
	CategoryImages   Category = "images"
	CategoryTags     Category = "tags"
)

// ParseCategory maps a query-string value to a Category. Empty input means all.
func ParseCategory(s string) (Category, bool) {
	switch Category(s) {
	case "", CategoryAll:
		return CategoryAll, true
	case CategoryProjects, CategoryBlogs, CategoryImages, CategoryTags:
		return Category(s), true
	}
	return CategoryAll, false
}

// SortMode selects the ordering of merged results.
type SortMode string

const (
	SortRelevance SortMode = "relevance"
	SortRecent    SortMode = "recent"
	SortViews     SortMode = "views"
)

// ParseSortMode maps a query-string value to a SortMode. Empty input means relevance.
func ParseSortMode(s string) (SortMode, bool) {
	switch SortMode(s) {
	case "", SortRelevance:
		return SortRelevance, true
	case SortRecent, SortViews:
		return SortMode(s), true
	}
	return SortRelevance, false
}

// ResultType identifies which entity a Result came from.
type ResultType string

const (
	TypeProject ResultType = "project"
	TypeBlog    ResultType = "blog"
	TypeImage   ResultType = "image"
	TypeTag     ResultType = "tag"
)

// ValidResultType reports whether s names a trackable result type.
func ValidResultType(s string) bool {
	switch ResultType(s) {
	case TypeProject, TypeBlog, TypeImage, TypeTag:
		return true
	}
	return false
}

// Result is the uniform shape every matched entity is projected into.
type Result struct {
	Type        ResultType `json:"type"`
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	URL         string     `json:"url"`
	ImageURL    string     `json:"image_url,omitempty"`
	Views       int        `json:"views"`
	Usage       int        `json:"usage,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`

	// hasViews marks entities that actually carry a view counter; entities
	// without one sort after Views == 0 entries in the views ordering.
	hasViews bool
}

// GroupedResults buckets one page of results by entity type for the response body.
type GroupedResults struct {
	Projects []Result `json:"projects"`
	Blogs    []Result `json:"blogs"`
	Images   []Result `json:"images"`
	Tags     []Result `json:"tags"`
}

// Len returns the number of results across all buckets.
func (g GroupedResults) Len() int {
	return len(g.Projects) + len(g.Blogs) + len(g.Images) + len(g.Tags)
}

// Params are the validated inputs of one search request.
type Params struct {
	Query     string
	Category  Category
	Sort      SortMode
	Page      int
	Limit     int
	SessionID string
}

// Response is the search result page plus pagination totals. Total counts every
// match across all requested categories, not just the returned page.
type Response struct {
	Query      string         `json:"query"`
	Results    GroupedResults `json:"results"`
	Total      int            `json:"total"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
	TotalPages int            `json:"total_pages"`
}

// Pagination bounds
const (
	DefaultLimit = 20
	MaxLimit     = 50
)
