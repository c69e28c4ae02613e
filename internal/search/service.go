package search

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atelierhq/atelier/internal/models"
	"github.com/atelierhq/atelier/internal/util"
	"gorm.io/gorm"
)

// Service runs searches against the relational store and records analytics.
// All matching is done in SQL so the store stays the single source of truth;
// there is no external search index to drift out of sync.
type Service struct {
	db *gorm.DB
}

// NewService creates a search service backed by db.
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Search executes one search request: per-category substring matching,
// merge-and-rank, then pagination. A store error in any category fails the
// whole request rather than returning a silently partial page.
func (s *Service) Search(ctx context.Context, p Params) (*Response, error) {
	query := util.NormalizeQuery(p.Query)
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}

	resp := &Response{
		Query: query,
		Page:  p.Page,
		Limit: p.Limit,
		Results: GroupedResults{
			Projects: []Result{},
			Blogs:    []Result{},
			Images:   []Result{},
			Tags:     []Result{},
		},
	}
	if query == "" {
		return resp, nil
	}

	pattern := "%" + strings.ToLower(query) + "%"
	// Each category only ever contributes to the first Page*Limit merged
	// slots, so deeper rows never need to leave the database.
	window := p.Page * p.Limit

	var merged GroupedResults
	var total int64

	if p.Category == CategoryAll || p.Category == CategoryProjects {
		results, count, err := s.searchProjects(ctx, pattern, window, p.Sort)
		if err != nil {
			return nil, fmt.Errorf("search projects: %w", err)
		}
		merged.Projects = results
		total += count
	}

	if p.Category == CategoryAll || p.Category == CategoryBlogs {
		results, count, err := s.searchBlogs(ctx, pattern, window, p.Sort)
		if err != nil {
			return nil, fmt.Errorf("search blogs: %w", err)
		}
		merged.Blogs = results
		total += count
	}

	if p.Category == CategoryAll || p.Category == CategoryImages {
		results, count, err := s.searchImages(ctx, pattern, window)
		if err != nil {
			return nil, fmt.Errorf("search images: %w", err)
		}
		merged.Images = results
		total += count
	}

	if p.Category == CategoryAll || p.Category == CategoryTags {
		results, count, err := s.searchTags(ctx, pattern, window, p.Sort)
		if err != nil {
			return nil, fmt.Errorf("search tags: %w", err)
		}
		merged.Tags = results
		total += count
	}

	page := Paginate(Rank(merged, p.Sort), p.Page, p.Limit)
	resp.Results = Regroup(page)
	resp.Total = int(total)
	resp.TotalPages = TotalPages(int(total), p.Limit)
	return resp, nil
}

// contentOrder picks the SQL ordering for blogs and projects. The fetch is
// capped at the window, so the database ordering must already match the
// requested sort or the page would miss rows that sort ahead of it.
func contentOrder(sort SortMode) string {
	switch sort {
	case SortViews:
		return "views DESC, COALESCE(published_at, created_at) DESC"
	case SortRecent:
		return "COALESCE(published_at, created_at) DESC"
	default:
		return "title_rank, views DESC, COALESCE(published_at, created_at) DESC"
	}
}

func (s *Service) searchProjects(ctx context.Context, pattern string, window int, sort SortMode) ([]Result, int64, error) {
	match := "LOWER(title) LIKE ? OR LOWER(description) LIKE ? OR LOWER(content) LIKE ?"

	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.Project{}).
		Where("published = ?", true).
		Where(match, pattern, pattern, pattern).
		Count(&count).Error
	if err != nil {
		return nil, 0, err
	}

	var projects []models.Project
	err = s.db.WithContext(ctx).
		Preload("Tags").
		Select("*, CASE WHEN LOWER(title) LIKE ? THEN 0 ELSE 1 END AS title_rank", pattern).
		Where("published = ?", true).
		Where(match, pattern, pattern, pattern).
		Order(contentOrder(sort)).
		Limit(window).
		Find(&projects).Error
	if err != nil {
		return nil, 0, err
	}

	results := make([]Result, 0, len(projects))
	for _, p := range projects {
		results = append(results, Result{
			Type:        TypeProject,
			ID:          p.ID,
			Title:       p.Title,
			Description: p.Description,
			URL:         "/projects/" + p.Slug,
			Views:       p.Views,
			Tags:        tagNames(p.Tags),
			PublishedAt: p.PublishedAt,
			CreatedAt:   p.CreatedAt,
			hasViews:    true,
		})
	}
	return results, count, nil
}

func (s *Service) searchBlogs(ctx context.Context, pattern string, window int, sort SortMode) ([]Result, int64, error) {
	match := "LOWER(title) LIKE ? OR LOWER(excerpt) LIKE ? OR LOWER(content) LIKE ?"

	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.Blog{}).
		Where("published = ?", true).
		Where(match, pattern, pattern, pattern).
		Count(&count).Error
	if err != nil {
		return nil, 0, err
	}

	var blogs []models.Blog
	err = s.db.WithContext(ctx).
		Preload("Tags").
		Select("*, CASE WHEN LOWER(title) LIKE ? THEN 0 ELSE 1 END AS title_rank", pattern).
		Where("published = ?", true).
		Where(match, pattern, pattern, pattern).
		Order(contentOrder(sort)).
		Limit(window).
		Find(&blogs).Error
	if err != nil {
		return nil, 0, err
	}

	results := make([]Result, 0, len(blogs))
	for _, b := range blogs {
		results = append(results, Result{
			Type:        TypeBlog,
			ID:          b.ID,
			Title:       b.Title,
			Description: b.Excerpt,
			URL:         "/blog/" + b.Slug,
			ImageURL:    b.CoverImageURL,
			Views:       b.Views,
			Tags:        tagNames(b.Tags),
			PublishedAt: b.PublishedAt,
			CreatedAt:   b.CreatedAt,
			hasViews:    true,
		})
	}
	return results, count, nil
}

func (s *Service) searchImages(ctx context.Context, pattern string, window int) ([]Result, int64, error) {
	match := "LOWER(images.alt) LIKE ? OR LOWER(images.caption) LIKE ? OR LOWER(tags.name) LIKE ?"
	joins := s.db.WithContext(ctx).
		Model(&models.Image{}).
		Joins("LEFT JOIN image_tags ON image_tags.image_id = images.id").
		Joins("LEFT JOIN tags ON tags.id = image_tags.tag_id").
		Where(match, pattern, pattern, pattern)

	var count int64
	if err := joins.Distinct("images.id").Count(&count).Error; err != nil {
		return nil, 0, err
	}

	var images []models.Image
	err := s.db.WithContext(ctx).
		Preload("Tags").
		Select("DISTINCT images.*").
		Joins("LEFT JOIN image_tags ON image_tags.image_id = images.id").
		Joins("LEFT JOIN tags ON tags.id = image_tags.tag_id").
		Where(match, pattern, pattern, pattern).
		Order("images.created_at DESC").
		Limit(window).
		Find(&images).Error
	if err != nil {
		return nil, 0, err
	}

	results := make([]Result, 0, len(images))
	for _, img := range images {
		title := img.Alt
		if title == "" {
			title = img.Caption
		}
		results = append(results, Result{
			Type:        TypeImage,
			ID:          img.ID,
			Title:       title,
			Description: img.Caption,
			URL:         img.URL,
			ImageURL:    img.URL,
			Tags:        tagNames(img.Tags),
			CreatedAt:   img.CreatedAt,
		})
	}
	return results, count, nil
}

func (s *Service) searchTags(ctx context.Context, pattern string, window int, sort SortMode) ([]Result, int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.Tag{}).
		Where("LOWER(name) LIKE ?", pattern).
		Count(&count).Error
	if err != nil {
		return nil, 0, err
	}

	// Usage is computed live across all three join tables; the denormalized
	// tags.count column is a cache and may lag behind.
	usageExpr := `(
		(SELECT COUNT(*) FROM blog_tags WHERE blog_tags.tag_id = tags.id) +
		(SELECT COUNT(*) FROM project_tags WHERE project_tags.tag_id = tags.id) +
		(SELECT COUNT(*) FROM image_tags WHERE image_tags.tag_id = tags.id)
	) AS total_usage`

	// Tags carry no view counter; usage stands in for popularity except when
	// the caller asked for recency.
	order := "total_usage DESC, name"
	if sort == SortRecent {
		order = "tags.created_at DESC"
	}

	var rows []struct {
		models.Tag
		TotalUsage int
	}
	err = s.db.WithContext(ctx).
		Model(&models.Tag{}).
		Select("tags.*, "+usageExpr).
		Where("LOWER(name) LIKE ?", pattern).
		Order(order).
		Limit(window).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	results := make([]Result, 0, len(rows))
	for _, row := range rows {
		results = append(results, Result{
			Type:      TypeTag,
			ID:        row.Tag.ID,
			Title:     row.Tag.Name,
			URL:       "/tags/" + row.Tag.Slug,
			Usage:     row.TotalUsage,
			CreatedAt: row.Tag.CreatedAt,
		})
	}
	return results, count, nil
}

func tagNames(tags []models.Tag) []string {
	if len(tags) == 0 {
		return nil
	}
	names := make([]string, 0, len(tags))
	for _, t := range tags {
		names = append(names, t.Name)
	}
	return names
}

// effectiveTime is the timestamp used by the recent ordering: publication
// time when set, creation time otherwise.
func effectiveTime(r Result) (time.Time, bool) {
	if r.PublishedAt != nil {
		return *r.PublishedAt, true
	}
	if !r.CreatedAt.IsZero() {
		return r.CreatedAt, true
	}
	return time.Time{}, false
}
