package handlers

import (
	"net/http"
	"strings"

	"github.com/atelierhq/atelier/internal/database"
	"github.com/atelierhq/atelier/internal/models"
	"github.com/atelierhq/atelier/internal/util"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// BlogRequest is the admin create/update payload for a blog post
type BlogRequest struct {
	Title         string   `json:"title" binding:"required"`
	Slug          string   `json:"slug"`
	Excerpt       string   `json:"excerpt"`
	Content       string   `json:"content" binding:"required"`
	CoverImageURL string   `json:"cover_image_url"`
	ReadingTime   int      `json:"reading_time"`
	Published     bool     `json:"published"`
	Tags          []string `json:"tags"`

	CodeExamples []CodeExampleRequest `json:"code_examples"`
	FAQs         []FAQRequest         `json:"faqs"`
}

// CodeExampleRequest is a nested code snippet in a blog payload
type CodeExampleRequest struct {
	Title    string `json:"title"`
	Language string `json:"language"`
	Code     string `json:"code" binding:"required"`
}

// FAQRequest is a nested question/answer pair in a blog payload
type FAQRequest struct {
	Question string `json:"question" binding:"required"`
	Answer   string `json:"answer" binding:"required"`
}

// ListBlogs handles GET /api/v1/blogs: published posts, newest first,
// optionally filtered by tag slug.
func (h *Handlers) ListBlogs(c *gin.Context) {
	page, limit := parsePagination(c)

	query := database.DB.Model(&models.Blog{}).Where("blogs.published = ?", true)
	if tagSlug := c.Query("tag"); tagSlug != "" {
		query = query.
			Joins("JOIN blog_tags ON blog_tags.blog_id = blogs.id").
			Joins("JOIN tags ON tags.id = blog_tags.tag_id").
			Where("tags.slug = ?", tagSlug)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		util.RespondDataAccessError(c, "list blogs", err)
		return
	}

	var blogs []models.Blog
	err := query.
		Preload("Tags").
		Order("COALESCE(blogs.published_at, blogs.created_at) DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&blogs).Error
	if err != nil {
		util.RespondDataAccessError(c, "list blogs", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"blogs": blogs,
		"meta":  paginationMeta(page, limit, total),
	})
}

// GetBlog handles GET /api/v1/blogs/:slug. Each render bumps the view
// counter; the increment runs in SQL so concurrent reads never lose counts.
func (h *Handlers) GetBlog(c *gin.Context) {
	var blog models.Blog
	err := database.DB.
		Preload("Tags").
		Preload("Images").
		Preload("CodeExamples", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order") }).
		Preload("FAQs", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order") }).
		Where("slug = ? AND published = ?", c.Param("slug"), true).
		First(&blog).Error
	if util.HandleDBError(c, err, "blog") {
		return
	}

	if err := database.DB.Model(&blog).UpdateColumn("views", gorm.Expr("views + 1")).Error; err != nil {
		util.RespondDataAccessError(c, "increment blog views", err)
		return
	}
	blog.Views++

	c.JSON(http.StatusOK, gin.H{"blog": blog})
}

// AdminListBlogs handles GET /api/v1/admin/blogs: drafts included.
func (h *Handlers) AdminListBlogs(c *gin.Context) {
	page, limit := parsePagination(c)

	var total int64
	if err := database.DB.Model(&models.Blog{}).Count(&total).Error; err != nil {
		util.RespondDataAccessError(c, "list blogs", err)
		return
	}

	var blogs []models.Blog
	err := database.DB.
		Preload("Tags").
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&blogs).Error
	if err != nil {
		util.RespondDataAccessError(c, "list blogs", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"blogs": blogs,
		"meta":  paginationMeta(page, limit, total),
	})
}

// CreateBlog handles POST /api/v1/admin/blogs
func (h *Handlers) CreateBlog(c *gin.Context) {
	var req BlogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, "title and content are required")
		return
	}

	slug := req.Slug
	if slug == "" {
		slug = util.Slugify(req.Title)
	}
	if err := util.ValidateSlug(slug); err != nil {
		util.RespondValidationError(c, "slug", err.Error())
		return
	}

	blog := models.Blog{
		Title:         req.Title,
		Slug:          slug,
		Excerpt:       req.Excerpt,
		Content:       req.Content,
		CoverImageURL: req.CoverImageURL,
		ReadingTime:   req.ReadingTime,
		Published:     req.Published,
		PublishedAt:   publishedAtFor(req.Published, nil),
	}
	if blog.ReadingTime == 0 {
		blog.ReadingTime = estimateReadingTime(req.Content)
	}
	for i, ce := range req.CodeExamples {
		blog.CodeExamples = append(blog.CodeExamples, models.CodeExample{
			Title:     ce.Title,
			Language:  ce.Language,
			Code:      ce.Code,
			SortOrder: i,
		})
	}
	for i, faq := range req.FAQs {
		blog.FAQs = append(blog.FAQs, models.FAQ{
			Question:  faq.Question,
			Answer:    faq.Answer,
			SortOrder: i,
		})
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Blog{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return gorm.ErrDuplicatedKey
		}

		tags, err := resolveTags(tx, req.Tags)
		if err != nil {
			return err
		}
		blog.Tags = tags

		if err := tx.Create(&blog).Error; err != nil {
			return err
		}
		return bumpNewTagCounts(tx, nil, tags)
	})
	if err == gorm.ErrDuplicatedKey {
		util.RespondConflict(c, "blog")
		return
	}
	if err != nil {
		util.RespondDataAccessError(c, "create blog", err)
		return
	}

	h.invalidateSearchCache()
	c.JSON(http.StatusCreated, gin.H{"blog": blog})
}

// UpdateBlog handles PUT /api/v1/admin/blogs/:id. Nested code examples and
// FAQs are replaced wholesale; tags are reconciled by slug.
func (h *Handlers) UpdateBlog(c *gin.Context) {
	var req BlogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, "title and content are required")
		return
	}

	var blog models.Blog
	err := database.DB.Preload("Tags").Where("id = ?", c.Param("id")).First(&blog).Error
	if util.HandleDBError(c, err, "blog") {
		return
	}

	slug := req.Slug
	if slug == "" {
		slug = blog.Slug
	}
	if err := util.ValidateSlug(slug); err != nil {
		util.RespondValidationError(c, "slug", err.Error())
		return
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if slug != blog.Slug {
			var count int64
			if err := tx.Model(&models.Blog{}).Where("slug = ? AND id <> ?", slug, blog.ID).Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return gorm.ErrDuplicatedKey
			}
		}

		tags, err := resolveTags(tx, req.Tags)
		if err != nil {
			return err
		}
		if err := bumpNewTagCounts(tx, blog.Tags, tags); err != nil {
			return err
		}

		blog.Title = req.Title
		blog.Slug = slug
		blog.Excerpt = req.Excerpt
		blog.Content = req.Content
		blog.CoverImageURL = req.CoverImageURL
		blog.Published = req.Published
		blog.PublishedAt = publishedAtFor(req.Published, blog.PublishedAt)
		blog.ReadingTime = req.ReadingTime
		if blog.ReadingTime == 0 {
			blog.ReadingTime = estimateReadingTime(req.Content)
		}

		if err := tx.Model(&blog).Association("Tags").Replace(tags); err != nil {
			return err
		}
		blog.Tags = tags

		if err := tx.Where("blog_id = ?", blog.ID).Delete(&models.CodeExample{}).Error; err != nil {
			return err
		}
		if err := tx.Where("blog_id = ?", blog.ID).Delete(&models.FAQ{}).Error; err != nil {
			return err
		}
		blog.CodeExamples = nil
		blog.FAQs = nil
		for i, ce := range req.CodeExamples {
			blog.CodeExamples = append(blog.CodeExamples, models.CodeExample{
				BlogID:    blog.ID,
				Title:     ce.Title,
				Language:  ce.Language,
				Code:      ce.Code,
				SortOrder: i,
			})
		}
		for i, faq := range req.FAQs {
			blog.FAQs = append(blog.FAQs, models.FAQ{
				BlogID:    blog.ID,
				Question:  faq.Question,
				Answer:    faq.Answer,
				SortOrder: i,
			})
		}
		if len(blog.CodeExamples) > 0 {
			if err := tx.Create(&blog.CodeExamples).Error; err != nil {
				return err
			}
		}
		if len(blog.FAQs) > 0 {
			if err := tx.Create(&blog.FAQs).Error; err != nil {
				return err
			}
		}

		return tx.Omit("Tags", "CodeExamples", "FAQs", "Images", "Metrics").Save(&blog).Error
	})
	if err == gorm.ErrDuplicatedKey {
		util.RespondConflict(c, "blog")
		return
	}
	if err != nil {
		util.RespondDataAccessError(c, "update blog", err)
		return
	}

	h.invalidateSearchCache()
	c.JSON(http.StatusOK, gin.H{"blog": blog})
}

// DeleteBlog handles DELETE /api/v1/admin/blogs/:id. Owned sub-resources go
// with the post; tag counters are left to the reconcile job.
func (h *Handlers) DeleteBlog(c *gin.Context) {
	var blog models.Blog
	err := database.DB.Where("id = ?", c.Param("id")).First(&blog).Error
	if util.HandleDBError(c, err, "blog") {
		return
	}

	if err := database.DB.Select("Images", "CodeExamples", "FAQs", "Metrics").Delete(&blog).Error; err != nil {
		util.RespondDataAccessError(c, "delete blog", err)
		return
	}

	h.invalidateSearchCache()
	c.Status(http.StatusNoContent)
}

// estimateReadingTime derives minutes from word count at ~200 wpm.
func estimateReadingTime(content string) int {
	words := len(strings.Fields(content))
	if words == 0 {
		return 0
	}
	minutes := (words + 199) / 200
	return minutes
}
