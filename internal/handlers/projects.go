package handlers

import (
	"net/http"

	"github.com/atelierhq/atelier/internal/database"
	"github.com/atelierhq/atelier/internal/models"
	"github.com/atelierhq/atelier/internal/util"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ProjectRequest is the admin create/update payload for a project
type ProjectRequest struct {
	Title       string   `json:"title" binding:"required"`
	Slug        string   `json:"slug"`
	Description string   `json:"description"`
	Content     string   `json:"content"`
	RepoURL     string   `json:"repo_url"`
	DemoURL     string   `json:"demo_url"`
	Featured    bool     `json:"featured"`
	Published   bool     `json:"published"`
	Tags        []string `json:"tags"`
}

// ListProjects handles GET /api/v1/projects: published projects, featured
// first, optionally filtered by tag slug.
func (h *Handlers) ListProjects(c *gin.Context) {
	page, limit := parsePagination(c)

	query := database.DB.Model(&models.Project{}).Where("projects.published = ?", true)
	if tagSlug := c.Query("tag"); tagSlug != "" {
		query = query.
			Joins("JOIN project_tags ON project_tags.project_id = projects.id").
			Joins("JOIN tags ON tags.id = project_tags.tag_id").
			Where("tags.slug = ?", tagSlug)
	}
	if c.Query("featured") != "" {
		query = query.Where("projects.featured = ?", util.ParseBool(c.Query("featured"), false))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		util.RespondDataAccessError(c, "list projects", err)
		return
	}

	var projects []models.Project
	err := query.
		Preload("Tags").
		Preload("Images").
		Order("projects.featured DESC, COALESCE(projects.published_at, projects.created_at) DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&projects).Error
	if err != nil {
		util.RespondDataAccessError(c, "list projects", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"projects": projects,
		"meta":     paginationMeta(page, limit, total),
	})
}

// GetProject handles GET /api/v1/projects/:slug and bumps the view counter.
func (h *Handlers) GetProject(c *gin.Context) {
	var project models.Project
	err := database.DB.
		Preload("Tags").
		Preload("Images").
		Where("slug = ? AND published = ?", c.Param("slug"), true).
		First(&project).Error
	if util.HandleDBError(c, err, "project") {
		return
	}

	if err := database.DB.Model(&project).UpdateColumn("views", gorm.Expr("views + 1")).Error; err != nil {
		util.RespondDataAccessError(c, "increment project views", err)
		return
	}
	project.Views++

	c.JSON(http.StatusOK, gin.H{"project": project})
}

// AdminListProjects handles GET /api/v1/admin/projects: drafts included.
func (h *Handlers) AdminListProjects(c *gin.Context) {
	page, limit := parsePagination(c)

	var total int64
	if err := database.DB.Model(&models.Project{}).Count(&total).Error; err != nil {
		util.RespondDataAccessError(c, "list projects", err)
		return
	}

	var projects []models.Project
	err := database.DB.
		Preload("Tags").
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&projects).Error
	if err != nil {
		util.RespondDataAccessError(c, "list projects", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"projects": projects,
		"meta":     paginationMeta(page, limit, total),
	})
}

// CreateProject handles POST /api/v1/admin/projects
func (h *Handlers) CreateProject(c *gin.Context) {
	var req ProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, "title is required")
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
	for _, field := range []struct{ name, value string }{
		{"repo_url", req.RepoURL},
		{"demo_url", req.DemoURL},
	} {
		if field.value == "" {
			continue
		}
		if err := util.ValidateURL(field.value); err != nil {
			util.RespondValidationError(c, field.name, err.Error())
			return
		}
	}

	project := models.Project{
		Title:       req.Title,
		Slug:        slug,
		Description: req.Description,
		Content:     req.Content,
		RepoURL:     req.RepoURL,
		DemoURL:     req.DemoURL,
		Featured:    req.Featured,
		Published:   req.Published,
		PublishedAt: publishedAtFor(req.Published, nil),
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Project{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return gorm.ErrDuplicatedKey
		}

		tags, err := resolveTags(tx, req.Tags)
		if err != nil {
			return err
		}
		project.Tags = tags

		if err := tx.Create(&project).Error; err != nil {
			return err
		}
		return bumpNewTagCounts(tx, nil, tags)
	})
	if err == gorm.ErrDuplicatedKey {
		util.RespondConflict(c, "project")
		return
	}
	if err != nil {
		util.RespondDataAccessError(c, "create project", err)
		return
	}

	h.invalidateSearchCache()
	c.JSON(http.StatusCreated, gin.H{"project": project})
}

// UpdateProject handles PUT /api/v1/admin/projects/:id
func (h *Handlers) UpdateProject(c *gin.Context) {
	var req ProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, "title is required")
		return
	}

	var project models.Project
	err := database.DB.Preload("Tags").Where("id = ?", c.Param("id")).First(&project).Error
	if util.HandleDBError(c, err, "project") {
		return
	}

	slug := req.Slug
	if slug == "" {
		slug = project.Slug
	}
	if err := util.ValidateSlug(slug); err != nil {
		util.RespondValidationError(c, "slug", err.Error())
		return
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if slug != project.Slug {
			var count int64
			if err := tx.Model(&models.Project{}).Where("slug = ? AND id <> ?", slug, project.ID).Count(&count).Error; err != nil {
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
		if err := bumpNewTagCounts(tx, project.Tags, tags); err != nil {
			return err
		}

		project.Title = req.Title
		project.Slug = slug
		project.Description = req.Description
		project.Content = req.Content
		project.RepoURL = req.RepoURL
		project.DemoURL = req.DemoURL
		project.Featured = req.Featured
		project.Published = req.Published
		project.PublishedAt = publishedAtFor(req.Published, project.PublishedAt)

		if err := tx.Model(&project).Association("Tags").Replace(tags); err != nil {
			return err
		}
		project.Tags = tags

		return tx.Omit("Tags", "Images").Save(&project).Error
	})
	if err == gorm.ErrDuplicatedKey {
		util.RespondConflict(c, "project")
		return
	}
	if err != nil {
		util.RespondDataAccessError(c, "update project", err)
		return
	}

	h.invalidateSearchCache()
	c.JSON(http.StatusOK, gin.H{"project": project})
}

// DeleteProject handles DELETE /api/v1/admin/projects/:id
func (h *Handlers) DeleteProject(c *gin.Context) {
	var project models.Project
	err := database.DB.Where("id = ?", c.Param("id")).First(&project).Error
	if util.HandleDBError(c, err, "project") {
		return
	}

	if err := database.DB.Select("Images").Delete(&project).Error; err != nil {
		util.RespondDataAccessError(c, "delete project", err)
		return
	}

	h.invalidateSearchCache()
	c.Status(http.StatusNoContent)
}
