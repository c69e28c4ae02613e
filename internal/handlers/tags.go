package handlers

import (
	"net/http"

	"github.com/atelierhq/atelier/internal/database"
	"github.com/atelierhq/atelier/internal/errors"
	"github.com/atelierhq/atelier/internal/models"
	"github.com/atelierhq/atelier/internal/util"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// TagRequest is the admin create/update payload for a tag
type TagRequest struct {
	Name string `json:"name" binding:"required"`
	Slug string `json:"slug"`
}

// tagUsage counts live associations across all three content types
func tagUsage(tx *gorm.DB, tagID string) (int64, error) {
	var usage int64
	err := tx.Raw(`
		SELECT
			(SELECT COUNT(*) FROM blog_tags WHERE tag_id = ?) +
			(SELECT COUNT(*) FROM project_tags WHERE tag_id = ?) +
			(SELECT COUNT(*) FROM image_tags WHERE tag_id = ?)`,
		tagID, tagID, tagID).Scan(&usage).Error
	return usage, err
}

// ListTags handles GET /api/v1/tags, most-used first.
func (h *Handlers) ListTags(c *gin.Context) {
	var tags []models.Tag
	err := database.DB.Order("count DESC, name").Find(&tags).Error
	if err != nil {
		util.RespondDataAccessError(c, "list tags", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tags": tags})
}

// GetTag handles GET /api/v1/tags/:slug and returns the tag with its live
// usage count.
func (h *Handlers) GetTag(c *gin.Context) {
	var tag models.Tag
	err := database.DB.Where("slug = ?", c.Param("slug")).First(&tag).Error
	if util.HandleDBError(c, err, "tag") {
		return
	}

	usage, err := tagUsage(database.DB, tag.ID)
	if err != nil {
		util.RespondDataAccessError(c, "count tag usage", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tag": tag, "usage": usage})
}

// CreateTag handles POST /api/v1/admin/tags
func (h *Handlers) CreateTag(c *gin.Context) {
	var req TagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, "name is required")
		return
	}

	slug := req.Slug
	if slug == "" {
		slug = util.Slugify(req.Name)
	}
	if err := util.ValidateSlug(slug); err != nil {
		util.RespondValidationError(c, "slug", err.Error())
		return
	}

	var count int64
	if err := database.DB.Model(&models.Tag{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
		util.RespondDataAccessError(c, "create tag", err)
		return
	}
	if count > 0 {
		util.RespondConflict(c, "tag")
		return
	}

	tag := models.Tag{Name: req.Name, Slug: slug}
	if err := database.DB.Create(&tag).Error; err != nil {
		util.RespondDataAccessError(c, "create tag", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"tag": tag})
}

// UpdateTag handles PUT /api/v1/admin/tags/:id. Renaming a tag re-labels all
// its associations at once, so content handlers never need to touch it.
func (h *Handlers) UpdateTag(c *gin.Context) {
	var req TagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, "name is required")
		return
	}

	var tag models.Tag
	err := database.DB.Where("id = ?", c.Param("id")).First(&tag).Error
	if util.HandleDBError(c, err, "tag") {
		return
	}

	slug := req.Slug
	if slug == "" {
		slug = util.Slugify(req.Name)
	}
	if err := util.ValidateSlug(slug); err != nil {
		util.RespondValidationError(c, "slug", err.Error())
		return
	}

	if slug != tag.Slug {
		var count int64
		if err := database.DB.Model(&models.Tag{}).Where("slug = ? AND id <> ?", slug, tag.ID).Count(&count).Error; err != nil {
			util.RespondDataAccessError(c, "update tag", err)
			return
		}
		if count > 0 {
			util.RespondConflict(c, "tag")
			return
		}
	}

	tag.Name = req.Name
	tag.Slug = slug
	if err := database.DB.Save(&tag).Error; err != nil {
		util.RespondDataAccessError(c, "update tag", err)
		return
	}

	h.invalidateSearchCache()
	c.JSON(http.StatusOK, gin.H{"tag": tag})
}

// DeleteTag handles DELETE /api/v1/admin/tags/:id. A tag still attached to
// content cannot be deleted; the usage count in the 409 tells the admin how
// much re-labeling is left.
func (h *Handlers) DeleteTag(c *gin.Context) {
	var tag models.Tag
	err := database.DB.Where("id = ?", c.Param("id")).First(&tag).Error
	if util.HandleDBError(c, err, "tag") {
		return
	}

	usage, err := tagUsage(database.DB, tag.ID)
	if err != nil {
		util.RespondDataAccessError(c, "count tag usage", err)
		return
	}
	if usage > 0 {
		util.RespondWithAPIError(c, errors.TagInUse(tag.Name, usage))
		return
	}

	if err := database.DB.Delete(&tag).Error; err != nil {
		util.RespondDataAccessError(c, "delete tag", err)
		return
	}

	h.invalidateSearchCache()
	c.Status(http.StatusNoContent)
}
