package handlers

import (
	"net/http"

	"github.com/atelierhq/atelier/internal/database"
	"github.com/atelierhq/atelier/internal/models"
	"github.com/atelierhq/atelier/internal/util"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ImageRequest is the admin create/update payload for a gallery image.
// The URL points at externally hosted media; this API stores metadata only.
type ImageRequest struct {
	URL       string   `json:"url" binding:"required"`
	Alt       string   `json:"alt" binding:"required"`
	Caption   string   `json:"caption"`
	Width     int      `json:"width"`
	Height    int      `json:"height"`
	BlogID    *string  `json:"blog_id"`
	ProjectID *string  `json:"project_id"`
	Tags      []string `json:"tags"`
}

// ListImages handles GET /api/v1/images: the gallery, newest first,
// optionally filtered by tag slug.
func (h *Handlers) ListImages(c *gin.Context) {
	page, limit := parsePagination(c)

	query := database.DB.Model(&models.Image{})
	if tagSlug := c.Query("tag"); tagSlug != "" {
		query = query.
			Joins("JOIN image_tags ON image_tags.image_id = images.id").
			Joins("JOIN tags ON tags.id = image_tags.tag_id").
			Where("tags.slug = ?", tagSlug)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		util.RespondDataAccessError(c, "list images", err)
		return
	}

	var images []models.Image
	err := query.
		Preload("Tags").
		Order("images.created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&images).Error
	if err != nil {
		util.RespondDataAccessError(c, "list images", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"images": images,
		"meta":   paginationMeta(page, limit, total),
	})
}

// GetImage handles GET /api/v1/images/:id
func (h *Handlers) GetImage(c *gin.Context) {
	var image models.Image
	err := database.DB.Preload("Tags").Where("id = ?", c.Param("id")).First(&image).Error
	if util.HandleDBError(c, err, "image") {
		return
	}
	c.JSON(http.StatusOK, gin.H{"image": image})
}

// CreateImage handles POST /api/v1/admin/images
func (h *Handlers) CreateImage(c *gin.Context) {
	var req ImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, "url and alt are required")
		return
	}
	if err := util.ValidateURL(req.URL); err != nil {
		util.RespondValidationError(c, "url", err.Error())
		return
	}
	if !h.ownerExists(c, req.BlogID, req.ProjectID) {
		return
	}

	image := models.Image{
		URL:       req.URL,
		Alt:       req.Alt,
		Caption:   req.Caption,
		Width:     req.Width,
		Height:    req.Height,
		BlogID:    req.BlogID,
		ProjectID: req.ProjectID,
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		tags, err := resolveTags(tx, req.Tags)
		if err != nil {
			return err
		}
		image.Tags = tags
		if err := tx.Create(&image).Error; err != nil {
			return err
		}
		return bumpNewTagCounts(tx, nil, tags)
	})
	if err != nil {
		util.RespondDataAccessError(c, "create image", err)
		return
	}

	h.invalidateSearchCache()
	c.JSON(http.StatusCreated, gin.H{"image": image})
}

// UpdateImage handles PUT /api/v1/admin/images/:id
func (h *Handlers) UpdateImage(c *gin.Context) {
	var req ImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, "url and alt are required")
		return
	}
	if err := util.ValidateURL(req.URL); err != nil {
		util.RespondValidationError(c, "url", err.Error())
		return
	}

	var image models.Image
	err := database.DB.Preload("Tags").Where("id = ?", c.Param("id")).First(&image).Error
	if util.HandleDBError(c, err, "image") {
		return
	}
	if !h.ownerExists(c, req.BlogID, req.ProjectID) {
		return
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		tags, err := resolveTags(tx, req.Tags)
		if err != nil {
			return err
		}
		if err := bumpNewTagCounts(tx, image.Tags, tags); err != nil {
			return err
		}

		image.URL = req.URL
		image.Alt = req.Alt
		image.Caption = req.Caption
		image.Width = req.Width
		image.Height = req.Height
		image.BlogID = req.BlogID
		image.ProjectID = req.ProjectID

		if err := tx.Model(&image).Association("Tags").Replace(tags); err != nil {
			return err
		}
		image.Tags = tags

		return tx.Omit("Tags").Save(&image).Error
	})
	if err != nil {
		util.RespondDataAccessError(c, "update image", err)
		return
	}

	h.invalidateSearchCache()
	c.JSON(http.StatusOK, gin.H{"image": image})
}

// DeleteImage handles DELETE /api/v1/admin/images/:id
func (h *Handlers) DeleteImage(c *gin.Context) {
	var image models.Image
	err := database.DB.Where("id = ?", c.Param("id")).First(&image).Error
	if util.HandleDBError(c, err, "image") {
		return
	}

	if err := database.DB.Delete(&image).Error; err != nil {
		util.RespondDataAccessError(c, "delete image", err)
		return
	}

	h.invalidateSearchCache()
	c.Status(http.StatusNoContent)
}

// ownerExists validates the optional blog/project owner references. Writes a
// 4xx response and returns false when a reference is bad.
func (h *Handlers) ownerExists(c *gin.Context, blogID, projectID *string) bool {
	if blogID != nil && projectID != nil {
		util.RespondValidationError(c, "blog_id", "an image may belong to a blog or a project, not both")
		return false
	}
	if blogID != nil {
		var count int64
		if err := database.DB.Model(&models.Blog{}).Where("id = ?", *blogID).Count(&count).Error; err != nil {
			util.RespondDataAccessError(c, "validate image owner", err)
			return false
		}
		if count == 0 {
			util.RespondValidationError(c, "blog_id", "referenced blog does not exist")
			return false
		}
	}
	if projectID != nil {
		var count int64
		if err := database.DB.Model(&models.Project{}).Where("id = ?", *projectID).Count(&count).Error; err != nil {
			util.RespondDataAccessError(c, "validate image owner", err)
			return false
		}
		if count == 0 {
			util.RespondValidationError(c, "project_id", "referenced project does not exist")
			return false
		}
	}
	return true
}
