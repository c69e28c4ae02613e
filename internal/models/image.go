package models

import (
	"time"

	"gorm.io/gorm"
)

// Image is a gallery entry. Images have no publication gate in the search path;
// they are matched on alt text, caption and associated tag names.
type Image struct {
	ID      string `gorm:"primaryKey;type:uuid" json:"id"`
	URL     string `gorm:"not null" json:"url"`
	Alt     string `gorm:"not null" json:"alt"`
	Caption string `gorm:"type:text" json:"caption"`
	Width   int    `json:"width,omitempty"`
	Height  int    `json:"height,omitempty"`

	// Optional owner; owned images are removed with their parent
	BlogID    *string `gorm:"type:uuid;index" json:"blog_id,omitempty"`
	ProjectID *string `gorm:"type:uuid;index" json:"project_id,omitempty"`

	Tags []Tag `gorm:"many2many:image_tags" json:"tags,omitempty"`

	// GORM fields
	CreatedAt time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name
func (Image) TableName() string {
	return "images"
}

// BeforeCreate assigns the uuid primary key before insert
func (i *Image) BeforeCreate(tx *gorm.DB) error {
	ensureID(&i.ID)
	return nil
}
