package models

import (
	"time"

	"gorm.io/gorm"
)

// Tag labels blogs, projects and images.
// Count is a denormalized cache of total usage: incremented when content is
// newly associated, reconciled in batch by cmd/reconcile-counters rather than
// decremented inline. A tag with live associations cannot be deleted.
type Tag struct {
	ID    string `gorm:"primaryKey;type:uuid" json:"id"`
	Name  string `gorm:"not null" json:"name"`
	Slug  string `gorm:"uniqueIndex;not null" json:"slug"`
	Count int    `gorm:"default:0" json:"count"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name
func (Tag) TableName() string {
	return "tags"
}

// BeforeCreate assigns the uuid primary key before insert
func (t *Tag) BeforeCreate(tx *gorm.DB) error {
	ensureID(&t.ID)
	return nil
}
