package models

import (
	"time"

	"gorm.io/gorm"
)

// Project represents a portfolio project.
// Only published projects are eligible for search results or public display.
type Project struct {
	ID          string `gorm:"primaryKey;type:uuid" json:"id"`
	Title       string `gorm:"not null" json:"title"`
	Slug        string `gorm:"uniqueIndex;not null" json:"slug"`
	Description string `gorm:"type:text" json:"description"`
	Content     string `gorm:"type:text" json:"content"`

	RepoURL  string `json:"repo_url,omitempty"`
	DemoURL  string `json:"demo_url,omitempty"`
	Featured bool   `gorm:"default:false" json:"featured"`

	// Publication gate
	Published   bool       `gorm:"default:false;index" json:"published"`
	PublishedAt *time.Time `json:"published_at,omitempty"`

	// Denormalized counter, incremented once per detail-page render
	Views int `gorm:"default:0" json:"views"`

	Tags   []Tag   `gorm:"many2many:project_tags" json:"tags,omitempty"`
	Images []Image `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"images,omitempty"`

	// GORM fields
	CreatedAt time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name
func (Project) TableName() string {
	return "projects"
}

// BeforeCreate assigns the uuid primary key before insert
func (p *Project) BeforeCreate(tx *gorm.DB) error {
	ensureID(&p.ID)
	return nil
}
