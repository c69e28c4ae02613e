package models

import (
	"time"

	"gorm.io/gorm"
)

// Blog represents a blog post with its owned sub-resources.
// Only published posts are eligible for search results or public display.
type Blog struct {
	ID      string `gorm:"primaryKey;type:uuid" json:"id"`
	Title   string `gorm:"not null" json:"title"`
	Slug    string `gorm:"uniqueIndex;not null" json:"slug"`
	Excerpt string `gorm:"type:text" json:"excerpt"`
	Content string `gorm:"type:text" json:"content"`

	CoverImageURL string `json:"cover_image_url,omitempty"`
	ReadingTime   int    `gorm:"default:0" json:"reading_time"` // minutes

	// Publication gate
	Published   bool       `gorm:"default:false;index" json:"published"`
	PublishedAt *time.Time `json:"published_at,omitempty"`

	// Denormalized counter, incremented once per detail-page render
	Views int `gorm:"default:0" json:"views"`

	Tags []Tag `gorm:"many2many:blog_tags" json:"tags,omitempty"`

	// Owned sub-resources, removed with the post
	Images       []Image       `gorm:"foreignKey:BlogID;constraint:OnDelete:CASCADE" json:"images,omitempty"`
	CodeExamples []CodeExample `gorm:"foreignKey:BlogID;constraint:OnDelete:CASCADE" json:"code_examples,omitempty"`
	FAQs         []FAQ         `gorm:"foreignKey:BlogID;constraint:OnDelete:CASCADE" json:"faqs,omitempty"`
	Metrics      []BlogMetric  `gorm:"foreignKey:BlogID;constraint:OnDelete:CASCADE" json:"metrics,omitempty"`

	// GORM fields
	CreatedAt time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name
func (Blog) TableName() string {
	return "blogs"
}

// BeforeCreate assigns the uuid primary key before insert
func (b *Blog) BeforeCreate(tx *gorm.DB) error {
	ensureID(&b.ID)
	return nil
}

// CodeExample is a runnable snippet attached to a blog post
type CodeExample struct {
	ID        string    `gorm:"primaryKey;type:uuid" json:"id"`
	BlogID    string    `gorm:"not null;index" json:"blog_id"`
	Title     string    `json:"title"`
	Language  string    `json:"language"`
	Code      string    `gorm:"type:text;not null" json:"code"`
	SortOrder int       `gorm:"default:0" json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name
func (CodeExample) TableName() string {
	return "code_examples"
}

// BeforeCreate assigns the uuid primary key before insert
func (e *CodeExample) BeforeCreate(tx *gorm.DB) error {
	ensureID(&e.ID)
	return nil
}

// FAQ is a question/answer pair attached to a blog post
type FAQ struct {
	ID        string    `gorm:"primaryKey;type:uuid" json:"id"`
	BlogID    string    `gorm:"not null;index" json:"blog_id"`
	Question  string    `gorm:"not null" json:"question"`
	Answer    string    `gorm:"type:text;not null" json:"answer"`
	SortOrder int       `gorm:"default:0" json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name
func (FAQ) TableName() string {
	return "faqs"
}

// BeforeCreate assigns the uuid primary key before insert
func (f *FAQ) BeforeCreate(tx *gorm.DB) error {
	ensureID(&f.ID)
	return nil
}

// BlogMetric is a per-post engagement metric (e.g. scroll depth, shares).
// Values are approximate analytics counters, not ledger data.
type BlogMetric struct {
	ID        string    `gorm:"primaryKey;type:uuid" json:"id"`
	BlogID    string    `gorm:"not null;index" json:"blog_id"`
	Name      string    `gorm:"not null" json:"name"`
	Value     float64   `gorm:"default:0" json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name
func (BlogMetric) TableName() string {
	return "blog_metrics"
}

// BeforeCreate assigns the uuid primary key before insert
func (m *BlogMetric) BeforeCreate(tx *gorm.DB) error {
	ensureID(&m.ID)
	return nil
}
