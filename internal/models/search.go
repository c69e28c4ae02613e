package models

import (
	"time"

	"gorm.io/gorm"
)

// SearchHistory is one row per search request issued. Append-only except for
// the best-effort Clicked flag; rows with Results == 0 identify content gaps.
// History keys on the literal query string, so it survives content deletion.
type SearchHistory struct {
	ID        string `gorm:"primaryKey;type:uuid" json:"id"`
	Query     string `gorm:"not null;index" json:"query"`
	Results   int    `gorm:"not null" json:"results"`
	Clicked   bool   `gorm:"default:false" json:"clicked"`
	SessionID string `gorm:"index" json:"session_id,omitempty"`
	Category  string `json:"category"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name
func (SearchHistory) TableName() string {
	return "search_histories"
}

// BeforeCreate assigns the uuid primary key before insert
func (h *SearchHistory) BeforeCreate(tx *gorm.DB) error {
	ensureID(&h.ID)
	return nil
}

// SearchAnalytics aggregates per distinct query string, upserted on every
// search and click. ClickCount <= SearchCount is expected but not enforced
// atomically; concurrent upserts can race and the counters are approximate.
type SearchAnalytics struct {
	Query       string  `gorm:"primaryKey" json:"query"`
	SearchCount int     `gorm:"default:0" json:"search_count"`
	ClickCount  int     `gorm:"default:0" json:"click_count"`
	AvgResults  float64 `gorm:"default:0" json:"avg_results"`
	ClickRate   float64 `gorm:"default:0" json:"click_rate"` // percentage

	// Most recently clicked result ids, deduplicated, newest first, capped
	TopResultIDs StringArray `gorm:"type:text" json:"top_result_ids"`

	FirstSearched time.Time `json:"first_searched"`
	LastSearched  time.Time `gorm:"index" json:"last_searched"`
}

// TableName specifies the table name
func (SearchAnalytics) TableName() string {
	return "search_analytics"
}

// TopResultLimit bounds the TopResultIDs cache
const TopResultLimit = 3
