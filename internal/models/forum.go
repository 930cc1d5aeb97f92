package models

import (
	"time"

	"gorm.io/datatypes"
)

// AuthorSnapshot captures the acting user's identity at write time. It is
// denormalized on purpose and never re-synced with later profile edits.
type AuthorSnapshot struct {
	UserID string `gorm:"column:author_id;size:64;not null;index" json:"user_id"`
	Name   string `gorm:"column:author_name;size:128;not null" json:"name"`
	Email  string `gorm:"column:author_email;size:128" json:"email,omitempty"`
}

// Topic represents a forum discussion thread tied to a company.
type Topic struct {
	ID      uint                        `gorm:"primaryKey" json:"id"`
	Title   string                      `gorm:"size:255;not null;index" json:"title"`
	Company string                      `gorm:"size:128;not null;index" json:"company"`
	Content string                      `gorm:"type:text;not null" json:"content"`
	Tags    datatypes.JSONSlice[string] `gorm:"type:json" json:"tags"`
	Images  datatypes.JSONSlice[string] `gorm:"type:json" json:"images"`

	Author AuthorSnapshot `gorm:"embedded" json:"author"`

	// LikesCount must always equal the number of TopicLike rows for this
	// topic; both are mutated inside the same transaction.
	LikesCount    int64 `gorm:"not null;default:0" json:"likes_count"`
	CommentsCount int64 `gorm:"not null;default:0" json:"comments_count"`
	ViewsCount    int64 `gorm:"not null;default:0" json:"views_count"`

	IsActive bool `gorm:"not null;default:true;index" json:"is_active"`
	IsPinned bool `gorm:"not null;default:false" json:"is_pinned"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TopicLike is one user's like on a topic. The composite unique index makes
// a duplicate like impossible regardless of request interleaving.
type TopicLike struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	TopicID   uint      `gorm:"not null;uniqueIndex:idx_topic_like_user" json:"topic_id"`
	UserID    string    `gorm:"size:64;not null;uniqueIndex:idx_topic_like_user" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Comment represents a reply scoped to one topic. ParentID is reserved for
// threaded replies; listings currently return top-level comments only.
type Comment struct {
	ID       uint           `gorm:"primaryKey" json:"id"`
	TopicID  uint           `gorm:"not null;index" json:"topic_id"`
	Content  string         `gorm:"type:text;not null" json:"content"`
	Author   AuthorSnapshot `gorm:"embedded" json:"author"`
	ParentID *uint          `gorm:"index" json:"parent_id,omitempty"`
	IsActive bool           `gorm:"not null;default:true" json:"is_active"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CompanyStat is the derived per-company rollup. It is never persisted.
type CompanyStat struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}
