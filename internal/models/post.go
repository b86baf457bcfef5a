package models

import "time"

type Post struct {
	ID          int    `gorm:"primaryKey" json:"id"`
	Title       string `gorm:"not null" json:"title"`
	Body        string `json:"body,omitempty"`
	Image       string `json:"image"`
	Gallery     string `json:"gallery"` // comma-joined media URLs
	AuthorID    int    `json:"author_id"`
	User        User   `gorm:"foreignKey:AuthorID" json:"user"`
	CategoryID  *int   `json:"category_id,omitempty"`
	CommunityID *int   `json:"community_id,omitempty"`
	Tags        string `json:"tags"`

	IsDeleted  bool `gorm:"default:false" json:"is_deleted"`
	IsReported bool `gorm:"default:false" json:"is_reported"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CreatePostRequest struct {
	Title       string   `json:"title" binding:"required"`
	Body        string   `json:"body"`
	Image       string   `json:"image"`
	Gallery     []string `json:"gallery"`
	CategoryID  *int     `json:"category_id"`
	CommunityID *int     `json:"community_id"`
	Tags        []string `json:"tags"`
}
