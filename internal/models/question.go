package models

import "time"

type Question struct {
	ID          int    `gorm:"primaryKey" json:"id"`
	Title       string `gorm:"not null" json:"title"`
	Description string `json:"description,omitempty"`
	AuthorID    int    `json:"author_id"`
	User        User   `gorm:"foreignKey:AuthorID" json:"user"`
	CategoryID  *int   `json:"category_id,omitempty"`
	Tags        string `json:"tags"` // comma-joined, lowercase

	IsAnswered bool `gorm:"default:false" json:"is_answered"`
	IsDeleted  bool `gorm:"default:false" json:"is_deleted"`
	IsClosed   bool `gorm:"default:false" json:"is_closed"`
	ViewCount  int  `gorm:"default:0" json:"view_count"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CreateQuestionRequest struct {
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description"`
	CategoryID  *int     `json:"category_id"`
	Tags        []string `json:"tags"`
}
