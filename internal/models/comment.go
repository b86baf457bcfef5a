package models

import "time"

// Comment belongs to exactly one of a post or an answer. PostID and
// AnswerID are mutually exclusive; the store rejects rows with both or
// neither set.
type Comment struct {
	ID              int    `gorm:"primaryKey" json:"id"`
	Body            string `gorm:"not null" json:"body"`
	AuthorID        int    `json:"author_id"`
	User            User   `gorm:"foreignKey:AuthorID" json:"user"`
	PostID          *int   `json:"post_id,omitempty"`
	AnswerID        *int   `json:"answer_id,omitempty"`
	ParentCommentID *int   `json:"parent_comment_id,omitempty"`

	IsDeleted  bool `gorm:"default:false" json:"is_deleted"`
	IsReported bool `gorm:"default:false" json:"is_reported"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CreateCommentRequest struct {
	Body            string `json:"body" binding:"required"`
	PostID          *int   `json:"post_id"`
	AnswerID        *int   `json:"answer_id"`
	ParentCommentID *int   `json:"parent_comment_id,omitempty"`
}
