package models

import "time"

type Answer struct {
	ID         int    `gorm:"primaryKey" json:"id"`
	Content    string `gorm:"not null" json:"content"`
	QuestionID int    `json:"question_id"`
	AuthorID   int    `json:"author_id"`
	User       User   `gorm:"foreignKey:AuthorID" json:"user"`

	// At most one accepted answer per question; AcceptAnswer clears any
	// previously accepted sibling in the same transaction.
	IsAccepted bool `gorm:"default:false" json:"is_accepted"`
	IsDeleted  bool `gorm:"default:false" json:"is_deleted"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CreateAnswerRequest struct {
	Content string `json:"content" binding:"required"`
}
