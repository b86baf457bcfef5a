package models

import "time"

// Vote target types.
const (
	TargetPost     = "post"
	TargetComment  = "comment"
	TargetAnswer   = "answer"
	TargetQuestion = "question"
)

// Vote directions.
const (
	Upvote   = 1
	Downvote = -1
)

// Vote tracks a single user's vote on a target. The unique index keeps one
// row per (user, target) pair; re-voting updates or removes it.
type Vote struct {
	ID         int       `gorm:"primaryKey" json:"id"`
	UserID     int       `gorm:"uniqueIndex:idx_votes_user_target" json:"user_id"`
	TargetType string    `gorm:"uniqueIndex:idx_votes_user_target" json:"target_type"`
	TargetID   int       `gorm:"uniqueIndex:idx_votes_user_target" json:"target_id"`
	Value      int       `json:"value"` // 1 or -1
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ValidTarget reports whether t names a votable entity.
func ValidTarget(t string) bool {
	switch t {
	case TargetPost, TargetComment, TargetAnswer, TargetQuestion:
		return true
	}
	return false
}

type VoteRequest struct {
	TargetType string `json:"target_type" binding:"required"`
	TargetID   int    `json:"target_id" binding:"required"`
	Value      int    `json:"value" binding:"required,oneof=-1 1"`
}
