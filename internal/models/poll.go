package models

import "time"

// Poll with a nil AuthorID was created by an admin and is rendered as
// "Anonymous".
type Poll struct {
	ID         int          `gorm:"primaryKey" json:"id"`
	Question   string       `gorm:"not null" json:"question"`
	CategoryID *int         `json:"category_id,omitempty"`
	AuthorID   *int         `json:"author_id,omitempty"`
	ExpiresAt  time.Time    `json:"expires_at"`
	Options    []PollOption `gorm:"foreignKey:PollID" json:"options"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type PollOption struct {
	ID        int    `gorm:"primaryKey" json:"id"`
	PollID    int    `json:"poll_id"`
	Label     string `gorm:"not null" json:"label"`
	Position  int    `json:"position"`
	VoteCount int    `gorm:"default:0" json:"vote_count"`
}

// PollVote keeps one row per (user, poll) so a user cannot vote twice.
type PollVote struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	PollID    int       `gorm:"uniqueIndex:idx_poll_votes_user_poll" json:"poll_id"`
	UserID    int       `gorm:"uniqueIndex:idx_poll_votes_user_poll" json:"user_id"`
	OptionID  int       `json:"option_id"`
	CreatedAt time.Time `json:"created_at"`
}

type CreatePollRequest struct {
	Question   string    `json:"question" binding:"required"`
	CategoryID *int      `json:"category_id"`
	ExpiresAt  time.Time `json:"expires_at"`
	Options    []string  `json:"options" binding:"required,min=2"`
}

type VotePollRequest struct {
	OptionID int `json:"option_id" binding:"required"`
}
