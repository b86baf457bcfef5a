// Package mapper defines the canonical, backend-agnostic shapes consumed by
// API responses, and the pure functions that map each backend's native
// representation onto them. Relational rows (internal/models) and content
// documents (the *Doc types below) both normalize to the same output, so
// handlers never branch on which backend served the data.
package mapper

import "time"

// Asset is the normalized image storage reference.
type Asset struct {
	URL string `json:"url"`
}

// Image is the canonical image shape regardless of how the backend stores it.
type Image struct {
	Asset Asset `json:"asset"`
}

// Slug is the canonical slug shape.
type Slug struct {
	Current string `json:"current"`
}

// Author is the canonical embedded author. A missing joined author maps to
// the Unknown placeholder rather than propagating nil into rendering code.
type Author struct {
	ID       int    `json:"id,omitempty"`
	Username string `json:"username"`
	Avatar   Image  `json:"avatar"`
}

type CategoryRef struct {
	Name string `json:"name"`
	Slug Slug   `json:"slug"`
}

type CommunityRef struct {
	Title string `json:"title"`
	Slug  Slug   `json:"slug"`
}

type Question struct {
	ID          int          `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Author      Author       `json:"author"`
	Category    *CategoryRef `json:"category,omitempty"`
	Tags        []string     `json:"tags"`
	IsAnswered  bool         `json:"is_answered"`
	IsDeleted   bool         `json:"is_deleted"`
	IsClosed    bool         `json:"is_closed"`
	ViewCount   int          `json:"view_count"`
	AnswerCount int          `json:"answer_count"`
	Score       int          `json:"score"`
	CreatedAt   time.Time    `json:"created_at"`
}

type Answer struct {
	ID         int       `json:"id"`
	Content    string    `json:"content"`
	Author     Author    `json:"author"`
	IsAccepted bool      `json:"is_accepted"`
	Score      int       `json:"score"`
	Comments   []Comment `json:"comments"`
	CreatedAt  time.Time `json:"created_at"`
}

type Comment struct {
	ID        int       `json:"id"`
	Body      string    `json:"body"`
	Author    Author    `json:"author"`
	ParentID  *int      `json:"parent_comment_id,omitempty"`
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"created_at"`
}

type Post struct {
	ID           int           `json:"id"`
	Title        string        `json:"title"`
	Body         string        `json:"body,omitempty"`
	MainImage    Image         `json:"main_image"`
	Gallery      []Image       `json:"gallery"`
	Author       Author        `json:"author"`
	Category     *CategoryRef  `json:"category,omitempty"`
	Community    *CommunityRef `json:"community,omitempty"`
	Tags         []string      `json:"tags"`
	IsDeleted    bool          `json:"is_deleted"`
	IsReported   bool          `json:"is_reported"`
	CommentCount int           `json:"comment_count"`
	Score        int           `json:"score"`
	CreatedAt    time.Time     `json:"created_at"`
}

type Category struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	Slug          Slug   `json:"slug"`
	Description   string `json:"description,omitempty"`
	Icon          string `json:"icon,omitempty"`
	Color         string `json:"color,omitempty"`
	QuestionCount int    `json:"question_count"`
	PostCount     int    `json:"post_count"`
	PollCount     int    `json:"poll_count"`
}

type Community struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Slug        Slug   `json:"slug"`
	Description string `json:"description,omitempty"`
	Moderator   Author `json:"moderator"`
	Image       Image  `json:"image"`
}

type PollOption struct {
	ID        int    `json:"id"`
	Label     string `json:"label"`
	Position  int    `json:"position"`
	VoteCount int    `json:"vote_count"`
}

type Poll struct {
	ID         int          `json:"id"`
	Question   string       `json:"question"`
	Author     Author       `json:"author"`
	Category   *CategoryRef `json:"category,omitempty"`
	ExpiresAt  time.Time    `json:"expires_at"`
	TotalVotes int          `json:"total_votes"`
	Options    []PollOption `json:"options"`
	CreatedAt  time.Time    `json:"created_at"`
}

type Profile struct {
	ID       int       `json:"id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
	Avatar   Image     `json:"avatar"`
	Bio      string    `json:"bio,omitempty"`
	JoinedAt time.Time `json:"joined_at"`
}

// Placeholder usernames for absent joined authors.
const (
	UnknownAuthor   = "Unknown"
	AnonymousAuthor = "Anonymous"
)
