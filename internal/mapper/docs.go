package mapper

import "time"

// Content-document shapes as stored by the document backend. Relations are
// embedded rather than joined, images are bare URLs under nested fields, and
// flags use the document store's own naming.

type AuthorDoc struct {
	ID       int
	Username string
	ImageURL string
}

type CategoryDoc struct {
	ID          int
	Name        string
	Slug        string
	Description string
	Icon        string
	Color       string
}

type CommunityDoc struct {
	ID          int
	Title       string
	Slug        string
	Description string
	Moderator   *AuthorDoc
	ImageURL    string
}

type QuestionDoc struct {
	ID          int
	Title       string
	Description string
	Author      *AuthorDoc
	Category    *CategoryDoc
	Tags        []string
	Answered    bool
	Closed      bool
	Deleted     bool
	Views       int
	PublishedAt time.Time
}

type AnswerDoc struct {
	ID          int
	QuestionID  int
	Body        string
	Author      *AuthorDoc
	Accepted    bool
	Deleted     bool
	PublishedAt time.Time
}

type CommentDoc struct {
	ID          int
	Text        string
	Author      *AuthorDoc
	PostID      *int
	AnswerID    *int
	ParentID    *int
	Deleted     bool
	Reported    bool
	PublishedAt time.Time
}

type PostDoc struct {
	ID          int
	Title       string
	Body        string
	MainImage   string
	Gallery     []string
	Author      *AuthorDoc
	Category    *CategoryDoc
	Community   *CommunityDoc
	Tags        []string
	Deleted     bool
	Reported    bool
	PublishedAt time.Time
}

type PollOptionDoc struct {
	Label string
	Votes int
}

type PollDoc struct {
	ID          int
	Question    string
	Author      *AuthorDoc
	Category    *CategoryDoc
	Expiry      time.Time
	Options     []PollOptionDoc
	PublishedAt time.Time
}

type UserDoc struct {
	ID           int
	ExternalID   string
	Username     string
	Email        string
	PasswordHash string
	AuthProvider string
	ImageURL     string
	Bio          string
	Role         string
	Reported     bool
	JoinedAt     time.Time
}
