// Package store defines the repository contract shared by both content
// backends. Handlers and services depend on this interface only; which
// backend actually serves a request is a wiring decision made at startup.
package store

import (
	"context"

	"github.com/medvoyage/community-backend/internal/mapper"
	"github.com/medvoyage/community-backend/internal/models"
)

// VoteOutcome describes what an upsert did with the caller's vote.
type VoteOutcome string

const (
	VoteCreated VoteOutcome = "created"
	VoteUpdated VoteOutcome = "updated"
	VoteRemoved VoteOutcome = "removed"
)

// QuestionFilter narrows question listings. Zero values mean "no filter".
type QuestionFilter struct {
	CategoryID *int
	AuthorID   *int
	Search     string
}

// PostFilter narrows post listings.
type PostFilter struct {
	CategoryID  *int
	CommunityID *int
	AuthorID    *int
}

// Store is implemented once per backend. Every list and detail read filters
// soft-deleted rows implicitly, including the joins behind aggregate counts.
type Store interface {
	// Users. These return the internal record, not a canonical view; the
	// record itself is the backend-agnostic identity entity.
	UserByExternalID(ctx context.Context, externalID string) (*models.User, error)
	UserByID(ctx context.Context, id int) (*models.User, error)
	UserByUsername(ctx context.Context, username string) (*models.User, error)
	UserByEmail(ctx context.Context, email string) (*models.User, error)
	CreateUser(ctx context.Context, u *models.User) error

	// Questions.
	CreateQuestion(ctx context.Context, q *models.Question) (*mapper.Question, error)
	QuestionByID(ctx context.Context, id int) (*mapper.Question, []mapper.Answer, error)
	ListQuestions(ctx context.Context, f QuestionFilter) ([]mapper.Question, error)
	SoftDeleteQuestion(ctx context.Context, id int) error
	CloseQuestion(ctx context.Context, id int) error
	IncrementViews(ctx context.Context, id int) error

	// Answers.
	CreateAnswer(ctx context.Context, a *models.Answer) (*mapper.Answer, error)
	AnswerByID(ctx context.Context, id int) (*mapper.Answer, error)
	AcceptAnswer(ctx context.Context, id int) error
	SoftDeleteAnswer(ctx context.Context, id int) error

	// Posts. CreatePost retries once with the category reference moved to
	// the community field when the backend rejects the category reference.
	CreatePost(ctx context.Context, p *models.Post) (*mapper.Post, error)
	PostByID(ctx context.Context, id int) (*mapper.Post, error)
	ListPosts(ctx context.Context, f PostFilter) ([]mapper.Post, error)
	SoftDeletePost(ctx context.Context, id int) error
	ReportPost(ctx context.Context, id int) error

	// Comments.
	CreateComment(ctx context.Context, c *models.Comment) (*mapper.Comment, error)
	CommentByID(ctx context.Context, id int) (*mapper.Comment, error)
	CommentsForPost(ctx context.Context, postID int) ([]mapper.Comment, error)
	CommentsForAnswer(ctx context.Context, answerID int) ([]mapper.Comment, error)
	SoftDeleteComment(ctx context.Context, id int) error
	ReportComment(ctx context.Context, id int) error

	// Votes. One row per (user, target); tallies are recomputed from the
	// stored votes on every call, never read from a counter column.
	TargetExists(ctx context.Context, targetType string, targetID int) (bool, error)
	UpsertVote(ctx context.Context, userID int, targetType string, targetID, value int) (VoteOutcome, error)
	VoteTally(ctx context.Context, targetType string, targetID int) (up, down int, err error)
	UserVote(ctx context.Context, userID int, targetType string, targetID int) (int, error)

	// Categories.
	CreateCategory(ctx context.Context, c *models.Category) (*mapper.Category, error)
	ListCategories(ctx context.Context) ([]mapper.Category, error)
	CategoryBySlug(ctx context.Context, slug string) (*mapper.Category, error)
	TrendingCategories(ctx context.Context, n int) ([]mapper.Category, error)

	// Communities.
	CreateCommunity(ctx context.Context, c *models.Community) (*mapper.Community, error)
	ListCommunities(ctx context.Context) ([]mapper.Community, error)
	CommunityBySlug(ctx context.Context, slug string) (*mapper.Community, error)

	// Polls.
	CreatePoll(ctx context.Context, p *models.Poll) (*mapper.Poll, error)
	PollByID(ctx context.Context, id int) (*mapper.Poll, error)
	ListPolls(ctx context.Context) ([]mapper.Poll, error)
	VotePoll(ctx context.Context, pollID, optionID, userID int) (*mapper.Poll, error)
}
