// Package votes applies directional votes with upsert semantics and
// recomputes tallies from the stored vote rows.
package votes

import (
	"context"

	"github.com/medvoyage/community-backend/internal/apperrors"
	"github.com/medvoyage/community-backend/internal/models"
	"github.com/medvoyage/community-backend/internal/store"
)

// Result is the state returned to the voter: the recomputed aggregate and
// their own current vote.
type Result struct {
	TargetType string            `json:"target_type"`
	TargetID   int               `json:"target_id"`
	Upvotes    int               `json:"upvotes"`
	Downvotes  int               `json:"downvotes"`
	Score      int               `json:"score"`
	UserVote   int               `json:"user_vote"`
	Outcome    store.VoteOutcome `json:"outcome,omitempty"`
}

type Service struct {
	store store.Store
}

func NewService(s store.Store) *Service {
	return &Service{store: s}
}

// Cast records userID's vote on the target. A repeat of the same direction
// removes the vote; the opposite direction switches it. The returned result
// is recomputed from the stored rows, not from any counter.
func (s *Service) Cast(ctx context.Context, userID int, targetType string, targetID, value int) (*Result, error) {
	if !models.ValidTarget(targetType) {
		return nil, apperrors.Invalid("unknown vote target type: " + targetType)
	}
	if value != models.Upvote && value != models.Downvote {
		return nil, apperrors.Invalid("vote value must be 1 or -1")
	}
	if userID == 0 {
		return nil, apperrors.Unauthorized("votes require an authenticated user")
	}

	exists, err := s.store.TargetExists(ctx, targetType, targetID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperrors.NotFound(targetType)
	}

	outcome, err := s.store.UpsertVote(ctx, userID, targetType, targetID, value)
	if err != nil {
		return nil, err
	}

	result, err := s.tally(ctx, userID, targetType, targetID)
	if err != nil {
		return nil, err
	}
	result.Outcome = outcome
	return result, nil
}

// Tally returns the current aggregate and, when userID is non-zero, the
// caller's own vote state.
func (s *Service) Tally(ctx context.Context, userID int, targetType string, targetID int) (*Result, error) {
	if !models.ValidTarget(targetType) {
		return nil, apperrors.Invalid("unknown vote target type: " + targetType)
	}
	return s.tally(ctx, userID, targetType, targetID)
}

func (s *Service) tally(ctx context.Context, userID int, targetType string, targetID int) (*Result, error) {
	up, down, err := s.store.VoteTally(ctx, targetType, targetID)
	if err != nil {
		return nil, err
	}
	userVote := 0
	if userID != 0 {
		userVote, err = s.store.UserVote(ctx, userID, targetType, targetID)
		if err != nil {
			return nil, err
		}
	}
	return &Result{
		TargetType: targetType,
		TargetID:   targetID,
		Upvotes:    up,
		Downvotes:  down,
		Score:      up - down,
		UserVote:   userVote,
	}, nil
}
