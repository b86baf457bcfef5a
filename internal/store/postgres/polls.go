package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/medvoyage/community-backend/internal/apperrors"
	"github.com/medvoyage/community-backend/internal/mapper"
	"github.com/medvoyage/community-backend/internal/models"
)

func (s *Store) mapPoll(ctx context.Context, p models.Poll) (*mapper.Poll, error) {
	var author *models.User
	if p.AuthorID != nil {
		var u models.User
		if err := s.db.WithContext(ctx).First(&u, *p.AuthorID).Error; err == nil {
			author = &u
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.Upstream(err)
		}
	}
	category, err := s.categoryByID(ctx, p.CategoryID)
	if err != nil {
		return nil, err
	}
	out := mapper.PollFromRow(p, author, category)
	return &out, nil
}

func (s *Store) CreatePoll(ctx context.Context, p *models.Poll) (*mapper.Poll, error) {
	for i := range p.Options {
		p.Options[i].Position = i
	}
	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		return nil, apperrors.Upstream(err)
	}
	return s.mapPoll(ctx, *p)
}

func (s *Store) PollByID(ctx context.Context, id int) (*mapper.Poll, error) {
	var p models.Poll
	err := s.db.WithContext(ctx).
		Preload("Options", func(db *gorm.DB) *gorm.DB { return db.Order("position asc") }).
		First(&p, id).Error
	if err != nil {
		return nil, notFoundOr(err, "poll")
	}
	return s.mapPoll(ctx, p)
}

func (s *Store) ListPolls(ctx context.Context) ([]mapper.Poll, error) {
	var rows []models.Poll
	err := s.db.WithContext(ctx).
		Preload("Options", func(db *gorm.DB) *gorm.DB { return db.Order("position asc") }).
		Order("created_at desc").Find(&rows).Error
	if err != nil {
		return nil, apperrors.Upstream(err)
	}
	out := make([]mapper.Poll, 0, len(rows))
	for _, p := range rows {
		mapped, err := s.mapPoll(ctx, p)
		if err != nil {
			return nil, err
		}
		out = append(out, *mapped)
	}
	return out, nil
}

// VotePoll records one vote per (user, poll); the unique index rejects a
// second attempt. The option counter is display state rebuilt from the vote
// rows here, not trusted independently.
func (s *Store) VotePoll(ctx context.Context, pollID, optionID, userID int) (*mapper.Poll, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p models.Poll
		if err := tx.First(&p, pollID).Error; err != nil {
			return notFoundOr(err, "poll")
		}
		if !p.ExpiresAt.IsZero() && time.Now().After(p.ExpiresAt) {
			return apperrors.Invalid("poll has expired")
		}
		var option models.PollOption
		if err := tx.Where("poll_id = ? AND id = ?", pollID, optionID).First(&option).Error; err != nil {
			return notFoundOr(err, "poll option")
		}
		vote := models.PollVote{PollID: pollID, UserID: userID, OptionID: optionID}
		if err := tx.Create(&vote).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperrors.Duplicate("poll vote")
			}
			return apperrors.Upstream(err)
		}
		return tx.Model(&models.PollOption{}).
			Where("id = ?", optionID).
			Update("vote_count", gorm.Expr("vote_count + 1")).Error
	})
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, apperrors.Upstream(err)
	}
	return s.PollByID(ctx, pollID)
}
