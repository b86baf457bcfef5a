// Package postgres implements store.Store on the relational backend using
// GORM. Aggregate counts are recomputed from the underlying rows on every
// read; no counter column is treated as a source of truth.
package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/medvoyage/community-backend/internal/apperrors"
	"github.com/medvoyage/community-backend/internal/models"
	"github.com/medvoyage/community-backend/internal/store"
)

type Store struct {
	db *gorm.DB
}

var _ store.Store = (*Store)(nil)

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func notFoundOr(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.NotFound(what)
	}
	return apperrors.Upstream(err)
}

// === Users ===

func (s *Store) UserByExternalID(ctx context.Context, externalID string) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).Where("external_id = ?", externalID).First(&u).Error; err != nil {
		return nil, notFoundOr(err, "user")
	}
	return &u, nil
}

func (s *Store) UserByID(ctx context.Context, id int) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, notFoundOr(err, "user")
	}
	return &u, nil
}

func (s *Store) UserByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&u).Error; err != nil {
		return nil, notFoundOr(err, "user")
	}
	return &u, nil
}

func (s *Store) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, notFoundOr(err, "user")
	}
	return &u, nil
}

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	if u.Role == "" {
		u.Role = models.RoleUser
	}
	if err := s.db.WithContext(ctx).Create(u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperrors.Duplicate("user")
		}
		return apperrors.Upstream(err)
	}
	return nil
}

// tally counts up and down votes for a target from the vote rows.
func (s *Store) tally(ctx context.Context, targetType string, targetID int) (int, int, error) {
	var up, down int64
	if err := s.db.WithContext(ctx).Model(&models.Vote{}).
		Where("target_type = ? AND target_id = ? AND value = ?", targetType, targetID, models.Upvote).
		Count(&up).Error; err != nil {
		return 0, 0, apperrors.Upstream(err)
	}
	if err := s.db.WithContext(ctx).Model(&models.Vote{}).
		Where("target_type = ? AND target_id = ? AND value = ?", targetType, targetID, models.Downvote).
		Count(&down).Error; err != nil {
		return 0, 0, apperrors.Upstream(err)
	}
	return int(up), int(down), nil
}

func (s *Store) score(ctx context.Context, targetType string, targetID int) (int, error) {
	up, down, err := s.tally(ctx, targetType, targetID)
	if err != nil {
		return 0, err
	}
	return up - down, nil
}

func (s *Store) categoryByID(ctx context.Context, id *int) (*models.Category, error) {
	if id == nil {
		return nil, nil
	}
	var c models.Category
	if err := s.db.WithContext(ctx).First(&c, *id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperrors.Upstream(err)
	}
	return &c, nil
}

func (s *Store) communityByID(ctx context.Context, id *int) (*models.Community, error) {
	if id == nil {
		return nil, nil
	}
	var c models.Community
	if err := s.db.WithContext(ctx).Preload("Moderator").First(&c, *id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperrors.Upstream(err)
	}
	return &c, nil
}
