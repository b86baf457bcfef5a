package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/medvoyage/community-backend/internal/apperrors"
	"github.com/medvoyage/community-backend/internal/models"
	"github.com/medvoyage/community-backend/internal/store"
)

func (s *Store) TargetExists(ctx context.Context, targetType string, targetID int) (bool, error) {
	var model interface{}
	switch targetType {
	case models.TargetPost:
		model = &models.Post{}
	case models.TargetComment:
		model = &models.Comment{}
	case models.TargetAnswer:
		model = &models.Answer{}
	case models.TargetQuestion:
		model = &models.Question{}
	default:
		return false, apperrors.Invalid("unknown vote target type: " + targetType)
	}

	var n int64
	err := s.db.WithContext(ctx).Model(model).
		Where("id = ? AND is_deleted = ?", targetID, false).
		Count(&n).Error
	if err != nil {
		return false, apperrors.Upstream(err)
	}
	return n > 0, nil
}

// UpsertVote keeps one vote row per (user, target). Casting the same
// direction twice removes the vote; the opposite direction switches it.
// The read-then-write sequence is not transactional: the unique index on
// (user_id, target_type, target_id) backstops the race.
func (s *Store) UpsertVote(ctx context.Context, userID int, targetType string, targetID, value int) (store.VoteOutcome, error) {
	var existing models.Vote
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND target_type = ? AND target_id = ?", userID, targetType, targetID).
		First(&existing).Error

	if err == nil {
		if existing.Value == value {
			if err := s.db.WithContext(ctx).Delete(&existing).Error; err != nil {
				return "", apperrors.Upstream(err)
			}
			return store.VoteRemoved, nil
		}
		existing.Value = value
		if err := s.db.WithContext(ctx).Save(&existing).Error; err != nil {
			return "", apperrors.Upstream(err)
		}
		return store.VoteUpdated, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", apperrors.Upstream(err)
	}

	vote := models.Vote{UserID: userID, TargetType: targetType, TargetID: targetID, Value: value}
	if err := s.db.WithContext(ctx).Create(&vote).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost the race against a concurrent vote by the same user;
			// treat the surviving row as the update target.
			err = s.db.WithContext(ctx).Model(&models.Vote{}).
				Where("user_id = ? AND target_type = ? AND target_id = ?", userID, targetType, targetID).
				Update("value", value).Error
			if err != nil {
				return "", apperrors.Upstream(err)
			}
			return store.VoteUpdated, nil
		}
		return "", apperrors.Upstream(err)
	}
	return store.VoteCreated, nil
}

func (s *Store) VoteTally(ctx context.Context, targetType string, targetID int) (int, int, error) {
	return s.tally(ctx, targetType, targetID)
}

func (s *Store) UserVote(ctx context.Context, userID int, targetType string, targetID int) (int, error) {
	var vote models.Vote
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND target_type = ? AND target_id = ?", userID, targetType, targetID).
		First(&vote).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, apperrors.Upstream(err)
	}
	return vote.Value, nil
}
