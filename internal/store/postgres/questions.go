package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/medvoyage/community-backend/internal/apperrors"
	"github.com/medvoyage/community-backend/internal/mapper"
	"github.com/medvoyage/community-backend/internal/models"
	"github.com/medvoyage/community-backend/internal/store"
)

func (s *Store) answerCount(ctx context.Context, questionID int) (int, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Answer{}).
		Where("question_id = ? AND is_deleted = ?", questionID, false).
		Count(&n).Error
	if err != nil {
		return 0, apperrors.Upstream(err)
	}
	return int(n), nil
}

func (s *Store) mapQuestion(ctx context.Context, q models.Question) (*mapper.Question, error) {
	category, err := s.categoryByID(ctx, q.CategoryID)
	if err != nil {
		return nil, err
	}
	answers, err := s.answerCount(ctx, q.ID)
	if err != nil {
		return nil, err
	}
	score, err := s.score(ctx, models.TargetQuestion, q.ID)
	if err != nil {
		return nil, err
	}
	out := mapper.QuestionFromRow(q, category, answers, score)
	return &out, nil
}

func (s *Store) CreateQuestion(ctx context.Context, q *models.Question) (*mapper.Question, error) {
	// No constraint on the category column; the reference is resolved here
	// before the insert.
	category, err := s.categoryByID(ctx, q.CategoryID)
	if err != nil {
		return nil, err
	}
	if q.CategoryID != nil && category == nil {
		return nil, apperrors.Invalid("category reference does not exist")
	}

	if err := s.db.WithContext(ctx).Create(q).Error; err != nil {
		return nil, apperrors.Upstream(err)
	}
	if err := s.db.WithContext(ctx).Preload("User").First(q, q.ID).Error; err != nil {
		return nil, apperrors.Upstream(err)
	}
	return s.mapQuestion(ctx, *q)
}

func (s *Store) QuestionByID(ctx context.Context, id int) (*mapper.Question, []mapper.Answer, error) {
	var q models.Question
	err := s.db.WithContext(ctx).Preload("User").
		Where("is_deleted = ?", false).First(&q, id).Error
	if err != nil {
		return nil, nil, notFoundOr(err, "question")
	}

	mapped, err := s.mapQuestion(ctx, q)
	if err != nil {
		return nil, nil, err
	}

	var rows []models.Answer
	err = s.db.WithContext(ctx).Preload("User").
		Where("question_id = ? AND is_deleted = ?", id, false).
		Order("created_at asc").Find(&rows).Error
	if err != nil {
		return nil, nil, apperrors.Upstream(err)
	}

	answers := make([]mapper.Answer, 0, len(rows))
	for _, a := range rows {
		score, err := s.score(ctx, models.TargetAnswer, a.ID)
		if err != nil {
			return nil, nil, err
		}
		comments, err := s.CommentsForAnswer(ctx, a.ID)
		if err != nil {
			return nil, nil, err
		}
		answers = append(answers, mapper.AnswerFromRow(a, score, comments))
	}
	return mapped, answers, nil
}

func (s *Store) ListQuestions(ctx context.Context, f store.QuestionFilter) ([]mapper.Question, error) {
	query := s.db.WithContext(ctx).Preload("User").Where("is_deleted = ?", false)
	if f.CategoryID != nil {
		query = query.Where("category_id = ?", *f.CategoryID)
	}
	if f.AuthorID != nil {
		query = query.Where("author_id = ?", *f.AuthorID)
	}
	if f.Search != "" {
		pattern := "%" + f.Search + "%"
		query = query.Where("title ILIKE ? OR description ILIKE ?", pattern, pattern)
	}

	var rows []models.Question
	if err := query.Order("created_at desc").Find(&rows).Error; err != nil {
		return nil, apperrors.Upstream(err)
	}

	out := make([]mapper.Question, 0, len(rows))
	for _, q := range rows {
		mapped, err := s.mapQuestion(ctx, q)
		if err != nil {
			return nil, err
		}
		out = append(out, *mapped)
	}
	return out, nil
}

func (s *Store) SoftDeleteQuestion(ctx context.Context, id int) error {
	return s.setQuestionFlag(ctx, id, "is_deleted")
}

func (s *Store) CloseQuestion(ctx context.Context, id int) error {
	return s.setQuestionFlag(ctx, id, "is_closed")
}

func (s *Store) setQuestionFlag(ctx context.Context, id int, column string) error {
	res := s.db.WithContext(ctx).Model(&models.Question{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Update(column, true)
	if res.Error != nil {
		return apperrors.Upstream(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("question")
	}
	return nil
}

func (s *Store) IncrementViews(ctx context.Context, id int) error {
	res := s.db.WithContext(ctx).Model(&models.Question{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Update("view_count", gorm.Expr("view_count + 1"))
	if res.Error != nil {
		return apperrors.Upstream(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("question")
	}
	return nil
}

// === Answers ===

func (s *Store) CreateAnswer(ctx context.Context, a *models.Answer) (*mapper.Answer, error) {
	var q models.Question
	err := s.db.WithContext(ctx).Where("is_deleted = ?", false).First(&q, a.QuestionID).Error
	if err != nil {
		return nil, notFoundOr(err, "question")
	}
	if q.IsClosed {
		return nil, apperrors.Invalid("question is closed")
	}
	if err := s.db.WithContext(ctx).Create(a).Error; err != nil {
		return nil, apperrors.Upstream(err)
	}
	if err := s.db.WithContext(ctx).Preload("User").First(a, a.ID).Error; err != nil {
		return nil, apperrors.Upstream(err)
	}
	out := mapper.AnswerFromRow(*a, 0, nil)
	return &out, nil
}

func (s *Store) AnswerByID(ctx context.Context, id int) (*mapper.Answer, error) {
	var a models.Answer
	err := s.db.WithContext(ctx).Preload("User").
		Where("is_deleted = ?", false).First(&a, id).Error
	if err != nil {
		return nil, notFoundOr(err, "answer")
	}
	score, err := s.score(ctx, models.TargetAnswer, id)
	if err != nil {
		return nil, err
	}
	comments, err := s.CommentsForAnswer(ctx, id)
	if err != nil {
		return nil, err
	}
	out := mapper.AnswerFromRow(a, score, comments)
	return &out, nil
}

// AcceptAnswer marks one answer accepted and clears any sibling in the same
// transaction, keeping at most one accepted answer per question.
func (s *Store) AcceptAnswer(ctx context.Context, id int) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var a models.Answer
		if err := tx.Where("is_deleted = ?", false).First(&a, id).Error; err != nil {
			return notFoundOr(err, "answer")
		}
		if err := tx.Model(&models.Answer{}).
			Where("question_id = ?", a.QuestionID).
			Update("is_accepted", false).Error; err != nil {
			return apperrors.Upstream(err)
		}
		if err := tx.Model(&models.Answer{}).
			Where("id = ?", a.ID).
			Update("is_accepted", true).Error; err != nil {
			return apperrors.Upstream(err)
		}
		return tx.Model(&models.Question{}).
			Where("id = ?", a.QuestionID).
			Update("is_answered", true).Error
	})
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return appErr
		}
		return apperrors.Upstream(err)
	}
	return nil
}

func (s *Store) SoftDeleteAnswer(ctx context.Context, id int) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var a models.Answer
		if err := tx.Where("is_deleted = ?", false).First(&a, id).Error; err != nil {
			return notFoundOr(err, "answer")
		}
		updates := map[string]interface{}{"is_deleted": true, "is_accepted": false}
		if err := tx.Model(&models.Answer{}).Where("id = ?", a.ID).Updates(updates).Error; err != nil {
			return apperrors.Upstream(err)
		}
		if a.IsAccepted {
			return tx.Model(&models.Question{}).
				Where("id = ?", a.QuestionID).
				Update("is_answered", false).Error
		}
		return nil
	})
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return appErr
		}
		return apperrors.Upstream(err)
	}
	return nil
}
