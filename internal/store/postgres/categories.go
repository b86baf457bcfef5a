package postgres

import (
	"context"
	"errors"
	"sort"

	"gorm.io/gorm"

	"github.com/medvoyage/community-backend/internal/apperrors"
	"github.com/medvoyage/community-backend/internal/mapper"
	"github.com/medvoyage/community-backend/internal/models"
)

// categoryCounts runs the live join counts for one category. Counts are
// always consistent with the current soft-delete state at the price of a
// query per entity type per category.
func (s *Store) categoryCounts(ctx context.Context, categoryID int) (questions, posts, polls int, err error) {
	var q, p, pl int64
	if err := s.db.WithContext(ctx).Model(&models.Question{}).
		Where("category_id = ? AND is_deleted = ?", categoryID, false).
		Count(&q).Error; err != nil {
		return 0, 0, 0, apperrors.Upstream(err)
	}
	if err := s.db.WithContext(ctx).Model(&models.Post{}).
		Where("category_id = ? AND is_deleted = ?", categoryID, false).
		Count(&p).Error; err != nil {
		return 0, 0, 0, apperrors.Upstream(err)
	}
	if err := s.db.WithContext(ctx).Model(&models.Poll{}).
		Where("category_id = ?", categoryID).
		Count(&pl).Error; err != nil {
		return 0, 0, 0, apperrors.Upstream(err)
	}
	return int(q), int(p), int(pl), nil
}

func (s *Store) mapCategory(ctx context.Context, c models.Category) (*mapper.Category, error) {
	q, p, pl, err := s.categoryCounts(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	out := mapper.CategoryFromRow(c, q, p, pl)
	return &out, nil
}

func (s *Store) CreateCategory(ctx context.Context, c *models.Category) (*mapper.Category, error) {
	if err := s.db.WithContext(ctx).Create(c).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.Duplicate("category")
		}
		return nil, apperrors.Upstream(err)
	}
	out := mapper.CategoryFromRow(*c, 0, 0, 0)
	return &out, nil
}

func (s *Store) ListCategories(ctx context.Context) ([]mapper.Category, error) {
	var rows []models.Category
	if err := s.db.WithContext(ctx).Order("id asc").Find(&rows).Error; err != nil {
		return nil, apperrors.Upstream(err)
	}
	out := make([]mapper.Category, 0, len(rows))
	for _, c := range rows {
		mapped, err := s.mapCategory(ctx, c)
		if err != nil {
			return nil, err
		}
		out = append(out, *mapped)
	}
	return out, nil
}

func (s *Store) CategoryBySlug(ctx context.Context, slug string) (*mapper.Category, error) {
	var c models.Category
	if err := s.db.WithContext(ctx).Where("slug = ?", slug).First(&c).Error; err != nil {
		return nil, notFoundOr(err, "category")
	}
	return s.mapCategory(ctx, c)
}

func (s *Store) TrendingCategories(ctx context.Context, n int) ([]mapper.Category, error) {
	cats, err := s.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	// Stable sort keeps the listing order for equal activity.
	sort.SliceStable(cats, func(i, j int) bool {
		return cats[i].QuestionCount+cats[i].PostCount > cats[j].QuestionCount+cats[j].PostCount
	})
	if n > 0 && len(cats) > n {
		cats = cats[:n]
	}
	return cats, nil
}

// === Communities ===

func (s *Store) CreateCommunity(ctx context.Context, c *models.Community) (*mapper.Community, error) {
	if err := s.db.WithContext(ctx).Create(c).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.Duplicate("community")
		}
		return nil, apperrors.Upstream(err)
	}
	if err := s.db.WithContext(ctx).Preload("Moderator").First(c, c.ID).Error; err != nil {
		return nil, apperrors.Upstream(err)
	}
	out := mapper.CommunityFromRow(*c)
	return &out, nil
}

func (s *Store) ListCommunities(ctx context.Context) ([]mapper.Community, error) {
	var rows []models.Community
	if err := s.db.WithContext(ctx).Preload("Moderator").Order("id asc").Find(&rows).Error; err != nil {
		return nil, apperrors.Upstream(err)
	}
	out := make([]mapper.Community, 0, len(rows))
	for _, c := range rows {
		out = append(out, mapper.CommunityFromRow(c))
	}
	return out, nil
}

func (s *Store) CommunityBySlug(ctx context.Context, slug string) (*mapper.Community, error) {
	var c models.Community
	if err := s.db.WithContext(ctx).Preload("Moderator").Where("slug = ?", slug).First(&c).Error; err != nil {
		return nil, notFoundOr(err, "community")
	}
	out := mapper.CommunityFromRow(c)
	return &out, nil
}
