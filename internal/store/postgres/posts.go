package postgres

import (
	"context"

	"github.com/medvoyage/community-backend/internal/apperrors"
	"github.com/medvoyage/community-backend/internal/mapper"
	"github.com/medvoyage/community-backend/internal/models"
	"github.com/medvoyage/community-backend/internal/store"
)

func (s *Store) commentCount(ctx context.Context, postID int) (int, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Comment{}).
		Where("post_id = ? AND is_deleted = ?", postID, false).
		Count(&n).Error
	if err != nil {
		return 0, apperrors.Upstream(err)
	}
	return int(n), nil
}

func (s *Store) mapPost(ctx context.Context, p models.Post) (*mapper.Post, error) {
	category, err := s.categoryByID(ctx, p.CategoryID)
	if err != nil {
		return nil, err
	}
	community, err := s.communityByID(ctx, p.CommunityID)
	if err != nil {
		return nil, err
	}
	comments, err := s.commentCount(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	score, err := s.score(ctx, models.TargetPost, p.ID)
	if err != nil {
		return nil, err
	}
	out := mapper.PostFromRow(p, category, community, comments, score)
	return &out, nil
}

// CreatePost inserts the post. The schema carries no constraint on the
// category and community columns, so both references are resolved here
// before the insert. A category id that does not resolve is retried as a
// community reference; the two concepts are overloaded in parts of the
// upstream schema.
func (s *Store) CreatePost(ctx context.Context, p *models.Post) (*mapper.Post, error) {
	category, err := s.categoryByID(ctx, p.CategoryID)
	if err != nil {
		return nil, err
	}
	var community *models.Community
	if p.CategoryID != nil && category == nil {
		community, err = s.communityByID(ctx, p.CategoryID)
		if err != nil {
			return nil, err
		}
		if community == nil {
			return nil, apperrors.Invalid("category reference does not exist")
		}
		p.CommunityID = p.CategoryID
		p.CategoryID = nil
	}
	if p.CommunityID != nil && community == nil {
		community, err = s.communityByID(ctx, p.CommunityID)
		if err != nil {
			return nil, err
		}
		if community == nil {
			return nil, apperrors.Invalid("community reference does not exist")
		}
	}

	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		return nil, apperrors.Upstream(err)
	}
	if err := s.db.WithContext(ctx).Preload("User").First(p, p.ID).Error; err != nil {
		return nil, apperrors.Upstream(err)
	}
	return s.mapPost(ctx, *p)
}

func (s *Store) PostByID(ctx context.Context, id int) (*mapper.Post, error) {
	var p models.Post
	err := s.db.WithContext(ctx).Preload("User").
		Where("is_deleted = ?", false).First(&p, id).Error
	if err != nil {
		return nil, notFoundOr(err, "post")
	}
	return s.mapPost(ctx, p)
}

func (s *Store) ListPosts(ctx context.Context, f store.PostFilter) ([]mapper.Post, error) {
	query := s.db.WithContext(ctx).Preload("User").Where("is_deleted = ?", false)
	if f.CategoryID != nil {
		query = query.Where("category_id = ?", *f.CategoryID)
	}
	if f.CommunityID != nil {
		query = query.Where("community_id = ?", *f.CommunityID)
	}
	if f.AuthorID != nil {
		query = query.Where("author_id = ?", *f.AuthorID)
	}

	var rows []models.Post
	if err := query.Order("created_at desc").Find(&rows).Error; err != nil {
		return nil, apperrors.Upstream(err)
	}

	out := make([]mapper.Post, 0, len(rows))
	for _, p := range rows {
		mapped, err := s.mapPost(ctx, p)
		if err != nil {
			return nil, err
		}
		out = append(out, *mapped)
	}
	return out, nil
}

func (s *Store) SoftDeletePost(ctx context.Context, id int) error {
	return s.setPostFlag(ctx, id, "is_deleted")
}

func (s *Store) ReportPost(ctx context.Context, id int) error {
	return s.setPostFlag(ctx, id, "is_reported")
}

func (s *Store) setPostFlag(ctx context.Context, id int, column string) error {
	res := s.db.WithContext(ctx).Model(&models.Post{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Update(column, true)
	if res.Error != nil {
		return apperrors.Upstream(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("post")
	}
	return nil
}

// === Comments ===

func (s *Store) CreateComment(ctx context.Context, c *models.Comment) (*mapper.Comment, error) {
	if (c.PostID == nil) == (c.AnswerID == nil) {
		return nil, apperrors.Invalid("comment must reference exactly one of post or answer")
	}
	if c.PostID != nil {
		var p models.Post
		if err := s.db.WithContext(ctx).Where("is_deleted = ?", false).First(&p, *c.PostID).Error; err != nil {
			return nil, notFoundOr(err, "post")
		}
	}
	if c.AnswerID != nil {
		var a models.Answer
		if err := s.db.WithContext(ctx).Where("is_deleted = ?", false).First(&a, *c.AnswerID).Error; err != nil {
			return nil, notFoundOr(err, "answer")
		}
	}
	if c.ParentCommentID != nil {
		var parent models.Comment
		if err := s.db.WithContext(ctx).Where("is_deleted = ?", false).First(&parent, *c.ParentCommentID).Error; err != nil {
			return nil, notFoundOr(err, "parent comment")
		}
	}
	if err := s.db.WithContext(ctx).Create(c).Error; err != nil {
		return nil, apperrors.Upstream(err)
	}
	if err := s.db.WithContext(ctx).Preload("User").First(c, c.ID).Error; err != nil {
		return nil, apperrors.Upstream(err)
	}
	out := mapper.CommentFromRow(*c, 0)
	return &out, nil
}

func (s *Store) CommentByID(ctx context.Context, id int) (*mapper.Comment, error) {
	var c models.Comment
	err := s.db.WithContext(ctx).Preload("User").
		Where("is_deleted = ?", false).First(&c, id).Error
	if err != nil {
		return nil, notFoundOr(err, "comment")
	}
	score, err := s.score(ctx, models.TargetComment, id)
	if err != nil {
		return nil, err
	}
	out := mapper.CommentFromRow(c, score)
	return &out, nil
}

func (s *Store) CommentsForPost(ctx context.Context, postID int) ([]mapper.Comment, error) {
	return s.listComments(ctx, "post_id = ?", postID)
}

func (s *Store) CommentsForAnswer(ctx context.Context, answerID int) ([]mapper.Comment, error) {
	return s.listComments(ctx, "answer_id = ?", answerID)
}

func (s *Store) listComments(ctx context.Context, cond string, arg int) ([]mapper.Comment, error) {
	var rows []models.Comment
	err := s.db.WithContext(ctx).Preload("User").
		Where(cond, arg).Where("is_deleted = ?", false).
		Order("created_at asc").Find(&rows).Error
	if err != nil {
		return nil, apperrors.Upstream(err)
	}
	out := make([]mapper.Comment, 0, len(rows))
	for _, c := range rows {
		score, err := s.score(ctx, models.TargetComment, c.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, mapper.CommentFromRow(c, score))
	}
	return out, nil
}

func (s *Store) SoftDeleteComment(ctx context.Context, id int) error {
	return s.setCommentFlag(ctx, id, "is_deleted")
}

func (s *Store) ReportComment(ctx context.Context, id int) error {
	return s.setCommentFlag(ctx, id, "is_reported")
}

func (s *Store) setCommentFlag(ctx context.Context, id int, column string) error {
	res := s.db.WithContext(ctx).Model(&models.Comment{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Update(column, true)
	if res.Error != nil {
		return apperrors.Upstream(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("comment")
	}
	return nil
}
