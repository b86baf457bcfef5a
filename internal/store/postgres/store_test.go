package postgres

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/medvoyage/community-backend/internal/apperrors"
	"github.com/medvoyage/community-backend/internal/models"
	"github.com/medvoyage/community-backend/internal/store"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gdb, err := gorm.Open(pgdriver.New(pgdriver.Config{Conn: db}), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	return New(gdb), mock
}

func TestVoteTally(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "votes"`).
		WithArgs(models.TargetPost, 7, models.Upvote).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "votes"`).
		WithArgs(models.TargetPost, 7, models.Downvote).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	up, down, err := s.VoteTally(context.Background(), models.TargetPost, 7)
	require.NoError(t, err)
	assert.Equal(t, 3, up)
	assert.Equal(t, 1, down)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserVoteMissingRowIsZero(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT \* FROM "votes"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "target_type", "target_id", "value"}))

	v, err := s.UserVote(context.Background(), 4, models.TargetQuestion, 9)
	require.NoError(t, err)
	assert.Equal(t, 0, v)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTargetExistsFiltersDeleted(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "posts"`).
		WithArgs(12, false).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	exists, err := s.TargetExists(context.Background(), models.TargetPost, 12)
	require.NoError(t, err)
	assert.False(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTargetExistsUnknownType(t *testing.T) {
	s, _ := newMockStore(t)
	_, err := s.TargetExists(context.Background(), "clinic", 1)
	assert.True(t, apperrors.Is(err, apperrors.CodeInvalidInput))
}

func TestUserByEmailNotFound(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT \* FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email"}))

	_, err := s.UserByEmail(context.Background(), "nobody@example.com")
	assert.True(t, apperrors.Is(err, apperrors.CodeNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertVoteToggleOff(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT \* FROM "votes"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "target_type", "target_id", "value"}).
			AddRow(1, 4, models.TargetPost, 7, models.Upvote))
	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "votes"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	outcome, err := s.UpsertVote(context.Background(), 4, models.TargetPost, 7, models.Upvote)
	require.NoError(t, err)
	assert.Equal(t, store.VoteRemoved, outcome)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertVoteSwitchesDirection(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT \* FROM "votes"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "target_type", "target_id", "value"}).
			AddRow(1, 4, models.TargetPost, 7, models.Upvote))
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "votes"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	outcome, err := s.UpsertVote(context.Background(), 4, models.TargetPost, 7, models.Downvote)
	require.NoError(t, err)
	assert.Equal(t, store.VoteUpdated, outcome)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateQuestionRejectsDanglingCategory(t *testing.T) {
	s, mock := newMockStore(t)

	// The reference is resolved before any insert; an empty result means
	// the create never reaches the database.
	mock.ExpectQuery(`SELECT \* FROM "categories"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "slug"}))

	missing := 404
	_, err := s.CreateQuestion(context.Background(), &models.Question{
		Title:      "Dangling reference",
		AuthorID:   3,
		CategoryID: &missing,
	})
	assert.True(t, apperrors.Is(err, apperrors.CodeInvalidInput))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreatePostRejectsDanglingReference(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT \* FROM "categories"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "slug"}))
	mock.ExpectQuery(`SELECT \* FROM "communities"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "slug", "moderator_id"}))

	missing := 404
	_, err := s.CreatePost(context.Background(), &models.Post{
		Title:      "Dangling reference",
		AuthorID:   3,
		CategoryID: &missing,
	})
	assert.True(t, apperrors.Is(err, apperrors.CodeInvalidInput))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreatePostCategoryFallsBackToCommunity(t *testing.T) {
	s, mock := newMockStore(t)

	communityRows := func() *sqlmock.Rows {
		return sqlmock.NewRows([]string{"id", "title", "slug", "moderator_id"}).
			AddRow(5, "Istanbul Dental", "istanbul-dental", 3)
	}
	userRows := func() *sqlmock.Rows {
		return sqlmock.NewRows([]string{"id", "username"}).
			AddRow(3, "anaPetrova4821")
	}

	// Category id 5 does not resolve; the same id resolves as a community.
	mock.ExpectQuery(`SELECT \* FROM "categories"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "slug"}))
	mock.ExpectQuery(`SELECT \* FROM "communities"`).WillReturnRows(communityRows())
	mock.ExpectQuery(`SELECT \* FROM "users"`).WillReturnRows(userRows())

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "posts"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(10))
	mock.ExpectCommit()

	// Reload with author, then the canonical mapping queries.
	mock.ExpectQuery(`SELECT \* FROM "posts"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "author_id", "community_id"}).
			AddRow(10, "My crown story", 3, 5))
	mock.ExpectQuery(`SELECT \* FROM "users"`).WillReturnRows(userRows())
	mock.ExpectQuery(`SELECT \* FROM "communities"`).WillReturnRows(communityRows())
	mock.ExpectQuery(`SELECT \* FROM "users"`).WillReturnRows(userRows())
	mock.ExpectQuery(`SELECT count\(\*\) FROM "comments"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "votes"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "votes"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	categoryID := 5
	created, err := s.CreatePost(context.Background(), &models.Post{
		Title:      "My crown story",
		AuthorID:   3,
		CategoryID: &categoryID,
	})
	require.NoError(t, err)
	assert.Nil(t, created.Category)
	require.NotNil(t, created.Community)
	assert.Equal(t, "istanbul-dental", created.Community.Slug.Current)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSoftDeleteQuestionMissing(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "questions"`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := s.SoftDeleteQuestion(context.Background(), 999)
	assert.True(t, apperrors.Is(err, apperrors.CodeNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}
