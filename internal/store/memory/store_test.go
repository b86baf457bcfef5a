package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medvoyage/community-backend/internal/apperrors"
	"github.com/medvoyage/community-backend/internal/models"
	"github.com/medvoyage/community-backend/internal/store"
)

func newUser(t *testing.T, s *Store, username string) *models.User {
	t.Helper()
	u := &models.User{
		Username:   username,
		Email:      username + "@example.com",
		ExternalID: "prov-" + username,
	}
	require.NoError(t, s.CreateUser(context.Background(), u))
	return u
}

func TestCreateQuestionDefaults(t *testing.T) {
	s := New()
	ctx := context.Background()
	ana := newUser(t, s, "anaPetrova4821")

	q, err := s.CreateQuestion(ctx, &models.Question{
		Title:    "Dental implants in Budapest?",
		AuthorID: ana.ID,
	})
	require.NoError(t, err)

	assert.Equal(t, 0, q.AnswerCount)
	assert.Equal(t, 0, q.ViewCount)
	assert.False(t, q.IsDeleted)
	assert.False(t, q.IsAnswered)
	assert.False(t, q.IsClosed)
	assert.Equal(t, "anaPetrova4821", q.Author.Username)
	assert.NotNil(t, q.Tags)
}

func TestCreateUserDuplicates(t *testing.T) {
	s := New()
	ctx := context.Background()
	newUser(t, s, "anaPetrova4821")

	err := s.CreateUser(ctx, &models.User{Username: "anaPetrova4821", Email: "other@example.com"})
	assert.True(t, apperrors.Is(err, apperrors.CodeDuplicate))

	err = s.CreateUser(ctx, &models.User{Username: "other", Email: "anaPetrova4821@example.com"})
	assert.True(t, apperrors.Is(err, apperrors.CodeDuplicate))
}

func TestSoftDeletedQuestionIsInvisible(t *testing.T) {
	s := New()
	ctx := context.Background()
	ana := newUser(t, s, "anaPetrova4821")

	q := &models.Question{Title: "Cheap veneers?", AuthorID: ana.ID}
	_, err := s.CreateQuestion(ctx, q)
	require.NoError(t, err)

	require.NoError(t, s.SoftDeleteQuestion(ctx, q.ID))

	_, _, err = s.QuestionByID(ctx, q.ID)
	assert.True(t, apperrors.Is(err, apperrors.CodeNotFound))

	list, err := s.ListQuestions(ctx, store.QuestionFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)

	// Deleting twice reports not found, same as a read.
	err = s.SoftDeleteQuestion(ctx, q.ID)
	assert.True(t, apperrors.Is(err, apperrors.CodeNotFound))
}

func TestDeletedAnswersExcludedFromCounts(t *testing.T) {
	s := New()
	ctx := context.Background()
	ana := newUser(t, s, "anaPetrova4821")
	jan := newUser(t, s, "janKowalski3291")

	q := &models.Question{Title: "Knee surgery recovery time?", AuthorID: ana.ID}
	_, err := s.CreateQuestion(ctx, q)
	require.NoError(t, err)

	a1 := &models.Answer{QuestionID: q.ID, AuthorID: jan.ID, Content: "Six weeks"}
	_, err = s.CreateAnswer(ctx, a1)
	require.NoError(t, err)
	a2 := &models.Answer{QuestionID: q.ID, AuthorID: ana.ID, Content: "Depends on the clinic"}
	_, err = s.CreateAnswer(ctx, a2)
	require.NoError(t, err)

	require.NoError(t, s.SoftDeleteAnswer(ctx, a1.ID))

	got, answers, err := s.QuestionByID(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.AnswerCount)
	require.Len(t, answers, 1)
	assert.Equal(t, a2.ID, answers[0].ID)
}

func TestAcceptAnswerExclusive(t *testing.T) {
	s := New()
	ctx := context.Background()
	ana := newUser(t, s, "anaPetrova4821")
	jan := newUser(t, s, "janKowalski3291")

	q := &models.Question{Title: "Best lasik clinic?", AuthorID: ana.ID}
	_, err := s.CreateQuestion(ctx, q)
	require.NoError(t, err)

	a1 := &models.Answer{QuestionID: q.ID, AuthorID: jan.ID, Content: "Clinic A"}
	_, err = s.CreateAnswer(ctx, a1)
	require.NoError(t, err)
	a2 := &models.Answer{QuestionID: q.ID, AuthorID: jan.ID, Content: "Clinic B"}
	_, err = s.CreateAnswer(ctx, a2)
	require.NoError(t, err)

	require.NoError(t, s.AcceptAnswer(ctx, a1.ID))
	require.NoError(t, s.AcceptAnswer(ctx, a2.ID))

	got, answers, err := s.QuestionByID(ctx, q.ID)
	require.NoError(t, err)
	assert.True(t, got.IsAnswered)

	accepted := 0
	for _, a := range answers {
		if a.IsAccepted {
			accepted++
			assert.Equal(t, a2.ID, a.ID)
		}
	}
	assert.Equal(t, 1, accepted)
}

func TestDeleteAcceptedAnswerClearsAnswered(t *testing.T) {
	s := New()
	ctx := context.Background()
	ana := newUser(t, s, "anaPetrova4821")

	q := &models.Question{Title: "Visa for treatment?", AuthorID: ana.ID}
	_, err := s.CreateQuestion(ctx, q)
	require.NoError(t, err)
	a := &models.Answer{QuestionID: q.ID, AuthorID: ana.ID, Content: "Yes but slow"}
	_, err = s.CreateAnswer(ctx, a)
	require.NoError(t, err)

	require.NoError(t, s.AcceptAnswer(ctx, a.ID))
	require.NoError(t, s.SoftDeleteAnswer(ctx, a.ID))

	got, _, err := s.QuestionByID(ctx, q.ID)
	require.NoError(t, err)
	assert.False(t, got.IsAnswered)
}

func TestClosedQuestionRejectsAnswers(t *testing.T) {
	s := New()
	ctx := context.Background()
	ana := newUser(t, s, "anaPetrova4821")

	q := &models.Question{Title: "Old thread", AuthorID: ana.ID}
	_, err := s.CreateQuestion(ctx, q)
	require.NoError(t, err)
	require.NoError(t, s.CloseQuestion(ctx, q.ID))

	_, err = s.CreateAnswer(ctx, &models.Answer{QuestionID: q.ID, AuthorID: ana.ID, Content: "late"})
	assert.True(t, apperrors.Is(err, apperrors.CodeInvalidInput))
}

func TestCreatePostCategoryFallsBackToCommunity(t *testing.T) {
	s := New()
	ctx := context.Background()
	ana := newUser(t, s, "anaPetrova4821")

	community := &models.Community{Title: "Istanbul Dental", Slug: "istanbul-dental", ModeratorID: ana.ID}
	_, err := s.CreateCommunity(ctx, community)
	require.NoError(t, err)

	// The reference points at a community id even though it arrived in the
	// category field.
	p := &models.Post{Title: "My crown story", AuthorID: ana.ID, CategoryID: &community.ID}
	created, err := s.CreatePost(ctx, p)
	require.NoError(t, err)

	assert.Nil(t, created.Category)
	require.NotNil(t, created.Community)
	assert.Equal(t, "istanbul-dental", created.Community.Slug.Current)
}

func TestCreatePostRejectsDanglingReference(t *testing.T) {
	s := New()
	ctx := context.Background()
	ana := newUser(t, s, "anaPetrova4821")

	missing := 404
	_, err := s.CreatePost(ctx, &models.Post{Title: "x", AuthorID: ana.ID, CategoryID: &missing})
	assert.True(t, apperrors.Is(err, apperrors.CodeInvalidInput))
}

func TestCategoryCountsExcludeDeleted(t *testing.T) {
	s := New()
	ctx := context.Background()
	ana := newUser(t, s, "anaPetrova4821")

	cat := &models.Category{Name: "Dental", Slug: "dental"}
	_, err := s.CreateCategory(ctx, cat)
	require.NoError(t, err)

	q1 := &models.Question{Title: "q1", AuthorID: ana.ID, CategoryID: &cat.ID}
	_, err = s.CreateQuestion(ctx, q1)
	require.NoError(t, err)
	q2 := &models.Question{Title: "q2", AuthorID: ana.ID, CategoryID: &cat.ID}
	_, err = s.CreateQuestion(ctx, q2)
	require.NoError(t, err)
	p := &models.Post{Title: "p1", AuthorID: ana.ID, CategoryID: &cat.ID}
	_, err = s.CreatePost(ctx, p)
	require.NoError(t, err)

	require.NoError(t, s.SoftDeleteQuestion(ctx, q2.ID))

	got, err := s.CategoryBySlug(ctx, "dental")
	require.NoError(t, err)
	assert.Equal(t, 1, got.QuestionCount)
	assert.Equal(t, 1, got.PostCount)
}

func TestTrendingCategoriesOrder(t *testing.T) {
	s := New()
	ctx := context.Background()
	ana := newUser(t, s, "anaPetrova4821")

	quiet := &models.Category{Name: "Quiet", Slug: "quiet"}
	_, err := s.CreateCategory(ctx, quiet)
	require.NoError(t, err)
	busy := &models.Category{Name: "Busy", Slug: "busy"}
	_, err = s.CreateCategory(ctx, busy)
	require.NoError(t, err)
	alsoQuiet := &models.Category{Name: "Also Quiet", Slug: "also-quiet"}
	_, err = s.CreateCategory(ctx, alsoQuiet)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err = s.CreateQuestion(ctx, &models.Question{Title: "q", AuthorID: ana.ID, CategoryID: &busy.ID})
		require.NoError(t, err)
	}

	got, err := s.TrendingCategories(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "busy", got[0].Slug.Current)
	// Equal activity keeps creation order.
	assert.Equal(t, "quiet", got[1].Slug.Current)
	assert.Equal(t, "also-quiet", got[2].Slug.Current)
}

func TestCommentRequiresExactlyOneParent(t *testing.T) {
	s := New()
	ctx := context.Background()
	ana := newUser(t, s, "anaPetrova4821")

	p := &models.Post{Title: "post", AuthorID: ana.ID}
	_, err := s.CreatePost(ctx, p)
	require.NoError(t, err)

	_, err = s.CreateComment(ctx, &models.Comment{Body: "orphan", AuthorID: ana.ID})
	assert.True(t, apperrors.Is(err, apperrors.CodeInvalidInput))

	answerID := 1
	_, err = s.CreateComment(ctx, &models.Comment{Body: "both", AuthorID: ana.ID, PostID: &p.ID, AnswerID: &answerID})
	assert.True(t, apperrors.Is(err, apperrors.CodeInvalidInput))

	_, err = s.CreateComment(ctx, &models.Comment{Body: "ok", AuthorID: ana.ID, PostID: &p.ID})
	assert.NoError(t, err)
}

func TestVotePollRules(t *testing.T) {
	s := New()
	ctx := context.Background()
	ana := newUser(t, s, "anaPetrova4821")
	jan := newUser(t, s, "janKowalski3291")

	poll := &models.Poll{
		Question:  "Which country for IVF?",
		AuthorID:  &ana.ID,
		ExpiresAt: time.Now().Add(time.Hour),
		Options:   []models.PollOption{{Label: "Spain"}, {Label: "Czechia"}},
	}
	_, err := s.CreatePoll(ctx, poll)
	require.NoError(t, err)

	got, err := s.VotePoll(ctx, poll.ID, 2, jan.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.TotalVotes)
	assert.Equal(t, 1, got.Options[1].VoteCount)

	_, err = s.VotePoll(ctx, poll.ID, 1, jan.ID)
	assert.True(t, apperrors.Is(err, apperrors.CodeDuplicate))

	_, err = s.VotePoll(ctx, poll.ID, 3, ana.ID)
	assert.True(t, apperrors.Is(err, apperrors.CodeInvalidInput))
}

func TestVotePollExpired(t *testing.T) {
	s := New()
	ctx := context.Background()
	ana := newUser(t, s, "anaPetrova4821")

	poll := &models.Poll{
		Question:  "Closed poll",
		AuthorID:  &ana.ID,
		ExpiresAt: time.Now().Add(-time.Minute),
		Options:   []models.PollOption{{Label: "A"}, {Label: "B"}},
	}
	_, err := s.CreatePoll(ctx, poll)
	require.NoError(t, err)

	_, err = s.VotePoll(ctx, poll.ID, 1, ana.ID)
	assert.True(t, apperrors.Is(err, apperrors.CodeInvalidInput))
}

func TestListQuestionsSearch(t *testing.T) {
	s := New()
	ctx := context.Background()
	ana := newUser(t, s, "anaPetrova4821")

	_, err := s.CreateQuestion(ctx, &models.Question{Title: "Dental implants abroad", AuthorID: ana.ID})
	require.NoError(t, err)
	_, err = s.CreateQuestion(ctx, &models.Question{Title: "Knee surgery", Description: "implant options", AuthorID: ana.ID})
	require.NoError(t, err)
	_, err = s.CreateQuestion(ctx, &models.Question{Title: "Visa help", AuthorID: ana.ID})
	require.NoError(t, err)

	got, err := s.ListQuestions(ctx, store.QuestionFilter{Search: "IMPLANT"})
	require.NoError(t, err)
	assert.Len(t, got, 2)
}
