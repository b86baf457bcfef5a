package votes_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medvoyage/community-backend/internal/models"
	"github.com/medvoyage/community-backend/internal/store"
	"github.com/medvoyage/community-backend/internal/store/memory"
	"github.com/medvoyage/community-backend/internal/votes"
)

func setup(t *testing.T) (*votes.Service, *memory.Store, int, int) {
	t.Helper()
	st := memory.New()
	ctx := context.Background()

	author := &models.User{Username: "anaPetrova4821", Email: "ana@example.com", ExternalID: "prov-a"}
	require.NoError(t, st.CreateUser(ctx, author))
	voter := &models.User{Username: "janKowalski3291", Email: "jan@example.com", ExternalID: "prov-j"}
	require.NoError(t, st.CreateUser(ctx, voter))

	post := &models.Post{Title: "Hip replacement in Vilnius", AuthorID: author.ID}
	_, err := st.CreatePost(ctx, post)
	require.NoError(t, err)

	return votes.NewService(st), st, voter.ID, post.ID
}

func TestCastCreatesVote(t *testing.T) {
	svc, _, voterID, postID := setup(t)

	res, err := svc.Cast(context.Background(), voterID, models.TargetPost, postID, models.Upvote)
	require.NoError(t, err)
	assert.Equal(t, store.VoteCreated, res.Outcome)
	assert.Equal(t, 1, res.Upvotes)
	assert.Equal(t, 0, res.Downvotes)
	assert.Equal(t, 1, res.Score)
	assert.Equal(t, models.Upvote, res.UserVote)
}

func TestCastSameDirectionTogglesOff(t *testing.T) {
	svc, _, voterID, postID := setup(t)
	ctx := context.Background()

	_, err := svc.Cast(ctx, voterID, models.TargetPost, postID, models.Upvote)
	require.NoError(t, err)

	res, err := svc.Cast(ctx, voterID, models.TargetPost, postID, models.Upvote)
	require.NoError(t, err)
	assert.Equal(t, store.VoteRemoved, res.Outcome)
	assert.Equal(t, 0, res.Upvotes)
	assert.Equal(t, 0, res.Score)
	assert.Equal(t, 0, res.UserVote)
}

func TestCastOppositeDirectionSwitches(t *testing.T) {
	svc, _, voterID, postID := setup(t)
	ctx := context.Background()

	_, err := svc.Cast(ctx, voterID, models.TargetPost, postID, models.Upvote)
	require.NoError(t, err)

	res, err := svc.Cast(ctx, voterID, models.TargetPost, postID, models.Downvote)
	require.NoError(t, err)
	assert.Equal(t, store.VoteUpdated, res.Outcome)
	assert.Equal(t, 0, res.Upvotes)
	assert.Equal(t, 1, res.Downvotes)
	assert.Equal(t, -1, res.Score)
	assert.Equal(t, models.Downvote, res.UserVote)
}

func TestCastRejectsUnknownTargetType(t *testing.T) {
	svc, _, voterID, _ := setup(t)
	_, err := svc.Cast(context.Background(), voterID, "clinic", 1, models.Upvote)
	assert.Error(t, err)
}

func TestCastRejectsMissingTarget(t *testing.T) {
	svc, _, voterID, _ := setup(t)
	_, err := svc.Cast(context.Background(), voterID, models.TargetPost, 9999, models.Upvote)
	assert.Error(t, err)
}

func TestCastRejectsAnonymous(t *testing.T) {
	svc, _, _, postID := setup(t)
	_, err := svc.Cast(context.Background(), 0, models.TargetPost, postID, models.Upvote)
	assert.Error(t, err)
}

func TestCastRejectsDeletedTarget(t *testing.T) {
	svc, st, voterID, postID := setup(t)
	ctx := context.Background()
	require.NoError(t, st.SoftDeletePost(ctx, postID))

	_, err := svc.Cast(ctx, voterID, models.TargetPost, postID, models.Upvote)
	assert.Error(t, err)
}

func TestTallyAnonymousOmitsUserVote(t *testing.T) {
	svc, _, voterID, postID := setup(t)
	ctx := context.Background()

	_, err := svc.Cast(ctx, voterID, models.TargetPost, postID, models.Downvote)
	require.NoError(t, err)

	res, err := svc.Tally(ctx, 0, models.TargetPost, postID)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Downvotes)
	assert.Equal(t, 0, res.UserVote)
}
