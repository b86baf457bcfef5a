package identity_test

import (
	"context"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medvoyage/community-backend/internal/identity"
	"github.com/medvoyage/community-backend/internal/store/memory"
)

func TestResolveCreatesOnFirstSight(t *testing.T) {
	st := memory.New()
	r := identity.NewResolver(st)
	ctx := context.Background()

	u, err := r.Resolve(ctx, identity.ExternalIdentity{
		ID:          "prov-abc",
		DisplayName: "ana petrova",
		Email:       "ana@example.com",
	})
	require.NoError(t, err)
	assert.NotZero(t, u.ID)
	assert.Equal(t, "ana@example.com", u.Email)
	assert.True(t, strings.HasPrefix(u.Username, "anaPetrova"), "got %q", u.Username)
}

func TestResolveReturnsExistingUnchanged(t *testing.T) {
	st := memory.New()
	r := identity.NewResolver(st)
	ctx := context.Background()

	first, err := r.Resolve(ctx, identity.ExternalIdentity{ID: "prov-abc", DisplayName: "ana petrova"})
	require.NoError(t, err)

	// Later logins with a changed display name must not touch the record.
	again, err := r.Resolve(ctx, identity.ExternalIdentity{ID: "prov-abc", DisplayName: "Ana P. Renamed"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)
	assert.Equal(t, first.Username, again.Username)
}

func TestResolveRejectsEmptyIdentity(t *testing.T) {
	r := identity.NewResolver(memory.New())
	_, err := r.Resolve(context.Background(), identity.ExternalIdentity{})
	assert.Error(t, err)
}

func TestResolveDefaultsEmail(t *testing.T) {
	r := identity.NewResolver(memory.New())
	u, err := r.Resolve(context.Background(), identity.ExternalIdentity{ID: "prov-noemail", DisplayName: "jan kowalski"})
	require.NoError(t, err)
	assert.Contains(t, u.Email, "@users.medvoyage.io")
}

func TestGenerateUsername(t *testing.T) {
	for i := 0; i < 50; i++ {
		name := identity.GenerateUsername("maria de la cruz")
		require.True(t, strings.HasPrefix(name, "mariaDeLaCruz"), "got %q", name)

		suffix, err := strconv.Atoi(name[len("mariaDeLaCruz"):])
		require.NoError(t, err)
		assert.GreaterOrEqual(t, suffix, 1000)
		assert.LessOrEqual(t, suffix, 9999)
	}
}

func TestGenerateUsernameEmptyDisplayName(t *testing.T) {
	name := identity.GenerateUsername("   ")
	assert.True(t, strings.HasPrefix(name, "traveler"), "got %q", name)
}

func TestIsOwner(t *testing.T) {
	assert.True(t, identity.IsOwner("AnaPetrova4821", "anapetrova4821"))
	assert.False(t, identity.IsOwner("anaPetrova4821", "janKowalski3291"))
	assert.False(t, identity.IsOwner("", ""))
}
