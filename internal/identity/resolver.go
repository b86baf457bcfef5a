// Package identity maps identity-provider users onto internal user records
// and owns the ownership rules gating destructive mutations.
package identity

import (
	"context"
	"math/rand"
	"strconv"
	"strings"
	"unicode"

	"github.com/medvoyage/community-backend/internal/apperrors"
	"github.com/medvoyage/community-backend/internal/models"
	"github.com/medvoyage/community-backend/internal/store"
)

// ExternalIdentity is what the identity provider asserts about a user.
// Only the ID is required.
type ExternalIdentity struct {
	ID          string
	DisplayName string
	Email       string
	AvatarURL   string
}

// fallbackName seeds username generation when the provider sent no
// display name.
const fallbackName = "traveler"

// emailDomain fills in a placeholder address when the provider sent none.
const emailDomain = "@users.medvoyage.io"

type Resolver struct {
	store store.Store
}

func NewResolver(s store.Store) *Resolver {
	return &Resolver{store: s}
}

// Resolve returns the internal user matching the external identity,
// creating one on first sight. Existing records are returned unchanged; no
// profile field is synced on later calls. Concurrent first-writes are
// settled by the unique constraint on the external id: the loser of the
// race re-fetches the surviving row.
func (r *Resolver) Resolve(ctx context.Context, ext ExternalIdentity) (*models.User, error) {
	if ext.ID == "" {
		return nil, apperrors.Unauthorized("no external identity")
	}

	u, err := r.store.UserByExternalID(ctx, ext.ID)
	if err == nil {
		return u, nil
	}
	if !apperrors.Is(err, apperrors.CodeNotFound) {
		return nil, apperrors.New(apperrors.CodeUpstream, "failed to resolve user", err)
	}

	username := GenerateUsername(ext.DisplayName)
	email := ext.Email
	if email == "" {
		email = strings.ToLower(username) + emailDomain
	}

	u = &models.User{
		Username:     username,
		Email:        email,
		Avatar:       ext.AvatarURL,
		ExternalID:   ext.ID,
		AuthProvider: "external",
		Role:         models.RoleUser,
	}
	if err := r.store.CreateUser(ctx, u); err != nil {
		if apperrors.Is(err, apperrors.CodeDuplicate) {
			if existing, ferr := r.store.UserByExternalID(ctx, ext.ID); ferr == nil {
				return existing, nil
			}
		}
		return nil, apperrors.New(apperrors.CodeUpstream, "failed to resolve user", err)
	}
	return u, nil
}

// GenerateUsername camel-cases the display name's words together and
// appends a random 4-digit suffix to keep collisions unlikely.
func GenerateUsername(displayName string) string {
	words := strings.Fields(displayName)
	var b strings.Builder
	for i, w := range words {
		if i == 0 {
			b.WriteString(w)
			continue
		}
		runes := []rune(w)
		runes[0] = unicode.ToUpper(runes[0])
		b.WriteString(string(runes))
	}
	base := b.String()
	if base == "" {
		base = fallbackName
	}
	return base + strconv.Itoa(1000+rand.Intn(9000))
}

// IsOwner reports whether the acting user's username matches the content
// author's, case-insensitively. This is the only edit/delete gate outside
// the admin surface.
func IsOwner(actorUsername, authorUsername string) bool {
	return actorUsername != "" && strings.EqualFold(actorUsername, authorUsername)
}

// IsAdmin grants the administrative surface to users flagged with the admin
// role or matching the configured admin email.
func IsAdmin(u *models.User, adminEmail string) bool {
	if u == nil {
		return false
	}
	if u.Role == models.RoleAdmin {
		return true
	}
	return adminEmail != "" && strings.EqualFold(u.Email, adminEmail)
}
