// Package handlers wires HTTP requests to the store and services. Every
// handler reads and writes the canonical shapes from internal/mapper, so
// responses are identical no matter which backend serves them.
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/medvoyage/community-backend/internal/apperrors"
	"github.com/medvoyage/community-backend/internal/cache"
	"github.com/medvoyage/community-backend/internal/config"
	"github.com/medvoyage/community-backend/internal/identity"
	"github.com/medvoyage/community-backend/internal/logger"
	"github.com/medvoyage/community-backend/internal/middleware"
	"github.com/medvoyage/community-backend/internal/models"
	"github.com/medvoyage/community-backend/internal/store"
	"github.com/medvoyage/community-backend/internal/votes"
)

type Handler struct {
	store    store.Store
	resolver *identity.Resolver
	votes    *votes.Service
	trending *cache.Trending
	cfg      *config.Config
}

func New(s store.Store, trending *cache.Trending, cfg *config.Config) *Handler {
	return &Handler{
		store:    s,
		resolver: identity.NewResolver(s),
		votes:    votes.NewService(s),
		trending: trending,
		cfg:      cfg,
	}
}

// respondError maps an application error to its HTTP status and logs
// anything that surfaces as a 500.
func respondError(c *gin.Context, err error) {
	status := apperrors.HTTPStatus(err)
	if status == http.StatusInternalServerError && logger.Log != nil {
		logger.Log.Error("request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err))
	}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		c.JSON(status, gin.H{"error": appErr.Message, "code": appErr.Code})
		return
	}
	c.JSON(status, gin.H{"error": "internal server error"})
}

// currentUser resolves the authenticated caller to an internal user
// record, creating one on first sight of a new external identity.
func (h *Handler) currentUser(c *gin.Context) (*models.User, error) {
	claims, ok := middleware.ClaimsFromContext(c)
	if !ok {
		return nil, apperrors.Unauthorized("missing authentication")
	}
	return h.resolver.Resolve(c.Request.Context(), identityFromClaims(claims))
}

func identityFromClaims(claims *middleware.Claims) identity.ExternalIdentity {
	return identity.ExternalIdentity{
		ID:          claims.ExternalID,
		DisplayName: claims.Username,
		Email:       claims.Email,
		AvatarURL:   claims.Avatar,
	}
}

func pathID(c *gin.Context, name string) (int, error) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		return 0, apperrors.Invalid("invalid " + name + " parameter")
	}
	return id, nil
}

func queryIntPtr(c *gin.Context, name string) *int {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &v
}
