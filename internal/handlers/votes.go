package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/medvoyage/community-backend/internal/middleware"
	"github.com/medvoyage/community-backend/internal/models"
)

// CastVote applies the authenticated user's vote to a target. Repeating
// the same direction removes the vote; the opposite direction switches it.
func (h *Handler) CastVote(c *gin.Context) {
	user, err := h.currentUser(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var input models.VoteRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "target_type, target_id and a value of 1 or -1 are required"})
		return
	}

	result, err := h.votes.Cast(c.Request.Context(), user.ID, input.TargetType, input.TargetID, input.Value)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetVoteTally returns the current tally for a target. When the caller is
// authenticated their own vote state is included.
func (h *Handler) GetVoteTally(c *gin.Context) {
	targetType := c.Param("type")
	targetID, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	userID := 0
	if claims, ok := middleware.ClaimsFromContext(c); ok && claims.ExternalID != "" {
		if user, err := h.resolver.Resolve(c.Request.Context(), identityFromClaims(claims)); err == nil {
			userID = user.ID
		}
	}

	result, err := h.votes.Tally(c.Request.Context(), userID, targetType, targetID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
