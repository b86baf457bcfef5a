package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/medvoyage/community-backend/internal/mapper"
	"github.com/medvoyage/community-backend/internal/store"
)

// GetProfile returns a user's public profile with their visible content.
func (h *Handler) GetProfile(c *gin.Context) {
	user, err := h.store.UserByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		respondError(c, err)
		return
	}

	questions, err := h.store.ListQuestions(c.Request.Context(), store.QuestionFilter{AuthorID: &user.ID})
	if err != nil {
		respondError(c, err)
		return
	}
	posts, err := h.store.ListPosts(c.Request.Context(), store.PostFilter{AuthorID: &user.ID})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"profile":   mapper.ProfileFromRow(*user),
		"questions": questions,
		"posts":     posts,
	})
}
