package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/medvoyage/community-backend/internal/identity"
	"github.com/medvoyage/community-backend/internal/models"
)

// ListPolls returns all polls with their options and live vote counts.
func (h *Handler) ListPolls(c *gin.Context) {
	polls, err := h.store.ListPolls(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, polls)
}

// GetPoll returns a single poll.
func (h *Handler) GetPoll(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	poll, err := h.store.PollByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, poll)
}

// CreatePoll creates a poll. Polls created by admins carry no author and
// render as "Anonymous".
func (h *Handler) CreatePoll(c *gin.Context) {
	user, err := h.currentUser(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var input models.CreatePollRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Question and at least two options are required"})
		return
	}

	poll := &models.Poll{
		Question:   input.Question,
		CategoryID: input.CategoryID,
		ExpiresAt:  input.ExpiresAt,
	}
	if !identity.IsAdmin(user, h.cfg.App.AdminEmail) {
		poll.AuthorID = &user.ID
	}
	for i, label := range input.Options {
		poll.Options = append(poll.Options, models.PollOption{Label: label, Position: i})
	}

	created, err := h.store.CreatePoll(c.Request.Context(), poll)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// VotePoll records the authenticated user's single vote on a poll option
// and returns the updated poll.
func (h *Handler) VotePoll(c *gin.Context) {
	user, err := h.currentUser(c)
	if err != nil {
		respondError(c, err)
		return
	}
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	var input models.VotePollRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "option_id is required"})
		return
	}

	poll, err := h.store.VotePoll(c.Request.Context(), id, input.OptionID, user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, poll)
}
