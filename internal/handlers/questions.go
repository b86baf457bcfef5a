package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/medvoyage/community-backend/internal/apperrors"
	"github.com/medvoyage/community-backend/internal/identity"
	"github.com/medvoyage/community-backend/internal/logger"
	"github.com/medvoyage/community-backend/internal/models"
	"github.com/medvoyage/community-backend/internal/store"
	"github.com/medvoyage/community-backend/internal/tags"
)

// ListQuestions returns all visible questions, optionally filtered by
// category, author or a title/description search term.
func (h *Handler) ListQuestions(c *gin.Context) {
	filter := store.QuestionFilter{
		CategoryID: queryIntPtr(c, "category_id"),
		AuthorID:   queryIntPtr(c, "author_id"),
		Search:     c.Query("search"),
	}
	questions, err := h.store.ListQuestions(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, questions)
}

// GetQuestion returns a single question with its answers and bumps the
// view counter.
func (h *Handler) GetQuestion(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.store.IncrementViews(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	question, answers, err := h.store.QuestionByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"question": question,
		"answers":  answers,
	})
}

// CreateQuestion creates a question for the authenticated user. Hashtags
// in the title and description are merged with any explicit tags.
func (h *Handler) CreateQuestion(c *gin.Context) {
	user, err := h.currentUser(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var input models.CreateQuestionRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title is required"})
		return
	}

	question := &models.Question{
		Title:       input.Title,
		Description: input.Description,
		AuthorID:    user.ID,
		CategoryID:  input.CategoryID,
		Tags:        tags.Join(tags.Merge(input.Tags, input.Title, input.Description)),
	}
	created, err := h.store.CreateQuestion(c.Request.Context(), question)
	if err != nil {
		respondError(c, err)
		return
	}

	h.trending.Invalidate(c.Request.Context())
	c.JSON(http.StatusCreated, created)
}

// DeleteQuestion soft-deletes a question after re-checking ownership
// against the current server-side record.
func (h *Handler) DeleteQuestion(c *gin.Context) {
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

	question, _, err := h.store.QuestionByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if !identity.IsOwner(user.Username, question.Author.Username) && !identity.IsAdmin(user, h.cfg.App.AdminEmail) {
		respondError(c, apperrors.NotOwner(user.Username, question.Author.Username))
		return
	}

	if err := h.store.SoftDeleteQuestion(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	h.trending.Invalidate(c.Request.Context())
	logger.Log.Info("question deleted",
		zap.Int("question_id", id),
		zap.String("by", user.Username))
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Question deleted"})
}

// CloseQuestion stops a question from accepting further answers. Only the
// author or an admin may close it.
func (h *Handler) CloseQuestion(c *gin.Context) {
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

	question, _, err := h.store.QuestionByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if !identity.IsOwner(user.Username, question.Author.Username) && !identity.IsAdmin(user, h.cfg.App.AdminEmail) {
		respondError(c, apperrors.NotOwner(user.Username, question.Author.Username))
		return
	}

	if err := h.store.CloseQuestion(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Question closed"})
}

// CreateAnswer adds an answer to an open question.
func (h *Handler) CreateAnswer(c *gin.Context) {
	user, err := h.currentUser(c)
	if err != nil {
		respondError(c, err)
		return
	}
	questionID, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	var input models.CreateAnswerRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Content is required"})
		return
	}

	answer := &models.Answer{
		Content:    input.Content,
		QuestionID: questionID,
		AuthorID:   user.ID,
	}
	created, err := h.store.CreateAnswer(c.Request.Context(), answer)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// AcceptAnswer marks an answer as the accepted one. Only the question's
// author may accept, and any previously accepted answer is demoted.
func (h *Handler) AcceptAnswer(c *gin.Context) {
	user, err := h.currentUser(c)
	if err != nil {
		respondError(c, err)
		return
	}
	questionID, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	answerID, err := pathID(c, "answerId")
	if err != nil {
		respondError(c, err)
		return
	}

	question, answers, err := h.store.QuestionByID(c.Request.Context(), questionID)
	if err != nil {
		respondError(c, err)
		return
	}
	if !identity.IsOwner(user.Username, question.Author.Username) {
		respondError(c, apperrors.NotOwner(user.Username, question.Author.Username))
		return
	}

	found := false
	for _, a := range answers {
		if a.ID == answerID {
			found = true
			break
		}
	}
	if !found {
		respondError(c, apperrors.NotFound("answer"))
		return
	}

	if err := h.store.AcceptAnswer(c.Request.Context(), answerID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Answer accepted"})
}

// DeleteAnswer soft-deletes an answer after an ownership re-check.
func (h *Handler) DeleteAnswer(c *gin.Context) {
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

	answer, err := h.store.AnswerByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if !identity.IsOwner(user.Username, answer.Author.Username) && !identity.IsAdmin(user, h.cfg.App.AdminEmail) {
		respondError(c, apperrors.NotOwner(user.Username, answer.Author.Username))
		return
	}

	if err := h.store.SoftDeleteAnswer(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Answer deleted"})
}
