package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/medvoyage/community-backend/internal/apperrors"
	"github.com/medvoyage/community-backend/internal/identity"
	"github.com/medvoyage/community-backend/internal/logger"
	"github.com/medvoyage/community-backend/internal/models"
	"github.com/medvoyage/community-backend/internal/store"
	"github.com/medvoyage/community-backend/internal/tags"
)

// ListPosts returns all visible posts, optionally filtered by category,
// community or author.
func (h *Handler) ListPosts(c *gin.Context) {
	filter := store.PostFilter{
		CategoryID:  queryIntPtr(c, "category_id"),
		CommunityID: queryIntPtr(c, "community_id"),
		AuthorID:    queryIntPtr(c, "author_id"),
	}
	posts, err := h.store.ListPosts(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, posts)
}

// GetPost returns a single post with its comments.
func (h *Handler) GetPost(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	post, err := h.store.PostByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	comments, err := h.store.CommentsForPost(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"post":     post,
		"comments": comments,
	})
}

// CreatePost creates a post for the authenticated user. Hashtags in the
// title and body are merged with any explicit tags.
func (h *Handler) CreatePost(c *gin.Context) {
	user, err := h.currentUser(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var input models.CreatePostRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title is required"})
		return
	}

	post := &models.Post{
		Title:       input.Title,
		Body:        input.Body,
		Image:       input.Image,
		Gallery:     strings.Join(input.Gallery, ","),
		AuthorID:    user.ID,
		CategoryID:  input.CategoryID,
		CommunityID: input.CommunityID,
		Tags:        tags.Join(tags.Merge(input.Tags, input.Title, input.Body)),
	}
	created, err := h.store.CreatePost(c.Request.Context(), post)
	if err != nil {
		respondError(c, err)
		return
	}

	h.trending.Invalidate(c.Request.Context())
	c.JSON(http.StatusCreated, created)
}

// DeletePost soft-deletes a post after re-checking ownership against the
// current server-side record.
func (h *Handler) DeletePost(c *gin.Context) {
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

	post, err := h.store.PostByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if !identity.IsOwner(user.Username, post.Author.Username) && !identity.IsAdmin(user, h.cfg.App.AdminEmail) {
		respondError(c, apperrors.NotOwner(user.Username, post.Author.Username))
		return
	}

	if err := h.store.SoftDeletePost(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	h.trending.Invalidate(c.Request.Context())
	logger.Log.Info("post deleted",
		zap.Int("post_id", id),
		zap.String("by", user.Username))
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Post deleted"})
}

// ReportPost flags a post for moderation. The post stays visible; only
// the admin surface reads the flag.
func (h *Handler) ReportPost(c *gin.Context) {
	if _, err := h.currentUser(c); err != nil {
		respondError(c, err)
		return
	}
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.store.ReportPost(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Post reported"})
}

// CreateComment attaches a comment to exactly one of a post or an answer.
func (h *Handler) CreateComment(c *gin.Context) {
	user, err := h.currentUser(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var input models.CreateCommentRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Body is required"})
		return
	}

	comment := &models.Comment{
		Body:            input.Body,
		AuthorID:        user.ID,
		PostID:          input.PostID,
		AnswerID:        input.AnswerID,
		ParentCommentID: input.ParentCommentID,
	}
	created, err := h.store.CreateComment(c.Request.Context(), comment)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// ListPostComments returns the visible comments of a post, oldest first.
func (h *Handler) ListPostComments(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	comments, err := h.store.CommentsForPost(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, comments)
}

// ListAnswerComments returns the visible comments of an answer, oldest
// first.
func (h *Handler) ListAnswerComments(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	comments, err := h.store.CommentsForAnswer(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, comments)
}

// DeleteComment soft-deletes a comment after an ownership re-check.
func (h *Handler) DeleteComment(c *gin.Context) {
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

	comment, err := h.store.CommentByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if !identity.IsOwner(user.Username, comment.Author.Username) && !identity.IsAdmin(user, h.cfg.App.AdminEmail) {
		respondError(c, apperrors.NotOwner(user.Username, comment.Author.Username))
		return
	}

	if err := h.store.SoftDeleteComment(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Comment deleted"})
}

// ReportComment flags a comment for moderation.
func (h *Handler) ReportComment(c *gin.Context) {
	if _, err := h.currentUser(c); err != nil {
		respondError(c, err)
		return
	}
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.store.ReportComment(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Comment reported"})
}
