package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/medvoyage/community-backend/internal/apperrors"
	"github.com/medvoyage/community-backend/internal/identity"
	"github.com/medvoyage/community-backend/internal/models"
)

const defaultTrendingSize = 5

// ListCategories returns all categories with live content counts.
func (h *Handler) ListCategories(c *gin.Context) {
	categories, err := h.store.ListCategories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

// GetCategory returns a single category by slug.
func (h *Handler) GetCategory(c *gin.Context) {
	category, err := h.store.CategoryBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

// CreateCategory creates a category. Admin only.
func (h *Handler) CreateCategory(c *gin.Context) {
	user, err := h.currentUser(c)
	if err != nil {
		respondError(c, err)
		return
	}
	if !identity.IsAdmin(user, h.cfg.App.AdminEmail) {
		respondError(c, apperrors.New(apperrors.CodeForbidden, "admin access required", nil))
		return
	}

	var input models.CreateCategoryRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name and slug are required"})
		return
	}

	created, err := h.store.CreateCategory(c.Request.Context(), &models.Category{
		Name:        input.Name,
		Slug:        input.Slug,
		Description: input.Description,
		Icon:        input.Icon,
		Color:       input.Color,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	h.trending.Invalidate(c.Request.Context())
	c.JSON(http.StatusCreated, created)
}

// TrendingCategories returns the categories ranked by combined question
// and post count, read through the cache when one is configured.
func (h *Handler) TrendingCategories(c *gin.Context) {
	n := defaultTrendingSize
	if raw := c.Query("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			n = v
		}
	}

	if cached, ok := h.trending.Get(c.Request.Context()); ok && len(cached) >= n {
		c.JSON(http.StatusOK, cached[:n])
		return
	}

	categories, err := h.store.TrendingCategories(c.Request.Context(), n)
	if err != nil {
		respondError(c, err)
		return
	}
	h.trending.Set(c.Request.Context(), categories)
	c.JSON(http.StatusOK, categories)
}

// ListCommunities returns all communities.
func (h *Handler) ListCommunities(c *gin.Context) {
	communities, err := h.store.ListCommunities(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, communities)
}

// GetCommunity returns a single community by slug.
func (h *Handler) GetCommunity(c *gin.Context) {
	community, err := h.store.CommunityBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, community)
}

// CreateCommunity creates a community moderated by the authenticated user.
func (h *Handler) CreateCommunity(c *gin.Context) {
	user, err := h.currentUser(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var input models.CreateCommunityRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title and slug are required"})
		return
	}

	created, err := h.store.CreateCommunity(c.Request.Context(), &models.Community{
		Title:       input.Title,
		Slug:        input.Slug,
		Description: input.Description,
		ModeratorID: user.ID,
		Image:       input.Image,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}
