package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/medvoyage/community-backend/internal/apperrors"
	"github.com/medvoyage/community-backend/internal/mapper"
	"github.com/medvoyage/community-backend/internal/middleware"
	"github.com/medvoyage/community-backend/internal/models"
)

// Register creates a local email/password account. Locally registered
// users get a synthetic external id so the same identity resolution path
// serves both auth flows.
func (h *Handler) Register(c *gin.Context) {
	var input models.RegisterRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if input.Username == "" || input.Email == "" || len(input.Password) < 6 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username, email and a password of at least 6 characters are required"})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		respondError(c, apperrors.New(apperrors.CodeUpstream, "failed to hash password", err))
		return
	}

	user := &models.User{
		Username:     input.Username,
		Email:        input.Email,
		Password:     string(hashed),
		Avatar:       input.Avatar,
		ExternalID:   "local-" + uuid.NewString(),
		AuthProvider: "email",
		Role:         models.RoleUser,
	}
	if err := h.store.CreateUser(c.Request.Context(), user); err != nil {
		respondError(c, err)
		return
	}

	token, err := h.issueToken(user)
	if err != nil {
		respondError(c, apperrors.New(apperrors.CodeUpstream, "failed to sign token", err))
		return
	}
	c.JSON(http.StatusCreated, models.AuthResponse{
		Token:   token,
		User:    *user,
		Message: "Registration successful",
	})
}

// Login authenticates a local account and returns a fresh token.
func (h *Handler) Login(c *gin.Context) {
	var input models.LoginRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	user, err := h.store.UserByEmail(c.Request.Context(), input.Email)
	if err != nil {
		// Same message whether the account is missing or the password is
		// wrong.
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	token, err := h.issueToken(user)
	if err != nil {
		respondError(c, apperrors.New(apperrors.CodeUpstream, "failed to sign token", err))
		return
	}
	c.JSON(http.StatusOK, models.AuthResponse{
		Token:   token,
		User:    *user,
		Message: "Login successful",
	})
}

// Me returns the resolved profile of the authenticated caller.
func (h *Handler) Me(c *gin.Context) {
	user, err := h.currentUser(c)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.ProfileFromRow(*user))
}

func (h *Handler) issueToken(u *models.User) (string, error) {
	expire := time.Duration(h.cfg.JWT.ExpireHours) * time.Hour
	return middleware.GenerateToken(h.cfg.JWT.Secret, expire, middleware.Claims{
		UserID:     u.ID,
		ExternalID: u.ExternalID,
		Username:   u.Username,
		Email:      u.Email,
		Avatar:     u.Avatar,
	})
}
