package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/todocollab/backend/internal/constants"
	"github.com/todocollab/backend/internal/dto"
	apierrors "github.com/todocollab/backend/internal/errors"
	"github.com/todocollab/backend/internal/middleware"
	"github.com/todocollab/backend/internal/services"
	"github.com/todocollab/backend/internal/token"
)

// AuthHandler coordinates authentication-related HTTP handlers.
type AuthHandler struct {
	authService  *services.AuthService
	tokens       *token.Manager
	tokenTTL     time.Duration
	secureCookie bool
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, tokens *token.Manager, tokenTTL time.Duration, secureCookie bool) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		tokens:       tokens,
		tokenTTL:     tokenTTL,
		secureCookie: secureCookie,
	}
}

// Register creates a new account and issues a credential.
func (h *AuthHandler) Register(c *gin.Context) {
	type RegisterRequest struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
		Name     string `json:"name"`
	}

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.authService.Register(services.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}

	signed, err := h.tokens.Issue(user.ID, user.Role)
	if err != nil {
		logrus.WithError(err).Error("Failed to issue token")
		apierrors.InternalError(c, "")
		return
	}
	h.setTokenCookie(c, signed)

	c.JSON(http.StatusCreated, gin.H{"user": dto.ToUserDTO(*user)})
}

// Login authenticates a user and issues a credential.
func (h *AuthHandler) Login(c *gin.Context) {
	type LoginRequest struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.authService.Login(services.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}

	signed, err := h.tokens.Issue(user.ID, user.Role)
	if err != nil {
		logrus.WithError(err).Error("Failed to issue token")
		apierrors.InternalError(c, "")
		return
	}
	h.setTokenCookie(c, signed)

	c.JSON(http.StatusOK, gin.H{
		"user":  dto.ToUserDTO(*user),
		"token": signed,
	})
}

// Logout clears the credential cookie.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetCookie(constants.TokenCookieName, "", -1, "/", "", h.secureCookie, true)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// GetCurrentUser returns the authenticated user.
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	actor, exists := middleware.GetActor(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	user, err := h.authService.GetUser(actor.ID)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": dto.ToUserDTO(*user)})
}

func (h *AuthHandler) setTokenCookie(c *gin.Context, signed string) {
	maxAge := int(h.tokenTTL / time.Second)
	c.SetCookie(constants.TokenCookieName, signed, maxAge, "/", "", h.secureCookie, true)
}

func respondAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrPasswordTooShort):
		apierrors.BadRequest(c, fmt.Sprintf("Password must be at least %d characters", constants.MinPasswordLength))
	case errors.Is(err, services.ErrEmailTaken):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		apierrors.Unauthorized(c, err.Error())
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrFailedToHashPassword):
		apierrors.InternalError(c, "")
	default:
		logrus.WithError(err).Error("Unexpected auth error")
		apierrors.InternalError(c, "")
	}
}
