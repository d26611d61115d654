package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/todocollab/backend/internal/constants"
	"github.com/todocollab/backend/internal/database"
	apierrors "github.com/todocollab/backend/internal/errors"
	"github.com/todocollab/backend/internal/models"
	"github.com/todocollab/backend/internal/services"
	"github.com/todocollab/backend/internal/token"
)

// RequireAuth resolves the bearer credential to an actor. The token is
// read from the Authorization header first, then the token cookie.
// Account status is re-checked on every request, so disabling a user
// takes effect immediately even for tokens issued earlier.
func RequireAuth(tokens *token.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := extractToken(c)
		if raw == "" {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		claims, err := tokens.Parse(raw)
		if err != nil {
			apierrors.Unauthorized(c, "Invalid token")
			c.Abort()
			return
		}

		var user models.User
		if err := database.GetDB().First(&user, claims.UserID).Error; err != nil {
			apierrors.Unauthorized(c, "Invalid token")
			c.Abort()
			return
		}

		if user.Status == models.UserStatusDisabled {
			apierrors.Forbidden(c, "Account disabled")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyUserID, user.ID)
		c.Set(constants.ContextKeyActor, services.Actor{ID: user.ID, Role: user.Role})
		c.Next()
	}
}

// RequireAdmin rejects non-admin actors. Must run after RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, exists := GetActor(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}
		if actor.Role != models.RoleAdmin {
			apierrors.Forbidden(c, "Admin only")
			c.Abort()
			return
		}
		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	if cookie, err := c.Cookie(constants.TokenCookieName); err == nil {
		return cookie
	}
	return ""
}

// GetActor retrieves the authenticated actor from context
func GetActor(c *gin.Context) (services.Actor, bool) {
	value, exists := c.Get(constants.ContextKeyActor)
	if !exists {
		return services.Actor{}, false
	}
	actor, ok := value.(services.Actor)
	return actor, ok
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uint64, bool) {
	actor, exists := GetActor(c)
	if !exists {
		return 0, false
	}
	return actor.ID, true
}
