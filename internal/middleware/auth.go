package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"aveta_backend/internal/auth"
	"aveta_backend/internal/logger"
	"aveta_backend/internal/models"
	"aveta_backend/internal/repositories"
	"aveta_backend/pkg/apperrors"
)

const (
	ContextUserIDKey = "userID"
	ContextRoleKey   = "role"
)

// AuthMiddleware validates the bearer token and loads claims into the
// gin context. Tokens minted before the user's last sign-out carry a
// stale token version and are rejected.
func AuthMiddleware(tm *auth.TokenManager, users repositories.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := parseBearer(c, tm)
		if !ok {
			apperrors.AbortWithError(c, apperrors.ErrSignInAgain)
			return
		}

		user, err := users.FindByID(c.Request.Context(), claims.UserID)
		if err != nil {
			apperrors.AbortWithError(c, apperrors.ErrSignInAgain)
			return
		}
		if user.TokenVersion != claims.TokenVersion {
			apperrors.AbortWithError(c, apperrors.ErrSignInAgain)
			return
		}
		if user.IsBlocked {
			apperrors.AbortWithError(c, apperrors.ErrUserBlocked)
			return
		}

		setIdentity(c, user.ID, user.Role)
		c.Next()
	}
}

// OptionalAuthMiddleware loads claims when a valid token is present but
// lets anonymous requests through. Used by listings whose visibility
// rules depend on the viewer.
func OptionalAuthMiddleware(tm *auth.TokenManager, users repositories.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := parseBearer(c, tm)
		if !ok {
			c.Next()
			return
		}
		user, err := users.FindByID(c.Request.Context(), claims.UserID)
		if err != nil || user.TokenVersion != claims.TokenVersion || user.IsBlocked {
			c.Next()
			return
		}
		setIdentity(c, user.ID, user.Role)
		c.Next()
	}
}

// RequireRoles restricts a route to the listed roles. Must run after
// AuthMiddleware.
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	roleSet := make(map[models.UserRole]bool, len(roles))
	for _, r := range roles {
		roleSet[r] = true
	}

	return func(c *gin.Context) {
		roleVal, exists := c.Get(ContextRoleKey)
		if !exists {
			apperrors.AbortWithError(c, apperrors.ErrSignInAgain)
			return
		}
		role, ok := roleVal.(models.UserRole)
		if !ok || !roleSet[role] {
			apperrors.AbortWithError(c, apperrors.ErrInsufficientRole)
			return
		}
		c.Next()
	}
}

func parseBearer(c *gin.Context, tm *auth.TokenManager) (*auth.Claims, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		return nil, false
	}
	claims, err := tm.ParseToken(strings.TrimPrefix(authHeader, "Bearer "))
	if err != nil {
		return nil, false
	}
	return claims, true
}

func setIdentity(c *gin.Context, userID uint, role models.UserRole) {
	c.Set(ContextUserIDKey, userID)
	c.Set(ContextRoleKey, role)
	ctx := logger.WithUserID(c.Request.Context(), userID)
	c.Request = c.Request.WithContext(ctx)
}

// GetUserID extracts the authenticated user ID from the gin context.
// Returns 0 for anonymous requests.
func GetUserID(c *gin.Context) uint {
	v, exists := c.Get(ContextUserIDKey)
	if !exists {
		return 0
	}
	id, ok := v.(uint)
	if !ok {
		return 0
	}
	return id
}

// GetRole extracts the authenticated user's role. Empty for anonymous
// requests.
func GetRole(c *gin.Context) models.UserRole {
	v, exists := c.Get(ContextRoleKey)
	if !exists {
		return ""
	}
	role, ok := v.(models.UserRole)
	if !ok {
		return ""
	}
	return role
}
