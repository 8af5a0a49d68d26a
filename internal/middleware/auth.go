package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/gamehub-dev/gamehub/internal/auth"
	"github.com/gamehub-dev/gamehub/internal/models"
	"github.com/gamehub-dev/gamehub/internal/repository"
)

// AuthenticatedUser is the request-scoped identity stored in the gin context.
type AuthenticatedUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

const ContextUserKey = "user"

// RequireAuth verifies the bearer token and loads the user into the context.
// Requests without a valid access token are rejected.
func RequireAuth(issuer *auth.Issuer, users *repository.UserRepository) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		user, ok := authenticate(ctx, issuer, users)

		if !ok {
			return
		}

		ctx.Set(ContextUserKey, user)
		ctx.Next()
	}
}

// OptionalAuth loads the user when a valid bearer token is present and lets
// anonymous requests through untouched.
func OptionalAuth(issuer *auth.Issuer, users *repository.UserRepository) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if ctx.GetHeader("Authorization") == "" {
			ctx.Next()
			return
		}

		user, ok := authenticate(ctx, issuer, users)

		if !ok {
			return
		}

		ctx.Set(ContextUserKey, user)
		ctx.Next()
	}
}

// RequireRoles allows only callers whose role is in the list. It must run
// after RequireAuth.
func RequireRoles(roles ...string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		user, ok := CurrentUser(ctx)

		if !ok {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization token is required"})
			return
		}

		for _, role := range roles {
			if user.Role == role {
				ctx.Next()
				return
			}
		}

		ctx.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
	}
}

// CurrentUser returns the authenticated user stored by RequireAuth or
// OptionalAuth, if any.
func CurrentUser(ctx *gin.Context) (AuthenticatedUser, bool) {
	value, exists := ctx.Get(ContextUserKey)

	if !exists {
		return AuthenticatedUser{}, false
	}

	user, ok := value.(AuthenticatedUser)

	return user, ok
}

// CurrentUserID returns the caller's id, or "" for anonymous requests.
func CurrentUserID(ctx *gin.Context) string {
	user, ok := CurrentUser(ctx)

	if !ok {
		return ""
	}

	return user.ID
}

func authenticate(ctx *gin.Context, issuer *auth.Issuer, users *repository.UserRepository) (AuthenticatedUser, bool) {
	authHeader := ctx.GetHeader("Authorization")

	if authHeader == "" {
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization token is required"})
		return AuthenticatedUser{}, false
	}

	parts := strings.SplitN(authHeader, " ", 2)

	if len(parts) != 2 || parts[0] != "Bearer" {
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header format must be Bearer {token}"})

		return AuthenticatedUser{}, false
	}

	claims, err := issuer.VerifyAccess(parts[1])

	if err != nil {
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		return AuthenticatedUser{}, false
	}

	var user *models.User

	user, err = users.FindByID(claims.UserID)

	if err != nil || user == nil {
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
		return AuthenticatedUser{}, false
	}

	return AuthenticatedUser{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role,
	}, true
}
