package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"eduportal-backend/internal/identity"
	"eduportal-backend/pkg/jwt"
	"eduportal-backend/pkg/logger"
	"eduportal-backend/pkg/response"
)

// AuthMiddleware validates the bearer token and attaches the resolved user
// to both the gin context and the request context, so handlers and the
// service layer share one identity source. Token claims carry no display
// name, so the user is enriched from the cached profile.
func AuthMiddleware(jwtManager *jwt.JWTManager, identities identity.Provider) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "Authorization header required")
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, "Invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := jwtManager.ValidateToken(parts[1])
		if err != nil {
			response.Unauthorized(c, "Invalid token")
			c.Abort()
			return
		}

		user := &identity.User{
			ID:       claims.UserID.String(),
			Email:    claims.Email,
			UserType: claims.UserType,
		}

		resolved, err := identities.Lookup(c.Request.Context(), user.ID)
		if err != nil {
			// A missing profile must not block an authenticated request
			logger.Warn("Failed to resolve profile for authenticated user",
				zap.String("user_id", user.ID),
				zap.Error(err))
		} else if resolved != nil {
			user.Name = resolved.Name
			if user.Email == "" {
				user.Email = resolved.Email
			}
			if user.UserType == "" {
				user.UserType = resolved.UserType
			}
		}

		c.Set("user_id", user.ID)
		c.Set("email", user.Email)
		c.Set("user_type", user.UserType)
		c.Request = c.Request.WithContext(identity.WithUser(c.Request.Context(), user))

		c.Next()
	}
}

// RequireUserType restricts a route group to the given account types
func RequireUserType(userTypes ...string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(userTypes))
	for _, t := range userTypes {
		allowed[t] = true
	}

	return func(c *gin.Context) {
		userType := c.GetString("user_type")
		if !allowed[userType] {
			response.Forbidden(c, "Insufficient permissions")
			c.Abort()
			return
		}
		c.Next()
	}
}
