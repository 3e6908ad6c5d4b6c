package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"kopiscan/api/internal/security"
	"kopiscan/api/internal/service"
)

const (
	ctxClaims = "access_claims"
	ctxUser   = "current_user"
)

// Auth validates the bearer token and loads the owning user. Distinct
// failure modes keep distinct messages so clients can tell an expired token
// from a revoked one.
func Auth(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			abortUnauthorized(c, "missing token")
			return
		}
		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

		claims, err := auth.Validate(c.Request.Context(), tokenStr)
		if err != nil {
			switch {
			case errors.Is(err, security.ErrTokenExpired):
				abortUnauthorized(c, "token expired")
			case errors.Is(err, service.ErrTokenRevoked):
				abortUnauthorized(c, "token revoked")
			default:
				abortUnauthorized(c, "invalid token")
			}
			return
		}

		user, err := auth.GetUser(c.Request.Context(), claims.Subject)
		if err != nil {
			abortUnauthorized(c, "user not found")
			return
		}

		c.Set(ctxClaims, claims)
		c.Set(ctxUser, user)

		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"message": message,
	})
}
