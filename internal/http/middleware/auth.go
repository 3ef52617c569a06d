package middleware

import (
	"net/http"
	"strings"

	"tiyende/internal/auth"
	"tiyende/internal/domain"

	"github.com/gin-gonic/gin"
)

const (
	userIDKey    = "userID"
	userRoleKey  = "userRole"
	usernameKey  = "username"
	sessionIDKey = "sessionID"
)

// Validator resolves a bearer token to its claims, or nil when the session is not live.
type Validator func(c *gin.Context, token string) *auth.Claims

// BearerToken returns the token of an "Authorization: Bearer <token>" header.
func BearerToken(c *gin.Context) (string, bool) {
	parts := strings.Fields(c.GetHeader("Authorization"))
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

// RequireAuth rejects requests without a live session: 401 when no bearer token is sent,
// 403 when the token does not validate.
func RequireAuth(validate Validator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := BearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Authentication required"})
			return
		}
		claims := validate(c, token)
		if claims == nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Invalid or expired token"})
			return
		}
		c.Set(userIDKey, claims.UserID)
		c.Set(userRoleKey, claims.Role)
		c.Set(usernameKey, claims.Username)
		c.Set(sessionIDKey, claims.SessionID)
		c.Next()
	}
}

// TokenFromQuery copies ?token= into the Authorization header. Browsers cannot set
// headers on a WebSocket handshake.
func TokenFromQuery() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			if t := c.Query("token"); t != "" {
				c.Request.Header.Set("Authorization", "Bearer "+t)
			}
		}
		c.Next()
	}
}

// CurrentUser returns the caller set by RequireAuth. It is zero for anonymous requests.
func CurrentUser(c *gin.Context) domain.RequestContext {
	return domain.RequestContext{
		UserID: c.GetInt64(userIDKey),
		Role:   c.GetString(userRoleKey),
	}
}
