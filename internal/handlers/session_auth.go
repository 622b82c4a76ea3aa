package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nilevalley-edu/fileshare-service/internal/auth"
	"github.com/nilevalley-edu/fileshare-service/internal/models"
)

const (
	contextKeySession = "session"
	contextKeyToken   = "session_token"
)

// SessionAuthMiddleware resolves bearer tokens against the session store
// and attaches the caller's identity to the gin context.
type SessionAuthMiddleware struct {
	sessions auth.SessionStore
}

func NewSessionAuthMiddleware(sessions auth.SessionStore) *SessionAuthMiddleware {
	return &SessionAuthMiddleware{sessions: sessions}
}

// AuthMiddleware rejects requests without a valid session token.
func (sam *SessionAuthMiddleware) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, ErrorResponse{
				Message: "Authorization header with bearer token required",
			})
			c.Abort()
			return
		}

		session, err := sam.sessions.Get(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, auth.ErrSessionNotFound) {
				c.JSON(http.StatusUnauthorized, ErrorResponse{
					Message: "Session expired or invalid; log in again",
				})
			} else {
				c.JSON(http.StatusInternalServerError, ErrorResponse{
					Message: "Failed to verify session",
				})
			}
			c.Abort()
			return
		}

		c.Set(contextKeySession, *session)
		c.Set(contextKeyToken, token)
		c.Next()
	}
}

// RequireRoleMiddleware checks that the caller holds one of the given
// roles. Must run after AuthMiddleware.
func (sam *SessionAuthMiddleware) RequireRoleMiddleware(requiredRoles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := SessionFromContext(c)
		if !ok {
			c.JSON(http.StatusForbidden, ErrorResponse{
				Message: "Caller identity not found",
			})
			c.Abort()
			return
		}

		for _, role := range requiredRoles {
			if session.Role == role {
				c.Next()
				return
			}
		}

		c.JSON(http.StatusForbidden, ErrorResponse{
			Message: "Insufficient permissions for this operation",
		})
		c.Abort()
	}
}

// SessionFromContext returns the authenticated caller, if any.
func SessionFromContext(c *gin.Context) (auth.Session, bool) {
	v, exists := c.Get(contextKeySession)
	if !exists {
		return auth.Session{}, false
	}
	session, ok := v.(auth.Session)
	return session, ok
}

// TokenFromContext returns the raw session token of the caller.
func TokenFromContext(c *gin.Context) string {
	return c.GetString(contextKeyToken)
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
