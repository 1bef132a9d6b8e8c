package middleware

import (
	"context"
	"errors"
	"net/http"

	"gamedash/api/internal/model"
	"gamedash/api/internal/service"
	"gamedash/api/pkg/security"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const SessionCookie = "session_id"

// SessionResolver returns the user owning a session. Implemented by
// *service.AuthService
type SessionResolver interface {
	ResolveSession(ctx context.Context, sessionID string) (*model.User, error)
}

// SetSessionCookie stores a signed session token in an http only cookie
func SetSessionCookie(c *gin.Context, token string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, token, maxAge, "/", "", viper.GetBool("host.ssl_enabled"), true)
}

func ClearSessionCookie(c *gin.Context) {
	SetSessionCookie(c, "", -1)
}

// NewSessionMiddleware rejects requests without a live session. On success
// the user is available as "user", its ID as "userID" and the session ID as
// "sessionID"
func NewSessionMiddleware(signer *security.SessionSigner, auth SessionResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.MustGet("requestID").(string)

		token, err := c.Cookie(SessionCookie)
		if err != nil || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":     "Not authenticated",
				"requestID": requestID,
			})
			return
		}

		sessionID, err := signer.Parse(token)
		if err != nil {
			ClearSessionCookie(c)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":     "Not authenticated",
				"requestID": requestID,
			})
			return
		}

		user, err := auth.ResolveSession(c.Request.Context(), sessionID)
		if err != nil {
			if errors.Is(err, service.ErrSessionNotFound) {
				ClearSessionCookie(c)
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"error":     "Session expired. Please log in again",
					"requestID": requestID,
				})
				return
			}

			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error":     "Internal server error",
				"requestID": requestID,
			})

			zap.L().Error("Failed to resolve session", zap.Error(err), zap.String("requestID", requestID))
			return
		}

		c.Set("user", user)
		c.Set("userID", user.ID)
		c.Set("sessionID", sessionID)
		c.Next()
	}
}
