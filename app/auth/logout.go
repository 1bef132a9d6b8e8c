package auth

import (
	"net/http"

	"gamedash/api/internal"
	"gamedash/api/pkg/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func Logout(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	if err := d.Auth.Logout(c.Request.Context(), c.GetString("sessionID")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to delete session", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	middleware.ClearSessionCookie(c)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}
