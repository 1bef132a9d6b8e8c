package player

import (
	"errors"
	"io"
	"net/http"

	"gamedash/api/internal"
	"gamedash/api/internal/service"
	"gamedash/api/pkg/validators"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type refreshBody struct {
	Region string `json:"region" binding:"max=16"`
}

func PlayerRefresh(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	var data refreshBody
	if err := c.ShouldBindJSON(&data); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request body",
			"errors":    validators.FieldErrors(err),
			"requestID": requestID,
		})
		return
	}

	game, playerID, ok := bindPlayer(c, data.Region)
	if !ok {
		return
	}

	err := d.Analytics.Refresh(c.Request.Context(), game, playerID, data.Region, c.GetString("userID"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPlayerNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error":     "Player not found",
				"requestID": requestID,
			})
		case errors.Is(err, service.ErrRefreshFailed):
			c.JSON(http.StatusNotFound, gin.H{
				"error":     "Unable to refresh player data",
				"requestID": requestID,
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":     "Failed to refresh player data",
				"requestID": requestID,
			})

			zap.L().Error("Failed to refresh player", zap.Error(err), zap.String("requestID", requestID))
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Player data refreshed successfully"})
}
