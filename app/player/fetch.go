package player

import (
	"errors"
	"net/http"

	"gamedash/api/internal"
	"gamedash/api/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PlayerFetch returns the analytics of a player, looking it up upstream the
// first time the user asks for it
func PlayerFetch(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	region := c.Query("region")

	game, playerID, ok := bindPlayer(c, region)
	if !ok {
		return
	}

	a, err := d.Analytics.GetAnalytics(c.Request.Context(), game, playerID, region, c.GetString("userID"))
	if err != nil {
		if errors.Is(err, service.ErrPlayerNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":     "Player not found",
				"requestID": requestID,
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Failed to fetch player data. Please try again later",
			"requestID": requestID,
		})

		zap.L().Error("Failed to fetch player analytics", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, a)
}
