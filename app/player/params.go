// Package player contains the player analytics endpoints
package player

import (
	"net/http"

	"gamedash/api/internal/gamedata"
	"gamedash/api/internal/model"
	"gamedash/api/pkg/validators"

	"github.com/gin-gonic/gin"
)

type playerURI struct {
	GameID   string `uri:"gameId" binding:"required,game"`
	PlayerID string `uri:"playerId" binding:"required,max=128"`
}

// bindPlayer reads the game, player and region of a request. It writes the
// 400 response itself and reports false when the input is invalid
func bindPlayer(c *gin.Context, region string) (model.GameID, string, bool) {
	requestID := c.MustGet("requestID").(string)

	var uri playerURI
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request parameters",
			"errors":    validators.FieldErrors(err),
			"requestID": requestID,
		})
		return "", "", false
	}

	game, _ := model.ParseGameID(uri.GameID)

	if !gamedata.ValidRegion(game, region) {
		errs := []validators.FieldError{{Field: "region", Message: "unsupported region for this game"}}

		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request parameters",
			"errors":    errs,
			"requestID": requestID,
		})
		return "", "", false
	}

	return game, uri.PlayerID, true
}
