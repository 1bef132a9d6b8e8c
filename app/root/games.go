package root

import (
	"net/http"

	"gamedash/api/internal/gamedata"

	"github.com/gin-gonic/gin"
)

// Games lists the supported titles with their player ID hints and regions
func Games(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"games": gamedata.Catalog})
}
