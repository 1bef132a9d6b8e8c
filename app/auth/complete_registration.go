package auth

import (
	"errors"
	"io"
	"net/http"

	"gamedash/api/internal"
	"gamedash/api/pkg/validators"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type completeRegistrationBody struct {
	Phone *string `json:"phone" binding:"omitempty,phone"`
}

func CompleteRegistration(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	// Every field is optional so an empty body is fine
	var data completeRegistrationBody
	if err := c.ShouldBindJSON(&data); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request body",
			"errors":    validators.FieldErrors(err),
			"requestID": requestID,
		})
		return
	}

	user, err := d.Auth.CompleteRegistration(c.Request.Context(), c.GetString("userID"), data.Phone)
	if err != nil {
		if errors.Is(err, validators.ErrPhoneInvalid) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":     err.Error(),
				"requestID": requestID,
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to complete registration", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}
