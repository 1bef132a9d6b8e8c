// Package auth contains the passcode sign in endpoints
package auth

import (
	"errors"
	"net/http"

	"gamedash/api/internal"
	"gamedash/api/pkg/validators"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type requestOTPBody struct {
	Address string `json:"address" binding:"required,address"`
}

func RequestOTP(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	var data requestOTPBody
	if err := c.ShouldBindJSON(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request body",
			"errors":    validators.FieldErrors(err),
			"requestID": requestID,
		})
		return
	}

	p, err := d.Auth.RequestCode(c.Request.Context(), data.Address)
	if err != nil {
		if errors.Is(err, validators.ErrAddressEmpty) || errors.Is(err, validators.ErrAddressInvalid) {
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

		zap.L().Error("Failed to issue passcode", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	res := gin.H{"message": "Verification code sent"}
	if viper.GetBool("auth.echo_otp") {
		res["otp"] = p.Code
	}

	c.JSON(http.StatusOK, res)
}
