package auth

import (
	"errors"
	"net/http"

	"gamedash/api/internal"
	"gamedash/api/internal/service"
	"gamedash/api/pkg/middleware"
	"gamedash/api/pkg/validators"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type verifyOTPBody struct {
	Address string `json:"address" binding:"required,address"`
	Code    string `json:"code" binding:"required,len=6,numeric"`
}

func VerifyOTP(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	var data verifyOTPBody
	if err := c.ShouldBindJSON(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request body",
			"errors":    validators.FieldErrors(err),
			"requestID": requestID,
		})
		return
	}

	login, err := d.Auth.VerifyCode(c.Request.Context(), data.Address, data.Code)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCode) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":     "Invalid or expired code",
				"requestID": requestID,
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to verify passcode", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	token, err := d.Signer.Sign(login.Session.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to sign session token", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	middleware.SetSessionCookie(c, token, int(d.Auth.SessionTTL.Seconds()))
	c.JSON(http.StatusOK, gin.H{
		"message":   "Signed in",
		"isNewUser": login.IsNewUser,
		"user":      login.User,
	})
}
