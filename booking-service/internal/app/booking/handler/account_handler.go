package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"barbersbuddies/booking-service/internal/app/booking/entity"
	"barbersbuddies/booking-service/internal/app/booking/service"
)

// AccountHandler serves the endpoints acting on the authenticated user.
type AccountHandler struct {
	accountService service.AccountServiceInterface
	validator      *validator.Validate
}

func NewAccountHandler(accountService service.AccountServiceInterface) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
		validator:      newValidator(),
	}
}

// UpdateFCMToken handles POST /updateFCMToken.
func (h *AccountHandler) UpdateFCMToken(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req entity.UpdateFCMTokenRequest
	if !bind(c, h.validator, &req) {
		return
	}

	if err := h.accountService.UpdateFCMToken(c.Request.Context(), userID, req.Token); err != nil {
		respondError(c, err, "update FCM token")
		return
	}

	c.JSON(http.StatusOK, entity.MessageResponse{Message: "FCM token updated successfully"})
}

// UpdatePreferences handles POST /notificationPreferences.
func (h *AccountHandler) UpdatePreferences(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req entity.PreferencesRequest
	if !bind(c, h.validator, &req) {
		return
	}

	pref, err := h.accountService.SavePreferences(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err, "save notification preferences")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Notification preferences saved",
		"preferences": pref,
	})
}

// DeleteAccount handles POST /deleteAccount. The body is optional.
func (h *AccountHandler) DeleteAccount(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req entity.DeleteAccountRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
	}

	email := c.GetString("email")
	if err := h.accountService.DeleteAccount(c.Request.Context(), userID, email, req.Reason); err != nil {
		respondError(c, err, "delete account")
		return
	}

	c.JSON(http.StatusOK, entity.MessageResponse{Message: "Account scheduled for deletion"})
}
