package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"barbersbuddies/booking-service/internal/app/booking/entity"
	"barbersbuddies/booking-service/internal/app/booking/service"
)

// CommunityHandler serves the customer/shop conversation endpoints: chat
// messages and ratings.
type CommunityHandler struct {
	messageService service.MessageServiceInterface
	ratingService  service.RatingServiceInterface
	validator      *validator.Validate
}

func NewCommunityHandler(messageService service.MessageServiceInterface, ratingService service.RatingServiceInterface) *CommunityHandler {
	return &CommunityHandler{
		messageService: messageService,
		ratingService:  ratingService,
		validator:      newValidator(),
	}
}

// ShopMessage handles POST /shopMessage.
func (h *CommunityHandler) ShopMessage(c *gin.Context) {
	var req entity.ShopMessageRequest
	if !bind(c, h.validator, &req) {
		return
	}

	message, err := h.messageService.SendShopMessage(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "send message")
		return
	}

	c.JSON(http.StatusOK, entity.ShopMessageResponse{Success: true, MessageID: message.ID})
}

// RespondToRating handles POST /respondToRating.
func (h *CommunityHandler) RespondToRating(c *gin.Context) {
	var req entity.RespondToRatingRequest
	if !bind(c, h.validator, &req) {
		return
	}

	if err := h.ratingService.RespondToRating(c.Request.Context(), &req); err != nil {
		respondError(c, err, "respond to rating")
		return
	}

	c.JSON(http.StatusOK, entity.MessageResponse{Message: "Response added successfully"})
}

// SubmitRating handles POST /submitRating.
func (h *CommunityHandler) SubmitRating(c *gin.Context) {
	var req entity.SubmitRatingRequest
	if !bind(c, h.validator, &req) {
		return
	}

	rating, err := h.ratingService.SubmitRating(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "submit rating")
		return
	}

	c.JSON(http.StatusOK, entity.SubmitRatingResponse{Message: "Rating submitted successfully", RatingID: rating.ID})
}
