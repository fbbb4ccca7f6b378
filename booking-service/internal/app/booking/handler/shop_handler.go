package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"barbersbuddies/booking-service/internal/app/booking/entity"
	"barbersbuddies/booking-service/internal/app/booking/service"
)

type ShopHandler struct {
	shopService service.ShopServiceInterface
	validator   *validator.Validate
}

func NewShopHandler(shopService service.ShopServiceInterface) *ShopHandler {
	return &ShopHandler{
		shopService: shopService,
		validator:   newValidator(),
	}
}

// CreateShop handles POST /shops.
func (h *ShopHandler) CreateShop(c *gin.Context) {
	var req entity.ShopRequest
	if !bind(c, h.validator, &req) {
		return
	}

	shop, err := h.shopService.CreateShop(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "create shop")
		return
	}

	c.JSON(http.StatusCreated, entity.ShopResponse{Message: "Shop created successfully", Shop: shop})
}

// UpdateShop handles POST /shops/:shopId.
func (h *ShopHandler) UpdateShop(c *gin.Context) {
	var req entity.ShopRequest
	if !bind(c, h.validator, &req) {
		return
	}

	shop, err := h.shopService.UpdateShop(c.Request.Context(), c.Param("shopId"), &req)
	if err != nil {
		respondError(c, err, "update shop")
		return
	}

	c.JSON(http.StatusOK, entity.ShopResponse{Message: "Shop updated successfully", Shop: shop})
}

// DeleteShop handles DELETE /shops/:shopId.
func (h *ShopHandler) DeleteShop(c *gin.Context) {
	if err := h.shopService.DeleteShop(c.Request.Context(), c.Param("shopId")); err != nil {
		respondError(c, err, "delete shop")
		return
	}

	c.JSON(http.StatusOK, entity.MessageResponse{Message: "Shop deleted successfully"})
}

// LookupShop handles GET /shops/lookup?name=.
func (h *ShopHandler) LookupShop(c *gin.Context) {
	entries, err := h.shopService.LookupByName(c.Request.Context(), c.Query("name"))
	if err != nil {
		respondError(c, err, "look up shop")
		return
	}

	c.JSON(http.StatusOK, entity.ShopLookupResponse{Shops: entries, Total: len(entries)})
}
