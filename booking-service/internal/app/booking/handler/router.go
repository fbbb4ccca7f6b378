package handler

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"barbersbuddies/pkg/logger"
	"barbersbuddies/pkg/metrics"
)

const serviceName = "booking-service"

type Handlers struct {
	Booking   *BookingHandler
	Community *CommunityHandler
	Shop      *ShopHandler
	Account   *AccountHandler
}

// SetupRoutes wires every endpoint. Trigger-style endpoints accept POST only;
// other methods get 405.
func SetupRoutes(h Handlers, authMiddleware *AuthMiddleware, allowedOrigins []string) *gin.Engine {
	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Method not allowed"})
	})
	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	})

	router.Use(gin.Recovery())
	router.Use(logger.GinLoggerMiddleware())
	router.Use(metrics.GinPrometheusMiddleware(serviceName))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": serviceName,
		})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.POST("/createBooking", h.Booking.CreateBooking)
	router.POST("/updateBooking", h.Booking.UpdateBooking)
	router.POST("/cancelBooking", h.Booking.CancelBooking)
	router.POST("/rescheduleAppointment", h.Booking.RescheduleAppointment)
	router.POST("/updateBookingStatus", h.Booking.UpdateBookingStatus)

	router.POST("/shopMessage", h.Community.ShopMessage)
	router.POST("/respondToRating", h.Community.RespondToRating)
	router.POST("/submitRating", h.Community.SubmitRating)

	shops := router.Group("/shops")
	{
		shops.POST("", h.Shop.CreateShop)
		shops.GET("/lookup", h.Shop.LookupShop)
		shops.POST("/:shopId", h.Shop.UpdateShop)
		shops.DELETE("/:shopId", h.Shop.DeleteShop)
	}

	account := router.Group("/")
	account.Use(authMiddleware.Authenticate())
	{
		account.POST("/updateFCMToken", h.Account.UpdateFCMToken)
		account.POST("/notificationPreferences", h.Account.UpdatePreferences)
		account.POST("/deleteAccount", h.Account.DeleteAccount)
	}

	return router
}
