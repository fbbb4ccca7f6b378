package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"barbersbuddies/booking-service/internal/app/booking/config"
	"barbersbuddies/booking-service/internal/app/booking/handler"
	"barbersbuddies/booking-service/internal/app/booking/service"
	"barbersbuddies/pkg/logger"
	"barbersbuddies/pkg/store"
)

const serviceName = "booking-service"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(serviceName, cfg.Log.Level)
	if cfg.Log.LogstashAddr != "" {
		if err := logger.InitLogstash(cfg.Log.LogstashAddr, serviceName, cfg.Log.Level); err != nil {
			logger.Warn().Err(err).Msg("Failed to connect to Logstash, using stdout only")
		} else {
			logger.Info().Str("logstash_addr", cfg.Log.LogstashAddr).Msg("Connected to Logstash")
		}
	}

	mongoClient, err := store.Connect(context.Background(), cfg.MongoDB.URI, 10)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to MongoDB")
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := mongoClient.Disconnect(ctx); err != nil {
			logger.Error().Err(err).Msg("Error disconnecting from MongoDB")
		}
	}()
	logger.Info().Str("database", cfg.MongoDB.Database).Msg("Connected to MongoDB")

	db := mongoClient.Database(cfg.MongoDB.Database)
	store.EnsureIndexes(context.Background(), db)

	var lookupCache store.ShopLookupCache
	if cfg.Redis.Enabled() {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := redisClient.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			logger.Warn().Err(err).Str("addr", cfg.Redis.Address()).Msg("Redis unavailable, shop lookup cache disabled")
		} else {
			lookupCache = store.NewShopLookupCache(redisClient, cfg.Redis.TTL, serviceName)
			logger.Info().Str("addr", cfg.Redis.Address()).Msg("Connected to Redis")
		}
	}

	tx := store.NewTxManager(mongoClient)
	bookingRepo := store.NewBookingRepository(db, serviceName)
	shopRepo := store.NewShopRepository(db)
	shopNameRepo := store.NewShopNameRepository(db)
	ratingRepo := store.NewRatingRepository(db)
	messageRepo := store.NewMessageRepository(db)
	notificationRepo := store.NewNotificationRepository(db)
	userRepo := store.NewUserRepository(db)
	preferenceRepo := store.NewPreferenceRepository(db)
	deletedRepo := store.NewDeletedAccountRepository(db)
	outboxRepo := store.NewOutboxRepository(db)

	bookingService := service.NewBookingService(tx, bookingRepo, shopRepo, outboxRepo)
	messageService := service.NewMessageService(tx, bookingRepo, shopRepo, messageRepo, notificationRepo, outboxRepo)
	ratingService := service.NewRatingService(tx, ratingRepo, bookingRepo, notificationRepo, outboxRepo)
	shopService := service.NewShopService(tx, shopRepo, shopNameRepo, outboxRepo, lookupCache)
	accountService := service.NewAccountService(tx, userRepo, preferenceRepo, deletedRepo, outboxRepo)

	router := handler.SetupRoutes(handler.Handlers{
		Booking:   handler.NewBookingHandler(bookingService),
		Community: handler.NewCommunityHandler(messageService, ratingService),
		Shop:      handler.NewShopHandler(shopService),
		Account:   handler.NewAccountHandler(accountService),
	}, handler.NewAuthMiddleware(cfg.JWT.Secret), cfg.CORS.AllowedOrigins)

	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Strs("allowed_origins", cfg.CORS.AllowedOrigins).
			Msg("Starting Booking Service")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down Booking Service...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("Booking Service stopped gracefully")
}
