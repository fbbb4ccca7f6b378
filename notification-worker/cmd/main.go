package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"barbersbuddies/notification-worker/internal/app/worker/config"
	"barbersbuddies/notification-worker/internal/app/worker/entity"
	"barbersbuddies/notification-worker/internal/app/worker/handler"
	"barbersbuddies/notification-worker/internal/app/worker/infrastructure/messaging"
	"barbersbuddies/notification-worker/internal/app/worker/processor"
	"barbersbuddies/notification-worker/internal/app/worker/repository"
	"barbersbuddies/notification-worker/internal/app/worker/service"
	"barbersbuddies/pkg/logger"
	"barbersbuddies/pkg/store"
)

const serviceName = "notification-worker"

// shop lookup entries are only invalidated from here; the TTL is unused
const lookupCacheTTL = 5 * time.Minute

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
		}
	}

	ctx := context.Background()

	mongoClient, err := store.Connect(ctx, cfg.MongoDB.URI, 10)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to MongoDB")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		mongoClient.Disconnect(disconnectCtx)
	}()
	mongoDB := mongoClient.Database(cfg.MongoDB.Database)
	store.EnsureIndexes(ctx, mongoDB)
	logger.Info().Str("database", cfg.MongoDB.Database).Msg("Connected to MongoDB")

	auditDB, err := connectDB(cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to audit database")
	}
	if err := auditDB.AutoMigrate(&entity.ReminderAudit{}); err != nil {
		logger.Fatal().Err(err).Msg("Failed to migrate reminder audits")
	}
	logger.Info().Str("database", cfg.Database.DBName).Msg("Connected to PostgreSQL")

	redisClient, err := connectRedis(ctx, cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer redisClient.Close()
	logger.Info().Str("addr", cfg.Redis.Address()).Msg("Connected to Redis")

	bookingRepo := store.NewBookingRepository(mongoDB, serviceName)
	shopRepo := store.NewShopRepository(mongoDB)
	shopNameRepo := store.NewShopNameRepository(mongoDB)
	ratingRepo := store.NewRatingRepository(mongoDB)
	notificationRepo := store.NewNotificationRepository(mongoDB)
	userRepo := store.NewUserRepository(mongoDB)
	preferenceRepo := store.NewPreferenceRepository(mongoDB)
	outboxRepo := store.NewOutboxRepository(mongoDB)
	dedupe := repository.NewReminderDedupe(redisClient, cfg.Redis.ReminderTTL)
	auditRepo := repository.NewReminderAuditRepository(auditDB)
	lookupCache := store.NewShopLookupCache(redisClient, lookupCacheTTL, serviceName)

	mailer := service.NewEmailAPIClient(cfg.Email.APIURL, cfg.Email.APIKey, cfg.Email.From, cfg.Email.Timeout)

	var pusher service.Pusher
	if cfg.Push.Enabled() {
		fcm, err := service.NewFCMClient(ctx, cfg.Push.APIURL, cfg.Push.CredentialsFile, cfg.Push.Timeout)
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to initialize push client")
		}
		pusher = fcm
	} else {
		logger.Warn().Msg("PUSH_CREDENTIALS_FILE not set, push notifications disabled")
	}

	producer := messaging.NewKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	defer producer.Close()

	relay := service.NewOutboxRelay(outboxRepo, producer, cfg.Outbox.MaxAttempts, cfg.Outbox.BatchSize)
	triggers := service.NewTriggerService(service.TriggerDependencies{
		Mailer:        mailer,
		Pusher:        pusher,
		Users:         userRepo,
		Preferences:   preferenceRepo,
		Shops:         shopRepo,
		ShopNames:     shopNameRepo,
		Ratings:       ratingRepo,
		Notifications: notificationRepo,
		Cache:         lookupCache,
	})
	reminders := service.NewReminderService(bookingRepo, preferenceRepo, dedupe, auditRepo, mailer, cfg.Location)

	kafkaConsumer := processor.NewKafkaConsumer(
		cfg.Kafka.Brokers,
		cfg.Kafka.Topic,
		cfg.Kafka.GroupID,
		cfg.Kafka.MinBytes,
		cfg.Kafka.MaxBytes,
		triggers,
	)
	kafkaConsumer.Start(ctx)
	defer kafkaConsumer.Stop()
	logger.Info().Str("topic", cfg.Kafka.Topic).Str("group", cfg.Kafka.GroupID).Msg("Kafka consumer started")

	cronScheduler := processor.NewCronScheduler(reminders, relay)
	if err := cronScheduler.Start(ctx, cfg.Cron.Reminders, cfg.Cron.Outbox); err != nil {
		logger.Fatal().Err(err).Msg("Failed to start cron scheduler")
	}
	defer cronScheduler.Stop()
	logger.Info().
		Str("reminders", cfg.Cron.Reminders).
		Str("outbox", cfg.Cron.Outbox).
		Str("timezone", cfg.Location.String()).
		Msg("Cron scheduler started")

	healthHandler := handler.NewHealthCheckHandler(
		handler.MongoCheck(mongoClient),
		handler.RedisCheck(redisClient),
		handler.PostgresCheck(auditDB),
	)

	mux := http.NewServeMux()
	healthHandler.RegisterRoutes(mux)
	mux.Handle("/metrics", promhttp.Handler())

	httpServer := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: mux,
	}

	go func() {
		logger.Info().Str("port", cfg.Server.Port).Msg("Starting health and metrics server")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("HTTP server error")
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	logger.Info().Msg("Notification Worker is running")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down Notification Worker...")
}

func connectDB(cfg config.DatabaseConfig) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	}

	var db *gorm.DB
	var err error

	for i := 0; i < 10; i++ {
		db, err = gorm.Open(postgres.Open(cfg.DSN()), gormConfig)
		if err == nil {
			sqlDB, sqlErr := db.DB()
			if sqlErr != nil {
				err = sqlErr
			} else if pingErr := sqlDB.Ping(); pingErr != nil {
				err = pingErr
			} else {
				sqlDB.SetMaxOpenConns(5)
				sqlDB.SetMaxIdleConns(2)
				sqlDB.SetConnMaxLifetime(5 * time.Minute)
				return db, nil
			}
		}
		logger.Warn().Err(err).Int("attempt", i+1).Msg("Failed to connect to database")
		time.Sleep(3 * time.Second)
	}

	return nil, fmt.Errorf("failed to connect after 10 attempts: %w", err)
}

func connectRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Address(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})

	for i := 0; i < 10; i++ {
		if err := client.Ping(ctx).Err(); err == nil {
			return client, nil
		}
		logger.Warn().Int("attempt", i+1).Msg("Failed to connect to Redis")
		time.Sleep(3 * time.Second)
	}

	client.Close()
	return nil, fmt.Errorf("failed to connect to Redis after 10 attempts")
}
