package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every setting of the notification worker: the document store
// it reads, the event bus, the reminder dedupe store, the audit database and
// the outbound email and push providers.
type Config struct {
	Server   ServerConfig
	MongoDB  MongoDBConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Email    EmailConfig
	Push     PushConfig
	Cron     CronConfig
	Outbox   OutboxConfig
	Location *time.Location
	Log      LogConfig
}

type ServerConfig struct {
	Port string // health and metrics
}

type MongoDBConfig struct {
	URI      string
	Database string
}

// DatabaseConfig points at the PostgreSQL database holding reminder audits.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Host        string
	Port        string
	Password    string
	DB          int
	ReminderTTL time.Duration // lifetime of a sent-reminder marker
}

type KafkaConfig struct {
	Brokers  []string
	Topic    string
	GroupID  string
	MinBytes int
	MaxBytes int
}

type EmailConfig struct {
	APIURL  string
	APIKey  string
	From    string
	Timeout time.Duration
}

// PushConfig configures FCM. An empty CredentialsFile disables push.
type PushConfig struct {
	APIURL          string
	CredentialsFile string
	Timeout         time.Duration
}

type CronConfig struct {
	Reminders string
	Outbox    string
}

type OutboxConfig struct {
	MaxAttempts int
	BatchSize   int64
}

type LogConfig struct {
	Level        string
	LogstashAddr string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	loc, err := time.LoadLocation(getEnv("TIMEZONE", "UTC"))
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8081"),
		},
		MongoDB: MongoDBConfig{
			URI:      getEnv("MONGODB_URI", "mongodb://localhost:27017/?replicaSet=rs0"),
			Database: getEnv("MONGODB_DATABASE", "barbersbuddies"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "barbersbuddies_audit"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:        getEnv("REDIS_HOST", "localhost"),
			Port:        getEnv("REDIS_PORT", "6379"),
			Password:    getEnv("REDIS_PASSWORD", ""),
			DB:          getEnvInt("REDIS_DB", 0),
			ReminderTTL: getEnvDuration("REMINDER_DEDUPE_TTL", 8*24*time.Hour),
		},
		Kafka: KafkaConfig{
			Brokers:  splitList(getEnv("KAFKA_BROKERS", "localhost:9092")),
			Topic:    getEnv("KAFKA_TOPIC", "barbersbuddies_events"),
			GroupID:  getEnv("KAFKA_GROUP_ID", "notification-worker"),
			MinBytes: getEnvInt("KAFKA_MIN_BYTES", 1),
			MaxBytes: getEnvInt("KAFKA_MAX_BYTES", 10e6),
		},
		Email: EmailConfig{
			APIURL:  getEnv("EMAIL_API_URL", "http://localhost:8025/api/send"),
			APIKey:  getEnv("EMAIL_API_KEY", ""),
			From:    getEnv("EMAIL_FROM", "BarbersBuddies <bookings@barbersbuddies.com>"),
			Timeout: getEnvDuration("EMAIL_API_TIMEOUT", 10*time.Second),
		},
		Push: PushConfig{
			APIURL:          getEnv("PUSH_API_URL", "https://fcm.googleapis.com"),
			CredentialsFile: getEnv("PUSH_CREDENTIALS_FILE", ""),
			Timeout:         getEnvDuration("PUSH_API_TIMEOUT", 10*time.Second),
		},
		Cron: CronConfig{
			Reminders: getEnv("CRON_REMINDERS", "0 * * * *"),
			Outbox:    getEnv("CRON_OUTBOX", "@every 5s"),
		},
		Outbox: OutboxConfig{
			MaxAttempts: getEnvInt("OUTBOX_MAX_ATTEMPTS", 8),
			BatchSize:   int64(getEnvInt("OUTBOX_BATCH_SIZE", 100)),
		},
		Location: loc,
		Log: LogConfig{
			Level:        getEnv("LOG_LEVEL", "info"),
			LogstashAddr: getEnv("LOGSTASH_ADDR", ""),
		},
	}

	if len(cfg.Kafka.Brokers) == 0 {
		return nil, fmt.Errorf("KAFKA_BROKERS must list at least one broker")
	}
	if cfg.Outbox.MaxAttempts < 1 {
		return nil, fmt.Errorf("OUTBOX_MAX_ATTEMPTS must be positive")
	}

	return cfg, nil
}

// DSN returns the libpq connection string for the audit database.
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func (c *RedisConfig) Address() string {
	return c.Host + ":" + c.Port
}

func (c *PushConfig) Enabled() bool {
	return c.CredentialsFile != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
