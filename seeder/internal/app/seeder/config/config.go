package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	MongoDB  MongoDBConfig
	Database DatabaseConfig
	Password string // shared demo account password
	LogLevel string
}

type MongoDBConfig struct {
	URI      string
	Database string
}

// DatabaseConfig points at the reminder audit database cleaned by
// "clean --audit".
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

func Load() *Config {
	_ = godotenv.Load()

	return &Config{
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
		Password: getEnv("SEED_PASSWORD", "barbers-demo"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

// ConnString returns a postgres:// URL for pgx.
func (c *DatabaseConfig) ConnString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
