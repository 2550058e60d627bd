package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	AppMode     string
	Port        string
	MaxUploadMB int
	Database    DatabaseConfig
	JWT         JWTConfig
	Store       StoreConfig
	Storage     StorageConfig
	Reminder    ReminderConfig
	Notify      NotifyConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

// JWTConfig holds the secret used to verify tokens from the identity service
type JWTConfig struct {
	Secret string
}

// StoreConfig selects the claim repository: "mysql" or "memory"
type StoreConfig struct {
	Driver string
}

// StorageConfig selects where supporting documents are written
type StorageConfig struct {
	Driver     string // local | s3
	LocalDir   string
	S3Bucket   string
	S3Region   string
	S3Prefix   string
	S3Endpoint string
}

// ReminderConfig holds the cron spec for review reminders
type ReminderConfig struct {
	Schedule string
}

// NotifyConfig holds the chat webhook for workflow events
type NotifyConfig struct {
	WebhookURL string
}

// Global config instance
var AppConfig *Config

// Load reads configuration from .env file and environment variables
func Load() (*Config, error) {
	// Load .env file (ignore error if file doesn't exist in production)
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	// Get APP_MODE (default to "dev") - trim spaces for Windows compatibility
	appMode := strings.TrimSpace(getEnv("APP_MODE", "dev"))
	if appMode != "dev" && appMode != "prod" {
		return nil, fmt.Errorf("invalid APP_MODE: '%s' (must be 'dev' or 'prod')", appMode)
	}

	maxUpload, err := strconv.Atoi(getEnv("MAX_UPLOAD_MB", "50"))
	if err != nil || maxUpload < 1 {
		return nil, fmt.Errorf("invalid MAX_UPLOAD_MB: '%s'", os.Getenv("MAX_UPLOAD_MB"))
	}

	// Build config based on APP_MODE
	config := &Config{
		AppMode:     appMode,
		Port:        getEnv("PORT", "3000"),
		MaxUploadMB: maxUpload,
		Database:    loadDatabaseConfig(appMode),
		JWT:         loadJWTConfig(appMode),
		Store:       StoreConfig{Driver: strings.ToLower(getEnv("STORE_DRIVER", "mysql"))},
		Storage:     loadStorageConfig(),
		Reminder:    ReminderConfig{Schedule: getEnv("REMINDER_SCHEDULE", "30 8 * * 1-5")},
		Notify:      NotifyConfig{WebhookURL: getEnv("NOTIFY_WEBHOOK_URL", "")},
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	// Set global config
	AppConfig = config

	log.Printf("✅ Configuration loaded successfully [MODE: %s, STORE: %s, STORAGE: %s]",
		appMode, config.Store.Driver, config.Storage.Driver)
	return config, nil
}

func (c *Config) validate() error {
	switch c.Store.Driver {
	case "mysql", "memory":
	default:
		return fmt.Errorf("invalid STORE_DRIVER: '%s' (must be 'mysql' or 'memory')", c.Store.Driver)
	}

	switch c.Storage.Driver {
	case "local":
	case "s3":
		if c.Storage.S3Bucket == "" {
			return fmt.Errorf("S3_BUCKET is required when STORAGE_DRIVER=s3")
		}
	default:
		return fmt.Errorf("invalid STORAGE_DRIVER: '%s' (must be 'local' or 's3')", c.Storage.Driver)
	}
	return nil
}

// loadDatabaseConfig loads database config based on mode
func loadDatabaseConfig(mode string) DatabaseConfig {
	prefix := "DEV_"
	if mode == "prod" {
		prefix = "PROD_"
	}

	return DatabaseConfig{
		Host:     getEnv(prefix+"DB_HOST", "localhost"),
		Port:     getEnv(prefix+"DB_PORT", "3306"),
		User:     getEnv(prefix+"DB_USER", "root"),
		Password: getEnv(prefix+"DB_PASS", ""),
		DBName:   getEnv(prefix+"DB_NAME", "cmcs_claims"),
	}
}

// loadJWTConfig loads JWT config based on mode
func loadJWTConfig(mode string) JWTConfig {
	prefix := "DEV_"
	if mode == "prod" {
		prefix = "PROD_"
	}

	return JWTConfig{
		Secret: getEnv(prefix+"JWT_SECRET", "default_secret"),
	}
}

// loadStorageConfig loads document storage config
func loadStorageConfig() StorageConfig {
	return StorageConfig{
		Driver:     strings.ToLower(getEnv("STORAGE_DRIVER", "local")),
		LocalDir:   getEnv("UPLOAD_DIR", "uploads"),
		S3Bucket:   getEnv("S3_BUCKET", ""),
		S3Region:   getEnv("AWS_REGION", "us-east-1"),
		S3Prefix:   getEnv("S3_PREFIX", "claims"),
		S3Endpoint: getEnv("S3_ENDPOINT", ""),
	}
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// IsDev returns true if running in development mode
func (c *Config) IsDev() bool {
	return c.AppMode == "dev"
}

// IsProd returns true if running in production mode
func (c *Config) IsProd() bool {
	return c.AppMode == "prod"
}

// GetAllowedOrigins returns allowed origins for CORS
func (c *Config) GetAllowedOrigins() string {
	origins := getEnv("ALLOWED_ORIGINS", "")
	if origins == "" {
		if c.IsDev() {
			return "*"
		}
		return "https://claims.example.edu"
	}
	return origins
}
