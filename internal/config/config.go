package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database     DatabaseConfig
	JWT          JWTConfig
	App          AppConfig
	Storage      StorageConfig
	Cloudinary   CloudinaryConfig
	Push         PushConfig
	Notification NotificationConfig
	CORS         CORSConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	// URL overrides the individual fields when set
	URL      string
	MaxConns int32
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

// AppConfig holds application configuration
type AppConfig struct {
	Name     string
	Version  string
	Port     int
	Env      string
	LogLevel string
}

// StorageConfig selects where uploaded media is kept
type StorageConfig struct {
	Type     string // local, cloudinary
	BasePath string
	BaseURL  string
}

type CloudinaryConfig struct {
	URL       string
	CloudName string
	APIKey    string
	APISecret string
	Folder    string
}

type PushConfig struct {
	Provider           string // log, fcm, expo
	FCMProjectID       string
	FCMCredentialsFile string
	FCMCredentialsJSON string
	ExpoURL            string
	ExpoAccessToken    string
	ExpoChannelID      string
}

type NotificationConfig struct {
	// OperatorTokens receive a copy of every push
	OperatorTokens []string
	// DeviceStaleAfter is how long a device may go without re-registering
	// before it is pruned. Zero disables pruning.
	DeviceStaleAfter time.Duration
	SubscriberBuffer int
}

type CORSConfig struct {
	AllowedOrigins []string
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}
	maxConns, err := strconv.Atoi(getEnv("DB_MAX_CONNS", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_CONNS: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "musicverse"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		URL:      getEnv("DATABASE_URL", ""),
		MaxConns: int32(maxConns),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Name:     getEnv("APP_NAME", "musicverse"),
		Version:  getEnv("APP_VERSION", "v1.0.0"),
		Port:     appPort,
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "24h"),
	}

	// Storage configuration
	config.Storage = StorageConfig{
		Type:     strings.ToLower(getEnv("STORAGE_TYPE", "local")),
		BasePath: getEnv("STORAGE_BASE_PATH", "./uploads"),
		BaseURL:  getEnv("STORAGE_BASE_URL", fmt.Sprintf("http://localhost:%d/uploads", appPort)),
	}

	config.Cloudinary = CloudinaryConfig{
		URL:       getEnv("CLOUDINARY_URL", ""),
		CloudName: getEnv("CLOUDINARY_CLOUD_NAME", ""),
		APIKey:    getEnv("CLOUDINARY_API_KEY", ""),
		APISecret: getEnv("CLOUDINARY_API_SECRET", ""),
		Folder:    getEnv("CLOUDINARY_FOLDER", "musicverse"),
	}

	// Push configuration
	config.Push = PushConfig{
		Provider:           strings.ToLower(getEnv("PUSH_PROVIDER", "log")),
		FCMProjectID:       getEnv("FCM_PROJECT_ID", ""),
		FCMCredentialsFile: getEnv("FCM_CREDENTIALS_FILE", ""),
		FCMCredentialsJSON: getEnv("FCM_CREDENTIALS_JSON", ""),
		ExpoURL:            getEnv("EXPO_PUSH_URL", ""),
		ExpoAccessToken:    getEnv("EXPO_ACCESS_TOKEN", ""),
		ExpoChannelID:      getEnv("EXPO_CHANNEL_ID", ""),
	}

	// Notification configuration
	staleAfter, err := time.ParseDuration(getEnv("DEVICE_STALE_AFTER", "1440h"))
	if err != nil {
		return nil, fmt.Errorf("invalid DEVICE_STALE_AFTER: %w", err)
	}
	subscriberBuffer, err := strconv.Atoi(getEnv("NOTIFICATION_SUBSCRIBER_BUFFER", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid NOTIFICATION_SUBSCRIBER_BUFFER: %w", err)
	}

	config.Notification = NotificationConfig{
		OperatorTokens:   getEnvSlice("PUSH_OPERATOR_TOKENS"),
		DeviceStaleAfter: staleAfter,
		SubscriberBuffer: subscriberBuffer,
	}

	config.CORS = CORSConfig{
		AllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS"),
	}
	if len(config.CORS.AllowedOrigins) == 0 {
		config.CORS.AllowedOrigins = []string{"http://localhost:3000"}
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.URL == "" && c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD or DATABASE_URL is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if _, err := time.ParseDuration(c.JWT.AccessExpiration); err != nil {
		return fmt.Errorf("invalid JWT_ACCESS_EXPIRATION_TIME: %w", err)
	}

	switch c.Storage.Type {
	case "local":
		if c.Storage.BasePath == "" {
			return fmt.Errorf("STORAGE_BASE_PATH is required for local storage")
		}
	case "cloudinary":
		if c.Cloudinary.URL == "" && (c.Cloudinary.CloudName == "" || c.Cloudinary.APIKey == "" || c.Cloudinary.APISecret == "") {
			return fmt.Errorf("CLOUDINARY_URL or CLOUDINARY_CLOUD_NAME, CLOUDINARY_API_KEY and CLOUDINARY_API_SECRET are required")
		}
	default:
		return fmt.Errorf("unsupported STORAGE_TYPE: %s", c.Storage.Type)
	}

	switch c.Push.Provider {
	case "log", "expo":
	case "fcm", "firebase":
		if c.Push.FCMCredentialsFile == "" && c.Push.FCMCredentialsJSON == "" {
			return fmt.Errorf("FCM_CREDENTIALS_FILE or FCM_CREDENTIALS_JSON is required for fcm")
		}
	default:
		return fmt.Errorf("unsupported PUSH_PROVIDER: %s", c.Push.Provider)
	}

	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	if c.Database.URL != "" {
		return c.Database.URL
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(env string) []string {
	value := getEnv(env, "")
	if value == "" {
		return []string{}
	}
	var result []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
