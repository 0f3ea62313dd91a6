package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server ServerConfig

	// Database configuration
	Database DatabaseConfig

	// Object storage for uploaded images
	Storage StorageConfig

	// Chat assistant configuration
	Chat ChatConfig

	// Admin session configuration
	Auth AuthConfig

	// Article renderer configuration
	Content ContentConfig

	// Import/Export configuration
	Import ImportConfig

	// Background storage cleanup
	Cleanup CleanupConfig

	// Logging configuration
	Log LogConfig

	// Path of the static site profile (site.yaml)
	SiteProfilePath string
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host           string
	Port           string
	User           string
	Password       string
	Name           string
	SSLMode        string
	MaxOpenConns   int
	MaxIdleConns   int
	MaxLifetime    time.Duration
	MigrationsPath string
}

// StorageConfig selects and configures the image store.
type StorageConfig struct {
	Driver        string // "supabase" or "local"
	SupabaseURL   string
	SupabaseKey   string
	Bucket        string
	MemberBucket  string
	LocalDir      string
	PublicPath    string
	MaxUploadSize int64 // in bytes
}

// ChatConfig holds the hosted LLM settings
type ChatConfig struct {
	APIKey         string
	BaseURL        string
	Model          string
	FallbackModel  string
	Temperature    float32
	MaxTokens      int
	Timeout        time.Duration
	RecentArticles int
}

// AuthConfig holds admin session settings
type AuthConfig struct {
	SessionSecret string
	SessionName   string
	SessionMaxAge int // seconds
	CookieSecure  bool
}

// ContentConfig holds article renderer settings
type ContentConfig struct {
	PlaceholderAlt string
	CaptionLabels  []string
	PageSize       int
}

// ImportConfig holds bulk import settings
type ImportConfig struct {
	BatchSize     int
	MaxUploadSize int64 // in bytes
}

// CleanupConfig holds settings for the storage cleanup worker
type CleanupConfig struct {
	PollInterval time.Duration
	MaxWorkers   int
	MaxAttempts  int
	// RetryDelay is the wait after the first failed attempt. It doubles
	// with every further failure up to MaxRetryDelay.
	RetryDelay    time.Duration
	MaxRetryDelay time.Duration
	// StaleAfter is how long a job may stay processing before it is
	// handed back to the queue.
	StaleAfter time.Duration
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string
	Format string // "json" or "pretty"
}

// Load reads configuration from environment variables, after merging a
// .env file from the working directory when one exists.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			ReadTimeout:     getDurationEnv("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:    getDurationEnv("SERVER_WRITE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getDurationEnv("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		Database: DatabaseConfig{
			Host:           getEnv("DB_HOST", "localhost"),
			Port:           getEnv("DB_PORT", "5432"),
			User:           getEnv("DB_USER", "postgres"),
			Password:       getEnv("DB_PASSWORD", "postgres"),
			Name:           getEnv("DB_NAME", "amanah"),
			SSLMode:        getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:   getIntEnv("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:   getIntEnv("DB_MAX_IDLE_CONNS", 2),
			MaxLifetime:    getDurationEnv("DB_MAX_LIFETIME", 5*time.Minute),
			MigrationsPath: getEnv("MIGRATIONS_PATH", "./migrations"),
		},
		Storage: StorageConfig{
			Driver:        getEnv("STORAGE_DRIVER", "local"),
			SupabaseURL:   strings.TrimRight(getEnv("SUPABASE_URL", ""), "/"),
			SupabaseKey:   getEnv("SUPABASE_SERVICE_KEY", ""),
			Bucket:        getEnv("STORAGE_BUCKET", "Blog"),
			MemberBucket:  getEnv("STORAGE_MEMBER_BUCKET", "anggota"),
			LocalDir:      getEnv("STORAGE_LOCAL_DIR", "./data/media"),
			PublicPath:    getEnv("STORAGE_PUBLIC_PATH", "/media"),
			MaxUploadSize: getInt64Env("MAX_IMAGE_SIZE", 5*1024*1024), // 5MB
		},
		Chat: ChatConfig{
			APIKey:         getEnv("GROQ_API_KEY", ""),
			BaseURL:        getEnv("CHAT_BASE_URL", "https://api.groq.com/openai/v1"),
			Model:          getEnv("CHAT_MODEL", "llama-3.3-70b-versatile"),
			FallbackModel:  getEnv("CHAT_FALLBACK_MODEL", "llama-3.1-8b-instant"),
			Temperature:    float32(getFloatEnv("CHAT_TEMPERATURE", 0.7)),
			MaxTokens:      getIntEnv("CHAT_MAX_TOKENS", 600),
			Timeout:        getDurationEnv("CHAT_TIMEOUT", 30*time.Second),
			RecentArticles: getIntEnv("CHAT_RECENT_ARTICLES", 10),
		},
		Auth: AuthConfig{
			SessionSecret: getEnv("SESSION_SECRET", ""),
			SessionName:   getEnv("SESSION_NAME", "amanah_session"),
			SessionMaxAge: getIntEnv("SESSION_MAX_AGE", 7*24*3600),
			CookieSecure:  getBoolEnv("SESSION_COOKIE_SECURE", false),
		},
		Content: ContentConfig{
			PlaceholderAlt: getEnv("CONTENT_PLACEHOLDER_ALT", "Gambar artikel"),
			CaptionLabels:  getListEnv("CONTENT_CAPTION_LABELS", []string{"Keterangan:"}),
			PageSize:       getIntEnv("BLOG_PAGE_SIZE", 9),
		},
		Import: ImportConfig{
			BatchSize:     getIntEnv("IMPORT_BATCH_SIZE", 500),
			MaxUploadSize: getInt64Env("MAX_IMPORT_SIZE", 50*1024*1024), // 50MB
		},
		Cleanup: CleanupConfig{
			PollInterval:  getDurationEnv("CLEANUP_POLL_INTERVAL", 2*time.Second),
			MaxWorkers:    getIntEnv("CLEANUP_MAX_WORKERS", 4),
			MaxAttempts:   getIntEnv("CLEANUP_MAX_ATTEMPTS", 3),
			RetryDelay:    getDurationEnv("CLEANUP_RETRY_DELAY", 30*time.Second),
			MaxRetryDelay: getDurationEnv("CLEANUP_MAX_RETRY_DELAY", 10*time.Minute),
			StaleAfter:    getDurationEnv("CLEANUP_STALE_AFTER", 15*time.Minute),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		SiteProfilePath: getEnv("SITE_PROFILE_PATH", "./configs/site.yaml"),
	}

	// Validate required configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Database.Host == "" {
		return fmt.Errorf("DB_HOST is required")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("DB_NAME is required")
	}
	if len(c.Auth.SessionSecret) < 32 {
		return fmt.Errorf("SESSION_SECRET must be at least 32 bytes")
	}
	switch c.Storage.Driver {
	case "local":
		if c.Storage.LocalDir == "" {
			return fmt.Errorf("STORAGE_LOCAL_DIR is required for the local storage driver")
		}
	case "supabase":
		if c.Storage.SupabaseURL == "" || c.Storage.SupabaseKey == "" {
			return fmt.Errorf("SUPABASE_URL and SUPABASE_SERVICE_KEY are required for the supabase storage driver")
		}
	default:
		return fmt.Errorf("STORAGE_DRIVER must be one of: local, supabase")
	}
	if c.Content.PageSize <= 0 {
		return fmt.Errorf("BLOG_PAGE_SIZE must be greater than 0")
	}
	return nil
}

// GetDSN returns the PostgreSQL connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getInt64Env(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

// getListEnv splits a comma-separated value, dropping empty entries.
func getListEnv(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
