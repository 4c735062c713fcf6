package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Storage  StorageConfig
	Cache    CacheConfig
	Log      LogConfig
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
	Host         string
	Port         string
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  time.Duration
}

// StorageConfig holds blob store settings. The store is an S3-compatible
// service; BaseURL is the public prefix under which uploaded objects are
// served.
type StorageConfig struct {
	Bucket        string
	Region        string
	Endpoint      string
	BaseURL       string
	Folder        string
	MaxUploadSize int64 // in bytes
}

// CacheConfig holds settings for the in-process read cache
type CacheConfig struct {
	TTL             time.Duration
	CleanupInterval time.Duration
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string
	Format string // "json" or "pretty"
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("SERVER_READ_TIMEOUT", "30s")
	v.SetDefault("SERVER_WRITE_TIMEOUT", "60s")
	v.SetDefault("SERVER_SHUTDOWN_TIMEOUT", "30s")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "blog_content")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 25)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_MAX_LIFETIME", "5m")

	v.SetDefault("STORAGE_REGION", "us-east-1")
	v.SetDefault("STORAGE_FOLDER", "markdown_articles")
	v.SetDefault("MAX_UPLOAD_SIZE", 10*1024*1024) // 10MB

	v.SetDefault("CACHE_TTL", "5m")
	v.SetDefault("CACHE_CLEANUP_INTERVAL", "10m")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	cfg := &Config{
		Server: ServerConfig{
			Port:            v.GetString("PORT"),
			ReadTimeout:     v.GetDuration("SERVER_READ_TIMEOUT"),
			WriteTimeout:    v.GetDuration("SERVER_WRITE_TIMEOUT"),
			ShutdownTimeout: v.GetDuration("SERVER_SHUTDOWN_TIMEOUT"),
		},
		Database: DatabaseConfig{
			Host:         v.GetString("DB_HOST"),
			Port:         v.GetString("DB_PORT"),
			User:         v.GetString("DB_USER"),
			Password:     v.GetString("DB_PASSWORD"),
			Name:         v.GetString("DB_NAME"),
			SSLMode:      v.GetString("DB_SSLMODE"),
			MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
			MaxLifetime:  v.GetDuration("DB_MAX_LIFETIME"),
		},
		Storage: StorageConfig{
			Bucket:        v.GetString("STORAGE_BUCKET"),
			Region:        v.GetString("STORAGE_REGION"),
			Endpoint:      v.GetString("STORAGE_ENDPOINT"),
			BaseURL:       v.GetString("STORAGE_BASE_URL"),
			Folder:        v.GetString("STORAGE_FOLDER"),
			MaxUploadSize: v.GetInt64("MAX_UPLOAD_SIZE"),
		},
		Cache: CacheConfig{
			TTL:             v.GetDuration("CACHE_TTL"),
			CleanupInterval: v.GetDuration("CACHE_CLEANUP_INTERVAL"),
		},
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
	}

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
	if c.Storage.Bucket == "" {
		return fmt.Errorf("STORAGE_BUCKET is required")
	}
	if c.Storage.BaseURL == "" {
		return fmt.Errorf("STORAGE_BASE_URL is required")
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
