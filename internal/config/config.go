package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application. Components take
// the values they need at construction; there is no mutable global
// state beyond this struct.
type Config struct {
	// Server configuration
	Port            string        `json:"port"`
	Env             string        `json:"env"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout"`
	HTTPTimeout     time.Duration `json:"http_timeout"`

	// Upstream feed configuration
	BlogURL     string        `json:"blog_url"`
	FeedTimeout time.Duration `json:"feed_timeout"`
	FeedLimit   int           `json:"feed_limit"`

	// Storage
	DatabasePath string `json:"database_path"`

	// Logging
	LogLevel string `json:"log_level"`
	LogFile  string `json:"log_file"`
}

// Load loads configuration from environment variables and validates it
func Load() *Config {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: Error loading .env file: %v", err)
	}

	cfg := &Config{
		// Server configuration
		Port:            getEnv("PORT", "8080"),
		Env:             getEnv("APP_ENV", "development"),
		ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		HTTPTimeout:     getEnvAsDuration("HTTP_TIMEOUT", 30*time.Second),

		// Upstream feed
		BlogURL:     getEnv("BLOG_URL", "https://paradiseofgeeks.blogspot.com"),
		FeedTimeout: getEnvAsDuration("FEED_TIMEOUT", 10*time.Second),
		FeedLimit:   getEnvAsInt("FEED_LIMIT", 10),

		// Storage
		DatabasePath: getEnv("DATABASE_PATH", "blog.db"),

		// Logging
		LogLevel: getEnv("LOG_LEVEL", "info"),
		LogFile:  getEnv("LOG_FILE", ""),
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	return cfg
}

// Validate normalizes and validates the configuration
func (c *Config) Validate() error {
	c.BlogURL = strings.TrimRight(c.BlogURL, "/")
	if c.FeedLimit <= 0 {
		c.FeedLimit = 10
	}
	return nil
}

// FeedURL returns the full-feed endpoint for the configured blog
func (c *Config) FeedURL() string {
	return c.BlogURL + "/feeds/posts/default?alt=json"
}

// EntryURL returns the single-entry endpoint for the given post id
func (c *Config) EntryURL(id string) string {
	return c.BlogURL + "/feeds/posts/default/" + id + "?alt=json"
}

// Helper functions for environment variable handling
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(name string, defaultVal int) int {
	valueStr := getEnv(name, "")
	if valueStr == "" {
		return defaultVal
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Invalid %s value: %v, using default: %d", name, err, defaultVal)
		return defaultVal
	}
	return value
}

func getEnvAsDuration(name string, defaultVal time.Duration) time.Duration {
	valueStr := getEnv(name, "")
	if valueStr == "" {
		return defaultVal
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Printf("Invalid %s value: %v, using default: %v", name, err, defaultVal)
		return defaultVal
	}
	return value
}
