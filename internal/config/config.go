package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the RuckWatch server.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Storage  StorageConfig
	Results  ResultsConfig
}

type ServerConfig struct {
	Port int
	Env  string
}

type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	URL string
}

// StorageConfig configures the S3 buckets holding uploaded videos and
// worker-produced result artifacts.
type StorageConfig struct {
	VideosBucket  string
	ResultsBucket string
	SignedURLTTL  time.Duration
}

type ResultsConfig struct {
	FetchTimeout time.Duration
}

// Load reads configuration from environment variables and returns a validated
// Config. Returns an error with a descriptive message if any required value
// is missing or invalid.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port: envInt("RUCKWATCH_PORT", 8080),
			Env:  envString("RUCKWATCH_ENV", "development"),
		},
		Database: DatabaseConfig{
			URL:             os.Getenv("DATABASE_URL"),
			MaxOpenConns:    envInt("DATABASE_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    envInt("DATABASE_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: envDuration("DATABASE_CONN_MAX_LIFETIME", 5*time.Minute),
		},
		Redis: RedisConfig{
			URL: os.Getenv("REDIS_URL"),
		},
		Storage: StorageConfig{
			VideosBucket:  envString("VIDEOS_BUCKET", "videos"),
			ResultsBucket: envString("RESULTS_BUCKET", "results"),
			SignedURLTTL:  envDurationSecs("SIGNED_URL_TTL_SECS", time.Hour),
		},
		Results: ResultsConfig{
			FetchTimeout: envDurationSecs("RESULTS_FETCH_TIMEOUT_SECS", 30*time.Second),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.Redis.URL == "" {
		return fmt.Errorf("REDIS_URL is required")
	}

	if c.Storage.VideosBucket == "" {
		return fmt.Errorf("VIDEOS_BUCKET must not be empty")
	}
	if c.Storage.ResultsBucket == "" {
		return fmt.Errorf("RESULTS_BUCKET must not be empty")
	}
	if c.Storage.SignedURLTTL < time.Minute {
		return fmt.Errorf("SIGNED_URL_TTL_SECS must be at least 60, got %s", c.Storage.SignedURLTTL)
	}

	return nil
}

func envString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func envDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}

func envDurationSecs(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	secs, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return time.Duration(secs) * time.Second
}
