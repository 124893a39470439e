package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all environment-driven settings.
type Config struct {
	Port   string
	AppEnv string // "development" or "production"

	UploadDir   string
	DownloadDir string
	DBPath      string

	MaxUploadMB int

	TranslateEndpoint string
	RequestDelay      time.Duration
	ChunkSize         int

	WorkerCount   int
	RetentionDays int
}

// Load builds a Config from environment variables with defaults matching
// a small single-host deployment.
func Load() (*Config, error) {
	cfg := &Config{
		Port:              getenv("PORT", "8080"),
		AppEnv:            getenv("APP_ENV", "development"),
		UploadDir:         getenv("UPLOAD_DIR", "./data/uploads"),
		DownloadDir:       getenv("DOWNLOAD_DIR", "./data/downloads"),
		DBPath:            getenv("DB_PATH", "./data/pdfbabel.db"),
		TranslateEndpoint: getenv("TRANSLATE_ENDPOINT", ""),
	}

	var err error
	if cfg.MaxUploadMB, err = getenvInt("MAX_UPLOAD_MB", 50); err != nil {
		return nil, err
	}
	if cfg.ChunkSize, err = getenvInt("TRANSLATE_CHUNK_SIZE", 3000); err != nil {
		return nil, err
	}
	if cfg.WorkerCount, err = getenvInt("WORKER_COUNT", 2); err != nil {
		return nil, err
	}
	if cfg.RetentionDays, err = getenvInt("JOB_RETENTION_DAYS", 7); err != nil {
		return nil, err
	}

	delayMs, err := getenvInt("TRANSLATE_DELAY_MS", 200)
	if err != nil {
		return nil, err
	}
	cfg.RequestDelay = time.Duration(delayMs) * time.Millisecond

	if cfg.MaxUploadMB <= 0 {
		return nil, fmt.Errorf("MAX_UPLOAD_MB must be positive, got %d", cfg.MaxUploadMB)
	}
	if cfg.ChunkSize <= 0 {
		return nil, fmt.Errorf("TRANSLATE_CHUNK_SIZE must be positive, got %d", cfg.ChunkSize)
	}
	if cfg.WorkerCount <= 0 {
		return nil, fmt.Errorf("WORKER_COUNT must be positive, got %d", cfg.WorkerCount)
	}

	return cfg, nil
}

// MaxUploadBytes returns the per-file upload limit in bytes.
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) * 1024 * 1024
}

// BodyLimit returns the limit in the form Echo's BodyLimit middleware expects.
func (c *Config) BodyLimit() string {
	return fmt.Sprintf("%dM", c.MaxUploadMB)
}

// IsProduction reports whether the app runs in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getenv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getenvInt(key string, defaultValue int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}
