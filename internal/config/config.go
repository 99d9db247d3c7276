// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	DataDir        string // Base directory for the results database, artifacts and backup staging
	LogLevel       string
	Port           int
	DevMode        bool
	Workers        int // Worker goroutines for async experiment runs
	RetentionDays  int // Runs and artifacts older than this are pruned
	MonteCarloSamp int // Samples per Monte Carlo benchmark run
	Backup         *BackupConfig
}

// BackupConfig holds cloud backup configuration for S3-compatible storage
// (AWS S3, Cloudflare R2, MinIO). Backup is disabled when no bucket is set.
type BackupConfig struct {
	Bucket    string
	Region    string
	Endpoint  string // Optional custom endpoint (R2/MinIO)
	AccessKey string // Optional; falls back to the default credentials chain
	SecretKey string
	PathStyle bool
	Keep      int // Number of remote backups to retain
}

// Enabled reports whether cloud backup is configured.
func (b *BackupConfig) Enabled() bool {
	return b != nil && b.Bucket != ""
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	// Determine data directory, defaulting next to the working directory,
	// always resolved to an absolute path that exists.
	dataDir := getEnv("QLAB_DATA_DIR", "")
	if dataDir == "" {
		dataDir = "./data"
	}

	absDataDir, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory path: %w", err)
	}

	if err := os.MkdirAll(absDataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	cfg := &Config{
		DataDir:        absDataDir,
		Port:           getEnvAsInt("QLAB_PORT", 8010),
		DevMode:        getEnvAsBool("DEV_MODE", false),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		Workers:        getEnvAsInt("QLAB_WORKERS", runtime.NumCPU()),
		RetentionDays:  getEnvAsInt("QLAB_RETENTION_DAYS", 30),
		MonteCarloSamp: getEnvAsInt("QLAB_MONTECARLO_SAMPLES", 4_000_000),
		Backup:         loadBackupConfig(),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration is present
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if c.Workers < 1 {
		return fmt.Errorf("invalid worker count: %d", c.Workers)
	}
	return nil
}

// loadBackupConfig loads S3 backup settings from the environment.
func loadBackupConfig() *BackupConfig {
	return &BackupConfig{
		Bucket:    getEnv("QLAB_S3_BUCKET", ""),
		Region:    getEnv("QLAB_S3_REGION", "us-east-1"),
		Endpoint:  getEnv("QLAB_S3_ENDPOINT", ""),
		AccessKey: getEnv("QLAB_S3_ACCESS_KEY", ""),
		SecretKey: getEnv("QLAB_S3_SECRET_KEY", ""),
		PathStyle: getEnvAsBool("QLAB_S3_PATH_STYLE", false),
		Keep:      getEnvAsInt("QLAB_S3_KEEP", 7),
	}
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
