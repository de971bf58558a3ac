package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr               string
	DBPath             string
	LogLevel           string
	CORSOrigins        []string
	ImportWorkerCount  int
	ImportQueueSize    int
	MaxImportBytes     int64
	MasteryStreak      int
	DifficultThreshold int
	RelearnInterval    time.Duration
	SessionTTL         time.Duration
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying defaults when values are missing or unparsable.
func Load() Config {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	return Config{
		Addr:               envOr("ADDR", ":8080"),
		DBPath:             envOr("DB_PATH", "file:lingoflash.db"),
		LogLevel:           envOr("LOG_LEVEL", "INFO"),
		CORSOrigins:        envListOr("CORS_ORIGINS", []string{"*"}),
		ImportWorkerCount:  envIntOr("IMPORT_WORKER_COUNT", 2),
		ImportQueueSize:    envIntOr("IMPORT_QUEUE_SIZE", 16),
		MaxImportBytes:     int64(envIntOr("MAX_IMPORT_BYTES", 5<<20)),
		MasteryStreak:      envIntOr("MASTERY_STREAK", 2),
		DifficultThreshold: envIntOr("DIFFICULT_THRESHOLD", 2),
		RelearnInterval:    envDurationOr("RELEARN_INTERVAL", 10*time.Minute),
		SessionTTL:         envDurationOr("SESSION_TTL", 2*time.Hour),
	}
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.Addr) == "" {
		errs = append(errs, errors.New("ADDR cannot be empty"))
	}
	if strings.TrimSpace(c.DBPath) == "" {
		errs = append(errs, errors.New("DB_PATH cannot be empty"))
	}
	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG", "INFO", "WARN", "WARNING", "ERROR":
	default:
		errs = append(errs, fmt.Errorf("LOG_LEVEL must be DEBUG, INFO, WARN or ERROR, got %q", c.LogLevel))
	}
	if c.ImportWorkerCount < 1 || c.ImportWorkerCount > 32 {
		errs = append(errs, fmt.Errorf("IMPORT_WORKER_COUNT must be between 1 and 32, got %d", c.ImportWorkerCount))
	}
	if c.ImportQueueSize < 1 {
		errs = append(errs, fmt.Errorf("IMPORT_QUEUE_SIZE must be positive, got %d", c.ImportQueueSize))
	}
	if c.MaxImportBytes < 1024 {
		errs = append(errs, fmt.Errorf("MAX_IMPORT_BYTES must be at least 1024, got %d", c.MaxImportBytes))
	}
	if c.MasteryStreak < 1 {
		errs = append(errs, fmt.Errorf("MASTERY_STREAK must be at least 1, got %d", c.MasteryStreak))
	}
	if c.DifficultThreshold < 1 || c.DifficultThreshold > 5 {
		errs = append(errs, fmt.Errorf("DIFFICULT_THRESHOLD must be between 1 and 5, got %d", c.DifficultThreshold))
	}
	if c.RelearnInterval <= 0 {
		errs = append(errs, fmt.Errorf("RELEARN_INTERVAL must be positive, got %s", c.RelearnInterval))
	}
	if c.SessionTTL < time.Minute {
		errs = append(errs, fmt.Errorf("SESSION_TTL must be at least 1m, got %s", c.SessionTTL))
	}

	return errors.Join(errs...)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}

func envDurationOr(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		log.Printf("invalid value for %s=%q, using default %s", key, v, def)
	}
	return def
}

func envListOr(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
