package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/trendscope/trends-data-service/internal/trends/providers"
)

type AppConfig struct {
	// DataDir holds the SQLite database file. Created if missing.
	DataDir string

	// ApifyToken authenticates outbound provider calls. It may be empty at
	// startup; ingestion rejects it lazily at fetch time.
	ApifyToken string

	// ApifyTask is the actor task id to run per country.
	ApifyTask string

	// APIToken is the shared secret expected by the HTTP surface.
	APIToken string

	Port string

	// CronSpec drives scheduled ingestion; DisableCron turns it off.
	CronSpec    string
	DisableCron bool

	// HTTPTimeout bounds outbound provider calls. Actor runs are
	// synchronous and slow, so this is generous.
	HTTPTimeout time.Duration
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}

	cfg := &AppConfig{
		DataDir:     getenvDefault("DATA_DIR", "./data"),
		ApifyToken:  os.Getenv("APIFY_TOKEN"),
		ApifyTask:   getenvDefault("APIFY_TASK", providers.DefaultTask),
		APIToken:    os.Getenv("API_TOKEN"),
		Port:        getenvDefault("PORT", "4000"),
		CronSpec:    getenvDefault("CRON_SPEC", "0 2 * * *"), // daily at 02:00 UTC
		DisableCron: os.Getenv("DISABLE_CRON") == "true",
	}

	timeoutStr := getenvDefault("HTTP_TIMEOUT", "90s")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	cfg.HTTPTimeout = timeout

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
