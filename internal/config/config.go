package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort      string
	AllowedOrigins  []string
	CatalogSeedPath string
	ShutdownTimeout time.Duration
}

func Load() (*Config, error) {
	// Load .env file if it exists (useful for local dev)
	_ = godotenv.Load()

	serverPort := os.Getenv("SERVER_PORT")
	if serverPort == "" {
		serverPort = "8080"
	}
	if _, err := strconv.Atoi(serverPort); err != nil {
		return nil, fmt.Errorf("SERVER_PORT must be a number, got %q", serverPort)
	}

	origins := []string{"http://localhost:3000"}
	if raw := os.Getenv("ALLOWED_ORIGINS"); raw != "" {
		origins = origins[:0]
		for _, o := range strings.Split(raw, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		if len(origins) == 0 {
			return nil, fmt.Errorf("ALLOWED_ORIGINS is set but contains no origins")
		}
	}

	shutdownTimeout := 5 * time.Second
	if raw := os.Getenv("SHUTDOWN_TIMEOUT"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid SHUTDOWN_TIMEOUT: %w", err)
		}
		shutdownTimeout = d
	}

	return &Config{
		ServerPort:      serverPort,
		AllowedOrigins:  origins,
		CatalogSeedPath: os.Getenv("CATALOG_SEED"),
		ShutdownTimeout: shutdownTimeout,
	}, nil
}
