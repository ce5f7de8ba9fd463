package config

import (
	"log/slog"
	"os"
)

const (
	defaultDBPath      = "./printcore.db"
	defaultRatesAPIURL = "http://localhost:8080"
)

// Config holds everything the pricing core needs from the environment: the
// catalog/cart database path, the rate-service endpoint and its bearer token,
// and an optional Redis address for server-side cart storage.
type Config struct {
	DBPath        string
	RatesAPIURL   string
	RatesAPIToken string
	RedisAddr     string
}

// Load reads environment variables and returns a populated Config. Missing
// values with sensible defaults get them; a missing API token is only a
// warning because test and offline setups run without one.
func Load() Config {
	// Best-effort local dev environment; production injects real env vars.
	_ = loadDotEnv(".env")

	cfg := Config{
		DBPath:        os.Getenv("DB_PATH"),
		RatesAPIURL:   os.Getenv("RATES_API_URL"),
		RatesAPIToken: os.Getenv("RATES_API_TOKEN"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
	}

	if cfg.DBPath == "" {
		cfg.DBPath = defaultDBPath
	}
	if cfg.RatesAPIURL == "" {
		cfg.RatesAPIURL = defaultRatesAPIURL
	}
	if cfg.RatesAPIToken == "" {
		slog.Warn("RATES_API_TOKEN is not set, shipping quotes will be unauthenticated")
	}

	return cfg
}
