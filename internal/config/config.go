package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Server
	Port        string
	Environment string

	// Catalog source
	DatabaseURL   string // Postgres DSN; empty means use the generated catalog
	CatalogLimit  int    // max products loaded into the snapshot
	GeneratorSeed int64  // seed for the fallback catalog generator

	// Cart persistence
	RedisURL string

	// Events
	NATSURL string

	// Browsing
	MaxPageSize    int
	SearchDebounce time.Duration
}

func Load() *Config {
	catalogLimit, _ := strconv.Atoi(getEnv("CATALOG_LIMIT", "500"))
	generatorSeed, _ := strconv.ParseInt(getEnv("GENERATOR_SEED", "1"), 10, 64)
	maxPageSize, _ := strconv.Atoi(getEnv("MAX_PAGE_SIZE", "100"))
	debounceMS, _ := strconv.Atoi(getEnv("SEARCH_DEBOUNCE_MS", "250"))

	return &Config{
		Port:        getEnv("PORT", "8093"),
		Environment: getEnv("ENVIRONMENT", "development"),

		DatabaseURL:   getEnv("DATABASE_URL", ""),
		CatalogLimit:  catalogLimit,
		GeneratorSeed: generatorSeed,

		RedisURL: getEnv("REDIS_URL", "redis://localhost:6379/0"),

		NATSURL: getEnv("NATS_URL", ""),

		MaxPageSize:    maxPageSize,
		SearchDebounce: time.Duration(debounceMS) * time.Millisecond,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
