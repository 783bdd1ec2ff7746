package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server  ServerConfig
	OTLP    OTLPConfig
	Catalog CatalogConfig
	Store   StoreConfig
}

type ServerConfig struct {
	Port string
	Host string
}

type OTLPConfig struct {
	Endpoint    string
	ServiceName string
	Environment string
}

type CatalogConfig struct {
	SourceURL    string
	FetchTimeout time.Duration
	MaxTries     uint
}

type StoreConfig struct {
	Path string
}

// defaultCatalogURL is the Clothify compact catalog feed.
const defaultCatalogURL = "https://gist.githubusercontent.com/rconnolly/d37a491b50203d66d043c26f33dbd798/raw/37b5b68c527ddbe824eaed12073d266d5455432a/clothing-compact.json"

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnv("SERVER_PORT", "8080"),
		},
		OTLP: OTLPConfig{
			Endpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			ServiceName: getEnv("OTEL_SERVICE_NAME", "storefront-api"),
			Environment: getEnv("OTEL_ENVIRONMENT", "development"),
		},
		Catalog: CatalogConfig{
			SourceURL:    getEnv("CATALOG_SOURCE_URL", defaultCatalogURL),
			FetchTimeout: getDurationEnv("CATALOG_FETCH_TIMEOUT", 10*time.Second),
			MaxTries:     getUintEnv("CATALOG_FETCH_MAX_TRIES", 3),
		},
		Store: StoreConfig{
			Path: getEnv("STORE_PATH", "data/storefront.db"),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getUintEnv(key string, defaultValue uint) uint {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.ParseUint(value, 10, 32); err == nil {
			return uint(n)
		}
	}
	return defaultValue
}
