package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// ShopifyConfig points the catalog adapter at one store's Admin GraphQL
// API.
type ShopifyConfig struct {
	Store      string
	Token      string
	APIVersion string
}

// Configured reports whether the adapter has enough to make remote calls.
func (c ShopifyConfig) Configured() bool {
	return c.Store != "" && c.Token != ""
}

// BootstrapConfig controls optional startup seeding for dev environments.
type BootstrapConfig struct {
	SeedDefaults bool
}

// TracingConfig configures the OTLP trace exporter.
type TracingConfig struct {
	Enabled          bool
	ExporterEndpoint string
	ExporterProtocol string
	SamplingRatio    float64
}

// Config is the process configuration, loaded once from the environment.
type Config struct {
	Environment      string
	HTTPAddr         string
	LogLevel         string
	DatabaseDSN      string
	Shopify          ShopifyConfig
	Tracing          TracingConfig
	RefreshInterval  time.Duration
	WebhookRateLimit int
	Bootstrap        BootstrapConfig
}

func (c Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

// Load reads configuration from the environment, applying defaults that
// suit local development.
func Load() Config {
	return Config{
		Environment: getString("ENVIRONMENT", "development"),
		HTTPAddr:    getString("HTTP_ADDR", ":8080"),
		LogLevel:    getString("LOG_LEVEL", ""),
		DatabaseDSN: getString("DATABASE_DSN", "file:freightdesk.db?_pragma=foreign_keys(1)"),
		Shopify: ShopifyConfig{
			Store:      getString("SHOPIFY_STORE", ""),
			Token:      getString("SHOPIFY_ACCESS_TOKEN", ""),
			APIVersion: getString("SHOPIFY_API_VERSION", ""),
		},
		Tracing: TracingConfig{
			Enabled:          getBool("TRACING_ENABLED", false),
			ExporterEndpoint: getString("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			ExporterProtocol: getString("OTEL_EXPORTER_OTLP_PROTOCOL", ""),
			SamplingRatio:    getFloat("TRACING_SAMPLING_RATIO", 0.1),
		},
		RefreshInterval:  getDuration("CATALOG_REFRESH_INTERVAL", 5*time.Minute),
		WebhookRateLimit: getInt("WEBHOOK_RATE_LIMIT", 60),
		Bootstrap: BootstrapConfig{
			SeedDefaults: getBool("BOOTSTRAP_SEED_DEFAULTS", false),
		},
	}
}

func getString(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func getBool(key string, fallback bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return value
}

func getFloat(key string, fallback float64) float64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}
	return value
}

func getDuration(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	value, err := time.ParseDuration(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}
