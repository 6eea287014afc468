package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/bionovax/bionova/internal/types"
	env "github.com/netflix/go-env"
)

// Type alias for Config
type Config = types.Config

// Load loads configuration from environment variables. It fails when the
// Gemini API credential is absent, so the process refuses to start without it.
func Load() (*Config, error) {
	var config Config

	_, err := env.UnmarshalFromEnviron(&config)
	if err != nil {
		return nil, fmt.Errorf("failed to parse environment variables: %w", err)
	}

	// Parse CORS allowed origins from comma-separated string
	if config.CORSAllowedOriginsStr != "" {
		origins := strings.Split(config.CORSAllowedOriginsStr, ",")
		config.CORSAllowedOrigins = make([]string, 0, len(origins))
		for _, origin := range origins {
			if trimmed := strings.TrimSpace(origin); trimmed != "" {
				config.CORSAllowedOrigins = append(config.CORSAllowedOrigins, trimmed)
			}
		}
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

// validateConfig validates configuration values and adjusts them to safe ranges
func validateConfig(config *Config) error {
	if strings.TrimSpace(config.GeminiAPIKey) == "" {
		return fmt.Errorf("GEMINI_API_KEY cannot be empty")
	}

	if config.GeminiModel == "" {
		return fmt.Errorf("GEMINI_MODEL cannot be empty")
	}

	if config.ServerPort < 1 || config.ServerPort > 65535 {
		return fmt.Errorf("SERVER_PORT must be between 1 and 65535")
	}

	if config.ServerShutdownTimeout <= 0 {
		return fmt.Errorf("SERVER_SHUTDOWN_TIMEOUT must be greater than 0")
	}

	// Clamp rate limit settings instead of failing; a misconfigured limiter
	// should not keep the service down.
	if config.RateLimitRequests < 1 {
		config.RateLimitRequests = 1
	}
	if config.RateLimitRequests > 10000 {
		config.RateLimitRequests = 10000
	}
	if config.RateLimitWindow < time.Second {
		config.RateLimitWindow = time.Second
	}

	if config.CacheTTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be greater than 0")
	}

	if config.OTelEnabled {
		if err := validateOTelConfig(config); err != nil {
			return fmt.Errorf("OpenTelemetry configuration validation failed: %w", err)
		}
	}

	return nil
}

// validateOTelConfig validates OpenTelemetry-specific configuration
func validateOTelConfig(config *Config) error {
	if strings.TrimSpace(config.OTelServiceName) == "" {
		return fmt.Errorf("OTEL_SERVICE_NAME cannot be empty when OpenTelemetry is enabled")
	}

	if strings.TrimSpace(config.OTelExporterOTLPEndpoint) == "" {
		return fmt.Errorf("OTEL_EXPORTER_OTLP_ENDPOINT is required when OpenTelemetry is enabled")
	}

	if config.OTelMetricExportInterval < time.Second {
		return fmt.Errorf("OTEL_METRIC_EXPORT_INTERVAL must be at least 1s")
	}

	return nil
}
