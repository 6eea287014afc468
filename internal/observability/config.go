// Package observability wires the OpenTelemetry metrics pipeline: an OTLP
// HTTP exporter, a periodic reader, and a meter provider carrying the
// service resource.
package observability

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/bionovax/bionova/internal/types"
)

const defaultServiceName = "bionova"

// Config keeps OpenTelemetry runtime settings resolved from the global configuration.
type Config struct {
	Enabled              bool
	ServiceName          string
	ExporterEndpoint     string
	MetricExportInterval time.Duration
}

// LoadConfig resolves observability specific configuration from the root config.
func LoadConfig(cfg *types.Config) (*Config, error) {
	if cfg == nil {
		return nil, fmt.Errorf("observability: nil root configuration provided")
	}

	otelCfg := &Config{
		Enabled:              cfg.OTelEnabled,
		ServiceName:          strings.TrimSpace(cfg.OTelServiceName),
		ExporterEndpoint:     strings.TrimSpace(cfg.OTelExporterOTLPEndpoint),
		MetricExportInterval: cfg.OTelMetricExportInterval,
	}

	if err := otelCfg.Validate(); err != nil {
		return nil, err
	}

	return otelCfg, nil
}

// Validate ensures the configuration has all required properties before initialization.
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("observability: config is nil")
	}

	if c.ServiceName == "" {
		c.ServiceName = defaultServiceName
	}

	if c.MetricExportInterval <= 0 {
		c.MetricExportInterval = 60 * time.Second
	}

	if !c.Enabled {
		return nil
	}

	if strings.TrimSpace(c.ExporterEndpoint) == "" {
		return fmt.Errorf("observability: OTLP exporter endpoint is required when OpenTelemetry is enabled")
	}

	if !strings.HasPrefix(c.ExporterEndpoint, "http://") && !strings.HasPrefix(c.ExporterEndpoint, "https://") {
		return fmt.Errorf("observability: OTLP exporter endpoint must include http or https scheme")
	}

	parsed, err := url.Parse(c.ExporterEndpoint)
	if err != nil {
		return fmt.Errorf("observability: invalid OTLP exporter endpoint: %w", err)
	}
	if parsed.Host == "" {
		return fmt.Errorf("observability: OTLP exporter endpoint must include a host")
	}

	return nil
}

// Init initializes OpenTelemetry metrics based on the root configuration.
// The returned shutdown function flushes pending exports.
func Init(rootCfg *types.Config) (ShutdownFunc, error) {
	defaultShutdown := func(context.Context) error { return nil }

	otelCfg, err := LoadConfig(rootCfg)
	if err != nil {
		return defaultShutdown, err
	}

	meterProvider, err := InitMeter(context.Background(), otelCfg)
	if err != nil {
		return defaultShutdown, err
	}

	return NewShutdownFunc(meterProvider), nil
}
