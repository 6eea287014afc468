package observability

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/bionovax/bionova"

// Meter returns the application meter from the globally installed provider.
func Meter() metric.Meter {
	return otel.GetMeterProvider().Meter(instrumentationName)
}
