package metrics

import (
	"context"
	"fmt"
	"log"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// RegisterObservableGauges registers an observable gauge on the given meter
// that reports cumulative request counts per endpoint. The callback reads
// from the SQLite-backed store each collection cycle, so counts survive
// process restarts.
func RegisterObservableGauges(meter metric.Meter) error {
	gauge, err := meter.Int64ObservableGauge(
		"bionova.requests.total",
		metric.WithDescription("Cumulative request count per API endpoint"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return fmt.Errorf("failed to create requests gauge: %w", err)
	}

	_, err = meter.RegisterCallback(
		func(_ context.Context, observer metric.Observer) error {
			stats, err := GetStats()
			if err != nil {
				log.Printf("metrics: failed to read stats for gauge: %v", err)
				return nil
			}
			for endpoint, total := range stats {
				observer.ObserveInt64(gauge, total,
					metric.WithAttributes(attribute.String("endpoint", string(endpoint))))
			}
			return nil
		},
		gauge,
	)
	if err != nil {
		return fmt.Errorf("failed to register gauge callback: %w", err)
	}

	return nil
}
