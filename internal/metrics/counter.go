// Package metrics tracks per-endpoint request counts with SQLite
// persistence and exposes them as OpenTelemetry gauges.
package metrics

import (
	"log"
	"sync"
)

var (
	globalStore *Store
	initOnce    sync.Once
	initErr     error
)

// Init initializes the global metrics store. It is safe to call multiple
// times; only the first call has an effect.
func Init() error {
	initOnce.Do(func() {
		globalStore, initErr = NewStore()
	})
	return initErr
}

// RecordRequest increments the counter for the given endpoint.
// Errors are logged but not returned, so counting never interferes with
// request handling.
func RecordRequest(endpoint Endpoint) {
	if globalStore == nil {
		if err := Init(); err != nil {
			log.Printf("metrics: failed to initialize store: %v", err)
			return
		}
	}

	if err := globalStore.Increment(endpoint); err != nil {
		log.Printf("metrics: failed to record %s request: %v", endpoint, err)
	}
}

// GetStats returns cumulative request counts for all endpoints.
func GetStats() (map[Endpoint]int64, error) {
	if globalStore == nil {
		if err := Init(); err != nil {
			return nil, err
		}
	}
	return globalStore.GetAllTotals()
}

// Close closes the global metrics store.
func Close() error {
	if globalStore != nil {
		return globalStore.Close()
	}
	return nil
}

// ResetForTesting replaces the global store. Intended for tests only.
func ResetForTesting(store *Store) {
	globalStore = store
	initOnce = sync.Once{}
	initErr = nil
}
