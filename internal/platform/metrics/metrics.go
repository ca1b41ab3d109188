// Package metrics keeps Prometheus counters for catalog operations and
// writes them in the node-exporter textfile format.
package metrics

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "library_catalog"

// Registry holds the catalog collectors on a private registry so the
// textfile only contains catalog series.
type Registry struct {
	reg        *prometheus.Registry
	operations *prometheus.CounterVec
	skipped    prometheus.Counter
	records    prometheus.Gauge
	borrowed   prometheus.Gauge
}

// New creates and registers the catalog collectors.
func New() *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Catalog operations by operation and outcome.",
		}, []string{"operation", "outcome"}),
		skipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "skipped_lines_total",
			Help:      "Stored entries skipped as malformed while loading.",
		}),
		records: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "records",
			Help:      "Records currently in the catalog.",
		}),
		borrowed: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "borrowed_records",
			Help:      "Records currently borrowed.",
		}),
	}

	r.reg.MustRegister(r.operations, r.skipped, r.records, r.borrowed)

	return r
}

// ObserveOperation counts one operation with its outcome kind.
func (r *Registry) ObserveOperation(operation, outcome string) {
	r.operations.WithLabelValues(operation, outcome).Inc()
}

// AddSkipped counts entries dropped during a load.
func (r *Registry) AddSkipped(n int) {
	r.skipped.Add(float64(n))
}

// SetInventory sets the record and borrowed gauges.
func (r *Registry) SetInventory(total, borrowed int) {
	r.records.Set(float64(total))
	r.borrowed.Set(float64(borrowed))
}

// Gatherer exposes the underlying registry.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.reg
}

// WriteTextfile writes all series to path. The write goes through a
// temporary file so a collector never reads a partial file.
func (r *Registry) WriteTextfile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating metrics directory: %w", err)
	}

	if err := prometheus.WriteToTextfile(path, r.reg); err != nil {
		return fmt.Errorf("writing metrics textfile: %w", err)
	}

	return nil
}
