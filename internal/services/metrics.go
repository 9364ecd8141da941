package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the import pipeline counters. A dedicated registry avoids
// collisions between test instances.
type Metrics struct {
	registry *prometheus.Registry

	sessionsStarted  prometheus.Counter
	sessionsFinished *prometheus.CounterVec
	rowsProcessed    *prometheus.CounterVec
}

// NewMetrics creates the pipeline metrics on a fresh registry
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		sessionsStarted: factory.NewCounter(prometheus.CounterOpts{
			Name: "import_sessions_started_total",
			Help: "Total number of import sessions started",
		}),
		sessionsFinished: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "import_sessions_finished_total",
			Help: "Total number of import sessions finished",
		}, []string{"status"}),
		rowsProcessed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "import_rows_processed_total",
			Help: "Total number of rows pushed to the remote system",
		}, []string{"entity_type", "outcome"}),
	}
}

// Registry exposes the underlying registry for the metrics endpoint
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) sessionStarted() {
	m.sessionsStarted.Inc()
}

func (m *Metrics) sessionFinished(status string) {
	m.sessionsFinished.WithLabelValues(status).Inc()
}

func (m *Metrics) rowProcessed(entityType, outcome string) {
	m.rowsProcessed.WithLabelValues(entityType, outcome).Inc()
}
