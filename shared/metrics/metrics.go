package metrics

import (
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"resort/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "resort"

const (
	OutcomeAccepted = "accepted"
	OutcomeConflict = "conflict"
	OutcomeInvalid  = "invalid"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"

	ResultSuccess = "success"
	ResultFailure = "failure"

	DirectionPublish = "publish"
	DirectionConsume = "consume"
)

// Metrics owns a private registry so several instances can coexist in one process.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests       *prometheus.CounterVec
	httpDuration       *prometheus.HistogramVec
	reservationResults *prometheus.CounterVec
	brokerMessages     *prometheus.CounterVec
}

func New(serviceName string) *Metrics {
	registry := prometheus.NewRegistry()
	labels := prometheus.Labels{"service": serviceName}

	m := &Metrics{
		registry: registry,
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   "http",
			Name:        "requests_total",
			Help:        "HTTP requests by method, route pattern and status code.",
			ConstLabels: labels,
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   namespace,
			Subsystem:   "http",
			Name:        "request_duration_seconds",
			Help:        "HTTP request latency by method and route pattern.",
			ConstLabels: labels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "route"}),
		reservationResults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   "reservation",
			Name:        "attempts_total",
			Help:        "Reservation write attempts by operation and outcome.",
			ConstLabels: labels,
		}, []string{"operation", "outcome"}),
		brokerMessages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   "broker",
			Name:        "messages_total",
			Help:        "Broker messages by topic, direction and result.",
			ConstLabels: labels,
		}, []string{"topic", "direction", "result"}),
	}

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests,
		m.httpDuration,
		m.reservationResults,
		m.brokerMessages,
	)

	return m
}

func NewFromConfig(cfg *config.Config) *Metrics {
	return New(cfg.Metrics.ServiceName)
}

// RegisterDB exports connection pool statistics for db under the given pool name.
func (m *Metrics) RegisterDB(name string, db *sql.DB) {
	if db == nil {
		return
	}

	m.registry.MustRegister(collectors.NewDBStatsCollector(db, name))
}

func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func (m *Metrics) ReservationOutcome(operation, outcome string) {
	m.reservationResults.WithLabelValues(operation, outcome).Inc()
}

func (m *Metrics) BrokerMessage(topic, direction, result string) {
	m.brokerMessages.WithLabelValues(topic, direction, result).Inc()
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Collectors exposes the counters for assertions with prometheus/testutil.
func (m *Metrics) Collectors() (reservation, broker *prometheus.CounterVec) {
	return m.reservationResults, m.brokerMessages
}
