package di

import (
	"resort/config"
	"resort/infras/otel"
	"resort/infras/postgres"
	"resort/internal/domains/notification/consumer"
	"resort/shared/event"
	"resort/shared/metrics"
)

// Worker bundles the broker consumer with the resources it must release on exit.
type Worker struct {
	Consumer *consumer.ReservationConsumer
	Broker   event.Broker
	DB       *postgres.Connection
	Otel     otel.Otel
}

// ProvideMetrics builds the process registry and exports the connection pool stats.
func ProvideMetrics(cfg *config.Config, db *postgres.Connection) *metrics.Metrics {
	m := metrics.NewFromConfig(cfg)

	m.RegisterDB("write", db.Write.DB)

	if db.Read != db.Write {
		m.RegisterDB("read", db.Read.DB)
	}

	return m
}
