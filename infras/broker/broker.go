package broker

import (
	"strings"

	"resort/config"
	"resort/infras/kafka"
	"resort/infras/rabbitmq"
	"resort/shared/constant"
	"resort/shared/event"

	"github.com/rs/zerolog/log"
)

// New picks the broker implementation named by BROKER_DRIVER. Unknown drivers fall back to Kafka.
func New(cfg *config.Config) event.Broker {
	switch strings.ToLower(cfg.Broker.Driver) {
	case constant.BrokerDriverRabbitMQ:
		return rabbitmq.New(cfg)
	case constant.BrokerDriverKafka, constant.Empty:
		return kafka.New(cfg)
	default:
		log.Warn().Str("driver", cfg.Broker.Driver).Msg("Unknown broker driver, using kafka")

		return kafka.New(cfg)
	}
}
