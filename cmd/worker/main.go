package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"resort/config"
	"resort/di"
	"resort/shared/logger"

	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	worker := di.InitializeWorker()

	err := worker.Consumer.Start(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Reservation consumer stopped with error")
	}

	log.Info().Msg("Shutting down worker.")

	if closeErr := worker.Broker.Close(); closeErr != nil {
		log.Error().Err(closeErr).Msg("failed to close broker")
	}

	if closeErr := worker.DB.Close(); closeErr != nil {
		log.Error().Err(closeErr).Msg("failed to close database")
	}

	if shutdownErr := worker.Otel.Shutdown(context.Background()); shutdownErr != nil {
		log.Error().Err(shutdownErr).Msg("failed to flush traces")
	}

	if err != nil {
		os.Exit(1)
	}
}
