package http

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"resort/config"
	_ "resort/docs" // swagger docs
	"resort/infras/otel"
	"resort/internal/handlers/health"
	"resort/shared/constant"
	"resort/shared/event"
	"resort/shared/metrics"
	"resort/transport/http/middleware"
	"resort/transport/http/router"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"
	httpSwagger "github.com/swaggo/http-swagger"
)

const (
	readHeaderTimeout = 10 * time.Second
	swaggerDocPath    = "/swagger/doc.json"
)

type HTTP struct {
	Config  *config.Config
	Router  router.Router
	Status  *health.Status
	app     middleware.AppMiddleware
	auth    middleware.AuthRole
	metrics *metrics.Metrics
	otel    otel.Otel
	broker  event.Broker
	mux     *chi.Mux
	once    sync.Once
}

func New(
	cfg *config.Config,
	r router.Router,
	status *health.Status,
	app middleware.AppMiddleware,
	auth middleware.AuthRole,
	metrics *metrics.Metrics,
	otel otel.Otel,
	broker event.Broker,
) *HTTP {
	return &HTTP{
		Config:  cfg,
		Router:  r,
		Status:  status,
		app:     app,
		auth:    auth,
		metrics: metrics,
		otel:    otel,
		broker:  broker,
	}
}

func (h *HTTP) Serve() {
	h.once.Do(h.setupRoutes)

	server := &http.Server{
		Addr:              net.JoinHostPort(h.Config.Server.Host, h.Config.Server.Port),
		Handler:           h.mux,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	h.setupGracefulShutdown(server)
	h.Status.Set(health.StateReady)

	log.Info().Str("port", h.Config.Server.Port).Msg("Starting up HTTP server.")

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("Failed to start HTTP server")
	}
}

// ServeHTTP lets the whole API run behind a serverless function.
func (h *HTTP) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.once.Do(func() {
		h.setupRoutes()
		h.Status.Set(health.StateReady)
	})

	h.mux.ServeHTTP(w, r)
}

func (h *HTTP) setupRoutes() {
	mux := chi.NewRouter()

	mux.Use(chiMiddleware.RequestID, chiMiddleware.Recoverer)

	if h.Config.App.CORS.Enable {
		mux.Use(cors.Handler(cors.Options{
			AllowedOrigins:   h.Config.App.CORS.AllowedOrigins,
			AllowedMethods:   h.Config.App.CORS.AllowedMethods,
			AllowedHeaders:   h.Config.App.CORS.AllowedHeaders,
			ExposedHeaders:   []string{constant.RequestHeaderRateLimit, constant.RequestHeaderRateLimitRemaining, constant.RequestHeaderRateLimitWindow},
			AllowCredentials: h.Config.App.CORS.AllowCredentials,
			MaxAge:           h.Config.App.CORS.MaxAgeSeconds,
		}))
	}

	mux.Use(h.app.Tracing, h.app.Metrics)

	if h.Config.Metrics.Enable {
		mux.Method(http.MethodGet, h.Config.Metrics.Path, h.metrics.Handler())
	}

	if h.Config.Server.Env != constant.ServerEnvProduction {
		mux.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL(swaggerDocPath)))
	}

	mux.Group(func(api chi.Router) {
		api.Use(h.app.RateLimit(), h.auth.APIKey, h.auth.Auth, h.auth.RBAC)

		h.Router.SetupRoutes(api)
	})

	h.mux = mux
}

func (h *HTTP) setupGracefulShutdown(server *http.Server) {
	serverStateCh := make(chan os.Signal, 1)

	signal.Notify(serverStateCh, os.Interrupt, syscall.SIGTERM)

	go h.respondToSigterm(serverStateCh, server)
}

func (h *HTTP) respondToSigterm(done chan os.Signal, server *http.Server) {
	<-done

	defer os.Exit(0)

	if h.Config.Server.Env == constant.ServerEnvDevelopment {
		log.Warn().Msg("Received SIGTERM. Shutting down now.")

		h.cleanup(server, 0)

		return
	}

	shutdownConfig := h.Config.Server.Shutdown

	log.Info().Msg("Received SIGTERM.")
	log.Info().Int64("seconds", shutdownConfig.GracePeriodSeconds).Msg("Entering grace period.")

	h.Status.Set(health.StateInGracePeriod)

	time.Sleep(time.Duration(shutdownConfig.GracePeriodSeconds) * time.Second)

	log.Info().Int64("seconds", shutdownConfig.CleanupPeriodSeconds).Msg("Entering cleanup period.")

	h.Status.Set(health.StateInCleanupPeriod)

	h.cleanup(server, time.Duration(shutdownConfig.CleanupPeriodSeconds)*time.Second)

	log.Info().Msg("Cleaning up completed. Shutting down now.")
}

// cleanup drains in-flight requests for at most timeout, then releases the broker and tracer.
func (h *HTTP) cleanup(server *http.Server, timeout time.Duration) {
	ctx := context.Background()

	if timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("HTTP server did not shut down cleanly")
	}

	if h.broker != nil {
		if err := h.broker.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close broker")
		}
	}

	if err := h.otel.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("failed to flush traces")
	}
}
