package health

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"resort/infras/postgres"
	"resort/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type State int32

const (
	StateStarting State = iota
	StateReady
	StateInGracePeriod
	StateInCleanupPeriod
)

const pingTimeout = 2 * time.Second

func (s State) String() string {
	switch s {
	case StateReady:
		return "ready"
	case StateInGracePeriod:
		return "grace_period"
	case StateInCleanupPeriod:
		return "cleanup_period"
	default:
		return "starting"
	}
}

// Status is the server lifecycle state shared between the HTTP server and the probes.
type Status struct {
	state atomic.Int32
}

func NewStatus() *Status {
	return &Status{}
}

func (s *Status) Set(state State) {
	s.state.Store(int32(state))
}

func (s *Status) Get() State {
	return State(s.state.Load())
}

type Response struct {
	Status string `json:"status"`
	State  string `json:"state"`
}

type Handler struct {
	status *Status
	db     *postgres.Connection
}

func New(status *Status, db *postgres.Connection) Handler {
	return Handler{
		status: status,
		db:     db,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Get("/health", handler.Liveness)
	router.Get("/health/ready", handler.Readiness)
}

// Liveness reports that the process is serving requests.
// @Summary Liveness probe
// @Tags Health
// @Produce json
// @Success 200 {object} response.Data[Response]
// @Failure 503 {object} response.Message
// @Router /v1/health [get]
func (handler *Handler) Liveness(w http.ResponseWriter, _ *http.Request) {
	state := handler.status.Get()

	if state == StateInCleanupPeriod {
		response.WithUnhealthy(w)

		return
	}

	response.WithJSON(w, http.StatusOK, Response{Status: "ok", State: state.String()})
}

// Readiness reports whether new traffic should be routed here. It fails as soon as the grace
// period starts and when the write pool cannot be reached.
// @Summary Readiness probe
// @Tags Health
// @Produce json
// @Success 200 {object} response.Data[Response]
// @Failure 503 {object} response.Message
// @Router /v1/health/ready [get]
func (handler *Handler) Readiness(w http.ResponseWriter, r *http.Request) {
	switch handler.status.Get() {
	case StateReady:
	case StateInGracePeriod, StateInCleanupPeriod:
		response.WithPreparingShutdown(w)

		return
	default:
		response.WithUnhealthy(w)

		return
	}

	if handler.db != nil && handler.db.Write != nil {
		ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
		defer cancel()

		if err := handler.db.Write.PingContext(ctx); err != nil {
			log.Error().Err(err).Msg("readiness check failed to reach the database")
			response.WithUnhealthy(w)

			return
		}
	}

	response.WithJSON(w, http.StatusOK, Response{Status: "ok", State: StateReady.String()})
}
