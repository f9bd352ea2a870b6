package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"newswire/internal/usecase/orchestrator"
)

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

// RunStatusResponse is the body of GET /health/run.
type RunStatusResponse struct {
	State    string `json:"state"`
	Terminal bool   `json:"terminal"`
	Healthy  bool   `json:"healthy"`
}

// StateFunc reports the current pipeline state.
type StateFunc func() orchestrator.State

// OpsServer serves Prometheus metrics and health endpoints while a run is in
// progress.
//
// Endpoints:
//   - GET /metrics - Prometheus metrics
//   - GET /health - liveness, always 200
//   - GET /health/run - current pipeline state, 503 once the run has failed
type OpsServer struct {
	server   *http.Server
	listener net.Listener
	logger   *slog.Logger
}

// NewOpsServer creates an ops server for port. Port 0 picks a free port.
func NewOpsServer(port int, state StateFunc, logger *slog.Logger) *OpsServer {
	return &OpsServer{
		server: &http.Server{
			Addr:         fmt.Sprintf(":%d", port),
			Handler:      Handler(state),
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  120 * time.Second,
		},
		logger: logger,
	}
}

// Handler builds the ops mux.
func Handler(state StateFunc) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", healthHandler)
	mux.HandleFunc("/health/run", runStatusHandler(state))
	return mux
}

// Start binds the port, serves in the background and shuts the server down
// gracefully once ctx is cancelled. It fails only when the port cannot be bound.
func (s *OpsServer) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return fmt.Errorf("ops server listen on %s: %w", s.server.Addr, err)
	}
	s.listener = ln
	s.logger.Info("ops server started", slog.String("addr", ln.Addr().String()))

	go func() {
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("ops server error", slog.Any("error", err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := s.server.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("ops server shutdown error", slog.Any("error", err))
			return
		}
		s.logger.Info("ops server stopped")
	}()
	return nil
}

// Addr returns the bound address once Start succeeded.
func (s *OpsServer) Addr() string {
	if s.listener == nil {
		return s.server.Addr
	}
	return s.listener.Addr().String()
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "healthy"})
}

func runStatusHandler(state StateFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		current := state()
		healthy := current != orchestrator.StateFetchFailed && current != orchestrator.StateExtractFailed

		status := http.StatusOK
		if !healthy {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, RunStatusResponse{
			State:    current.String(),
			Terminal: current.Terminal(),
			Healthy:  healthy,
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
