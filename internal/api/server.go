// Package api is the HTTP transport shell around the backtest engine.
// It validates request shape, forwards to the engine, and serializes the
// combined result; all trading logic lives in the engine packages.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"slices"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/moznion/go-optional"
	"go.uber.org/zap"

	backtestEngine "github.com/rxtech-lab/backtest-api/internal/backtest/engine"
	"github.com/rxtech-lab/backtest-api/internal/logger"
	"github.com/rxtech-lab/backtest-api/internal/types"
	"github.com/rxtech-lab/backtest-api/internal/version"
)

// NoTradesMessage is returned when a run completes without a single
// closed trade. The wording is part of the wire contract.
const NoTradesMessage = "No trades were completed in the backtest period"

// BacktestResponse is the body of a successful POST /backtest.
type BacktestResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	// Trades is never null; a run without closed trades serializes as [].
	Trades     []types.Trade                     `json:"trades"`
	Statistics optional.Option[types.Statistics] `json:"statistics"`
}

// HealthResponse is the body of GET /.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Server serves the backtest API over HTTP.
type Server struct {
	config   ServerConfig
	logger   *logger.Logger
	engine   backtestEngine.Engine
	validate *validator.Validate

	httpServer *http.Server
	listener   net.Listener
}

// NewServer creates a server around the given engine.
func NewServer(config ServerConfig, l *logger.Logger, engine backtestEngine.Engine) *Server {
	return &Server{
		config:     config,
		logger:     l,
		engine:     engine,
		validate:   validator.New(),
		httpServer: nil,
		listener:   nil,
	}
}

// Router builds the HTTP routing table.
func (s *Server) Router() *mux.Router {
	router := mux.NewRouter()
	router.Use(s.corsMiddleware)

	router.HandleFunc("/", s.handleHealth).Methods(http.MethodGet)
	router.HandleFunc("/backtest", s.handleBacktest).Methods(http.MethodPost, http.MethodOptions)

	return router
}

// Start starts the server on the given address. If address is empty,
// the configured listen address (or the default) is used. Start returns
// once the listener is bound; serving happens on a background goroutine.
func (s *Server) Start(address string) error {
	if address == "" {
		address = s.config.ListenAddr.TakeOr(DefaultListenAddr)
	}

	listener, err := net.Listen("tcp", address)
	if err != nil {
		return fmt.Errorf("failed to create listener: %w", err)
	}

	s.listener = listener
	s.httpServer = &http.Server{Handler: s.Router()}

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			s.logger.Error("http server stopped", zap.Error(err))
		}
	}()

	s.logger.Info("backtest API listening",
		zap.String("address", listener.Addr().String()),
		zap.String("version", version.GetVersion()),
	)

	return nil
}

// Addr returns the bound listener address, or "" before Start.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}

	return s.listener.Addr().String()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}

	return s.httpServer.Shutdown(ctx)
}

// corsMiddleware mirrors the permissive CORS policy of the service:
// absent configuration allows any origin, any method, any header.
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origins := s.config.AllowedOrigins.TakeOr([]string{"*"})

		origin := r.Header.Get("Origin")
		if slices.Contains(origins, "*") {
			w.Header().Set("Access-Control-Allow-Origin", "*")
		} else if origin != "" && slices.Contains(origins, origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
		}

		w.Header().Set("Access-Control-Allow-Methods", "*")
		w.Header().Set("Access-Control-Allow-Headers", "*")
		w.Header().Set("Access-Control-Allow-Credentials", "true")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)

			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "ok",
		Version: version.GetVersion(),
	})
}

func (s *Server) handleBacktest(w http.ResponseWriter, r *http.Request) {
	var req BacktestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})

		return
	}

	if err := s.validate.Struct(&req); err != nil {
		s.logger.Warn("rejected backtest request", zap.Error(err))
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: validationMessage(err)})

		return
	}

	result, err := s.engine.Run(r.Context(), req.Prices, req.StrategyParams(), backtestEngine.LifecycleCallbacks{})
	if err != nil {
		s.logger.Error("backtest run failed", zap.Error(err))
		s.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "backtest run failed"})

		return
	}

	if len(result.Trades) == 0 {
		s.writeJSON(w, http.StatusOK, BacktestResponse{
			Success:    false,
			Message:    NoTradesMessage,
			Trades:     []types.Trade{},
			Statistics: optional.None[types.Statistics](),
		})

		return
	}

	s.writeJSON(w, http.StatusOK, BacktestResponse{
		Success:    true,
		Message:    "",
		Trades:     result.Trades,
		Statistics: result.Statistics,
	})
}

// validationMessage maps a validator error to a client-facing message.
func validationMessage(err error) string {
	var fieldErrors validator.ValidationErrors
	if errors.As(err, &fieldErrors) {
		for _, fieldError := range fieldErrors {
			switch fieldError.Field() {
			case "Prices":
				return "not enough price data"
			case "Direction":
				return "direction must be either long or short"
			}
		}
	}

	return "invalid request"
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("failed to encode response", zap.Error(err))
	}
}
