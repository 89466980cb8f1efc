// Package api serves the latest scanner decisions and the Prometheus metrics over HTTP.
package api

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/rxtech-lab/argo-smc/internal/logger"
	"github.com/rxtech-lab/argo-smc/internal/scanner"
	"github.com/rxtech-lab/argo-smc/pkg/errors"
	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

// DecisionSource exposes the latest evaluation of each symbol. *scanner.Scanner implements it.
type DecisionSource interface {
	Symbols() []string
	Latest() []scanner.Result
	LatestFor(symbol string) (scanner.Result, bool)
}

// Server is the read-only HTTP surface of the bot.
type Server struct {
	source  DecisionSource
	metrics http.Handler
	log     *logger.Logger
	router  *mux.Router

	httpServer *http.Server
	listener   net.Listener
}

type errorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}

type healthResponse struct {
	Status  string `json:"status"`
	Symbols int    `json:"symbols"`
}

// NewServer creates a server. A nil metrics handler disables /metrics.
func NewServer(source DecisionSource, metrics http.Handler, log *logger.Logger) *Server {
	if log == nil {
		log = logger.NewNop()
	}

	s := &Server{
		source:  source,
		metrics: metrics,
		log:     log.Named("api"),
		router:  mux.NewRouter(),
	}

	s.setupRoutes()

	return s
}

func (s *Server) setupRoutes() {
	s.router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	s.router.HandleFunc("/signals", s.handleSignals).Methods(http.MethodGet)
	s.router.HandleFunc("/signals/{symbol}", s.handleSignal).Methods(http.MethodGet)

	if s.metrics != nil {
		s.router.Handle("/metrics", s.metrics).Methods(http.MethodGet)
	}
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start listens on address and serves until ctx is done.
func (s *Server) Start(ctx context.Context, address string) error {
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to listen on %s", address)
	}

	s.listener = listener
	s.httpServer = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			s.log.Error("http server stopped", zap.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			s.log.Warn("http shutdown failed", zap.Error(err))
		}
	}()

	s.log.Info("http server listening", zap.String("address", listener.Addr().String()))

	return nil
}

// Address returns the address the server is listening on.
func (s *Server) Address() string {
	if s.listener == nil {
		return ""
	}

	return s.listener.Addr().String()
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Symbols: len(s.source.Symbols())})
}

func (s *Server) handleSignals(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.source.Latest())
}

func (s *Server) handleSignal(w http.ResponseWriter, r *http.Request) {
	symbol := strings.ToUpper(mux.Vars(r)["symbol"])

	result, ok := s.source.LatestFor(symbol)
	if !ok {
		s.writeError(w, http.StatusNotFound, errors.Newf(errors.ErrCodeDataNotFound, "no decision for %s", symbol))

		return
	}

	s.writeJSON(w, http.StatusOK, result)
}

// writeError reports err with its pkg/errors code; uncoded errors report ErrCodeUnknown.
func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.writeJSON(w, status, errorResponse{Error: err.Error(), Code: int(errors.GetCode(err))})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.log.Warn("failed to write response", zap.Error(err))
	}
}
