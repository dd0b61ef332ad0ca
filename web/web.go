// Package web serves the REST API over a single ledger directory.
//
// Every request resolves its target file, loads it, acts, and returns;
// there is no cached ledger state. Partial successes come back as HTTP
// 200 with an errors list next to the data, structural failures as a
// single error with a 4xx/5xx status.
//
// SECURITY WARNING: the server has no authentication and should only
// be bound to localhost. File access is restricted to the default
// ledger's directory tree.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/sjlouji/friday/config"
	"github.com/sjlouji/friday/importer"
	"github.com/sjlouji/friday/store"
)

// Server exposes the ledger API.
type Server struct {
	Host         string
	Port         int
	ReadOnly     bool
	WatchEnabled bool

	store    *store.Store
	importer *importer.Importer
	logger   *slog.Logger

	sseClients map[chan string]struct{}
	sseMu      sync.Mutex
}

// New creates a Server around the given store.
func New(cfg config.ServerConfig, st *store.Store, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	return &Server{
		Host:         cfg.Host,
		Port:         cfg.Port,
		ReadOnly:     cfg.ReadOnly,
		WatchEnabled: cfg.Watch,
		store:        st,
		importer:     importer.New(st),
		logger:       logger,
		sseClients:   make(map[chan string]struct{}),
	}
}

// Start runs the server until the listener fails. The context governs
// the file watcher, not in-flight requests.
func (s *Server) Start(ctx context.Context) error {
	if s.WatchEnabled {
		if err := s.startWatcher(ctx); err != nil {
			s.logger.Warn("file watching disabled", "error", err)
		}
	}

	addr := fmt.Sprintf("%s:%d", s.Host, s.Port)
	s.logger.Info("server listening", "addr", addr, "readOnly", s.ReadOnly)

	return http.ListenAndServe(addr, s.Handler())
}

// Handler returns the routed handler with request logging applied.
func (s *Server) Handler() http.Handler {
	return s.withLogging(s.setupRouter())
}

func (s *Server) setupRouter() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/transactions", s.handleGetTransactions)
	mux.HandleFunc("POST /api/transactions", s.requireWritable(s.handleCreateTransaction))
	mux.HandleFunc("PUT /api/transactions/{id}", s.requireWritable(s.handleUpdateTransaction))
	mux.HandleFunc("DELETE /api/transactions/{id}", s.requireWritable(s.handleDeleteTransaction))

	mux.HandleFunc("GET /api/accounts", s.handleGetAccounts)
	mux.HandleFunc("POST /api/accounts", s.requireWritable(s.handleCreateAccount))

	mux.HandleFunc("GET /api/balances", s.handleGetBalances)
	mux.HandleFunc("GET /api/prices", s.handleGetPrices)

	mux.HandleFunc("GET /api/dashboard", s.handleGetDashboard)
	mux.HandleFunc("GET /api/reports/balance-sheet", s.handleGetBalanceSheet)
	mux.HandleFunc("GET /api/reports/income-statement", s.handleGetIncomeStatement)

	mux.HandleFunc("POST /api/import/preview", s.handleImportPreview)
	mux.HandleFunc("POST /api/import/transactions", s.requireWritable(s.handleImportTransactions))

	mux.HandleFunc("POST /api/files", s.requireWritable(s.handleCreateFile))

	mux.HandleFunc("GET /api/source", s.handleGetSource)
	mux.HandleFunc("PUT /api/source", s.requireWritable(s.handlePutSource))

	mux.HandleFunc("GET /api/events", s.handleSSE)

	return mux
}

// requireWritable rejects mutating requests in read-only mode.
func (s *Server) requireWritable(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.ReadOnly {
			http.Error(w, "server is in read-only mode", http.StatusForbidden)
			return
		}
		next(w, r)
	}
}

// statusRecorder captures the response status for request logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// SSE responses stream; wrapping them breaks http.Flusher.
		if r.URL.Path == "/api/events" {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(recorder, r)

		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", recorder.status,
			"duration", time.Since(start))
	})
}

// writeJSONResponse writes data as a JSON response.
func writeJSONResponse(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}

// writeError maps an operation error onto its HTTP status.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var verr *store.ValidationError

	switch {
	case errors.Is(err, store.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, store.ErrExists):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.As(err, &verr),
		errors.Is(err, importer.ErrUnsupportedFormat),
		errors.Is(err, importer.ErrEmptyFile):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		s.logger.Error("request failed", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
