// Package server is the collection endpoint agents post their records to.
package server

import (
	"context"
	_ "embed"
	stderrors "errors"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/yirassssindaba-coder/asset-inventory/internal/config"
	"github.com/yirassssindaba-coder/asset-inventory/internal/errors"
	"github.com/yirassssindaba-coder/asset-inventory/internal/formatter"
	"github.com/yirassssindaba-coder/asset-inventory/internal/generator"
	"github.com/yirassssindaba-coder/asset-inventory/internal/logger"
	"github.com/yirassssindaba-coder/asset-inventory/internal/models"
	"github.com/yirassssindaba-coder/asset-inventory/internal/parser"
	"github.com/yirassssindaba-coder/asset-inventory/internal/schema"
	"github.com/yirassssindaba-coder/asset-inventory/internal/store"
)

const (
	logTag          = "server"
	contentTypeJSON = "application/json; charset=utf-8"
	shutdownTimeout = 5 * time.Second
)

//go:embed dashboard.html
var dashboardHTML []byte

// Server serves the dashboard, the record API and the CSV export.
type Server struct {
	cfg   config.ServerConfig
	store *store.FileStore
	log   *logger.Logger
}

// New wires a server to its store. cfg is expected to be normalized.
func New(cfg config.ServerConfig, st *store.FileStore, log *logger.Logger) *Server {
	if log == nil {
		log = logger.Discard()
	}
	return &Server{cfg: cfg, store: st, log: log}
}

// Handler returns the routing table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleDashboard)
	mux.HandleFunc("GET /api/assets", s.handleList)
	mux.HandleFunc("POST /api/assets", s.handleCreate)
	mux.HandleFunc("GET /export.csv", s.handleExport)
	mux.HandleFunc("/", handleNotFound)
	return mux
}

// Run listens on the configured port until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", ":"+strconv.Itoa(s.cfg.Port))
	if err != nil {
		s.log.Errorf(logTag, "listen on port %d failed: %v", s.cfg.Port, err)
		return errors.NewTransportError("failed to listen", err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	s.log.Infof(logTag, "running on http://%s", ln.Addr())

	select {
	case err := <-errCh:
		return errors.NewTransportError("server stopped", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.NewTransportError("shutdown failed", err)
	}
	if err := <-errCh; err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return errors.NewTransportError("server stopped", err)
	}
	s.log.Info(logTag, "stopped")
	return nil
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(dashboardHTML)
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	records, skipped, err := s.store.Records()
	if err != nil {
		s.log.Errorf(logTag, "read store: %v", err)
		writeJSON(w, http.StatusInternalServerError, failure("store_failed", ""))
		return
	}
	if skipped > 0 {
		s.log.Warnf(logTag, "skipped %d unreadable stored lines", skipped)
	}
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, formatter.Stringify(models.ArrayValue(records...), true))
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	records, _, err := s.store.Records()
	if err != nil {
		s.log.Errorf(logTag, "read store: %v", err)
		http.Error(w, "store_failed", http.StatusInternalServerError)
		return
	}
	out, err := generator.GenerateCSV(records)
	if err != nil {
		s.log.Errorf(logTag, "export csv: %v", err)
		http.Error(w, "export_failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	_, _ = io.WriteString(w, out)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, failure("body_too_large", ""))
			return
		}
		writeJSON(w, http.StatusBadRequest, failure("read_failed", err.Error()))
		return
	}

	v, err := parser.ParseBytes(body)
	if err != nil {
		detail := err.Error()
		var perr *parser.ParseError
		if stderrors.As(err, &perr) {
			detail = perr.Reason
		}
		writeJSON(w, http.StatusBadRequest, failure("invalid_json", detail))
		return
	}

	if ok, reason := schema.ValidateAsset(v); !ok {
		s.log.Warnf(logTag, "rejected record: %s", reason)
		writeJSON(w, http.StatusBadRequest, failure("schema_invalid", reason))
		return
	}

	if err := s.store.AppendRecord(v); err != nil {
		s.log.Errorf(logTag, "store record: %v", err)
		writeJSON(w, http.StatusInternalServerError, failure("store_failed", ""))
		return
	}
	writeJSON(w, http.StatusCreated, models.ObjectValue(map[string]models.Value{
		"ok": models.BoolValue(true),
	}))
}

func handleNotFound(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusNotFound)
	_, _ = io.WriteString(w, "not found")
}

// failure builds {"ok":false,"error":code} plus "detail" when given.
func failure(code, detail string) models.Value {
	m := map[string]models.Value{
		"ok":    models.BoolValue(false),
		"error": models.StringValue(code),
	}
	if detail != "" {
		m["detail"] = models.StringValue(detail)
	}
	return models.ObjectValue(m)
}

func writeJSON(w http.ResponseWriter, status int, v models.Value) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	_, _ = io.WriteString(w, formatter.Stringify(v, false))
}
