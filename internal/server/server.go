// Package server exposes the billing pipeline over HTTP: transcripts come in
// as JSON commands, the bill can be inspected or cleared, and invoices can be
// triggered. Health probes and Prometheus metrics share the same listener.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rampradops28/final-app/internal/bill"
	"github.com/rampradops28/final-app/internal/health"
	"github.com/rampradops28/final-app/internal/observe"
	"github.com/rampradops28/final-app/internal/recognizer"
	"github.com/rampradops28/final-app/internal/session"
)

// maxCommandBytes bounds the request body for /api/command. Voice transcripts
// are short; anything bigger is garbage.
const maxCommandBytes = 4 << 10

// Invoicer triggers invoice generation for the current bill.
type Invoicer interface {
	Generate(ctx context.Context) error
}

// Option configures a [Server].
type Option func(*Server)

// WithInvoicer wires invoice generation for POST /api/invoice. When nil, the
// endpoint answers 501.
func WithInvoicer(inv Invoicer) Option {
	return func(s *Server) {
		s.invoicer = inv
	}
}

// WithHealth wires a health handler onto /healthz and /readyz.
func WithHealth(h *health.Handler) Option {
	return func(s *Server) {
		s.health = h
	}
}

// WithMetrics wires the metrics instance used by the HTTP middleware.
// Default: [observe.DefaultMetrics].
func WithMetrics(m *observe.Metrics) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// WithTLS serves HTTPS using the given certificate and key files.
func WithTLS(certFile, keyFile string) Option {
	return func(s *Server) {
		s.certFile = certFile
		s.keyFile = keyFile
	}
}

// Server is the HTTP front door of the billing service.
type Server struct {
	addr     string
	driver   *session.Driver
	ledger   *bill.Ledger
	invoicer Invoicer
	health   *health.Handler
	metrics  *observe.Metrics
	certFile string
	keyFile  string
}

// New creates a [Server] listening on addr once [Server.Run] is called.
func New(addr string, driver *session.Driver, ledger *bill.Ledger, opts ...Option) *Server {
	s := &Server{
		addr:   addr,
		driver: driver,
		ledger: ledger,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics == nil {
		s.metrics = observe.DefaultMetrics()
	}
	return s
}

// Handler builds the full HTTP handler including middleware, API routes,
// health probes, and the Prometheus scrape endpoint.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/command", s.handleCommand)
	mux.HandleFunc("GET /api/bill", s.handleGetBill)
	mux.HandleFunc("DELETE /api/bill", s.handleClearBill)
	mux.HandleFunc("POST /api/invoice", s.handleInvoice)

	if s.health != nil {
		s.health.Register(mux)
	}
	mux.Handle("GET /metrics", promhttp.Handler())

	return observe.Middleware(s.metrics)(mux)
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if s.certFile != "" && s.keyFile != "" {
			errCh <- srv.ListenAndServeTLS(s.certFile, s.keyFile)
			return
		}
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// commandRequest is the body of POST /api/command.
type commandRequest struct {
	// Text is the raw transcript to classify.
	Text string `json:"text"`

	// Language optionally overrides the recognizer's language mode for this
	// one transcript ("en-US", "ta-IN", or "mixed"). Empty keeps the
	// configured mode; anything else is rejected with 400.
	Language string `json:"language,omitempty"`
}

// commandResponse wraps the classification result. Processed is false when
// the transcript was dropped as an empty or duplicate utterance; Result is
// omitted in that case.
type commandResponse struct {
	Processed bool               `json:"processed"`
	Result    *recognizer.Result `json:"result,omitempty"`
}

func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	var req commandRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxCommandBytes))
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	lang := recognizer.Language(req.Language)
	if req.Language != "" && !lang.IsValid() {
		writeError(w, http.StatusBadRequest, "unsupported language: "+req.Language)
		return
	}

	res, processed := s.driver.HandleTranscriptIn(r.Context(), req.Text, lang)
	resp := commandResponse{Processed: processed}
	if processed {
		resp.Result = &res
	}
	writeJSON(w, http.StatusOK, resp)
}

// billResponse is the body of GET /api/bill.
type billResponse struct {
	Items []bill.Item `json:"items"`
	Total string      `json:"total"`
}

func (s *Server) handleGetBill(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, billResponse{
		Items: s.ledger.Items(),
		Total: s.ledger.Total().StringFixed(2),
	})
}

func (s *Server) handleClearBill(w http.ResponseWriter, _ *http.Request) {
	s.ledger.Clear()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleInvoice(w http.ResponseWriter, r *http.Request) {
	if s.invoicer == nil {
		writeError(w, http.StatusNotImplemented, "invoice generation not configured")
		return
	}
	if err := s.invoicer.Generate(r.Context()); err != nil {
		slog.Error("invoice generation failed", "err", err)
		writeError(w, http.StatusInternalServerError, "invoice generation failed")
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "generated"})
}

// errorResponse is the body of all error answers.
type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeJSON encodes v as JSON with the given status code. On encoding
// failure it falls back to a plain-text 500 response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error":"encoding failed"}`, http.StatusInternalServerError)
	}
}
