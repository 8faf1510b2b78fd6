// Package http exposes the ask and ingest operations over JSON HTTP.
// Legacy routes keep the request and response shapes of the first
// deployment (Portuguese field names, plain-text bodies).
package http

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/trace"

	"github.com/custodia-labs/groundrag/internal/core/ports/driving"
	"github.com/custodia-labs/groundrag/internal/logger"
)

// ErrMissingAskService is returned when the ask service is not provided.
var ErrMissingAskService = errors.New("http: ask service is required")

// ErrMissingIngestService is returned when the ingest service is not provided.
var ErrMissingIngestService = errors.New("http: ingest service is required")

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// Ports aggregates the driving ports served over HTTP.
type Ports struct {
	Ask    driving.AskService
	Ingest driving.IngestService
	Runs   driving.RunService // optional
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Ask == nil {
		return ErrMissingAskService
	}
	if p.Ingest == nil {
		return ErrMissingIngestService
	}
	return nil
}

// Server routes requests to the driving ports.
type Server struct {
	ports  *Ports
	router *mux.Router
}

// NewServer creates a server with all routes registered.
func NewServer(ports *Ports) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}

	s := &Server{
		ports:  ports,
		router: mux.NewRouter(),
	}
	s.registerRoutes()
	return s, nil
}

func (s *Server) registerRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/ask", s.handleAsk).Methods(http.MethodPost)
	api.HandleFunc("/ingest", s.handleIngest).Methods(http.MethodPost)
	api.HandleFunc("/runs", s.handleRuns).Methods(http.MethodGet)

	// Legacy routes.
	api.HandleFunc("/consultar", s.handleConsultar).Methods(http.MethodPost)
	s.router.HandleFunc("/rag/treinamento", s.handleTreinamento).Methods(http.MethodGet)

	s.router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	s.router.Use(nameSpan, limitBody)
}

// Handler returns the instrumented root handler. Spans start named after
// the method alone and are renamed once a route matches.
func (s *Server) Handler() http.Handler {
	return otelhttp.NewHandler(s.router, "groundrag",
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method
		}),
	)
}

// Run serves on addr until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	// Graceful shutdown when context is cancelled
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		httpServer.Shutdown(shutdownCtx) //nolint:errcheck
	}()

	logger.Info("HTTP server listening on %s", addr)
	err := httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// nameSpan renames the request span after the matched route template.
// Routing has happened by the time middleware runs, so the route is known.
func nameSpan(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if name, ok := routeName(r); ok {
			trace.SpanFromContext(r.Context()).SetName(name)
		}
		next.ServeHTTP(w, r)
	})
}

func routeName(r *http.Request) (string, bool) {
	route := mux.CurrentRoute(r)
	if route == nil {
		return "", false
	}
	tpl, err := route.GetPathTemplate()
	if err != nil {
		return "", false
	}
	return r.Method + " " + tpl, true
}

func limitBody(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Body != nil {
			r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		}
		next.ServeHTTP(w, r)
	})
}
