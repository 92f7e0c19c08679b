package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"smart-parking/internal/logging"
	"smart-parking/internal/parking"
)

type Server struct {
	httpServer *http.Server
	handler    *Handler
}

// NewRouter wires the API routes, middleware and a /metrics endpoint backed
// by its own Prometheus registry.
func NewRouter(handler *Handler, reporter *parking.OccupancyReporter, serviceName string) http.Handler {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		reporter,
	)

	r := chi.NewRouter()

	r.Use(RecoveryMiddleware)
	r.Use(RequestIDMiddleware)
	r.Use(TracingMiddleware(serviceName))
	r.Use(LoggingMiddleware)
	r.Use(CORSMiddleware)

	r.Get("/health", handler.HealthCheck)
	r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/lots", handler.CreateLot)
		r.Get("/lots", handler.ListLots)
		r.Get("/lots/{lotID}", handler.GetLot)
		r.Get("/lots/{lotID}/availability", handler.GetAvailability)
		r.Post("/checkins", handler.CheckIn)
		r.Post("/checkouts", handler.CheckOut)
		r.Get("/tickets/{ticketID}", handler.GetTicket)
	})

	return r
}

func NewServer(port, serviceName string, svc *parking.InstrumentedService, reporter *parking.OccupancyReporter) *Server {
	handler := NewHandler(svc, serviceName)

	httpServer := &http.Server{
		Addr:         ":" + port,
		Handler:      NewRouter(handler, reporter, serviceName),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		handler:    handler,
	}
}

func (s *Server) Start() error {
	logging.Infof(context.Background(), "starting HTTP server on %s", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	logging.Info(ctx, "shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) GetAddress() string {
	return fmt.Sprintf("http://localhost%s", s.httpServer.Addr)
}
