package http

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/quake-dashboard/internal/dashboard"
	"github.com/couchcryptid/quake-dashboard/internal/domain"
	"github.com/couchcryptid/quake-dashboard/internal/observability"
)

// Dashboard renders views for a selection.
type Dashboard interface {
	sharedobs.ReadinessChecker
	Reference() time.Time
	Options() domain.ControlOptions
	Render(ctx context.Context, sel domain.Selection, transport string) (domain.View, error)
	Subset(ctx context.Context, sel domain.Selection, transport string) ([]domain.Event, domain.Summary, error)
}

// Exporter writes a filtered subset as a downloadable file.
type Exporter interface {
	ContentType() string
	Extension() string
	Export(w io.Writer, sel domain.Selection, reference time.Time, events []domain.Event, summary domain.Summary) error
}

// Options configures the HTTP server.
type Options struct {
	Addr           string
	RateLimitRPS   float64
	RateLimitBurst int
}

// Server exposes the dashboard page, its JSON API, the WebSocket channel,
// and health, readiness, and metrics endpoints.
type Server struct {
	httpServer *http.Server
	dash       Dashboard
	exporter   Exporter
	opts       Options
	upgrader   websocket.Upgrader
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewServer wires the router. exporter may be nil, in which case the export
// route is not mounted.
func NewServer(opts Options, dash Dashboard, exporter Exporter, metrics *observability.Metrics, logger *slog.Logger) *Server {
	s := &Server{
		dash:     dash,
		exporter: exporter,
		opts:     opts,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
		metrics: metrics,
		logger:  logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(recoverer(logger))

	r.Get("/healthz", sharedobs.LivenessHandler())
	r.Get("/readyz", sharedobs.ReadinessHandler(dash))
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/", s.handleIndex)
	r.Get("/ws", s.handleWebSocket)

	limiter := newRateLimiter(opts.RateLimitRPS, opts.RateLimitBurst,
		metrics.RateLimited.WithLabelValues(dashboard.TransportHTTP), logger)
	r.Route("/api", func(r chi.Router) {
		r.Use(limiter.Handler)
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Get("/options", s.handleOptions)
		r.Get("/dashboard", s.handleDashboard)
		if exporter != nil {
			r.Get("/export"+exporter.Extension(), s.handleExport)
		}
	})

	s.httpServer = &http.Server{
		Addr:         opts.Addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}
