package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tartampluch/go-agecalc/internal/config"
	"github.com/tartampluch/go-agecalc/internal/engine"
)

// Options configures a Server. Zero values fall back to the defaults in config.
type Options struct {
	Port      string
	Policy    engine.OrderPolicy
	CacheSize int

	// RequestsPerMin bounds /api calls per client address.
	RequestsPerMin int

	// Clock supplies "today" when /api/age gets no current date.
	Clock engine.Clock

	// Registry receives the metrics. A private registry is created when nil.
	Registry *prometheus.Registry
}

// Server exposes the calculator as a JSON API and serves the birthday calendar.
type Server struct {
	// cache uses atomic.Pointer for lock-free reads: the feed is read on every
	// calendar poll and replaced only when a contacts sync finishes.
	cache atomic.Pointer[feed]
	Port  string

	policy  engine.OrderPolicy
	clock   engine.Clock
	memo    *lru.Cache[string, []engine.CalendarDate]
	limiter *rateLimiter
	metrics *metrics
	reg     *prometheus.Registry
	router  http.Handler
}

// New builds a Server and its routes.
func New(opts Options) (*Server, error) {
	if opts.CacheSize <= 0 {
		opts.CacheSize = config.DefaultCacheSize
	}
	if opts.RequestsPerMin <= 0 {
		opts.RequestsPerMin = config.RateLimitPerMin
	}
	if opts.Clock == nil {
		opts.Clock = engine.RealClock{}
	}
	if opts.Registry == nil {
		opts.Registry = prometheus.NewRegistry()
	}

	memo, err := lru.New[string, []engine.CalendarDate](opts.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrCacheInit, err)
	}

	m, err := newMetrics(opts.Registry)
	if err != nil {
		return nil, err
	}

	s := &Server{
		Port:    opts.Port,
		policy:  opts.Policy,
		clock:   opts.Clock,
		memo:    memo,
		limiter: newRateLimiter(opts.RequestsPerMin),
		metrics: m,
		reg:     opts.Registry,
	}
	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(s.metrics.middleware)

	r.Get(config.RouteHealth, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(config.HTTPMsgOK))
	})
	r.Method(http.MethodGet, config.RouteMetrics, promhttp.HandlerFor(s.reg, promhttp.HandlerOpts{}))

	// Any method reaches the calendar handler so it can answer 405 with an Allow header.
	r.HandleFunc(config.RouteCalendar, s.handleCalendarRequest)

	r.Route(config.RouteAPI, func(api chi.Router) {
		api.Use(s.limiter.middleware)
		api.Post(config.RouteExtract, s.handleExtract)
		api.Post(config.RouteAge, s.handleAge)
		api.Get(config.RouteAdulthood, s.handleAdulthood)
		api.Get(config.RouteMonths, s.handleMonths)
	})

	return r
}

// Handler returns the routed handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start listens on localhost and blocks until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	if s.Port == "" {
		return errors.New(config.ErrPortRequired)
	}

	srv := &http.Server{
		Addr:         config.LocalhostBindAddr + config.AddrSeparator + s.Port,
		Handler:      s.router,
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: config.ServerWriteTimeout,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	serverError := make(chan error, config.ChannelBufferSize)

	go func() {
		slog.Info(config.MsgServerListen,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyPort, s.Port,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverError <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info(config.MsgServerStop, config.LogKeyComponent, config.CompServer)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("%s: %w", config.ErrServerShutdown, err)
		}
		return nil

	case err := <-serverError:
		return fmt.Errorf("%s: %w", config.ErrServerStartup, err)
	}
}
