// Package api serves a persisted elevation index over HTTP.
package api

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ServerConfig holds server configuration.
type ServerConfig struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	// RequestTimeout bounds the context of a single handler call.
	RequestTimeout time.Duration
	MaxConcurrent  int
	CORSOrigin     string
}

// DefaultConfig returns sensible defaults.
func DefaultConfig(addr string) ServerConfig {
	return ServerConfig{
		Addr:           addr,
		ReadTimeout:    5 * time.Second,
		WriteTimeout:   5 * time.Second,
		RequestTimeout: 2 * time.Second,
		MaxConcurrent:  runtime.NumCPU() * 2,
	}
}

// NewServer creates an HTTP server with all routes and middleware.
// When reg is non-nil, request durations are registered with it and its
// metrics are served on /metrics.
func NewServer(cfg ServerConfig, handlers *Handlers, reg *prometheus.Registry) *http.Server {
	mw := newMiddleware(cfg)
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/v1/elevation/{id}", mw.wrap("elevation", handlers.HandleElevation))
	mux.HandleFunc("POST /api/v1/elevations", mw.wrap("elevations", handlers.HandleBatch))
	mux.HandleFunc("GET /api/v1/health", mw.wrap("health", handlers.HandleHealth))
	mux.HandleFunc("GET /api/v1/stats", mw.wrap("stats", handlers.HandleStats))

	if reg != nil {
		reg.MustRegister(mw.duration)
		mux.Handle("GET /metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	}

	return &http.Server{
		Addr:         cfg.Addr,
		Handler:      mux,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
}

// ListenAndServe starts the server and blocks until shutdown signal.
func ListenAndServe(srv *http.Server) error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGTERM, syscall.SIGINT)
	defer signal.Stop(stop)

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Elevation server listening on %s", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		log.Printf("Received %s, draining connections...", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}
}

type middleware struct {
	cfg      ServerConfig
	sem      chan struct{}
	duration *prometheus.HistogramVec
}

func newMiddleware(cfg ServerConfig) *middleware {
	if cfg.MaxConcurrent < 1 {
		cfg.MaxConcurrent = 1
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = cfg.WriteTimeout
	}
	return &middleware{
		cfg: cfg,
		sem: make(chan struct{}, cfg.MaxConcurrent),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "osm_elevation_http_request_duration_seconds",
			Help:    "Lookup server request latency",
			Buckets: []float64{.0005, .001, .005, .01, .05, .1, .5},
		}, []string{"route", "code"}),
	}
}

// statusRecorder remembers the status code a handler wrote and whether
// the response has started.
type statusRecorder struct {
	http.ResponseWriter
	status  int
	started bool
}

func (r *statusRecorder) WriteHeader(code int) {
	if !r.started {
		r.status = code
		r.started = true
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	r.started = true
	return r.ResponseWriter.Write(b)
}

// wrap adds security headers, CORS, concurrency limiting, panic recovery,
// a request deadline, logging and latency metrics to handler.
func (m *middleware) wrap(route string, handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Cache-Control", "no-store")
		if m.cfg.CORSOrigin != "" {
			h.Set("Access-Control-Allow-Origin", m.cfg.CORSOrigin)
		}

		select {
		case m.sem <- struct{}{}:
			defer func() { <-m.sem }()
		default:
			h.Set("Retry-After", "1")
			writeError(w, http.StatusServiceUnavailable, "service_unavailable", "")
			return
		}

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		defer func() {
			if p := recover(); p != nil {
				log.Printf("panic serving %s: %v", r.URL.Path, p)
				if !rec.started {
					writeError(rec, http.StatusInternalServerError, "internal_error", "")
				}
			}
			elapsed := time.Since(start)
			m.duration.WithLabelValues(route, strconv.Itoa(rec.status)).Observe(elapsed.Seconds())
			log.Printf("%s %s %d %s", r.Method, r.URL.Path, rec.status, elapsed.Round(time.Microsecond))
		}()

		ctx, cancel := context.WithTimeout(r.Context(), m.cfg.RequestTimeout)
		defer cancel()
		handler(rec, r.WithContext(ctx))
	}
}
