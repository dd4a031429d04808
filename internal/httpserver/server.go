// Package httpserver exposes the timesheet API over HTTP.
package httpserver

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"timesheet-tracker/internal/api"
	"timesheet-tracker/internal/config"
	"timesheet-tracker/internal/metrics"
)

const shutdownTimeout = 10 * time.Second

// HealthCheck reports whether a dependency is reachable.
type HealthCheck func(ctx context.Context) error

// Options holds the server's collaborators.
type Options struct {
	API      api.API
	Business api.BusinessAPI
	Config   config.ServerConfig
	Logger   zerolog.Logger
	// Checks are run by the readiness probe, keyed by dependency name.
	Checks map[string]HealthCheck
}

// Server is the HTTP front end.
type Server struct {
	echo *echo.Echo
	cfg  config.ServerConfig
	log  zerolog.Logger
}

// New builds the echo instance with all routes registered.
func New(opts Options) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(opts.Logger)

	// --- Global middleware ---
	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(instrument(opts.Logger))

	// --- Probes and metrics ---
	health := newHealthHandler(opts.Checks)
	e.GET("/health", health.Liveness)
	e.GET("/health/ready", health.Readiness)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	h := &handler{api: opts.API, business: opts.Business}
	h.register(e.Group("/api/v1"))

	return &Server{echo: e, cfg: opts.Config, log: opts.Logger}
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.echo,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", s.cfg.Addr).Msg("http server listening")
		errCh <- s.echo.StartServer(srv)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.log.Info().Msg("http server shutting down")
		return s.echo.Shutdown(shutdownCtx)
	}
}

// instrument renders handler errors, then logs and times every request.
func instrument(log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			if err := next(c); err != nil {
				c.Error(err)
			}

			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			status := c.Response().Status
			latency := time.Since(start)

			metrics.HTTPRequestDuration.
				WithLabelValues(c.Request().Method, route, strconv.Itoa(status)).
				Observe(latency.Seconds())

			log.Info().
				Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
				Str("method", c.Request().Method).
				Str("uri", c.Request().RequestURI).
				Int("status", status).
				Dur("latency", latency).
				Msg("request")
			return nil
		}
	}
}
