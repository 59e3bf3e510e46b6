// Package server assembles the echo instance that serves the frontend.
package server

import (
	"context"
	stderrors "errors"
	"fmt"
	"net"
	"net/http"

	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"

	"github.com/gumanista/hate-2-action/config"
	"github.com/gumanista/hate-2-action/pkg/health"
	"github.com/gumanista/hate-2-action/pkg/metrics"
	"github.com/gumanista/hate-2-action/pkg/middleware"
	"github.com/gumanista/hate-2-action/pkg/routes"
	"github.com/gumanista/hate-2-action/pkg/views"
)

type Server struct {
	echo    *echo.Echo
	http    *http.Server
	checker *health.Checker
	logger  ectologger.Logger
	errc    chan error
}

// New wires middleware, pages, health probes and metrics. Nothing listens
// until Start.
func New(cfg *config.Config, repos routes.Repositories, backend health.Pinger, logger ectologger.Logger) (*Server, error) {
	renderer, err := views.New()
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = renderer
	e.HTTPErrorHandler = middleware.Error(logger)

	e.Use(echomw.Recover())
	e.Use(otelecho.Middleware(cfg.AppName))
	e.Use(middleware.Context())
	e.Use(middleware.Logger(logger))

	routes.Register(e, repos, logger)

	checker := health.NewChecker(backend, cfg.Version)
	checker.RegisterRoutes(e)

	if cfg.MetricsEnabled {
		e.GET("/metrics", metrics.Handler())
	}

	return &Server{
		echo:    e,
		checker: checker,
		logger:  logger,
		http: &http.Server{
			Addr:              cfg.Address(),
			Handler:           e,
			ReadTimeout:       cfg.ReadTimeout(),
			WriteTimeout:      cfg.WriteTimeout(),
			IdleTimeout:       cfg.IdleTimeout(),
			ReadHeaderTimeout: cfg.ReadHeaderTimeout(),
			MaxHeaderBytes:    cfg.MaxHeaderBytes,
		},
		errc: make(chan error, 1),
	}, nil
}

// Echo exposes the router, mainly for tests.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

func (s *Server) Checker() *health.Checker {
	return s.checker
}

// Start binds the address and serves in the background. Bind errors are
// returned directly; later serve errors arrive on Errors.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.http.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.http.Addr, err)
	}

	s.logger.WithContext(ctx).Infof("Frontend listening on %s", ln.Addr())
	go func() {
		if err := s.http.Serve(ln); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			s.errc <- err
		}
		close(s.errc)
	}()

	s.checker.SetReady(true)
	return nil
}

// Errors reports a serve failure after Start; it is closed when serving ends.
func (s *Server) Errors() <-chan error {
	return s.errc
}

// Stop drains in-flight requests until ctx expires.
func (s *Server) Stop(ctx context.Context) error {
	s.checker.SetReady(false)
	return s.http.Shutdown(ctx)
}
