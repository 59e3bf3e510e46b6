package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gumanista/hate-2-action/config"
	"github.com/gumanista/hate-2-action/pkg/apiclient"
	"github.com/gumanista/hate-2-action/pkg/health"
	"github.com/gumanista/hate-2-action/pkg/logging"
	"github.com/gumanista/hate-2-action/pkg/routes"
	"github.com/gumanista/hate-2-action/pkg/server"
	"github.com/gumanista/hate-2-action/pkg/startup"
	"github.com/gumanista/hate-2-action/pkg/tracing"
	"github.com/gumanista/hate-2-action/pkg/tracing/exporters"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "frontend: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(".env")
	if err != nil {
		return err
	}

	logger, zapLogger, err := logging.New(cfg.LogLevel, cfg.PrettyLogs)
	if err != nil {
		return err
	}
	defer func() { _ = zapLogger.Sync() }()

	client, err := apiclient.NewClient(apiclient.ConfigFrom(cfg), logger)
	if err != nil {
		logger.WithError(err).Error("invalid backend configuration")
		return err
	}

	srv, err := server.New(cfg, routes.NewRepositories(client, logger), client, logger)
	if err != nil {
		return err
	}

	otlp := exporters.DefaultOTLPConfig()
	otlp.Endpoint = cfg.OTLPEndpoint
	otlp.Protocol = cfg.OTLPProtocol
	otlp.Insecure = cfg.OTLPInsecure

	var shutdownTracing func(context.Context) error
	deps := startup.New(logger, cfg.StartupMaxAttempts)
	deps.AddDependency(startup.Func{
		Name: "tracing",
		StartFunc: func(ctx context.Context) error {
			shutdown, err := tracing.Init(ctx, tracing.Config{
				ServiceName: cfg.AppName,
				Version:     cfg.Version,
				Enabled:     cfg.OTLPEnabled,
				OTLP:        otlp,
			}, logger)
			if err != nil {
				return err
			}
			shutdownTracing = shutdown
			return nil
		},
		StopFunc: func(ctx context.Context) error {
			if shutdownTracing == nil {
				return nil
			}
			return shutdownTracing(ctx)
		},
	})
	deps.AddDependency(startup.Func{
		Name:     "backend",
		Requires: []string{"tracing"},
		StartFunc: func(ctx context.Context) error {
			result := srv.Checker().CheckBackend(ctx)
			if result.Status == health.StatusUnhealthy {
				return fmt.Errorf("backend at %s is not reachable: %s", client.BaseURL(), result.Message)
			}
			return nil
		},
	})
	deps.AddDependency(startup.Func{
		Name:      "http-server",
		Requires:  []string{"backend"},
		StartFunc: srv.Start,
		StopFunc:  srv.Stop,
	})

	if err := deps.Start(ctx); err != nil {
		logger.WithError(err).Error("frontend failed to start")
		stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = deps.Stop(stopCtx)
		return err
	}

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case err = <-srv.Errors():
		logger.WithError(err).Error("http server stopped")
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if stopErr := deps.Stop(stopCtx); stopErr != nil {
		logger.WithError(stopErr).Error("shutdown incomplete")
		if err == nil {
			err = stopErr
		}
	}
	return err
}
