// Package main is the entry point for the actor gateway. It wires the actor
// catalog and its collaborators using samber/do v2, starts the HTTP server,
// and handles graceful shutdown on SIGINT/SIGTERM.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/samber/do/v2"

	adapthttp "github.com/jsamuelsen11/go-actor/internal/adapters/http"
	"github.com/jsamuelsen11/go-actor/internal/adapters/http/handlers"
	"github.com/jsamuelsen11/go-actor/internal/adapters/http/middleware"
	"github.com/jsamuelsen11/go-actor/internal/adapters/remote"
	"github.com/jsamuelsen11/go-actor/internal/app"
	"github.com/jsamuelsen11/go-actor/internal/catalog"
	"github.com/jsamuelsen11/go-actor/internal/platform/config"
	"github.com/jsamuelsen11/go-actor/internal/platform/health"
	"github.com/jsamuelsen11/go-actor/internal/platform/httpclient"
	"github.com/jsamuelsen11/go-actor/internal/ports"
	"github.com/jsamuelsen11/go-actor/pkg/logging"
	"github.com/jsamuelsen11/go-actor/pkg/telemetry"
)

const otelShutdownTimeout = 5 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	profile := os.Getenv("APP_PROFILE")
	if profile == "" {
		return errors.New("APP_PROFILE environment variable is required (e.g. local, dev, qa, prod)")
	}

	cfg, err := config.Load(profile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	logger := logging.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	otelProviders := &telemetry.Providers{}
	if cfg.Telemetry.Enabled {
		otelProviders, err = telemetry.Setup(ctx, telemetry.Config{
			ServiceName: cfg.Telemetry.ServiceName,
			Exporter:    cfg.Telemetry.Exporter,
			Endpoint:    cfg.Telemetry.Endpoint,
		})
		if err != nil {
			return fmt.Errorf("initializing telemetry: %w", err)
		}
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), otelShutdownTimeout)
		defer cancel()
		if err := otelProviders.Shutdown(flushCtx); err != nil {
			logger.Error("telemetry shutdown error", slog.Any("error", err))
		}
	}()

	injector := do.New()
	do.ProvideValue(injector, cfg)
	do.ProvideValue(injector, logger)
	do.ProvideValue(injector, otelProviders.Metrics)
	registerDependencies(injector, cfg, logger)

	// Resolving the server wires the whole graph.
	server, err := do.Invoke[*adapthttp.Server](injector)
	if err != nil {
		return fmt.Errorf("resolving server: %w", err)
	}

	registry := do.MustInvoke[ports.HealthRegistry](injector)
	registry.Register(do.MustInvoke[*catalog.Inventory](injector))
	if cfg.Catalog.RemotePayments {
		registry.Register(do.MustInvoke[*remote.Gateway](injector))
	}

	logger.Info("actor gateway starting",
		slog.String("addr", server.Addr()),
		slog.String("profile", profile),
		slog.Bool("remote_payments", cfg.Catalog.RemotePayments),
	)

	if err := server.Run(ctx); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	logger.Info("shutdown complete")
	return nil
}

func registerDependencies(injector *do.RootScope, cfg *config.Config, logger *slog.Logger) {
	do.Provide(injector, func(_ do.Injector) (*catalog.Inventory, error) {
		return catalog.NewInventory(cfg.Catalog.InitialStock), nil
	})

	do.Provide(injector, func(i do.Injector) (*httpclient.Client, error) {
		metrics := do.MustInvoke[*telemetry.Metrics](i)
		return httpclient.New(&cfg.Client, "payments-gateway", metrics, logger), nil
	})

	do.Provide(injector, func(i do.Injector) (*remote.Gateway, error) {
		client := do.MustInvoke[*httpclient.Client](i)
		return remote.NewGateway(client, logger), nil
	})

	do.Provide(injector, func(i do.Injector) (*catalog.Catalog, error) {
		opts := catalog.Options{Inventory: do.MustInvoke[*catalog.Inventory](i)}
		if cfg.Catalog.RemotePayments {
			gateway := do.MustInvoke[*remote.Gateway](i)
			opts.Payments = gateway.Actor(cfg.Catalog.PaymentsActor)
			opts.PaymentsName = gateway.Name()
		}
		return catalog.New(opts)
	})

	do.Provide(injector, func(i do.Injector) (ports.ActorService, error) {
		actors := do.MustInvoke[*catalog.Catalog](i)
		return app.NewActorService(actors, logger), nil
	})

	do.Provide(injector, func(_ do.Injector) (ports.HealthRegistry, error) {
		return health.New(), nil
	})

	do.Provide(injector, func(i do.Injector) (*handlers.ActorHandler, error) {
		svc := do.MustInvoke[ports.ActorService](i)
		return handlers.NewActorHandler(svc), nil
	})

	do.Provide(injector, func(i do.Injector) (*handlers.HealthHandler, error) {
		registry := do.MustInvoke[ports.HealthRegistry](i)
		return handlers.NewHealthHandler(registry), nil
	})

	do.Provide(injector, func(i do.Injector) (nethttp.Handler, error) {
		actorH := do.MustInvoke[*handlers.ActorHandler](i)
		healthH := do.MustInvoke[*handlers.HealthHandler](i)
		metrics := do.MustInvoke[*telemetry.Metrics](i)

		return adapthttp.NewRouter(actorH, healthH, middleware.Stack(middleware.Config{
			Logger:  logger,
			Metrics: metrics,
			Timeout: cfg.Server.CallTimeout,
		})...), nil
	})

	do.Provide(injector, func(i do.Injector) (*adapthttp.Server, error) {
		handler := do.MustInvoke[nethttp.Handler](i)
		return adapthttp.NewServer(cfg.Server, handler, logger), nil
	})
}
