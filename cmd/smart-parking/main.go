package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"smart-parking/internal/config"
	"smart-parking/internal/logging"
	"smart-parking/internal/parking"
	"smart-parking/internal/server"
)

var (
	mode = pflag.StringP("mode", "m", "server", "Mode to run: cli, server, or both")
	port = pflag.StringP("port", "p", "", "Port for HTTP server (overrides APP_PORT)")
)

func main() {
	pflag.Parse()

	cfg := config.Load()
	if *port != "" {
		cfg.Port = *port
	}

	logging.Init(cfg.OTelServiceName, cfg.LogLevel, cfg.LogDir)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	telemetryProvider, err := parking.NewTelemetryProvider(ctx, cfg.OTelServiceName, cfg.OTelEndpoint, cfg.Environment)
	if err != nil {
		logging.Logger().Fatalf("Failed to initialize telemetry: %v", err)
	}

	core := parking.NewService(parking.NewMemoryStore(), parking.WithDefaultCurrency(cfg.DefaultCurrency))
	svc, err := parking.NewInstrumentedService(core, telemetryProvider)
	if err != nil {
		logging.Logger().Fatalf("Failed to initialize parking service: %v", err)
	}
	reporter := parking.NewOccupancyReporter(core)

	switch *mode {
	case "cli":
		runCLI(ctx, svc, telemetryProvider)
	case "server":
		runServer(ctx, cfg, svc, reporter)
	case "both":
		runBoth(ctx, cfg, svc, reporter, telemetryProvider)
	default:
		logging.Logger().Fatalf("Invalid mode: %s. Must be cli, server, or both", *mode)
	}

	shutdownTelemetry(telemetryProvider)
}

func runCLI(ctx context.Context, svc *parking.InstrumentedService, telemetryProvider *parking.TelemetryProvider) {
	shell := parking.NewShell(svc, telemetryProvider, os.Stdin, os.Stdout)
	shell.Run(ctx)
}

func startSnapshots(cfg *config.Config, reporter *parking.OccupancyReporter) *cron.Cron {
	if cfg.SnapshotSchedule == "" {
		return nil
	}
	c := cron.New()
	if _, err := reporter.Schedule(c, cfg.SnapshotSchedule); err != nil {
		logging.Errorf(context.Background(), "invalid occupancy snapshot schedule %q: %v", cfg.SnapshotSchedule, err)
		return nil
	}
	c.Start()
	return c
}

func serve(ctx context.Context, cfg *config.Config, srv *server.Server) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logging.Info(context.Background(), "received shutdown signal")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func runServer(ctx context.Context, cfg *config.Config, svc *parking.InstrumentedService, reporter *parking.OccupancyReporter) {
	srv := server.NewServer(cfg.Port, cfg.OTelServiceName, svc, reporter)

	if c := startSnapshots(cfg, reporter); c != nil {
		defer c.Stop()
	}

	if err := serve(ctx, cfg, srv); err != nil {
		logging.Errorf(context.Background(), "server error: %v", err)
	}
}

func runBoth(ctx context.Context, cfg *config.Config, svc *parking.InstrumentedService, reporter *parking.OccupancyReporter, telemetryProvider *parking.TelemetryProvider) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	srv := server.NewServer(cfg.Port, cfg.OTelServiceName, svc, reporter)

	if c := startSnapshots(cfg, reporter); c != nil {
		defer c.Stop()
	}

	serverDone := make(chan error, 1)
	go func() {
		serverDone <- serve(ctx, cfg, srv)
	}()

	go func() {
		runCLI(ctx, svc, telemetryProvider)
		logging.Info(context.Background(), "CLI exited")
		cancel()
	}()

	if err := <-serverDone; err != nil {
		logging.Errorf(context.Background(), "server error: %v", err)
	}
}

func shutdownTelemetry(telemetryProvider *parking.TelemetryProvider) {
	logging.Info(context.Background(), "shutting down telemetry")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := telemetryProvider.Shutdown(shutdownCtx); err != nil {
		logging.Errorf(context.Background(), "error shutting down telemetry: %v", err)
	}
}
