package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/strob0t/ruffls/internal/config"
	"github.com/strob0t/ruffls/internal/handler"
	"github.com/strob0t/ruffls/internal/lintcache"
	"github.com/strob0t/ruffls/internal/lintengine"
	"github.com/strob0t/ruffls/internal/logger"
	"github.com/strob0t/ruffls/internal/scheduler"
	"github.com/strob0t/ruffls/internal/telemetry"
	"github.com/strob0t/ruffls/internal/transport"
)

// runDaemon wires configuration, logging, telemetry, the lint engine, and
// the scheduler together, binds the requested transport, and drives one
// connection to completion. kind is "stdio", "socket", or "pipe"; port and
// pipeName are only meaningful for their respective kind and override
// whatever the config file says.
func runDaemon(kind string, port int, pipeName string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	cfg.Server.Transport = kind
	if port > 0 {
		cfg.Server.Port = port
	}
	if pipeName != "" {
		cfg.Server.PipeName = pipeName
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}

	log, logCloser := logger.New(cfg.Logging)
	defer logCloser.Close() //nolint:errcheck // best-effort flush on exit

	log.Information("ruffls starting: transport={Transport} lint_binary={Binary}",
		cfg.Server.Transport, cfg.Lint.Binary)

	shutdownTelemetry, err := telemetry.Init(cfg.OTEL, log)
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}

	metrics, err := telemetry.NewMetrics()
	if err != nil {
		return fmt.Errorf("metrics: %w", err)
	}

	lintArgs := strings.Fields(cfg.Lint.Args)
	engine := lintengine.NewCommandEngine(cfg.Lint.Binary, lintArgs...)

	breaker := lintengine.NewBreakerEngine(engine, cfg.Lint.BreakerMaxFails, 30*time.Second)
	breaker.OnTrip(func() {
		log.Warn("ruffls: lint engine circuit breaker opened after {Count} consecutive failures", cfg.Lint.BreakerMaxFails)
		metrics.BreakerOpened.Add(context.Background(), 1)
	})

	cache, err := lintcache.New(breaker, cfg.Lint.CacheMaxEntries)
	if err != nil {
		return fmt.Errorf("lint cache: %w", err)
	}
	defer cache.Close()

	registry := handler.NewRegistry(cache)

	maxConcurrent := int64(runtime.GOMAXPROCS(0) * 4)
	sched := scheduler.New(registry, lintArgs, log, metrics, maxConcurrent)

	conn, err := bindTransport(cfg.Server)
	if err != nil {
		return fmt.Errorf("transport: %w", err)
	}
	defer conn.Close() //nolint:errcheck // connection is already gone by the time this runs

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runErr := make(chan error, 1)
	go func() { runErr <- sched.Run(ctx, conn) }()

	var result error
	select {
	case result = <-runErr:
		// Client disconnected or a fatal transport error occurred on its own.
	case <-ctx.Done():
		log.Information("ruffls: shutdown signal received, closing transport")
		if err := conn.Close(); err != nil {
			log.Warn("ruffls: error closing transport during shutdown: {Error}", err)
		}
		result = <-runErr
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := shutdownTelemetry(shutdownCtx); err != nil {
		log.Warn("ruffls: telemetry shutdown error: {Error}", err)
	}

	log.Information("ruffls: shutdown complete")
	return result
}

// bindTransport constructs the Conn for the requested binding. The pipe
// binding is reserved by the protocol surface but has no implementation
// yet; it returns an error rather than silently falling back to stdio.
func bindTransport(cfg config.Server) (*transport.Conn, error) {
	switch cfg.Transport {
	case "stdio":
		return transport.StdioConn(os.Stdin, os.Stdout)
	case "socket":
		return transport.SocketConn(cfg.Port)
	case "pipe":
		return nil, fmt.Errorf("pipe transport is reserved and not yet implemented")
	default:
		return nil, fmt.Errorf("unknown transport %q", cfg.Transport)
	}
}
