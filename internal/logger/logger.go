// Package logger sets up structured logging for ruffls. Every scheduler
// goroutine, handler, and transport error path logs through the core.Logger
// returned by New, tagged with a service name.
package logger

import (
	"strings"

	"github.com/willibrandon/mtlog"
	"github.com/willibrandon/mtlog/core"
	"github.com/willibrandon/mtlog/sinks"

	"github.com/strob0t/ruffls/internal/config"
)

// Closer flushes and releases the logger's background resources.
type Closer interface {
	Close() error
}

// New builds a core.Logger from the given Logging config. Output goes to
// stderr so stdout stays free for LSP framing on the stdio transport. When
// cfg.Async is true, writes are buffered through an AsyncSink so a slow
// downstream sink never blocks request handling; the caller must call
// Close on shutdown to drain it.
func New(cfg config.Logging) (core.Logger, Closer) {
	level := parseLevel(cfg.Level)
	console := sinks.NewConsoleSinkWithWriter(stderrWriter{})

	var sink core.LogEventSink = console
	if cfg.Async {
		sink = sinks.NewAsyncSink(console, sinks.AsyncOptions{
			BufferSize:       10000,
			OverflowStrategy: sinks.OverflowDropOldest,
		})
	}

	log := mtlog.New(
		mtlog.WithSink(sink),
		mtlog.WithMinimumLevel(level),
	)

	base := log.ForContext("service", cfg.Service)
	return base, loggerCloser{log: log}
}

type loggerCloser struct {
	log core.Logger
}

func (c loggerCloser) Close() error {
	if closable, ok := c.log.(interface{ Close() error }); ok {
		return closable.Close()
	}
	return nil
}

func parseLevel(s string) core.LogEventLevel {
	switch strings.ToLower(s) {
	case "verbose", "trace":
		return core.VerboseLevel
	case "debug":
		return core.DebugLevel
	case "warn", "warning":
		return core.WarningLevel
	case "error":
		return core.ErrorLevel
	case "fatal":
		return core.FatalLevel
	default:
		return core.InformationLevel
	}
}
