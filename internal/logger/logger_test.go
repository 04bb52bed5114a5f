package logger

import (
	"context"
	"testing"

	"github.com/willibrandon/mtlog/core"

	"github.com/strob0t/ruffls/internal/config"
)

func TestNew(t *testing.T) {
	cfg := config.Logging{Level: "debug", Service: "test-svc"}
	l, closer := New(cfg)
	defer closer.Close()
	if l == nil {
		t.Fatal("expected non-nil logger")
	}
	l.Information("server starting on {Transport}", "stdio")
}

func TestNewAsync(t *testing.T) {
	cfg := config.Logging{Level: "debug", Service: "test-svc", Async: true}
	l, closer := New(cfg)
	if l == nil {
		t.Fatal("expected non-nil logger")
	}
	l.Warning("dropped {Count} pending events during shutdown", 0)
	closer.Close()
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  core.LogEventLevel
	}{
		{"debug", core.DebugLevel},
		{"info", core.InformationLevel},
		{"warn", core.WarningLevel},
		{"warning", core.WarningLevel},
		{"error", core.ErrorLevel},
		{"fatal", core.FatalLevel},
		{"verbose", core.VerboseLevel},
		{"trace", core.VerboseLevel},
		{"unknown", core.InformationLevel},
		{"", core.InformationLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := parseLevel(tt.input); got != tt.want {
				t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestRequestIDContext(t *testing.T) {
	ctx := context.Background()

	if got := RequestID(ctx); got != "" {
		t.Errorf("expected empty request ID, got %q", got)
	}

	ctx = WithRequestID(ctx, "req-123")
	if got := RequestID(ctx); got != "req-123" {
		t.Errorf("expected req-123, got %q", got)
	}
}
