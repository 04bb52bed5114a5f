package telemetry

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "ruffls"

// Metrics holds all ruffls metric instruments.
type Metrics struct {
	RequestsDispatched   metric.Int64Counter
	RequestsCancelled    metric.Int64Counter
	DiagnosticsPublished metric.Int64Counter
	LockWaitDuration     metric.Float64Histogram
	LintEngineDuration   metric.Float64Histogram
	CacheHits            metric.Int64Counter
	CacheMisses          metric.Int64Counter
	BreakerOpened        metric.Int64Counter
}

// NewMetrics creates all metric instruments against the global MeterProvider.
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(meterName)
	m := &Metrics{}
	var err error

	m.RequestsDispatched, err = meter.Int64Counter("ruffls.requests.dispatched",
		metric.WithDescription("Number of LSP requests dispatched to a handler"))
	if err != nil {
		return nil, err
	}

	m.RequestsCancelled, err = meter.Int64Counter("ruffls.requests.cancelled",
		metric.WithDescription("Number of in-flight requests cancelled via $/cancelRequest"))
	if err != nil {
		return nil, err
	}

	m.DiagnosticsPublished, err = meter.Int64Counter("ruffls.diagnostics.published",
		metric.WithDescription("Number of textDocument/publishDiagnostics notifications sent"))
	if err != nil {
		return nil, err
	}

	m.LockWaitDuration, err = meter.Float64Histogram("ruffls.state.lock_wait_seconds",
		metric.WithDescription("Time spent waiting to acquire ServerState locks"))
	if err != nil {
		return nil, err
	}

	m.LintEngineDuration, err = meter.Float64Histogram("ruffls.lintengine.duration_seconds",
		metric.WithDescription("Time spent invoking the external lint engine"))
	if err != nil {
		return nil, err
	}

	m.CacheHits, err = meter.Int64Counter("ruffls.lintcache.hits",
		metric.WithDescription("Number of lint cache hits"))
	if err != nil {
		return nil, err
	}

	m.CacheMisses, err = meter.Int64Counter("ruffls.lintcache.misses",
		metric.WithDescription("Number of lint cache misses"))
	if err != nil {
		return nil, err
	}

	m.BreakerOpened, err = meter.Int64Counter("ruffls.lintengine.breaker_opened",
		metric.WithDescription("Number of times the lint engine circuit breaker tripped open"))
	if err != nil {
		return nil, err
	}

	return m, nil
}
