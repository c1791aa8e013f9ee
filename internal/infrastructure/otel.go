package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.28.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"cadestats/internal/config"
)

const (
	ServiceName = "cade-report"
	MeterName   = "cadestats"
)

// Telemetry holds the tracing and metrics providers of one run.
// Metrics are gathered into a private Prometheus registry and written as a
// node_exporter textfile on Shutdown when a metrics file is configured.
type Telemetry struct {
	TracerProvider *sdktrace.TracerProvider
	MeterProvider  *sdkmetric.MeterProvider
	Tracer         trace.Tracer
	Meter          metric.Meter
	Registry       *promclient.Registry
	Metrics        *RunMetrics

	metricsFile string
	traceOut    io.Closer
	logger      *slog.Logger
}

// RunMetrics are the instruments recorded by a report run.
type RunMetrics struct {
	RowsRead       metric.Int64Counter
	RowsRetained   metric.Int64Counter
	Convictions    metric.Int64Counter
	Extractions    metric.Int64Counter
	StageDuration  metric.Float64Histogram
	ConvictionRate metric.Float64Gauge
}

// InitializeTelemetry sets up tracing (when enabled) and the metrics pipeline.
func InitializeTelemetry(ctx context.Context, cfg config.TelemetryConfig, runID string, logger *slog.Logger) (*Telemetry, error) {
	if logger == nil {
		logger = GetLogger()
	}

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(ServiceName),
		semconv.ServiceVersion(config.AppVersion),
		attribute.String("run.id", runID),
	)

	t := &Telemetry{
		metricsFile: cfg.MetricsFile,
		logger:      logger,
	}

	if err := t.initializeTracing(cfg, res); err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}
	if err := t.initializeMetrics(res); err != nil {
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}

	logger.DebugContext(ctx, "Telemetry initialized",
		slog.Bool("tracing_enabled", cfg.Tracing),
		slog.String("metrics_file", cfg.MetricsFile))

	return t, nil
}

// initializeTracing exports spans synchronously to the trace file or stderr.
func (t *Telemetry) initializeTracing(cfg config.TelemetryConfig, res *resource.Resource) error {
	if !cfg.Tracing {
		t.Tracer = noop.NewTracerProvider().Tracer(MeterName)
		return nil
	}

	var out io.Writer = os.Stderr
	if cfg.TraceFile != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.TraceFile), 0755); err != nil {
			return fmt.Errorf("failed to create trace directory: %w", err)
		}
		f, err := os.Create(cfg.TraceFile)
		if err != nil {
			return fmt.Errorf("failed to create trace file: %w", err)
		}
		t.traceOut = f
		out = f
	}

	exporter, err := stdouttrace.New(stdouttrace.WithWriter(out))
	if err != nil {
		return fmt.Errorf("failed to create trace exporter: %w", err)
	}

	// A one-shot run has no time to spare for a batcher.
	t.TracerProvider = sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exporter),
		sdktrace.WithResource(res),
	)
	t.Tracer = t.TracerProvider.Tracer(MeterName, trace.WithInstrumentationVersion(config.AppVersion))
	return nil
}

func (t *Telemetry) initializeMetrics(res *resource.Resource) error {
	t.Registry = promclient.NewRegistry()

	exporter, err := otelprom.New(otelprom.WithRegisterer(t.Registry))
	if err != nil {
		return fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	t.MeterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exporter),
	)
	t.Meter = t.MeterProvider.Meter(MeterName, metric.WithInstrumentationVersion(config.AppVersion))

	t.Metrics, err = CreateRunMetrics(t.Meter)
	return err
}

// CreateRunMetrics creates the report instruments on meter.
func CreateRunMetrics(meter metric.Meter) (*RunMetrics, error) {
	rowsRead, err := meter.Int64Counter(
		"cade_rows_read",
		metric.WithDescription("Rows read from the decision export"),
	)
	if err != nil {
		return nil, err
	}

	rowsRetained, err := meter.Int64Counter(
		"cade_rows_retained",
		metric.WithDescription("Rows kept by the document type filter"),
	)
	if err != nil {
		return nil, err
	}

	convictions, err := meter.Int64Counter(
		"cade_convictions",
		metric.WithDescription("Retained rows whose decision contains the conviction keyword"),
	)
	if err != nil {
		return nil, err
	}

	extractions, err := meter.Int64Counter(
		"cade_fine_extractions",
		metric.WithDescription("Fine values extracted from decision bodies, by kind"),
	)
	if err != nil {
		return nil, err
	}

	stageDuration, err := meter.Float64Histogram(
		"cade_stage_duration",
		metric.WithDescription("Duration of each run stage"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	convictionRate, err := meter.Float64Gauge(
		"cade_conviction_rate",
		metric.WithDescription("Percentage of retained rows with a conviction"),
	)
	if err != nil {
		return nil, err
	}

	return &RunMetrics{
		RowsRead:       rowsRead,
		RowsRetained:   rowsRetained,
		Convictions:    convictions,
		Extractions:    extractions,
		StageDuration:  stageDuration,
		ConvictionRate: convictionRate,
	}, nil
}

// StartStage opens a span for a run stage. The returned function ends the
// span, records its duration and marks it failed when err is non-nil.
func (t *Telemetry) StartStage(ctx context.Context, stage string) (context.Context, func(err error)) {
	start := time.Now()
	ctx, span := t.Tracer.Start(ctx, stage,
		trace.WithAttributes(attribute.String("run.id", GetTraceID(ctx))))

	return ctx, func(err error) {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}
		span.End()
		if t.Metrics != nil {
			t.Metrics.StageDuration.Record(ctx, time.Since(start).Seconds(),
				metric.WithAttributes(
					attribute.String("stage", stage),
					attribute.Bool("success", err == nil)))
		}
	}
}

// WriteMetricsFile writes the gathered metrics in Prometheus text format.
func (t *Telemetry) WriteMetricsFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create metrics directory: %w", err)
	}
	return promclient.WriteToTextfile(path, t.Registry)
}

// Shutdown flushes the metrics textfile and releases the providers.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	var errs []error

	if t.metricsFile != "" {
		if err := t.WriteMetricsFile(t.metricsFile); err != nil {
			errs = append(errs, fmt.Errorf("metrics textfile: %w", err))
		} else {
			t.logger.InfoContext(ctx, "Metrics written", slog.String("path", t.metricsFile))
		}
	}
	if t.TracerProvider != nil {
		if err := t.TracerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer provider shutdown: %w", err))
		}
	}
	if t.MeterProvider != nil {
		if err := t.MeterProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter provider shutdown: %w", err))
		}
	}
	if t.traceOut != nil {
		if err := t.traceOut.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
