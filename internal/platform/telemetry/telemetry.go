// Package telemetry provides OpenTelemetry tracer and meter initialization
// with support for stdout (development) and OTLP/HTTP (production) exporters.
//
// Tracer initialization:
//
//	tp, err := telemetry.InitTracer(ctx, "teamspace", telemetry.ExporterStdout, "")
//	defer tp.Shutdown(ctx)
//
// Meter initialization:
//
//	mp, err := telemetry.InitMeter(ctx, "teamspace", telemetry.ExporterStdout, "")
//	defer mp.Shutdown(ctx)
//
// Pre-registered metrics:
//
//	metrics, err := telemetry.NewMetrics(mp, "teamspace")
//	metrics.DomainEventsPublished.Add(ctx, 1, metric.WithAttributes(telemetry.AttrEventType.String(ev.Type)))
//
// When telemetry is disabled the CLI wires a nil *Metrics. RecordOperation
// is nil-safe and the event bus skips its counter.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.39.0"
)

// Supported exporter names.
const (
	ExporterStdout = "stdout"
	ExporterOTLP   = "otlp"
)

// ErrUnsupportedExporter is returned for exporter names other than stdout and otlp.
var ErrUnsupportedExporter = errors.New("unsupported telemetry exporter")

// Attribute keys for metric labels.
var (
	AttrOperation = attribute.Key("operation")
	AttrResult    = attribute.Key("result")
	AttrErrorCode = attribute.Key("error.code")
	AttrEventType = attribute.Key("event.type")
)

// Result attribute values.
const (
	ResultOK    = "ok"
	ResultError = "error"
)

// Metrics holds pre-registered OpenTelemetry metric instruments.
type Metrics struct {
	OperationDuration     metric.Float64Histogram
	OperationTotal        metric.Int64Counter
	DomainEventsPublished metric.Int64Counter
	AuthorizationDenied   metric.Int64Counter
}

// InitTracer creates and registers a global TracerProvider.
//
// The exporter parameter selects the span exporter: "otlp" uses OTLP/HTTP
// with the given endpoint and "stdout" writes pretty-printed spans to stderr
// so they never mix with command output.
//
// The returned TracerProvider must be shut down when the application exits.
func InitTracer(ctx context.Context, serviceName, exporter, endpoint string) (*sdktrace.TracerProvider, error) {
	res, err := newResource(serviceName)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	spanExporter, err := newSpanExporter(ctx, exporter, endpoint)
	if err != nil {
		return nil, fmt.Errorf("creating span exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(spanExporter),
		sdktrace.WithResource(res),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return tp, nil
}

// InitMeter creates and registers a global MeterProvider.
//
// The exporter parameter selects the metric exporter with the same rules
// as InitTracer.
//
// The returned MeterProvider must be shut down when the application exits.
func InitMeter(ctx context.Context, serviceName, exporter, endpoint string) (*sdkmetric.MeterProvider, error) {
	res, err := newResource(serviceName)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	metricExporter, err := newMetricExporter(ctx, exporter, endpoint)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExporter)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	return mp, nil
}

// NewMetrics creates all metric instruments from the given MeterProvider.
// The meter is scoped to the service name.
func NewMetrics(mp metric.MeterProvider, serviceName string) (*Metrics, error) {
	meter := mp.Meter(serviceName)

	duration, err := meter.Float64Histogram(
		"teamspace.operation.duration",
		metric.WithDescription("Duration of application service operations"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating teamspace.operation.duration: %w", err)
	}

	total, err := meter.Int64Counter(
		"teamspace.operation.total",
		metric.WithDescription("Total number of application service operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating teamspace.operation.total: %w", err)
	}

	published, err := meter.Int64Counter(
		"teamspace.domain_events.published",
		metric.WithDescription("Domain events delivered to the event bus"),
		metric.WithUnit("{event}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating teamspace.domain_events.published: %w", err)
	}

	denied, err := meter.Int64Counter(
		"teamspace.authorization.denied",
		metric.WithDescription("Operations rejected with FORBIDDEN or UNAUTHORIZED"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating teamspace.authorization.denied: %w", err)
	}

	return &Metrics{
		OperationDuration:     duration,
		OperationTotal:        total,
		DomainEventsPublished: published,
		AuthorizationDenied:   denied,
	}, nil
}

// RecordOperation records the duration and outcome of one service call.
// code is the domain error code of err, or "" for success.
func (m *Metrics) RecordOperation(ctx context.Context, operation string, start time.Time, code string, err error) {
	if m == nil {
		return
	}
	result := ResultOK
	attrs := []attribute.KeyValue{AttrOperation.String(operation)}
	if err != nil {
		result = ResultError
		attrs = append(attrs, AttrErrorCode.String(code))
	}
	attrs = append(attrs, AttrResult.String(result))
	set := metric.WithAttributes(attrs...)

	m.OperationDuration.Record(ctx, time.Since(start).Seconds(), set)
	m.OperationTotal.Add(ctx, 1, set)
	if code == "FORBIDDEN" || code == "UNAUTHORIZED" {
		m.AuthorizationDenied.Add(ctx, 1, metric.WithAttributes(AttrOperation.String(operation)))
	}
}

func newResource(serviceName string) (*resource.Resource, error) {
	return resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(serviceName),
		),
	)
}

func newSpanExporter(ctx context.Context, exporter, endpoint string) (sdktrace.SpanExporter, error) {
	switch exporter {
	case ExporterOTLP:
		if endpoint == "" {
			return nil, errors.New("otlp exporter requires an endpoint")
		}
		opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(hostPort(endpoint))}
		if !isHTTPS(endpoint) {
			opts = append(opts, otlptracehttp.WithInsecure())
		}
		return otlptracehttp.New(ctx, opts...)
	case ExporterStdout:
		return stdouttrace.New(stdouttrace.WithPrettyPrint(), stdouttrace.WithWriter(os.Stderr))
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedExporter, exporter)
	}
}

func newMetricExporter(ctx context.Context, exporter, endpoint string) (sdkmetric.Exporter, error) {
	switch exporter {
	case ExporterOTLP:
		if endpoint == "" {
			return nil, errors.New("otlp exporter requires an endpoint")
		}
		opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(hostPort(endpoint))}
		if !isHTTPS(endpoint) {
			opts = append(opts, otlpmetrichttp.WithInsecure())
		}
		return otlpmetrichttp.New(ctx, opts...)
	case ExporterStdout:
		return stdoutmetric.New(stdoutmetric.WithWriter(os.Stderr))
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedExporter, exporter)
	}
}

// hostPort extracts the host:port from a URL string
// (e.g., "http://otel-collector:4318" -> "otel-collector:4318").
func hostPort(endpoint string) string {
	u, err := url.Parse(endpoint)
	if err != nil || u.Host == "" {
		return endpoint
	}
	return u.Host
}

// isHTTPS returns true if the endpoint URL uses the https scheme.
func isHTTPS(endpoint string) bool {
	u, err := url.Parse(endpoint)
	if err != nil {
		return false
	}
	return u.Scheme == "https"
}
