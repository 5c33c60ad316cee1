// Package telemetry provides OpenTelemetry tracing and metrics for the
// formulation service. Without an OTLP endpoint every instrument is a no-op.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

const instrumentationName = "github.com/ehr/formulation"

// Config holds the exporter settings.
type Config struct {
	ServiceName    string
	ServiceVersion string
	// OTLPEndpoint is a host:port gRPC collector address. Empty disables export.
	OTLPEndpoint string
}

// Setup installs global tracer and meter providers exporting to the OTLP
// collector and returns the instruments bound to them. The returned shutdown
// flushes both providers.
func Setup(ctx context.Context, cfg Config) (*Instruments, func(context.Context) error, error) {
	if cfg.OTLPEndpoint == "" {
		in, err := New(metricnoop.NewMeterProvider(), tracenoop.NewTracerProvider())
		return in, func(context.Context) error { return nil }, err
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = "formulation-server"
	}

	res := resource.NewSchemaless(
		attribute.String("service.name", cfg.ServiceName),
		attribute.String("service.version", cfg.ServiceVersion),
	)

	traceExporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(cfg.OTLPEndpoint),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("create trace exporter: %w", err)
	}
	tracerProvider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(traceExporter),
		sdktrace.WithResource(res),
	)

	metricExporter, err := otlpmetricgrpc.New(ctx,
		otlpmetricgrpc.WithEndpoint(cfg.OTLPEndpoint),
		otlpmetricgrpc.WithInsecure(),
	)
	if err != nil {
		_ = tracerProvider.Shutdown(ctx)
		return nil, nil, fmt.Errorf("create metric exporter: %w", err)
	}
	meterProvider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExporter)),
		sdkmetric.WithResource(res),
	)

	otel.SetTracerProvider(tracerProvider)
	otel.SetMeterProvider(meterProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	shutdown := func(ctx context.Context) error {
		return errors.Join(tracerProvider.Shutdown(ctx), meterProvider.Shutdown(ctx))
	}

	in, err := New(meterProvider, tracerProvider)
	if err != nil {
		_ = shutdown(ctx)
		return nil, nil, err
	}
	return in, shutdown, nil
}

// Instruments holds the tracer and metric instruments used by the service.
type Instruments struct {
	tracer       trace.Tracer
	requests     metric.Int64Counter
	duration     metric.Float64Histogram
	formulations metric.Int64Counter
	dropped      metric.Int64Counter
}

func New(mp metric.MeterProvider, tp trace.TracerProvider) (*Instruments, error) {
	meter := mp.Meter(instrumentationName)
	in := &Instruments{tracer: tp.Tracer(instrumentationName)}

	var err error
	if in.requests, err = meter.Int64Counter(
		"http.server.request.count",
		metric.WithDescription("Number of HTTP requests"),
	); err != nil {
		return nil, fmt.Errorf("create request counter: %w", err)
	}
	if in.duration, err = meter.Float64Histogram(
		"http.server.request.duration",
		metric.WithDescription("HTTP request duration"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, fmt.Errorf("create duration histogram: %w", err)
	}
	if in.formulations, err = meter.Int64Counter(
		"formulation.generated",
		metric.WithDescription("Number of formulations generated"),
	); err != nil {
		return nil, fmt.Errorf("create formulation counter: %w", err)
	}
	if in.dropped, err = meter.Int64Counter(
		"formulation.items.dropped",
		metric.WithDescription("Selected items whose section is not recognized"),
	); err != nil {
		return nil, fmt.Errorf("create dropped counter: %w", err)
	}
	return in, nil
}

// Middleware opens a server span per request and records request count and
// duration keyed by route pattern. Mount it inside the logger so that the
// returned error is still visible.
func (in *Instruments) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}

			ctx := otel.GetTextMapPropagator().Extract(req.Context(), propagation.HeaderCarrier(req.Header))
			ctx, span := in.tracer.Start(ctx, "HTTP "+req.Method+" "+route,
				trace.WithSpanKind(trace.SpanKindServer),
				trace.WithAttributes(
					attribute.String("http.method", req.Method),
					attribute.String("http.route", route),
				),
			)
			defer span.End()
			c.SetRequest(req.WithContext(ctx))

			start := time.Now()
			err := next(c)
			elapsed := time.Since(start)

			status := statusOf(c, err)
			span.SetAttributes(attribute.Int("http.status_code", status))
			if status >= http.StatusInternalServerError {
				span.SetStatus(codes.Error, http.StatusText(status))
			}

			attrs := metric.WithAttributes(
				attribute.String("http.method", req.Method),
				attribute.String("http.route", route),
				attribute.Int("http.status_code", status),
			)
			in.requests.Add(ctx, 1, attrs)
			in.duration.Record(ctx, elapsed.Seconds(), attrs)
			return err
		}
	}
}

// statusOf reports the status the error handler will write for err.
func statusOf(c echo.Context, err error) int {
	if err == nil {
		return c.Response().Status
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code
	}
	return http.StatusInternalServerError
}

// RecordFormulation counts one generated formulation and annotates the
// current span.
func (in *Instruments) RecordFormulation(ctx context.Context, disorder string, met bool, dropped int) {
	attrs := []attribute.KeyValue{
		attribute.String("formulation.disorder", disorder),
		attribute.Bool("formulation.met", met),
	}
	in.formulations.Add(ctx, 1, metric.WithAttributes(attrs...))
	if dropped > 0 {
		in.dropped.Add(ctx, int64(dropped), metric.WithAttributes(attrs[0]))
	}
	trace.SpanFromContext(ctx).AddEvent("formulation.generated",
		trace.WithAttributes(append(attrs, attribute.Int("formulation.dropped", dropped))...))
}
