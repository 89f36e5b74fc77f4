// Package otel wires OpenTelemetry tracing for the portfolio binaries.
package otel

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"github.com/noor-latif/portfolio-admin/internal/config"
)

// ServiceNamespace groups the dashboard and the dev API in trace backends.
const ServiceNamespace = "portfolio"

// Shutdown flushes buffered spans and stops the provider.
type Shutdown func(context.Context) error

func nothing(context.Context) error { return nil }

// Setup exports the process's spans over OTLP/HTTP to cfg.Endpoint and makes
// the provider global, so api.Client spans and propagated trace headers follow.
// Without an endpoint, or with tracing disabled, nothing is registered.
func Setup(ctx context.Context, serviceName string, cfg config.OTel) (Shutdown, error) {
	if !cfg.Enabled || cfg.Endpoint == "" {
		return nothing, nil
	}
	if cfg.SampleRatio < 0 || cfg.SampleRatio > 1 {
		return nothing, fmt.Errorf("sample ratio %v outside [0, 1]", cfg.SampleRatio)
	}

	exporter, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpointURL(cfg.Endpoint))
	if err != nil {
		return nothing, fmt.Errorf("otlp exporter: %w", err)
	}

	tp := NewProvider(exporter, serviceName, cfg.SampleRatio)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(Propagator())
	return tp.Shutdown, nil
}

// NewProvider batches spans into exporter. Root spans are kept at ratio;
// child spans follow their parent's decision.
func NewProvider(exporter sdktrace.SpanExporter, serviceName string, ratio float64) *sdktrace.TracerProvider {
	res := resource.NewSchemaless(
		semconv.ServiceName(serviceName),
		semconv.ServiceNamespace(ServiceNamespace),
	)
	return sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio))),
	)
}

// Propagator carries W3C trace context and baggage on outgoing requests.
func Propagator() propagation.TextMapPropagator {
	return propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{})
}
