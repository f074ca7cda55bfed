package observability

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// Tracer is the tracer used by the query service. It resolves against the
// globally installed provider, so spans are no-ops until InitTracing runs.
var Tracer trace.Tracer = otel.Tracer("modgraph")

// InitTracing installs a TracerProvider for the given exporter ("otlp",
// "stdout" or "none") and returns its shutdown function. "none" leaves the
// default no-op provider in place.
func InitTracing(ctx context.Context, exporter, endpoint, version string) (func(context.Context) error, error) {
	if exporter == "none" || exporter == "" {
		return func(context.Context) error { return nil }, nil
	}

	var spanExporter sdktrace.SpanExporter
	var err error
	switch exporter {
	case "otlp":
		spanExporter, err = otlptracegrpc.New(ctx,
			otlptracegrpc.WithEndpoint(endpoint),
			otlptracegrpc.WithInsecure(),
		)
	case "stdout":
		spanExporter, err = stdouttrace.New(stdouttrace.WithPrettyPrint())
	default:
		return nil, fmt.Errorf("unknown trace exporter %q", exporter)
	}
	if err != nil {
		return nil, fmt.Errorf("create %s trace exporter: %w", exporter, err)
	}

	res := resource.NewWithAttributes(
		"",
		attribute.String("service.name", "modgraph"),
		attribute.String("service.version", version),
	)

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(spanExporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	Tracer = otel.Tracer("modgraph")

	return tp.Shutdown, nil
}
