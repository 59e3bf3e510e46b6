package tracing

import (
	"context"
	"time"

	"github.com/Gobusters/ectologger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/gumanista/hate-2-action/pkg/tracing/exporters"
)

type Config struct {
	ServiceName string
	Version     string
	// Enabled exports spans over OTLP; otherwise spans are recorded and dropped.
	Enabled bool
	OTLP    exporters.OTLPConfig
}

// Init installs a global tracer provider and returns its shutdown func.
func Init(ctx context.Context, cfg Config, logger ectologger.Logger) (func(context.Context) error, error) {
	res := resource.NewSchemaless(
		attribute.String("service.name", cfg.ServiceName),
		attribute.String("service.version", cfg.Version),
	)

	var exporter sdktrace.SpanExporter = &exporters.ConsoleExporter{}
	if cfg.Enabled {
		otlpExporter, err := exporters.NewOTLPExporter(ctx, cfg.OTLP)
		if err != nil {
			return nil, err
		}
		exporter = otlpExporter
		logger.WithContext(ctx).WithFields(map[string]any{
			"endpoint": cfg.OTLP.Endpoint,
			"protocol": cfg.OTLP.Protocol,
		}).Info("OTLP trace export enabled")
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter, sdktrace.WithBatchTimeout(5*time.Second)),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	SetTracer(tp.Tracer(cfg.ServiceName))

	return tp.Shutdown, nil
}
