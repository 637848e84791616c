package observability

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"

	"github.com/yungbote/palearn-backend/internal/platform/envutil"
	"github.com/yungbote/palearn-backend/internal/platform/logger"
)

const tracerName = "github.com/yungbote/palearn-backend"

// TracingConfig names the process in exported spans. The exporter itself is
// chosen from the environment: OTEL_EXPORTER_OTLP_ENDPOINT selects OTLP over
// HTTP, otherwise spans are printed to stdout.
type TracingConfig struct {
	ServiceName string
	Environment string
	Version     string
}

func (c TracingConfig) resource(ctx context.Context) (*resource.Resource, error) {
	name := strings.TrimSpace(c.ServiceName)
	if name == "" {
		name = "palearn"
	}
	return resource.New(ctx, resource.WithAttributes(
		attribute.String("service.name", name),
		attribute.String("service.version", strings.TrimSpace(c.Version)),
		attribute.String("deployment.environment", strings.TrimSpace(c.Environment)),
	))
}

var (
	tracingOnce     sync.Once
	tracingShutdown func(context.Context) error
)

// InitTracing installs the global tracer provider once, when OTEL_ENABLED is
// set. The returned shutdown flushes pending spans; it is nil when disabled.
func InitTracing(ctx context.Context, log *logger.Logger, cfg TracingConfig) func(context.Context) error {
	tracingOnce.Do(func() {
		if !envutil.Bool("OTEL_ENABLED", false) {
			return
		}
		log = log.With("component", "tracing")

		res, err := cfg.resource(ctx)
		if err != nil {
			log.Warn("trace resource incomplete", "error", err)
		}
		exporter, err := exporterFor(ctx, envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", ""))
		if err != nil {
			log.Warn("trace exporter unavailable, spans will be sampled but dropped", "error", err)
		}

		opts := []sdktrace.TracerProviderOption{
			sdktrace.WithResource(res),
			sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(clamp01(envutil.Float("OTEL_SAMPLER_RATIO", 0.1))))),
		}
		if exporter != nil {
			opts = append(opts, sdktrace.WithBatcher(exporter, sdktrace.WithBatchTimeout(5*time.Second)))
		}
		tp := sdktrace.NewTracerProvider(opts...)
		otel.SetTracerProvider(tp)
		otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))
		tracingShutdown = tp.Shutdown
		log.Info("tracing enabled", "service", cfg.ServiceName, "otlp", exporter != nil && envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", "") != "")
	})
	return tracingShutdown
}

func exporterFor(ctx context.Context, endpoint string) (sdktrace.SpanExporter, error) {
	if endpoint == "" {
		exp, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
		if err != nil {
			return nil, fmt.Errorf("stdout exporter: %w", err)
		}
		return exp, nil
	}
	opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(endpoint)}
	if envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", false) {
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	exp, err := otlptracehttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("otlp exporter %s: %w", endpoint, err)
	}
	return exp, nil
}

// StartSpan starts a span on the global tracer. kv are string attribute
// pairs; a trailing odd key is ignored.
func StartSpan(ctx context.Context, name string, kv ...string) (context.Context, trace.Span) {
	attrs := make([]attribute.KeyValue, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		attrs = append(attrs, attribute.String(kv[i], kv[i+1]))
	}
	return otel.Tracer(tracerName).Start(ctx, name, trace.WithAttributes(attrs...))
}

// FinishSpan marks span failed when err is set, tags its outcome and ends it.
func FinishSpan(span trace.Span, outcome string, err error) {
	if outcome != "" {
		span.SetAttributes(attribute.String("outcome", outcome))
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
