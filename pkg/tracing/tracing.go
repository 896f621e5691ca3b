package tracing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.37.0"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/khoahotran/devconnector/internal/config"
	"github.com/khoahotran/devconnector/pkg/logger"
)

const (
	batchTimeout    = time.Second
	shutdownTimeout = 5 * time.Second
)

// ShutdownFunc flushes pending spans and releases the collector connection.
type ShutdownFunc func(ctx context.Context) error

func noopShutdown(context.Context) error { return nil }

type Options struct {
	Endpoint    string
	ServiceName string
	Environment string
	// SampleRatio applies to root spans. Child spans follow their parent.
	SampleRatio float64
}

func OptionsFromConfig(cfg config.Config, serviceName string) Options {
	return Options{
		Endpoint:    cfg.Jaeger.OTLPEndpoint,
		ServiceName: serviceName,
		Environment: cfg.App.Env,
		SampleRatio: cfg.Jaeger.SampleRatio,
	}
}

// Setup installs a global OTLP tracer provider. With no endpoint the global no-op provider
// stays in place, so spans started by use cases cost nothing.
func Setup(ctx context.Context, opts Options, log logger.Logger) (ShutdownFunc, error) {
	log = log.Named("tracing")
	if opts.Endpoint == "" {
		log.Info("Tracing disabled, no OTLP endpoint configured")
		return noopShutdown, nil
	}

	conn, err := grpc.NewClient(opts.Endpoint, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("dial collector %s: %w", opts.Endpoint, err)
	}
	exporter, err := otlptracegrpc.New(ctx, otlptracegrpc.WithGRPCConn(conn))
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("otlp exporter: %w", err)
	}
	res, err := newResource(opts)
	if err != nil {
		conn.Close()
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter, sdktrace.WithBatchTimeout(batchTimeout)),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(newSampler(opts.SampleRatio)),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	log.Info("Tracing enabled",
		zap.String("service_name", opts.ServiceName),
		zap.String("endpoint", opts.Endpoint),
		zap.Float64("sample_ratio", opts.SampleRatio),
	)

	return func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
		defer cancel()
		return errors.Join(tp.Shutdown(ctx), conn.Close())
	}, nil
}

func newResource(opts Options) (*resource.Resource, error) {
	res, err := resource.Merge(resource.Default(), resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceNameKey.String(opts.ServiceName),
		semconv.DeploymentEnvironmentNameKey.String(opts.Environment),
	))
	if err != nil {
		return nil, fmt.Errorf("otel resource: %w", err)
	}
	return res, nil
}

// newSampler samples everything for ratios outside (0, 1).
func newSampler(ratio float64) sdktrace.Sampler {
	if ratio <= 0 || ratio >= 1 {
		return sdktrace.ParentBased(sdktrace.AlwaysSample())
	}
	return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio))
}
