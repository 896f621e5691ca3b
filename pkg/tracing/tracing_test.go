package tracing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/khoahotran/devconnector/internal/config"
	"github.com/khoahotran/devconnector/pkg/logger"
)

func TestSetup_NoEndpointIsNoop(t *testing.T) {
	shutdown, err := Setup(context.Background(), Options{ServiceName: "devconnector-api"}, logger.NewNop())
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

func TestOptionsFromConfig(t *testing.T) {
	var cfg config.Config
	cfg.App.Env = "production"
	cfg.Jaeger.OTLPEndpoint = "otel-collector:4317"
	cfg.Jaeger.SampleRatio = 0.25

	opts := OptionsFromConfig(cfg, "devconnector-worker")

	assert.Equal(t, Options{
		Endpoint:    "otel-collector:4317",
		ServiceName: "devconnector-worker",
		Environment: "production",
		SampleRatio: 0.25,
	}, opts)
}

func TestNewSampler(t *testing.T) {
	tests := []struct {
		ratio float64
		want  string
	}{
		{0, sdktrace.ParentBased(sdktrace.AlwaysSample()).Description()},
		{1, sdktrace.ParentBased(sdktrace.AlwaysSample()).Description()},
		{0.5, sdktrace.ParentBased(sdktrace.TraceIDRatioBased(0.5)).Description()},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, newSampler(tt.ratio).Description(), "ratio %v", tt.ratio)
	}
}

func TestNewResource_CarriesServiceAndEnvironment(t *testing.T) {
	res, err := newResource(Options{ServiceName: "devconnector-api", Environment: "staging"})
	require.NoError(t, err)

	attrs := map[string]string{}
	for _, kv := range res.Attributes() {
		attrs[string(kv.Key)] = kv.Value.Emit()
	}
	assert.Equal(t, "devconnector-api", attrs["service.name"])
	assert.Equal(t, "staging", attrs["deployment.environment.name"])
}
