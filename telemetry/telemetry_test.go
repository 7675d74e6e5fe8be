package telemetry

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitNone(t *testing.T) {
	for _, exporter := range []string{"", "none"} {
		shutdown, err := Init(context.Background(), Config{Exporter: exporter})
		require.NoError(t, err)
		require.NotNil(t, shutdown)
		assert.NoError(t, shutdown(context.Background()))
	}
}

func TestNewProvidersErrors(t *testing.T) {
	_, err := NewProviders(context.Background(), Config{Exporter: "zipkin"})
	assert.ErrorContains(t, err, "unknown telemetry exporter")

	_, err = NewProviders(context.Background(), Config{Exporter: "otlp"})
	assert.ErrorContains(t, err, "otlp endpoint is required")
}

func TestStdoutProviders(t *testing.T) {
	var buf bytes.Buffer
	p, err := NewProviders(context.Background(), Config{Exporter: "stdout", ServiceName: "test-agent", Writer: &buf})
	require.NoError(t, err)
	require.NotNil(t, p)

	_, span := p.Tracer.Tracer("test").Start(context.Background(), "reactloop.agent.run")
	span.End()

	counter, err := p.Meter.Meter("test").Int64Counter("reactloop.agent.runs")
	require.NoError(t, err)
	counter.Add(context.Background(), 1)

	require.NoError(t, p.Shutdown(context.Background()))

	out := buf.String()
	assert.Contains(t, out, "reactloop.agent.run")
	assert.Contains(t, out, "reactloop.agent.runs")
	assert.Contains(t, out, "test-agent")
}

func TestNilProvidersShutdown(t *testing.T) {
	var p *Providers
	assert.NoError(t, p.Shutdown(context.Background()))
}
