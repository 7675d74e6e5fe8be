package agent

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/hupe1980/reactloop/core"
)

// runMetrics holds the instruments recorded by the lifecycle controller.
type runMetrics struct {
	runs         metric.Int64Counter
	steps        metric.Int64Counter
	toolFailures metric.Int64Counter
	runDuration  metric.Float64Histogram
}

func newRunMetrics(meter metric.Meter) (*runMetrics, error) {
	runs, err := meter.Int64Counter(
		"reactloop.agent.runs",
		metric.WithDescription("Completed runs by agent and terminal state"),
	)
	if err != nil {
		return nil, err
	}

	steps, err := meter.Int64Counter(
		"reactloop.agent.steps",
		metric.WithDescription("Executed reflect/act cycles by outcome"),
	)
	if err != nil {
		return nil, err
	}

	toolFailures, err := meter.Int64Counter(
		"reactloop.tool.failures",
		metric.WithDescription("Failed tool invocations by error code and whether the run continued"),
	)
	if err != nil {
		return nil, err
	}

	runDuration, err := meter.Float64Histogram(
		"reactloop.agent.run.duration",
		metric.WithDescription("Wall clock duration of a run"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return &runMetrics{
		runs:         runs,
		steps:        steps,
		toolFailures: toolFailures,
		runDuration:  runDuration,
	}, nil
}

func (m *runMetrics) recordRun(ctx context.Context, agent string, state core.State, dur time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("reactloop.agent.name", agent),
		attribute.String("reactloop.agent.state", string(state)),
	)
	m.runs.Add(ctx, 1, attrs)
	m.runDuration.Record(ctx, dur.Seconds(), attrs)
}

func (m *runMetrics) recordStep(ctx context.Context, agent, outcome string) {
	m.steps.Add(ctx, 1, metric.WithAttributes(
		attribute.String("reactloop.agent.name", agent),
		attribute.String("reactloop.agent.step.outcome", outcome),
	))
}

// recordFailure counts a failed tool invocation. Transport and configuration
// aborts are not tool failures and are only visible through the runs counter.
func (m *runMetrics) recordFailure(ctx context.Context, agent string, err error, recovered bool) {
	m.toolFailures.Add(ctx, 1, metric.WithAttributes(
		attribute.String("reactloop.agent.name", agent),
		attribute.String("reactloop.error.code", string(core.CodeOf(err))),
		attribute.Bool("reactloop.recovered", recovered),
	))
}
