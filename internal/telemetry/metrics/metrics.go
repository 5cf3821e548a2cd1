// Package metrics records governance counters through an OpenTelemetry MeterProvider.
package metrics

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"

	"loggov/internal/governance/domain"
)

const meterName = "loggov.governance"

// Recorder holds the governance instruments. A nil *Recorder records nothing.
type Recorder struct {
	violations     metric.Int64Counter
	suppressed     metric.Int64Counter
	hookFailures   metric.Int64Counter
	internalErrors metric.Int64Counter
}

// New creates the instruments on mp. A nil mp uses a no-op provider.
func New(mp metric.MeterProvider) (*Recorder, error) {
	if mp == nil {
		mp = noop.NewMeterProvider()
	}
	m := mp.Meter(meterName)
	var (
		r   Recorder
		err error
	)
	if r.violations, err = m.Int64Counter("governance.violations",
		metric.WithDescription("Governance violations detected, by topic and kind.")); err != nil {
		return nil, err
	}
	if r.suppressed, err = m.Int64Counter("governance.events.suppressed",
		metric.WithDescription("Events dropped because suppress-on-violation is enabled.")); err != nil {
		return nil, err
	}
	if r.hookFailures, err = m.Int64Counter("governance.hook.failures",
		metric.WithDescription("Violation-reporting hook invocations that failed or timed out.")); err != nil {
		return nil, err
	}
	if r.internalErrors, err = m.Int64Counter("governance.internal_errors",
		metric.WithDescription("Evaluations that failed internally and degraded to an InternalError violation.")); err != nil {
		return nil, err
	}
	return &r, nil
}

// Violations counts each violation under its topic and kind.
func (r *Recorder) Violations(ctx context.Context, vs []domain.Violation) {
	if r == nil {
		return
	}
	for _, v := range vs {
		r.violations.Add(ctx, 1, metric.WithAttributes(
			attribute.String("topic", v.Topic),
			attribute.String("kind", string(v.Kind)),
		))
	}
}

// Suppressed counts one dropped event.
func (r *Recorder) Suppressed(ctx context.Context, topic string) {
	if r == nil {
		return
	}
	r.suppressed.Add(ctx, 1, metric.WithAttributes(attribute.String("topic", topic)))
}

// HookFailure counts one failed hook invocation.
func (r *Recorder) HookFailure(ctx context.Context, topic string) {
	if r == nil {
		return
	}
	r.hookFailures.Add(ctx, 1, metric.WithAttributes(attribute.String("topic", topic)))
}

// InternalError counts one degraded evaluation.
func (r *Recorder) InternalError(ctx context.Context, topic string) {
	if r == nil {
		return
	}
	r.internalErrors.Add(ctx, 1, metric.WithAttributes(attribute.String("topic", topic)))
}
