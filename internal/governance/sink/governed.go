package sink

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"loggov/internal/governance/domain"
	"loggov/internal/governance/engine"
	"loggov/internal/governance/extract"
	"loggov/internal/governance/report"
	"loggov/internal/governance/topic"
	"loggov/internal/telemetry/metrics"
)

// Governed evaluates every event against its topic profile and forwards it to the inner sink.
// Governance problems never stop the write: a failure while resolving, extracting or evaluating
// is treated as "no violations". Safe for concurrent use.
type Governed struct {
	inner      Sink
	resolver   *topic.Resolver
	evaluator  engine.Evaluator
	dispatcher *report.Dispatcher
	suppress   bool
	metrics    *metrics.Recorder
	log        zerolog.Logger
	now        func() time.Time
	newID      func() string
}

// Option configures a Governed sink.
type Option func(*Governed)

// WithDispatcher sets the violation-reporting hook dispatcher.
func WithDispatcher(d *report.Dispatcher) Option {
	return func(g *Governed) { g.dispatcher = d }
}

// WithSuppressOnViolation drops events that have any violation instead of forwarding them.
func WithSuppressOnViolation(suppress bool) Option {
	return func(g *Governed) { g.suppress = suppress }
}

// WithMetrics sets the counters recorder.
func WithMetrics(r *metrics.Recorder) Option {
	return func(g *Governed) { g.metrics = r }
}

// WithLogger sets the operator logger used for internal errors and inner-sink failures.
func WithLogger(l zerolog.Logger) Option {
	return func(g *Governed) { g.log = l }
}

// WithClock overrides the clock used for events without a timestamp.
func WithClock(now func() time.Time) Option {
	return func(g *Governed) { g.now = now }
}

// NewGoverned wraps inner. A nil inner discards records; a nil evaluator governs nothing.
func NewGoverned(inner Sink, resolver *topic.Resolver, evaluator engine.Evaluator, opts ...Option) *Governed {
	if inner == nil {
		inner = Discard
	}
	g := &Governed{
		inner:     inner,
		resolver:  resolver,
		evaluator: evaluator,
		log:       zerolog.Nop(),
		now:       func() time.Time { return time.Now().UTC() },
		newID:     func() string { return uuid.New().String() },
	}
	for _, o := range opts {
		o(g)
	}
	return g
}

// Emit governs ev for caller and forwards it to the inner sink exactly once, unless
// suppression is on and the event has violations. An event whose evaluation failed is always
// forwarded. The returned error is the inner sink's.
func (g *Governed) Emit(ctx context.Context, ev domain.Event, caller string) error {
	if ev.Time.IsZero() {
		ev.Time = g.now()
	}
	rec := domain.Record{
		Time:     ev.Time,
		Level:    ev.Level,
		Caller:   caller,
		Template: ev.Template,
		Message:  extract.Render(ev.Template, ev.Args),
	}

	t, fields, violations := g.govern(ctx, ev, caller)
	rec.Topic = t
	rec.Fields = fields.Fields()

	if len(violations) > 0 && g.report(ctx, &rec, ev, violations) && g.suppress && !degraded(violations) {
		g.metrics.Suppressed(ctx, t)
		return nil
	}

	if err := g.inner.Write(ctx, rec); err != nil {
		return fmt.Errorf("inner sink: %w", err)
	}
	return nil
}

// report attaches violations to rec, counts them and hands them to the hook. It returns false
// (and leaves rec unannotated) if any of that panicked.
func (g *Governed) report(ctx context.Context, rec *domain.Record, ev domain.Event, vs []domain.Violation) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			g.log.Error().Str("topic", rec.Topic).Interface("panic", r).Msg("governance: degraded to no violations")
			rec.ID, rec.Violations = "", nil
			ok = false
		}
	}()
	rec.ID = g.newID()
	rec.Violations = vs
	ev.ID = rec.ID
	g.metrics.Violations(ctx, vs)
	if degraded(vs) {
		g.metrics.InternalError(ctx, rec.Topic)
		g.log.Error().Str("topic", rec.Topic).Str("caller", rec.Caller).Str("error", vs[0].Field).
			Msg("governance: evaluation failed")
	}
	g.dispatcher.Dispatch(rec.Topic, vs, ev)
	return true
}

// degraded reports whether vs is the InternalError stand-in for a failed evaluation.
func degraded(vs []domain.Violation) bool {
	for _, v := range vs {
		if v.Kind == domain.KindInternalError {
			return true
		}
	}
	return false
}

// govern runs resolve, extract and evaluate. A panic anywhere yields the topic resolved so far,
// whatever fields were extracted, and no violations.
func (g *Governed) govern(ctx context.Context, ev domain.Event, caller string) (t string, fields *domain.FieldSet, vs []domain.Violation) {
	t = domain.UnclassifiedTopic
	defer func() {
		if r := recover(); r != nil {
			g.log.Error().Str("caller", caller).Interface("panic", r).Msg("governance: degraded to no violations")
			vs = nil
		}
	}()
	t = g.resolver.Resolve(caller)
	fields = extract.Extract(ev)
	if g.evaluator == nil {
		return t, fields, nil
	}
	return t, fields, g.evaluator.Evaluate(ctx, t, fields, ev.Time)
}
