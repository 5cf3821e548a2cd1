package report

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"loggov/internal/governance/domain"
	"loggov/internal/telemetry/metrics"
)

// DefaultTimeout bounds one hook invocation when no timeout is configured.
const DefaultTimeout = 5 * time.Second

// Dispatcher invokes a Reporter on its own goroutine with a bounded context. Failures and panics
// in the reporter are logged and counted, never propagated.
type Dispatcher struct {
	reporter Reporter
	timeout  time.Duration
	log      zerolog.Logger
	metrics  *metrics.Recorder

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithTimeout sets the per-invocation timeout; non-positive values keep DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(x *Dispatcher) {
		if d > 0 {
			x.timeout = d
		}
	}
}

// WithLogger sets the operator logger for hook failures.
func WithLogger(l zerolog.Logger) Option {
	return func(x *Dispatcher) { x.log = l }
}

// WithMetrics sets the recorder counting hook failures.
func WithMetrics(r *metrics.Recorder) Option {
	return func(x *Dispatcher) { x.metrics = r }
}

// NewDispatcher returns a Dispatcher for reporter. reporter may be nil; Dispatch is then a no-op.
func NewDispatcher(reporter Reporter, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		reporter: reporter,
		timeout:  DefaultTimeout,
		log:      zerolog.Nop(),
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

// Dispatch reports violations asynchronously. It returns immediately. The hook runs with
// context.Background plus the timeout so cancellation of the logging call does not abort it.
// After Drain has been called, reports are dropped and logged.
func (d *Dispatcher) Dispatch(topic string, violations []domain.Violation, event domain.Event) {
	if d == nil || d.reporter == nil || len(violations) == 0 {
		return
	}
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		d.log.Warn().Str("topic", topic).Str(domain.AttrEventID, event.ID).Msg("governance: violation report dropped after drain")
		return
	}
	d.wg.Add(1)
	d.mu.Unlock()

	vs := make([]domain.Violation, len(violations))
	copy(vs, violations)
	go func() {
		defer d.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()
		if err := d.invoke(ctx, topic, vs, event); err != nil {
			d.metrics.HookFailure(ctx, topic)
			d.log.Warn().Err(err).Str("topic", topic).Msg("governance: violation hook failed")
		}
	}()
}

func (d *Dispatcher) invoke(ctx context.Context, topic string, vs []domain.Violation, event domain.Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("hook panic: %v", r)
		}
	}()
	if err := d.reporter.OnViolations(ctx, topic, vs, event); err != nil {
		return err
	}
	return ctx.Err()
}

// Drain stops accepting reports and waits for in-flight hook invocations or until ctx is done.
func (d *Dispatcher) Drain(ctx context.Context) error {
	if d == nil {
		return nil
	}
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
