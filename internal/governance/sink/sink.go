// Package sink wraps an inner log destination with field governance.
package sink

import (
	"context"
	"errors"

	"loggov/internal/governance/domain"
)

// Sink is the inner log destination. It only has to write one formatted record.
type Sink interface {
	Write(ctx context.Context, rec domain.Record) error
}

// Func adapts a function to Sink.
type Func func(ctx context.Context, rec domain.Record) error

// Write calls f.
func (f Func) Write(ctx context.Context, rec domain.Record) error { return f(ctx, rec) }

// Discard drops every record.
var Discard Sink = Func(func(context.Context, domain.Record) error { return nil })

// Multi writes each record to every sink and joins their errors.
func Multi(sinks ...Sink) Sink {
	out := make([]Sink, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}
	return multi(out)
}

type multi []Sink

func (m multi) Write(ctx context.Context, rec domain.Record) error {
	var errs []error
	for _, s := range m {
		if err := s.Write(ctx, rec); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
