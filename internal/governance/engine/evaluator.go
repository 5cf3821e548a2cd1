// Package engine compares extracted field sets with topic profiles.
package engine

import (
	"context"
	"time"

	"loggov/internal/governance/domain"
	"loggov/internal/governance/profile"
)

// Evaluator evaluates one event's fields against its topic profile.
type Evaluator interface {
	// Evaluate returns the violations for fields under topic; at is the event timestamp copied onto
	// each violation. It never panics and never returns an error: failures surface as a single
	// InternalError violation.
	Evaluate(ctx context.Context, topic string, fields *domain.FieldSet, at time.Time) []domain.Violation
}

// ProfileSource resolves a topic to its profile. *profile.Store and *profile.Holder implement it.
type ProfileSource interface {
	Lookup(topic string) (*profile.Profile, bool)
}
