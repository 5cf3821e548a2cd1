package engine

import (
	"context"
	"fmt"
	"time"

	"loggov/internal/governance/domain"
)

// ProfileEvaluator checks required and forbidden field names and runs the profile's optional rules.
//
// Result order is fixed: missing fields in the profile's declared order, then forbidden fields in
// the event's field order, then rule violations sorted by message.
type ProfileEvaluator struct {
	profiles ProfileSource
	enabled  bool
}

var _ Evaluator = (*ProfileEvaluator)(nil)

// NewProfileEvaluator returns an evaluator over profiles. When enabled is false every call returns no violations.
func NewProfileEvaluator(profiles ProfileSource, enabled bool) *ProfileEvaluator {
	return &ProfileEvaluator{profiles: profiles, enabled: enabled}
}

// Evaluate implements Evaluator.
func (e *ProfileEvaluator) Evaluate(ctx context.Context, topic string, fields *domain.FieldSet, at time.Time) (out []domain.Violation) {
	defer func() {
		if r := recover(); r != nil {
			out = []domain.Violation{internalError(topic, at, fmt.Sprintf("panic: %v", r))}
		}
	}()
	if e == nil || !e.enabled || e.profiles == nil {
		return nil
	}
	p, ok := e.profiles.Lookup(topic)
	if !ok || p == nil {
		return nil
	}

	for _, name := range p.Required {
		if !fields.Has(name) {
			out = append(out, domain.Violation{Kind: domain.KindMissingField, Field: name, Topic: topic, Time: at})
		}
	}
	names := fields.Names()
	for _, name := range names {
		if p.IsForbidden(name) {
			out = append(out, domain.Violation{Kind: domain.KindForbiddenField, Field: name, Topic: topic, Time: at})
		}
	}
	if p.Rule != nil {
		msgs, err := p.Rule.Eval(ctx, names)
		if err != nil {
			return []domain.Violation{internalError(topic, at, err.Error())}
		}
		for _, m := range msgs {
			out = append(out, domain.Violation{Kind: domain.KindRuleViolation, Field: m, Topic: topic, Time: at})
		}
	}
	return out
}

func internalError(topic string, at time.Time, msg string) domain.Violation {
	return domain.Violation{Kind: domain.KindInternalError, Field: msg, Topic: topic, Time: at}
}
