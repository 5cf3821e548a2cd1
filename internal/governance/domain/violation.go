package domain

import "time"

// Kind classifies a governance violation.
type Kind string

const (
	KindMissingField   Kind = "MissingField"
	KindForbiddenField Kind = "ForbiddenField"
	// KindRuleViolation is produced by a topic's optional Rego rules.
	KindRuleViolation Kind = "RuleViolation"
	// KindInternalError replaces the whole result when evaluation itself failed.
	KindInternalError Kind = "InternalError"
)

// Violation is one governance failure for an event.
type Violation struct {
	Kind  Kind
	Field string
	Topic string
	Time  time.Time
}

// String renders the violation as "Kind:field", the form attached to log records.
func (v Violation) String() string {
	return string(v.Kind) + ":" + v.Field
}

// ViolationStrings renders each violation with String, preserving order.
func ViolationStrings(vs []Violation) []string {
	if len(vs) == 0 {
		return nil
	}
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = v.String()
	}
	return out
}
