package domain

import "time"

// Attribute keys added to records by the governed sink.
const (
	AttrViolations = "governance.violations"
	AttrTopic      = "governance.topic"
	AttrEventID    = "governance.event_id"
)

// Record is the formatted event an inner sink writes.
type Record struct {
	// ID correlates the record with a violation report; empty when no violations were found.
	ID       string
	Time     time.Time
	Level    Level
	Topic    string
	Caller   string
	Template string
	Message  string
	Fields   []Field
	// Violations is nil for compliant or ungoverned events.
	Violations []Violation
}
