// Package domain holds the types shared by the governance engine: log events, field sets,
// violations and the formatted record handed to inner sinks.
package domain

import (
	"strings"
	"time"
)

// Level is the severity of a log event. The numeric order matches severity.
type Level int

const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
	LevelCritical
)

// String returns the short upper-case name used on formatted log lines.
func (l Level) String() string {
	switch l {
	case LevelTrace:
		return "TRACE"
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	case LevelCritical:
		return "CRITICAL"
	default:
		return "INFO"
	}
}

// ParseLevel converts common severity spellings to a Level. ok is false for unknown input.
func ParseLevel(s string) (Level, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "TRACE", "TRC":
		return LevelTrace, true
	case "DEBUG", "DBG":
		return LevelDebug, true
	case "INFO", "INFORMATION", "INF":
		return LevelInfo, true
	case "WARN", "WARNING", "WRN":
		return LevelWarn, true
	case "ERROR", "ERR":
		return LevelError, true
	case "CRITICAL", "CRIT", "FATAL":
		return LevelCritical, true
	default:
		return LevelInfo, false
	}
}

// Event is one structured log invocation: a message template with named placeholders
// and the positional argument values that fill them.
type Event struct {
	// ID is set by the governed sink when the event has violations; it matches Record.ID.
	ID       string
	Template string
	Args     []any
	Level    Level
	Time     time.Time
	// Scope holds ambient fields (e.g. from Logger.With) that apply in addition to the template arguments.
	Scope []Field
}

// Field is a single name/value pair.
type Field struct {
	Name  string
	Value any
}

// FieldSet maps field names to values while remembering the order in which names first appeared.
// A repeated name keeps its first position and takes the latest value.
type FieldSet struct {
	names  []string
	values map[string]any
}

// NewFieldSet returns an empty FieldSet.
func NewFieldSet() *FieldSet {
	return &FieldSet{values: make(map[string]any)}
}

// FieldSetOf builds a FieldSet from alternating name/value pairs; a trailing name without a value is set to nil.
// Non-string names are skipped.
func FieldSetOf(kv ...any) *FieldSet {
	fs := NewFieldSet()
	for i := 0; i < len(kv); i += 2 {
		name, ok := kv[i].(string)
		if !ok {
			continue
		}
		var v any
		if i+1 < len(kv) {
			v = kv[i+1]
		}
		fs.Set(name, v)
	}
	return fs
}

// Set stores value under name (last write wins).
func (f *FieldSet) Set(name string, value any) {
	if f.values == nil {
		f.values = make(map[string]any)
	}
	if _, ok := f.values[name]; !ok {
		f.names = append(f.names, name)
	}
	f.values[name] = value
}

// Has reports whether name is present.
func (f *FieldSet) Has(name string) bool {
	if f == nil {
		return false
	}
	_, ok := f.values[name]
	return ok
}

// Get returns the value stored under name.
func (f *FieldSet) Get(name string) (any, bool) {
	if f == nil {
		return nil, false
	}
	v, ok := f.values[name]
	return v, ok
}

// Names returns the field names in first-appearance order. The slice is a copy.
func (f *FieldSet) Names() []string {
	if f == nil {
		return nil
	}
	out := make([]string, len(f.names))
	copy(out, f.names)
	return out
}

// Len returns the number of distinct field names.
func (f *FieldSet) Len() int {
	if f == nil {
		return 0
	}
	return len(f.names)
}

// Fields returns the set as an ordered slice of Field.
func (f *FieldSet) Fields() []Field {
	if f == nil {
		return nil
	}
	out := make([]Field, 0, len(f.names))
	for _, n := range f.names {
		out = append(out, Field{Name: n, Value: f.values[n]})
	}
	return out
}
