package profile

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrDuplicateTopic is wrapped when a topic is declared more than once.
	ErrDuplicateTopic = errors.New("duplicate topic")
	// ErrOverlap is wrapped when a field is both required and forbidden.
	ErrOverlap = errors.New("field is both required and forbidden")
	// ErrEmptyName is wrapped for empty topic or field names.
	ErrEmptyName = errors.New("empty name")
	// ErrReservedTopic is wrapped when a document declares the reserved unclassified topic.
	ErrReservedTopic = errors.New("reserved topic name")
)

// ConfigError reports a malformed or self-contradictory profile document. It is the only
// error Load and Parse return.
type ConfigError struct {
	Source string
	Topic  string
	Reason string
	Err    error
}

func (e *ConfigError) Error() string {
	var b strings.Builder
	b.WriteString("profile config")
	if e.Source != "" {
		b.WriteString(" ")
		b.WriteString(e.Source)
	}
	if e.Topic != "" {
		fmt.Fprintf(&b, ": topic %q", e.Topic)
	}
	if e.Reason != "" {
		b.WriteString(": ")
		b.WriteString(e.Reason)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *ConfigError) Unwrap() error { return e.Err }
