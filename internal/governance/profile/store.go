// Package profile loads the topic-keyed field-governance table. A Store is immutable after
// Load/Parse returns and may be read concurrently without locking.
package profile

import (
	"sort"
	"sync/atomic"

	"loggov/internal/governance/rules"
)

// Profile is the rule set for one topic.
type Profile struct {
	Topic string
	// Required lists required field names in declaration order.
	Required []string
	// Forbidden lists forbidden field names in declaration order.
	Forbidden []string
	// Rule is the compiled Rego module, nil when the profile declares none.
	Rule *rules.Rule

	forbidden map[string]struct{}
}

// IsForbidden reports whether name is in the forbidden set.
func (p *Profile) IsForbidden(name string) bool {
	_, ok := p.forbidden[name]
	return ok
}

// Globals are the document-level switches. They are merged with process config by the caller.
type Globals struct {
	Enabled             bool
	FallbackTopic       string
	SuppressOnViolation bool
}

// Store is the loaded profile table.
type Store struct {
	profiles map[string]*Profile
	globals  Globals
}

// Lookup returns the profile for an exact, case-sensitive topic match.
func (s *Store) Lookup(topic string) (*Profile, bool) {
	if s == nil {
		return nil, false
	}
	p, ok := s.profiles[topic]
	return p, ok
}

// Topics returns the configured topic names sorted.
func (s *Store) Topics() []string {
	if s == nil {
		return nil
	}
	out := make([]string, 0, len(s.profiles))
	for t := range s.profiles {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Globals returns the document-level settings.
func (s *Store) Globals() Globals {
	if s == nil {
		return Globals{Enabled: true}
	}
	return s.globals
}

// Holder publishes a Store to concurrent readers. Reload swaps the whole table atomically so an
// in-flight lookup always sees one complete Store.
type Holder struct {
	p atomic.Pointer[Store]
}

// NewHolder returns a Holder publishing s.
func NewHolder(s *Store) *Holder {
	h := &Holder{}
	h.p.Store(s)
	return h
}

// Current returns the published Store (may be nil).
func (h *Holder) Current() *Store {
	return h.p.Load()
}

// Swap publishes s and returns the previous Store.
func (h *Holder) Swap(s *Store) *Store {
	return h.p.Swap(s)
}

// Lookup resolves topic against the currently published Store.
func (h *Holder) Lookup(topic string) (*Profile, bool) {
	return h.p.Load().Lookup(topic)
}
