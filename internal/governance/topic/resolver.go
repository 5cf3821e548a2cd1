// Package topic maps emitting callers to governance topics.
package topic

import (
	"reflect"

	"loggov/internal/governance/domain"
)

// Topical is implemented by callers that declare their own topic. It plays the role of a
// per-type annotation and is read once, when the caller is bound.
type Topical interface {
	GovernanceTopic() string
}

// Binding associates a caller identity with a topic.
type Binding struct {
	Caller string
	Topic  string
}

// Resolver resolves caller identities to topics. The binding table is fixed at construction;
// Resolve is safe for concurrent use.
type Resolver struct {
	bindings map[string]string
	fallback string
}

// NewResolver builds a Resolver from explicit bindings and a fallback topic. An empty fallback
// resolves unbound callers to domain.UnclassifiedTopic. For a repeated caller the last binding wins.
func NewResolver(fallback string, bindings ...Binding) *Resolver {
	r := &Resolver{
		bindings: make(map[string]string, len(bindings)),
		fallback: fallback,
	}
	for _, b := range bindings {
		if b.Caller == "" || b.Topic == "" {
			continue
		}
		r.bindings[b.Caller] = b.Topic
	}
	return r
}

// Resolve returns the caller's bound topic, else the fallback, else domain.UnclassifiedTopic.
func (r *Resolver) Resolve(caller string) string {
	if r == nil {
		return domain.UnclassifiedTopic
	}
	if t, ok := r.bindings[caller]; ok {
		return t
	}
	if r.fallback != "" {
		return r.fallback
	}
	return domain.UnclassifiedTopic
}

// Bindings returns a copy of the binding table.
func (r *Resolver) Bindings() map[string]string {
	if r == nil {
		return nil
	}
	out := make(map[string]string, len(r.bindings))
	for k, v := range r.bindings {
		out[k] = v
	}
	return out
}

// Scan builds bindings for values implementing Topical, keyed by CallerOf. Values that do not
// implement Topical or return an empty topic are skipped.
func Scan(values ...any) []Binding {
	out := make([]Binding, 0, len(values))
	for _, v := range values {
		t, ok := v.(Topical)
		if !ok {
			continue
		}
		name := t.GovernanceTopic()
		if name == "" {
			continue
		}
		out = append(out, Binding{Caller: CallerOf(v), Topic: name})
	}
	return out
}

// CallerOf returns the identity of v's type as "import/path.TypeName", dereferencing pointers.
// A string is returned unchanged so logical sources can be named directly.
func CallerOf(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	t := reflect.TypeOf(v)
	if t == nil {
		return ""
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.PkgPath() == "" || t.Name() == "" {
		return t.String()
	}
	return t.PkgPath() + "." + t.Name()
}
