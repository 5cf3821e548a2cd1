// Package rules compiles and evaluates optional per-topic Rego modules. A module contributes
// violations through a `deny` rule producing a set of strings. Input documents carry only field
// names, never values:
//
//	{"topic": "Orders", "fields": ["userId", "email"], "present": {"userId": true, "email": true}}
package rules

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/open-policy-agent/opa/v1/ast"
	"github.com/open-policy-agent/opa/v1/rego"
)

// denyRule is the rule name queried inside the module's package.
const denyRule = "deny"

// Rule is a compiled, prepared Rego module bound to one topic. Safe for concurrent use.
type Rule struct {
	topic string
	query string
	pq    rego.PreparedEvalQuery
}

// Compile parses and compiles module for topic and prepares the `<package>.deny` query.
func Compile(ctx context.Context, topic, module string) (*Rule, error) {
	if module == "" {
		return nil, errors.New("rules: empty module")
	}
	parsed, err := ast.ParseModule(topic+".rego", module)
	if err != nil {
		return nil, fmt.Errorf("parse module: %w", err)
	}
	if parsed == nil {
		return nil, errors.New("rules: module has no package")
	}
	compiler, err := ast.CompileModules(map[string]string{topic + ".rego": module})
	if err != nil {
		return nil, fmt.Errorf("compile module: %w", err)
	}
	q := parsed.Package.Path.String() + "." + denyRule
	pq, err := rego.New(
		rego.Query(q),
		rego.Compiler(compiler),
	).PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("prepare %s: %w", q, err)
	}
	return &Rule{topic: topic, query: q, pq: pq}, nil
}

// Query returns the fully qualified query evaluated by the rule (e.g. data.governance.orders.deny).
func (r *Rule) Query() string {
	return r.query
}

// Eval runs the rule against the given field names and returns the deny messages, sorted and de-duplicated.
// An undefined deny rule yields no messages.
func (r *Rule) Eval(ctx context.Context, names []string) ([]string, error) {
	fields := make([]interface{}, 0, len(names))
	present := make(map[string]interface{}, len(names))
	for _, n := range names {
		fields = append(fields, n)
		present[n] = true
	}
	input := map[string]interface{}{
		"topic":   r.topic,
		"fields":  fields,
		"present": present,
	}
	rs, err := r.pq.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return nil, fmt.Errorf("eval %s: %w", r.query, err)
	}
	if len(rs) == 0 || len(rs[0].Expressions) == 0 {
		return nil, nil
	}
	return messages(rs[0].Expressions[0].Value)
}

func messages(v interface{}) ([]string, error) {
	var raw []interface{}
	switch t := v.(type) {
	case nil:
		return nil, nil
	case []interface{}:
		raw = t
	case string:
		raw = []interface{}{t}
	default:
		return nil, fmt.Errorf("deny: unexpected result type %T", v)
	}
	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		s, ok := item.(string)
		if !ok {
			s = fmt.Sprint(item)
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Strings(out)
	return out, nil
}
