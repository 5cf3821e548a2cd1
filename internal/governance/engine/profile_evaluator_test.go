package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loggov/internal/governance/domain"
	"loggov/internal/governance/profile"
)

const profilesYAML = `
profiles:
  Orders:
    requiredFields: [userId, email]
    forbiddenFields: [password]
  Payments:
    requiredFields: [accountNumber, amount]
  Strict:
    requiredFields: [c, a, b]
    forbiddenFields: [x, y, z]
  Ruled:
    requiredFields: [userId]
    rules: |
      package governance.ruled

      deny contains "email requires consent" if {
        input.present.email
        not input.present.consent
      }
`

var at = time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)

func newEvaluator(t *testing.T, enabled bool) *ProfileEvaluator {
	t.Helper()
	s, err := profile.Parse(context.Background(), "test.yaml", []byte(profilesYAML))
	require.NoError(t, err)
	return NewProfileEvaluator(s, enabled)
}

func strs(vs []domain.Violation) []string {
	return domain.ViolationStrings(vs)
}

func TestEvaluate_OrdersScenario(t *testing.T) {
	e := newEvaluator(t, true)
	ctx := context.Background()

	got := e.Evaluate(ctx, "Orders", domain.FieldSetOf("userId", "abc123", "email", "user@example.com"), at)
	assert.Empty(t, got)

	got = e.Evaluate(ctx, "Orders", domain.FieldSetOf("email", "user@example.com"), at)
	assert.Equal(t, []string{"MissingField:userId"}, strs(got))
	assert.Equal(t, "Orders", got[0].Topic)
	assert.Equal(t, at, got[0].Time)

	got = e.Evaluate(ctx, "Orders", domain.FieldSetOf("userId", "abc123", "email", "user@example.com", "password", "supersecret"), at)
	assert.Equal(t, []string{"ForbiddenField:password"}, strs(got))
}

func TestEvaluate_PaymentsScenario(t *testing.T) {
	e := newEvaluator(t, true)
	got := e.Evaluate(context.Background(), "Payments", domain.FieldSetOf("accountNumber", "9876543210", "amount", 150.75), at)
	assert.Empty(t, got)
}

func TestEvaluate_RemovingEachRequiredFieldYieldsOneMissing(t *testing.T) {
	e := newEvaluator(t, true)
	required := []string{"c", "a", "b"}
	for _, drop := range required {
		fs := domain.NewFieldSet()
		for _, r := range required {
			if r != drop {
				fs.Set(r, 1)
			}
		}
		got := e.Evaluate(context.Background(), "Strict", fs, at)
		assert.Equal(t, []string{"MissingField:" + drop}, strs(got))
	}
}

func TestEvaluate_AddingEachForbiddenFieldYieldsOneForbidden(t *testing.T) {
	e := newEvaluator(t, true)
	for _, extra := range []string{"x", "y", "z"} {
		fs := domain.FieldSetOf("a", 1, "b", 2, "c", 3, extra, "v")
		got := e.Evaluate(context.Background(), "Strict", fs, at)
		assert.Equal(t, []string{"ForbiddenField:" + extra}, strs(got))
	}
}

func TestEvaluate_StableOrder(t *testing.T) {
	e := newEvaluator(t, true)
	fs := domain.FieldSetOf("z", 1, "a", 2, "x", 3)
	got := e.Evaluate(context.Background(), "Strict", fs, at)
	assert.Equal(t, []string{
		"MissingField:c",
		"MissingField:b",
		"ForbiddenField:z",
		"ForbiddenField:x",
	}, strs(got))
}

func TestEvaluate_Idempotent(t *testing.T) {
	e := newEvaluator(t, true)
	fs := domain.FieldSetOf("email", "e", "password", "p")
	first := e.Evaluate(context.Background(), "Orders", fs, at)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, e.Evaluate(context.Background(), "Orders", fs, at))
	}
}

func TestEvaluate_UngovernedTopic(t *testing.T) {
	e := newEvaluator(t, true)
	for _, topic := range []string{"Unknown", "orders", domain.UnclassifiedTopic, ""} {
		got := e.Evaluate(context.Background(), topic, domain.FieldSetOf("password", "p"), at)
		assert.Empty(t, got, topic)
	}
}

func TestEvaluate_Disabled(t *testing.T) {
	e := newEvaluator(t, false)
	got := e.Evaluate(context.Background(), "Orders", domain.FieldSetOf("password", "p"), at)
	assert.Empty(t, got)
}

func TestEvaluate_NilFieldSet(t *testing.T) {
	e := newEvaluator(t, true)
	got := e.Evaluate(context.Background(), "Orders", nil, at)
	assert.Equal(t, []string{"MissingField:userId", "MissingField:email"}, strs(got))
}

func TestEvaluate_Rules(t *testing.T) {
	e := newEvaluator(t, true)
	ctx := context.Background()

	got := e.Evaluate(ctx, "Ruled", domain.FieldSetOf("email", "e"), at)
	assert.Equal(t, []string{"MissingField:userId", "RuleViolation:email requires consent"}, strs(got))

	got = e.Evaluate(ctx, "Ruled", domain.FieldSetOf("userId", "u", "email", "e", "consent", true), at)
	assert.Empty(t, got)
}

type panickingSource struct{}

func (panickingSource) Lookup(string) (*profile.Profile, bool) { panic("boom") }

func TestEvaluate_PanicBecomesInternalError(t *testing.T) {
	e := NewProfileEvaluator(panickingSource{}, true)
	got := e.Evaluate(context.Background(), "Orders", domain.FieldSetOf("a", 1), at)
	require.Len(t, got, 1)
	assert.Equal(t, domain.KindInternalError, got[0].Kind)
	assert.Equal(t, "Orders", got[0].Topic)
	assert.Contains(t, got[0].Field, "boom")
}

func TestEvaluate_NilEvaluator(t *testing.T) {
	var e *ProfileEvaluator
	assert.Empty(t, e.Evaluate(context.Background(), "Orders", nil, at))
}

func TestEvaluate_ThroughHolder(t *testing.T) {
	s, err := profile.Parse(context.Background(), "h", []byte("profiles:\n  T:\n    requiredFields: [a]\n"))
	require.NoError(t, err)
	h := profile.NewHolder(s)
	e := NewProfileEvaluator(h, true)
	assert.Equal(t, []string{"MissingField:a"}, strs(e.Evaluate(context.Background(), "T", domain.NewFieldSet(), at)))

	empty, err := profile.Parse(context.Background(), "h2", []byte("profiles: {}\n"))
	require.NoError(t, err)
	h.Swap(empty)
	assert.Empty(t, e.Evaluate(context.Background(), "T", domain.NewFieldSet(), at))
}
