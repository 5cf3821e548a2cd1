// Package report delivers violation lists to an optional hook without blocking the logging call.
package report

import (
	"context"

	"github.com/rs/zerolog"

	"loggov/internal/governance/domain"
)

// Reporter receives the violations of one log call. Best-effort: returned errors are counted and
// logged by the Dispatcher, never surfaced to the caller that logged.
type Reporter interface {
	OnViolations(ctx context.Context, topic string, violations []domain.Violation, event domain.Event) error
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(ctx context.Context, topic string, violations []domain.Violation, event domain.Event) error

// OnViolations calls f.
func (f ReporterFunc) OnViolations(ctx context.Context, topic string, violations []domain.Violation, event domain.Event) error {
	return f(ctx, topic, violations, event)
}

// LogReporter writes one warning per reported log call to a zerolog.Logger.
type LogReporter struct {
	log zerolog.Logger
}

// NewLogReporter returns a Reporter logging to l.
func NewLogReporter(l zerolog.Logger) *LogReporter {
	return &LogReporter{log: l}
}

// OnViolations implements Reporter.
func (r *LogReporter) OnViolations(ctx context.Context, topic string, violations []domain.Violation, event domain.Event) error {
	r.log.Warn().
		Str(domain.AttrEventID, event.ID).
		Str("topic", topic).
		Strs("violations", domain.ViolationStrings(violations)).
		Str("template", event.Template).
		Str("level", event.Level.String()).
		Time("event_time", event.Time).
		Msg("governance violations")
	return nil
}
