package sink

import (
	"context"
	"fmt"

	"loggov/internal/governance/domain"
	"loggov/internal/governance/topic"
)

// Logger is a per-caller front end for a Governed sink, the counterpart of a typed logger handed
// to one service. It is immutable; With returns a new Logger.
type Logger struct {
	g      *Governed
	caller string
	scope  []domain.Field
}

// For returns a Logger whose caller identity is topic.CallerOf(caller).
func (g *Governed) For(caller any) *Logger {
	return &Logger{g: g, caller: topic.CallerOf(caller)}
}

// Caller returns the identity used for topic resolution.
func (l *Logger) Caller() string { return l.caller }

// With returns a Logger carrying additional scope fields given as alternating name/value pairs.
// A trailing name without a value is recorded with a nil value.
func (l *Logger) With(kv ...any) *Logger {
	scope := make([]domain.Field, len(l.scope), len(l.scope)+len(kv)/2+1)
	copy(scope, l.scope)
	for i := 0; i < len(kv); i += 2 {
		name, ok := kv[i].(string)
		if !ok {
			name = fmt.Sprint(kv[i])
		}
		var v any
		if i+1 < len(kv) {
			v = kv[i+1]
		}
		scope = append(scope, domain.Field{Name: name, Value: v})
	}
	return &Logger{g: l.g, caller: l.caller, scope: scope}
}

// Log emits one event. Inner-sink errors go to the operator logger; the call never fails.
func (l *Logger) Log(ctx context.Context, level domain.Level, template string, args ...any) {
	ev := domain.Event{Template: template, Args: args, Level: level, Scope: l.scope}
	if err := l.g.Emit(ctx, ev, l.caller); err != nil {
		l.g.log.Warn().Err(err).Str("caller", l.caller).Msg("governance: write failed")
	}
}

func (l *Logger) Debug(ctx context.Context, template string, args ...any) {
	l.Log(ctx, domain.LevelDebug, template, args...)
}

func (l *Logger) Info(ctx context.Context, template string, args ...any) {
	l.Log(ctx, domain.LevelInfo, template, args...)
}

func (l *Logger) Warn(ctx context.Context, template string, args ...any) {
	l.Log(ctx, domain.LevelWarn, template, args...)
}

func (l *Logger) Error(ctx context.Context, template string, args ...any) {
	l.Log(ctx, domain.LevelError, template, args...)
}
