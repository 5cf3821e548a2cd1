package otel

import (
	"context"
	"fmt"
	"time"

	otellog "go.opentelemetry.io/otel/log"
	sdklog "go.opentelemetry.io/otel/sdk/log"

	"loggov/internal/governance/domain"
)

// scopeName is the instrumentation scope of records emitted by Sink.
const scopeName = "loggov/governance"

// recordEmitter is the part of otellog.Logger the sink needs.
type recordEmitter interface {
	Emit(ctx context.Context, rec otellog.Record)
}

// Sink is an inner sink that emits each record as an OTel log record. The message is the body,
// extracted fields are attributes, and governance annotations use the governance.* keys.
type Sink struct {
	logger recordEmitter
}

// NewSink returns a Sink emitting through provider. If provider is nil, records are dropped.
func NewSink(provider *sdklog.LoggerProvider) *Sink {
	if provider == nil {
		return &Sink{}
	}
	return &Sink{logger: provider.Logger(scopeName)}
}

// NewSinkWithLogger returns a Sink emitting through logger.
func NewSinkWithLogger(logger recordEmitter) *Sink {
	return &Sink{logger: logger}
}

// Write implements sink.Sink. Emission is best-effort and never fails.
func (s *Sink) Write(ctx context.Context, rec domain.Record) error {
	if s == nil || s.logger == nil {
		return nil
	}
	var r otellog.Record
	ts := rec.Time
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	r.SetTimestamp(ts)
	r.SetObservedTimestamp(time.Now().UTC())
	r.SetSeverity(severity(rec.Level))
	r.SetSeverityText(rec.Level.String())
	r.SetBody(otellog.StringValue(rec.Message))

	r.AddAttributes(otellog.String(domain.AttrTopic, rec.Topic))
	if rec.Caller != "" {
		r.AddAttributes(otellog.String("code.namespace", rec.Caller))
	}
	if rec.Template != "" {
		r.AddAttributes(otellog.String("message.template", rec.Template))
	}
	for _, f := range rec.Fields {
		r.AddAttributes(otellog.KeyValue{Key: f.Name, Value: value(f.Value)})
	}
	if len(rec.Violations) > 0 {
		vs := domain.ViolationStrings(rec.Violations)
		vals := make([]otellog.Value, len(vs))
		for i, v := range vs {
			vals[i] = otellog.StringValue(v)
		}
		r.AddAttributes(
			otellog.String(domain.AttrEventID, rec.ID),
			otellog.Slice(domain.AttrViolations, vals...),
		)
	}
	s.logger.Emit(ctx, r)
	return nil
}

func severity(l domain.Level) otellog.Severity {
	switch l {
	case domain.LevelTrace:
		return otellog.SeverityTrace
	case domain.LevelDebug:
		return otellog.SeverityDebug
	case domain.LevelWarn:
		return otellog.SeverityWarn
	case domain.LevelError:
		return otellog.SeverityError
	case domain.LevelCritical:
		return otellog.SeverityFatal
	default:
		return otellog.SeverityInfo
	}
}

func value(v any) otellog.Value {
	switch x := v.(type) {
	case nil:
		return otellog.Value{}
	case string:
		return otellog.StringValue(x)
	case bool:
		return otellog.BoolValue(x)
	case int:
		return otellog.IntValue(x)
	case int32:
		return otellog.Int64Value(int64(x))
	case int64:
		return otellog.Int64Value(x)
	case uint32:
		return otellog.Int64Value(int64(x))
	case float32:
		return otellog.Float64Value(float64(x))
	case float64:
		return otellog.Float64Value(x)
	case []byte:
		return otellog.BytesValue(x)
	case time.Time:
		return otellog.StringValue(x.Format(time.RFC3339Nano))
	case fmt.Stringer:
		return otellog.StringValue(x.String())
	case error:
		return otellog.StringValue(x.Error())
	default:
		return otellog.StringValue(fmt.Sprint(x))
	}
}
