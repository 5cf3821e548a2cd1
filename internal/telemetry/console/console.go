// Package console is an inner sink that writes formatted records with zerolog.
package console

import (
	"context"
	"io"

	"github.com/rs/zerolog"

	"loggov/internal/governance/domain"
	"loggov/internal/logger"
)

// Sink writes one line per record: JSON in production, the zerolog console format in development.
// Records below the minimum level are dropped.
type Sink struct {
	log zerolog.Logger
	min domain.Level
}

// New returns a console sink writing to w.
func New(w io.Writer, appEnv string, min domain.Level) *Sink {
	var zl zerolog.Logger
	if logger.IsDevelopment(appEnv) {
		zl = zerolog.New(zerolog.NewConsoleWriter(func(c *zerolog.ConsoleWriter) {
			c.Out = w
			c.TimeFormat = "15:04:05.000"
		}))
	} else {
		zl = zerolog.New(w)
	}
	return &Sink{log: zl, min: min}
}

// Write implements sink.Sink.
func (s *Sink) Write(_ context.Context, rec domain.Record) error {
	if rec.Level < s.min {
		return nil
	}
	e := s.log.WithLevel(zerologLevel(rec.Level)).
		Time(zerolog.TimestampFieldName, rec.Time).
		Str(domain.AttrTopic, rec.Topic).
		Str("caller", rec.Caller)
	if len(rec.Fields) > 0 {
		d := zerolog.Dict()
		for _, f := range rec.Fields {
			d = d.Interface(f.Name, f.Value)
		}
		e = e.Dict("fields", d)
	}
	if len(rec.Violations) > 0 {
		e = e.Str(domain.AttrEventID, rec.ID).Strs(domain.AttrViolations, domain.ViolationStrings(rec.Violations))
	}
	e.Msg(rec.Message)
	return nil
}

// WithLevel never exits or panics, so Critical can map onto zerolog's fatal level.
func zerologLevel(l domain.Level) zerolog.Level {
	switch l {
	case domain.LevelTrace:
		return zerolog.TraceLevel
	case domain.LevelDebug:
		return zerolog.DebugLevel
	case domain.LevelWarn:
		return zerolog.WarnLevel
	case domain.LevelError:
		return zerolog.ErrorLevel
	case domain.LevelCritical:
		return zerolog.FatalLevel
	default:
		return zerolog.InfoLevel
	}
}
