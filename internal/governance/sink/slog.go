package sink

import (
	"context"
	"log/slog"

	"loggov/internal/governance/domain"
)

// SlogHandler lets *slog.Logger call sites go through a Governed sink. Record attributes and
// handler attributes become scope fields; the message is used as the template.
type SlogHandler struct {
	g      *Governed
	caller string
	level  slog.Leveler
	attrs  []domain.Field
	group  string
}

var _ slog.Handler = (*SlogHandler)(nil)

// NewSlogHandler returns a handler governed as caller (see topic.CallerOf). level may be nil (Info).
func NewSlogHandler(g *Governed, caller any, level slog.Leveler) *SlogHandler {
	if level == nil {
		level = slog.LevelInfo
	}
	return &SlogHandler{g: g, caller: g.For(caller).Caller(), level: level}
}

// Enabled implements slog.Handler.
func (h *SlogHandler) Enabled(_ context.Context, l slog.Level) bool {
	return l >= h.level.Level()
}

// Handle implements slog.Handler.
func (h *SlogHandler) Handle(ctx context.Context, r slog.Record) error {
	scope := make([]domain.Field, len(h.attrs), len(h.attrs)+r.NumAttrs())
	copy(scope, h.attrs)
	r.Attrs(func(a slog.Attr) bool {
		scope = appendAttr(scope, h.group, a)
		return true
	})
	ev := domain.Event{
		Template: r.Message,
		Level:    fromSlogLevel(r.Level),
		Time:     r.Time.UTC(),
		Scope:    scope,
	}
	return h.g.Emit(ctx, ev, h.caller)
}

// WithAttrs implements slog.Handler.
func (h *SlogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	nh := *h
	nh.attrs = make([]domain.Field, len(h.attrs), len(h.attrs)+len(attrs))
	copy(nh.attrs, h.attrs)
	for _, a := range attrs {
		nh.attrs = appendAttr(nh.attrs, h.group, a)
	}
	return &nh
}

// WithGroup implements slog.Handler. Field names under a group are prefixed "group.".
func (h *SlogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	nh := *h
	nh.group = join(h.group, name)
	return &nh
}

func appendAttr(dst []domain.Field, group string, a slog.Attr) []domain.Field {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return dst
	}
	if a.Value.Kind() == slog.KindGroup {
		g := group
		if a.Key != "" {
			g = join(group, a.Key)
		}
		for _, ga := range a.Value.Group() {
			dst = appendAttr(dst, g, ga)
		}
		return dst
	}
	return append(dst, domain.Field{Name: join(group, a.Key), Value: a.Value.Any()})
}

func join(group, key string) string {
	if group == "" {
		return key
	}
	return group + "." + key
}

func fromSlogLevel(l slog.Level) domain.Level {
	switch {
	case l >= slog.LevelError+4:
		return domain.LevelCritical
	case l >= slog.LevelError:
		return domain.LevelError
	case l >= slog.LevelWarn:
		return domain.LevelWarn
	case l >= slog.LevelInfo:
		return domain.LevelInfo
	case l >= slog.LevelDebug:
		return domain.LevelDebug
	default:
		return domain.LevelTrace
	}
}
