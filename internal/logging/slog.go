package logging

import (
	"context"
	"log/slog"
	"time"

	"go.uber.org/zap"
)

// scopeAttr is the slog attribute key that selects the scope label.
const scopeAttr = "scope"

// slogHandler routes slog records into the facility. A record becomes the
// payload [msg] or [msg, {attrs}]; a top-level "scope" attribute replaces
// the scope label instead of becoming an attribute.
type slogHandler struct {
	root   *zap.Logger // unscoped facility logger
	zl     *zap.Logger
	attrs  []groupedAttr
	groups []string
}

// groupedAttr remembers the groups open when an attribute was added.
type groupedAttr struct {
	groups []string
	attr   slog.Attr
}

func newSlogHandler(root, zl *zap.Logger) *slogHandler {
	return &slogHandler{root: root, zl: zl}
}

func (h *slogHandler) Enabled(_ context.Context, level slog.Level) bool {
	return h.zl.Core().Enabled(levelFromSlog(level).zap())
}

func (h *slogHandler) Handle(_ context.Context, r slog.Record) error {
	zl := h.zl
	attrs := append([]groupedAttr(nil), h.attrs...)
	r.Attrs(func(a slog.Attr) bool {
		if len(h.groups) == 0 && a.Key == scopeAttr {
			zl = h.root.Named(a.Value.String())
			return true
		}
		attrs = append(attrs, groupedAttr{groups: h.groups, attr: a})
		return true
	})

	ce := zl.Check(levelFromSlog(r.Level).zap(), "")
	if ce == nil {
		return nil
	}
	if !r.Time.IsZero() {
		ce.Time = r.Time
	}
	payload := Payload{Text(r.Message)}
	if len(attrs) > 0 {
		fields := make(map[string]any)
		for _, ga := range attrs {
			addAttr(groupMap(fields, ga.groups), ga.attr)
		}
		payload = append(payload, Structured(fields))
	}
	ce.Write(zap.Array(messageKey, payload))
	return nil
}

func (h *slogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append([]groupedAttr(nil), h.attrs...)
	for _, a := range attrs {
		if len(h.groups) == 0 && a.Key == scopeAttr {
			clone.zl = h.root.Named(a.Value.String())
			continue
		}
		clone.attrs = append(clone.attrs, groupedAttr{groups: h.groups, attr: a})
	}
	return &clone
}

func (h *slogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.groups = append(append([]string(nil), h.groups...), name)
	return &clone
}

// groupMap returns the nested map for groups, creating it as needed.
func groupMap(root map[string]any, groups []string) map[string]any {
	m := root
	for _, g := range groups {
		next, ok := m[g].(map[string]any)
		if !ok {
			next = make(map[string]any)
			m[g] = next
		}
		m = next
	}
	return m
}

func addAttr(m map[string]any, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	if a.Value.Kind() == slog.KindGroup {
		group := a.Value.Group()
		if len(group) == 0 {
			return
		}
		target := m
		if a.Key != "" {
			target = make(map[string]any)
			m[a.Key] = target
		}
		for _, ga := range group {
			addAttr(target, ga)
		}
		return
	}
	m[a.Key] = attrValue(a.Value)
}

func attrValue(v slog.Value) any {
	switch v.Kind() {
	case slog.KindString:
		return v.String()
	case slog.KindInt64:
		return v.Int64()
	case slog.KindUint64:
		return v.Uint64()
	case slog.KindFloat64:
		return v.Float64()
	case slog.KindBool:
		return v.Bool()
	case slog.KindDuration:
		return v.Duration().String()
	case slog.KindTime:
		return v.Time().UTC().Format(time.RFC3339Nano)
	default:
		if err, ok := v.Any().(error); ok {
			return err.Error()
		}
		return v.Any()
	}
}
