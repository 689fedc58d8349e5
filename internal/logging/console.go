package logging

import (
	"fmt"
	"io"
	"sync"
	"time"

	"go.uber.org/zap/zapcore"
)

// isoLayout matches JavaScript's Date.toISOString.
const isoLayout = "2006-01-02T15:04:05.000Z"

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(isoLayout)
}

func encodeTime(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(formatTimestamp(t))
}

// FormatConsoleLine renders one entry as
// "<timestamp> <LEVEL> [<scope>] <payload>". The scope segment is empty when
// there is no scope.
func FormatConsoleLine(t time.Time, levelName, scope, payload string) string {
	scopeLabel := ""
	if scope != "" {
		scopeLabel = "[" + scope + "]"
	}
	return fmt.Sprintf("%s %s %s %s", formatTimestamp(t), padLevel(levelName), scopeLabel, payload)
}

// consoleWriters is shared by every clone of a consoleCore so that lines
// from different scopes never interleave.
type consoleWriters struct {
	mu  sync.Mutex
	out io.Writer
	err io.Writer
}

// consoleCore is the human-readable transport. Warnings and errors go to
// the error writer, everything else to the output writer.
type consoleCore struct {
	min     Level
	writers *consoleWriters
	fields  []zapcore.Field
}

func newConsoleCore(min Level, out, errOut io.Writer) zapcore.Core {
	if errOut == nil {
		errOut = out
	}
	return &consoleCore{
		min:     min,
		writers: &consoleWriters{out: out, err: errOut},
	}
}

func (c *consoleCore) Enabled(lvl zapcore.Level) bool {
	return c.min.Enabled(lvl)
}

func (c *consoleCore) With(fields []zapcore.Field) zapcore.Core {
	clone := *c
	clone.fields = append(append([]zapcore.Field(nil), c.fields...), fields...)
	return &clone
}

func (c *consoleCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}

func (c *consoleCore) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	payload := payloadFromFields(ent.Message, append(append([]zapcore.Field(nil), c.fields...), fields...))
	line := FormatConsoleLine(ent.Time, levelFromZap(ent.Level).String(), ent.LoggerName, payload.String())

	c.writers.mu.Lock()
	defer c.writers.mu.Unlock()
	w := c.writers.out
	if levelFromZap(ent.Level) >= LevelWarn {
		w = c.writers.err
	}
	_, err := io.WriteString(w, line+"\n")
	return err
}

func (c *consoleCore) Sync() error {
	c.writers.mu.Lock()
	defer c.writers.mu.Unlock()
	for _, w := range []io.Writer{c.writers.out, c.writers.err} {
		if s, ok := w.(interface{ Sync() error }); ok {
			_ = s.Sync()
		}
	}
	return nil
}

// payloadFromFields recovers the logged values. Entries produced by a
// scoped handle carry a single Payload field; anything else is rendered as
// the message followed by a map of the fields.
func payloadFromFields(msg string, fields []zapcore.Field) Payload {
	for _, f := range fields {
		if f.Key != messageKey {
			continue
		}
		if p, ok := f.Interface.(Payload); ok {
			return p
		}
	}
	var p Payload
	if msg != "" {
		p = append(p, Text(msg))
	}
	if len(fields) > 0 {
		enc := zapcore.NewMapObjectEncoder()
		for _, f := range fields {
			f.AddTo(enc)
		}
		p = append(p, Structured(enc.Fields))
	}
	return p
}
