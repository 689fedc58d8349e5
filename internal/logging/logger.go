package logging

import (
	"log/slog"

	"go.uber.org/zap"
)

// Logger is a logging handle bound to a scope. All handles of a facility
// share its transports. Methods accept any values, as console-style loggers
// do: strings and numbers print as-is, maps and structs print as JSON.
type Logger struct {
	root  *zap.Logger
	zl    *zap.Logger
	scope string
}

// Scope returns the handle's scope label, empty for the facility handle.
func (l *Logger) Scope() string {
	return l.scope
}

// Log writes args at level. Dropped when no transport accepts the level.
func (l *Logger) Log(level Level, args ...any) {
	if ce := l.zl.Check(level.zap(), ""); ce != nil {
		ce.Write(zap.Array(messageKey, NewPayload(args...)))
	}
}

func (l *Logger) Error(args ...any)   { l.Log(LevelError, args...) }
func (l *Logger) Warn(args ...any)    { l.Log(LevelWarn, args...) }
func (l *Logger) Info(args ...any)    { l.Log(LevelInfo, args...) }
func (l *Logger) Verbose(args ...any) { l.Log(LevelVerbose, args...) }
func (l *Logger) Debug(args ...any)   { l.Log(LevelDebug, args...) }
func (l *Logger) Silly(args ...any)   { l.Log(LevelSilly, args...) }

// Enabled reports whether any transport accepts level.
func (l *Logger) Enabled(level Level) bool {
	return l.zl.Core().Enabled(level.zap())
}

// Slog returns a slog.Logger that writes under this handle's scope.
func (l *Logger) Slog() *slog.Logger {
	return slog.New(newSlogHandler(l.root, l.zl))
}
