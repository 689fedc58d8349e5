package logging

import (
	"log/slog"
	"strings"

	"go.uber.org/zap/zapcore"
)

// Level is a log severity. The ordering matches the desktop logging
// convention: silly < debug < verbose < info < warn < error.
// The zero value means unset; transports then use their default minimum.
type Level int8

const (
	LevelSilly Level = iota + 1
	LevelDebug
	LevelVerbose
	LevelInfo
	LevelWarn
	LevelError
)

// String returns the lowercase level name used in the file transport.
func (l Level) String() string {
	switch l {
	case LevelSilly:
		return "silly"
	case LevelDebug:
		return "debug"
	case LevelVerbose:
		return "verbose"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		if l < LevelSilly {
			return "silly"
		}
		return "error"
	}
}

// Label returns the console level token: uppercased, truncated or padded
// to exactly five characters.
func (l Level) Label() string {
	return padLevel(l.String())
}

func padLevel(name string) string {
	s := strings.ToUpper(name)
	if len(s) > 5 {
		s = s[:5]
	}
	return s + strings.Repeat(" ", 5-len(s))
}

// Enabled reports whether an entry at lvl passes a transport whose minimum is l.
func (l Level) Enabled(lvl zapcore.Level) bool {
	return levelFromZap(lvl) >= l
}

// zap maps info onto zapcore.InfoLevel; silly, debug and verbose fall below
// zapcore.DebugLevel.
func (l Level) zap() zapcore.Level {
	return zapcore.Level(l - LevelInfo)
}

func levelFromZap(l zapcore.Level) Level {
	return Level(l) + LevelInfo
}

// ParseLevel converts a level name to a Level. Unknown names map to info.
func ParseLevel(name string) Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "silly", "trace":
		return LevelSilly
	case "debug":
		return LevelDebug
	case "verbose":
		return LevelVerbose
	case "info":
		return LevelInfo
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// ValidLevel reports whether name is a recognized level name.
func ValidLevel(name string) bool {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "silly", "trace", "debug", "verbose", "info", "warn", "warning", "error":
		return true
	}
	return false
}

// levelFromSlog maps slog levels onto the six desktop levels.
func levelFromSlog(l slog.Level) Level {
	switch {
	case l >= slog.LevelError:
		return LevelError
	case l >= slog.LevelWarn:
		return LevelWarn
	case l >= slog.LevelInfo:
		return LevelInfo
	case l >= slog.LevelInfo-2:
		return LevelVerbose
	case l >= slog.LevelDebug:
		return LevelDebug
	default:
		return LevelSilly
	}
}

func encodeLevel(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(levelFromZap(l).String())
}
