package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// messageKey carries the payload array in file entries.
const messageKey = "message"

// fileEncoderConfig produces
// {"level":...,"timestamp":...,"scope":...,"message":[...]} per line.
// The scope key is omitted for unscoped entries.
func fileEncoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "scope",
		MessageKey:     zapcore.OmitKey,
		CallerKey:      zapcore.OmitKey,
		FunctionKey:    zapcore.OmitKey,
		StacktraceKey:  zapcore.OmitKey,
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    encodeLevel,
		EncodeTime:     encodeTime,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeName:     zapcore.FullNameEncoder,
	}
}

// fileTransport owns the rotating log file.
type fileTransport struct {
	path   string
	writer *lumberjack.Logger
	lock   *FileLock
}

// openFileTransport prepares the rotating writer for path. When another
// process already owns path, entries go to a per-process sibling file.
// The file itself is created on first write.
func openFileTransport(path string, maxSizeMB, maxBackups int) (*fileTransport, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve log path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	lock := NewFileLock(abs)
	acquired, err := lock.TryLock()
	switch {
	case err != nil:
		// Locking unsupported here; write to the shared file unguarded.
		lock = nil
	case !acquired:
		lock = nil
		abs = perProcessPath(abs, os.Getpid())
	}

	return &fileTransport{
		path: abs,
		writer: &lumberjack.Logger{
			Filename:   abs,
			MaxSize:    maxSizeMB,
			MaxBackups: maxBackups,
		},
		lock: lock,
	}, nil
}

func (t *fileTransport) core(min Level) zapcore.Core {
	return zapcore.NewCore(
		zapcore.NewJSONEncoder(fileEncoderConfig()),
		zapcore.AddSync(t.writer),
		min,
	)
}

// Close closes the file and releases the ownership lock.
func (t *fileTransport) Close() error {
	err := t.writer.Close()
	if t.lock != nil {
		if uerr := t.lock.Unlock(); err == nil {
			err = uerr
		}
	}
	return err
}

// perProcessPath turns /dir/main.log into /dir/main-<pid>.log.
func perProcessPath(path string, pid int) string {
	ext := filepath.Ext(path)
	return fmt.Sprintf("%s-%d%s", strings.TrimSuffix(path, ext), pid, ext)
}
