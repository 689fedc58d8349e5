package logging

import (
	"io"
	"log/slog"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Scope names of the handles every craft process publishes.
const (
	ScopeMain    = "main"
	ScopeSession = "session"
	ScopeIPC     = "ipc"
	ScopeWindow  = "window"
	ScopeAgent   = "agent"
	ScopeSearch  = "search"
)

// Config is the transport configuration for one process. It is a value:
// the facility keeps its own copy, so later edits to a Config have no effect.
type Config struct {
	// Debug enables both transports. When false nothing is written or printed.
	Debug bool
	// FilePath is the log file. Empty means DefaultLogPath().
	FilePath string
	// MaxSizeMB is the size in megabytes that triggers rotation (default: 5).
	MaxSizeMB int
	// MaxBackups is the number of rotated files to keep. Zero keeps all of
	// them; DefaultConfig sets 1.
	MaxBackups int
	// FileLevel is the minimum level written to the file (unset: silly).
	FileLevel Level
	// ConsoleLevel is the minimum level printed to the console (unset: debug).
	ConsoleLevel Level
	// Stdout receives console lines below warn (default: os.Stdout).
	Stdout io.Writer
	// Stderr receives console warn and error lines (default: os.Stderr).
	Stderr io.Writer
	// Clock supplies entry timestamps (default: system clock).
	Clock zapcore.Clock
}

// DefaultConfig returns the configuration for the given debug mode.
func DefaultConfig(debug bool) Config {
	return Config{
		Debug:        debug,
		FilePath:     DefaultLogPath(),
		MaxSizeMB:    5,
		MaxBackups:   1,
		FileLevel:    LevelSilly,
		ConsoleLevel: LevelDebug,
		Stdout:       os.Stdout,
		Stderr:       os.Stderr,
	}
}

// Configure detects debug mode from env and returns the matching config.
// Call once at process start.
func Configure(env Environment) Config {
	return DefaultConfig(DetectDebugMode(env))
}

// Facility is the shared logging facility with its scoped handles.
type Facility struct {
	cfg  Config
	root *zap.Logger
	file *fileTransport

	Main    *Logger
	Session *Logger
	IPC     *Logger
	Window  *Logger
	Agent   *Logger
	Search  *Logger
}

// New builds the facility. In debug mode it prepares the rotating file and
// the console; otherwise both transports are no-ops.
func New(cfg Config) (*Facility, error) {
	cfg = withDefaults(cfg)
	f := &Facility{cfg: cfg}

	core := zapcore.NewNopCore()
	if cfg.Debug {
		file, err := openFileTransport(cfg.FilePath, cfg.MaxSizeMB, cfg.MaxBackups)
		if err != nil {
			return nil, err
		}
		f.file = file
		core = zapcore.NewTee(
			file.core(cfg.FileLevel),
			newConsoleCore(cfg.ConsoleLevel, cfg.Stdout, cfg.Stderr),
		)
	}

	opts := []zap.Option{zap.ErrorOutput(zapcore.AddSync(io.Discard))}
	if cfg.Clock != nil {
		opts = append(opts, zap.WithClock(cfg.Clock))
	}
	f.root = zap.New(core, opts...)

	f.Main = f.Scope(ScopeMain)
	f.Session = f.Scope(ScopeSession)
	f.IPC = f.Scope(ScopeIPC)
	f.Window = f.Scope(ScopeWindow)
	f.Agent = f.Scope(ScopeAgent)
	f.Search = f.Scope(ScopeSearch)
	return f, nil
}

func withDefaults(cfg Config) Config {
	if cfg.FilePath == "" {
		cfg.FilePath = DefaultLogPath()
	}
	if cfg.MaxSizeMB <= 0 {
		cfg.MaxSizeMB = 5
	}
	if cfg.MaxBackups < 0 {
		cfg.MaxBackups = 0
	}
	if cfg.FileLevel == 0 {
		cfg.FileLevel = LevelSilly
	}
	if cfg.ConsoleLevel == 0 {
		cfg.ConsoleLevel = LevelDebug
	}
	if cfg.Stdout == nil {
		cfg.Stdout = os.Stdout
	}
	if cfg.Stderr == nil {
		cfg.Stderr = os.Stderr
	}
	return cfg
}

// Setup builds the facility and returns it with a cleanup function that
// flushes and closes the log file.
func Setup(cfg Config) (*Facility, func(), error) {
	f, err := New(cfg)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		_ = f.Close()
	}
	return f, cleanup, nil
}

// SetupDefault configures logging from the process environment and installs
// the facility as the slog default. Returns the facility and cleanup function.
func SetupDefault() (*Facility, func(), error) {
	f, cleanup, err := Setup(Configure(ProcessEnvironment()))
	if err != nil {
		return nil, nil, err
	}
	slog.SetDefault(f.Slog())
	return f, cleanup, nil
}

// Scope returns a handle that labels every entry with name.
func (f *Facility) Scope(name string) *Logger {
	return &Logger{root: f.root, zl: f.root.Named(name), scope: name}
}

// Logger returns the unscoped facility handle.
func (f *Facility) Logger() *Logger {
	return &Logger{root: f.root, zl: f.root}
}

// Slog returns a slog.Logger writing to the facility's transports.
func (f *Facility) Slog() *slog.Logger {
	return slog.New(newSlogHandler(f.root, f.root))
}

// Debug reports whether the facility runs in debug mode.
func (f *Facility) Debug() bool {
	return f.cfg.Debug
}

// Config returns a copy of the facility's configuration.
func (f *Facility) Config() Config {
	return f.cfg
}

// FilePath returns the absolute path of the active log file. The second
// result is false when file logging is off.
func (f *Facility) FilePath() (string, bool) {
	if !f.cfg.Debug || f.file == nil {
		return "", false
	}
	return f.file.path, true
}

// Sync flushes buffered entries.
func (f *Facility) Sync() error {
	return f.root.Sync()
}

// Close flushes entries and releases the log file.
func (f *Facility) Close() error {
	_ = f.root.Sync()
	if f.file != nil {
		return f.file.Close()
	}
	return nil
}
