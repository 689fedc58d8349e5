package logging

import (
	"os"

	"github.com/Aman-CERP/craft/pkg/version"
)

const (
	// DebugEnvVar enables debug mode when set to exactly "1".
	DebugEnvVar = "CRAFT_DEBUG"
	// DebugFlag enables debug mode when present among the process arguments.
	DebugFlag = "--debug"
)

// Environment holds the inputs of debug-mode detection.
// Packaged may be nil when the build state cannot be queried; craft is then
// treated as running from source.
type Environment struct {
	Packaged func() bool
	Args     []string
	Getenv   func(string) string
}

// ProcessEnvironment returns the Environment of the running process.
func ProcessEnvironment() Environment {
	return Environment{
		Packaged: version.IsPackaged,
		Args:     os.Args,
		Getenv:   os.Getenv,
	}
}

// DetectDebugMode reports whether craft runs in debug mode: not packaged,
// or --debug passed, or CRAFT_DEBUG=1.
func DetectDebugMode(env Environment) bool {
	if env.Packaged == nil || !env.Packaged() {
		return true
	}
	for _, arg := range env.Args {
		if arg == DebugFlag {
			return true
		}
	}
	return env.Getenv != nil && env.Getenv(DebugEnvVar) == "1"
}
