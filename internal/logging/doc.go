// Package logging stands up logging for craft before any subsystem runs.
//
// Debug mode is on when craft runs from source (not a packaged build), when
// --debug is among the process arguments, or when CRAFT_DEBUG=1. In debug mode
// entries go to a rotating JSON-lines file and to a human-readable console.
// Otherwise both transports are disabled and log calls are dropped.
//
// Subsystems log through scoped handles (main, session, ipc, window, agent,
// search) or through log/slog once the facility is installed as the default.
package logging
