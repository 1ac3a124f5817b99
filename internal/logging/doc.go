// Package logging builds the zap logger used by the mlavr command-line
// tools.
//
// Logging is silent by default so CLI output stays clean. Verbosity is
// enabled either with an explicit --log-level flag value or via the
// MLAVR_LOG_LEVEL environment variable. Library packages (avr, bridge, tui)
// do not use the global logger; they take a *zap.Logger at construction and
// the commands hand them NewLogger's result.
package logging
