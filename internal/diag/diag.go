// Package diag wires the engine's high-severity invariant-violation
// reporting (spec.md §7, "Invariant violation") to a structured logger. It
// never participates in game-state mutation; it only observes and records.
package diag

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// Logger is the engine's diagnostic sink. The zero value has no writer;
// build one with Default for stderr or with New for any other writer.
type Logger struct {
	zl zerolog.Logger
}

// New returns a Logger writing to w. Pass io.Discard in tests that don't
// want diagnostic noise.
func New(w io.Writer) *Logger {
	return &Logger{zl: zerolog.New(w).With().Timestamp().Logger()}
}

// Default logs to stderr, matching the corpus's usual zerolog bring-up.
func Default() *Logger {
	return New(os.Stderr)
}

// InvariantViolation records a bug-class condition that should have been
// prevented earlier in the pipeline (a capacity enforcer catching what
// load-time validation missed, a dangling reference to a destroyed
// entity). The engine continues; the caller is expected to also mark the
// GameState Suspect.
func (l *Logger) InvariantViolation(turn int, component, detail string) {
	l.zl.Error().
		Int("turn", turn).
		Str("component", component).
		Msg(detail)
}

// Warn records a non-fatal anomaly worth surfacing but not Suspect-marking.
func (l *Logger) Warn(turn int, component, detail string) {
	l.zl.Warn().
		Int("turn", turn).
		Str("component", component).
		Msg(detail)
}
