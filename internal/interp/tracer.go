package interp

import (
	"fmt"
	"io"

	"github.com/google/uuid"
)

// Tracer is an explicit trace sink passed to the evaluator, replacing the
// original implementation's "wrap every eval() call with a logger"
// pattern (a Python __getattribute__ hook). It is nil by default and only
// invoked when non-nil, gated on Options.Debug by the CLI.
type Tracer func(step int, what string, detail string)

// NewStderrTracer builds a Tracer that writes one line per step to w,
// prefixed with a short run ID so that multiple interpreter runs captured
// into the same log (e.g. by a test harness driving the CLI in a loop)
// can be told apart without re-parsing timestamps.
func NewStderrTracer(w io.Writer) Tracer {
	runID := uuid.New().String()[:8]
	return func(step int, what string, detail string) {
		fmt.Fprintf(w, "[%s] step %d: %s %s\n", runID, step, what, detail)
	}
}
