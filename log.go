package amg

import (
	"fmt"
	"io"
	"os"
)

// PrintLevel gates how much setup/solve diagnostics the logger emits,
// matching the source's print_level field (spec §6: "print_level,
// output_type -> Diagnostics").
type PrintLevel int

const (
	// PrintNone disables all logging.
	PrintNone PrintLevel = iota
	// PrintMin logs nothing: demotion warnings are only emitted at levels
	// above PrintMin, so PrintSetup is the lowest level that logs them.
	PrintMin
	// PrintSetup logs every demotion warning and, once setup completes, a
	// one-line summary of the level count and operator complexity.
	PrintSetup
	// PrintSolve logs the same lines as PrintSetup; no per-iteration
	// output is produced.
	PrintSolve
)

// logger is the leveled-logging shim described in SPEC_FULL.md's ambient
// stack section: a thin wrapper around an io.Writer gated by PrintLevel,
// mirroring the teacher's terse single-line diagnostic style rather than a
// full structured-logging dependency (the teacher carries no logging
// library at all - print_level is the only instrumented field in the
// source - so there is nothing from the examples pack to wire here beyond
// plain fmt.Fprintf over io.Writer).
type logger struct {
	w     io.Writer
	level PrintLevel
}

func newLogger(level PrintLevel, w io.Writer) *logger {
	if w == nil {
		w = os.Stderr
	}
	return &logger{w: w, level: level}
}

func (l *logger) logf(at PrintLevel, format string, args ...interface{}) {
	if l == nil || l.level < at {
		return
	}
	fmt.Fprintf(l.w, format+"\n", args...)
}
