// Package progress prints short step-by-step progress lines for the CLI.
package progress

import (
	"fmt"
	"io"
	"time"
)

// Logger writes progress lines to an io.Writer
type Logger struct {
	out        io.Writer
	verbose    bool
	stepStart  time.Time
	totalStart time.Time
}

// New creates a logger writing to out. Debug lines are only printed when
// verbose is set.
func New(out io.Writer, verbose bool) *Logger {
	return &Logger{
		out:        out,
		verbose:    verbose,
		totalStart: time.Now(),
	}
}

// Step starts a processing step.
// Format: [name] detail ...
func (l *Logger) Step(name string, detail ...interface{}) {
	l.stepStart = time.Now()
	if len(detail) > 0 {
		fmt.Fprintf(l.out, "[%s] %v ... ", name, detail[0])
	} else {
		fmt.Fprintf(l.out, "[%s] ", name)
	}
}

// Done finishes the current step.
// Format: -> result (elapsed)
func (l *Logger) Done(result string) {
	elapsed := time.Since(l.stepStart)
	if elapsed > 100*time.Millisecond {
		fmt.Fprintf(l.out, "-> %s (%.2fs)\n", result, elapsed.Seconds())
	} else {
		fmt.Fprintf(l.out, "-> %s\n", result)
	}
}

// Total prints the time since the logger was created
func (l *Logger) Total() {
	fmt.Fprintf(l.out, "Total time: %.2fs\n", time.Since(l.totalStart).Seconds())
}

// Info prints an untimed line
func (l *Logger) Info(format string, args ...interface{}) {
	fmt.Fprintf(l.out, "  "+format+"\n", args...)
}

// Warn prints a warning line
func (l *Logger) Warn(format string, args ...interface{}) {
	fmt.Fprintf(l.out, "Warning: "+format+"\n", args...)
}

// Debug prints only in verbose mode
func (l *Logger) Debug(format string, args ...interface{}) {
	if l.verbose {
		fmt.Fprintf(l.out, format+"\n", args...)
	}
}
