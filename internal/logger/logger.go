// Package logger provides progress logging for the corpus CLI.
//
// Debug, Info and Section are gated on the --verbose flag and narrate
// the ingestion and retrieval pipeline. Warn is not gated: a skipped
// document or a model mismatch matters even in a quiet run. Everything
// goes to stderr so command output stays pipeable.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
)

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
)

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput redirects log output, primarily for tests.
// Defaults to os.Stderr.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

func emit(gated bool, prefix, format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if gated && !verbose {
		return
	}
	fmt.Fprintf(output, prefix+format+"\n", args...)
}

// Debug prints a pipeline detail in verbose mode.
func Debug(format string, args ...any) {
	emit(true, "debug: ", format, args...)
}

// Info prints a progress message in verbose mode.
func Info(format string, args ...any) {
	emit(true, "", format, args...)
}

// Section marks the start of a pipeline phase in verbose mode.
func Section(name string) {
	emit(true, "", "--- %s ---", name)
}

// Warn prints a warning. Warnings are never suppressed.
func Warn(format string, args ...any) {
	emit(false, "warning: ", format, args...)
}
