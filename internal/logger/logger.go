// Package logger is the verbose trace channel for hookdex commands.
// Indexing and search code calls Debug/Info/Warn unconditionally; unless
// the user passes --verbose the calls are no-ops, so per-file scan loops
// can trace progress without a level check at every call site.
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

// SetVerbose toggles verbose logging for the process.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose reports whether verbose logging is on.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput redirects verbose logs, primarily for tests. The default is
// os.Stderr so traces never mix with command output on stdout.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

func logf(tag, format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if !verbose {
		return
	}
	fmt.Fprintf(output, tag+format+"\n", args...)
}

// Debug traces fine-grained progress, e.g. each scanned or skipped file.
func Debug(format string, args ...any) {
	logf("[DEBUG] ", format, args...)
}

// Section marks the start of a per-source indexing phase.
func Section(name string) {
	logf("", "\n=== %s ===", name)
}

// Info reports run-level milestones such as fetch completion.
func Info(format string, args ...any) {
	logf("[INFO] ", format, args...)
}

// Warn reports recoverable problems, e.g. serving a cached tarball
// extraction after a failed download.
func Warn(format string, args ...any) {
	logf("[WARN] ", format, args...)
}
