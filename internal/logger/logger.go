// Package logger provides verbose diagnostics for facetag.
// Messages are only written when verbose mode is enabled with --verbose.
// While the terminal UI owns the screen, output is redirected to a file.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

var (
	mu         sync.RWMutex
	verbose    bool
	timestamps bool
	output     io.Writer = os.Stderr
)

// Level tags a log line.
type Level string

// Log levels.
const (
	LevelDebug Level = "DEBUG"
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
)

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose reports whether verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the writer for log lines. Defaults to os.Stderr.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
	timestamps = false
}

// OpenFile redirects log lines to path, appending, with timestamps.
// The returned closer restores stderr output.
func OpenFile(path string) (io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	mu.Lock()
	output = f
	timestamps = true
	mu.Unlock()

	return closerFunc(func() error {
		mu.Lock()
		if output == f {
			output = os.Stderr
			timestamps = false
		}
		mu.Unlock()
		return f.Close()
	}), nil
}

type closerFunc func() error

func (c closerFunc) Close() error { return c() }

func logf(level Level, format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if !verbose {
		return
	}
	prefix := "[" + string(level) + "] "
	if timestamps {
		prefix = time.Now().Format("2006-01-02T15:04:05.000") + " " + prefix
	}
	fmt.Fprintf(output, prefix+format+"\n", args...)
}

// Debug logs request-level detail.
func Debug(format string, args ...any) {
	logf(LevelDebug, format, args...)
}

// Info logs workflow milestones.
func Info(format string, args ...any) {
	logf(LevelInfo, format, args...)
}

// Warn logs failures that were handled and shown to the user.
func Warn(format string, args ...any) {
	logf(LevelWarn, format, args...)
}

// Section prints a header separating one workflow step from the next.
func Section(name string) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		fmt.Fprintf(output, "\n=== %s ===\n", name)
	}
}
