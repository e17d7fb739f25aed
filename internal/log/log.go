package log

import (
	"io"
	"os"
	"sync"
	"sync/atomic"

	"github.com/fatih/color"
)

// Predefine color functions for different log levels
var (
	InfoColor    = color.New(color.FgCyan)
	SuccessColor = color.New(color.FgGreen)
	WarnColor    = color.New(color.FgYellow)
	ErrorColor   = color.New(color.FgRed)
	DetailColor  = color.New(color.FgWhite) // For less important details
	DebugColor   = color.New(color.FgHiBlack)
)

// Output writers. Swapped in tests to capture what gets logged.
var (
	Stdout io.Writer = os.Stdout
	Stderr io.Writer = os.Stderr
)

var (
	verbose atomic.Bool
	// tray clicks and post-save refreshes log from their own goroutines
	mu sync.Mutex
)

// exit is swapped in tests so Fatal can be exercised.
var exit = os.Exit

// SetVerbose enables or disables Debug output.
func SetVerbose(v bool) {
	verbose.Store(v)
}

// Verbose reports whether Debug output is enabled.
func Verbose() bool {
	return verbose.Load()
}

func write(w io.Writer, c *color.Color, format string, a ...interface{}) {
	mu.Lock()
	defer mu.Unlock()
	c.Fprintf(w, format, a...)
}

// Info prints an informational message (cyan).
func Info(format string, a ...interface{}) {
	write(Stdout, InfoColor, format+"\n", a...)
}

// Success prints a success message (green).
func Success(format string, a ...interface{}) {
	write(Stdout, SuccessColor, format+"\n", a...)
}

// Warn prints a warning message (yellow) to stderr.
func Warn(format string, a ...interface{}) {
	write(Stderr, WarnColor, "Warning: "+format+"\n", a...)
}

// Error prints an error message (red) to stderr.
func Error(format string, a ...interface{}) {
	write(Stderr, ErrorColor, "Error: "+format+"\n", a...)
}

// Fatal prints an error message (red) to stderr and exits with status 1.
func Fatal(format string, a ...interface{}) {
	Error(format, a...)
	exit(1)
}

// Detail prints less important details (usually white/default).
func Detail(format string, a ...interface{}) {
	write(Stdout, DetailColor, format+"\n", a...)
}

// Debug prints only when verbose output was requested.
func Debug(format string, a ...interface{}) {
	if !verbose.Load() {
		return
	}
	write(Stderr, DebugColor, "debug: "+format+"\n", a...)
}
