// Package devlog provides the console logging helpers used across the dev
// tooling. Output goes straight to stdout with ANSI colors, matching the rest
// of the development environment's log stream.
package devlog

import "fmt"

const (
	Reset   = "\x1b[0m"
	Red     = "\x1b[31m"
	Green   = "\x1b[32m"
	Yellow  = "\x1b[33m"
	Magenta = "\x1b[35m"
	Cyan    = "\x1b[36m"
	Gray    = "\x1b[90m"
)

// Debug gates verbose diagnostics. Set once at startup from the --debug flag.
var Debug bool

// Logf prints a message with the [bks] marker in the given color.
func Logf(color, format string, args ...interface{}) {
	if color == "" {
		color = Reset
	}
	fmt.Printf("\x1b[32m[bks]\x1b[0m %s%s%s\n", color, fmt.Sprintf(format, args...), Reset)
}

// Warnf prints a non-fatal warning.
func Warnf(format string, args ...interface{}) {
	Logf(Yellow, "⚠️  "+format, args...)
}

// Errorf prints an error line.
func Errorf(format string, args ...interface{}) {
	Logf(Red, "❌ "+format, args...)
}

// Successf prints a success line.
func Successf(format string, args ...interface{}) {
	Logf(Green, "✅ "+format, args...)
}

// Debugf prints only when Debug is enabled.
func Debugf(format string, args ...interface{}) {
	if Debug {
		Logf(Gray, format, args...)
	}
}
