// Package color provides terminal color output for mtt.
// It respects the NO_COLOR environment variable (https://no-color.org/).
package color

import (
	"fmt"
	"os"
	"sync"
)

var state struct {
	mu       sync.RWMutex
	once     sync.Once
	disabled bool
}

// Init decides once per process whether color is used. NO_COLOR, a dumb
// terminal or the --no-color flag disable it.
func Init(noColorFlag bool) {
	state.once.Do(func() {
		_, noColor := os.LookupEnv("NO_COLOR")
		disabled := noColor || os.Getenv("TERM") == "dumb" || noColorFlag
		state.mu.Lock()
		state.disabled = disabled
		state.mu.Unlock()
	})
}

// Enabled returns true if color output is enabled.
func Enabled() bool {
	Init(false)
	state.mu.RLock()
	defer state.mu.RUnlock()
	return !state.disabled
}

// Disable turns off color output.
func Disable() {
	Init(false)
	state.mu.Lock()
	state.disabled = true
	state.mu.Unlock()
}

// Enable turns on color output.
func Enable() {
	Init(false)
	state.mu.Lock()
	state.disabled = false
	state.mu.Unlock()
}

// ANSI codes
const (
	Reset   = "\033[0m"
	Bold    = "\033[1m"
	DimCode = "\033[2m"

	Red    = "\033[31m"
	Green  = "\033[32m"
	Yellow = "\033[33m"
	Blue   = "\033[34m"
	Cyan   = "\033[36m"
)

func wrap(code, s string) string {
	if !Enabled() {
		return s
	}
	return code + s + Reset
}

// Success formats a success message in green.
func Success(s string) string { return wrap(Green, s) }

// Successf formats a success message with printf-style arguments.
func Successf(format string, args ...any) string { return Success(fmt.Sprintf(format, args...)) }

// Error formats an error message in red.
func Error(s string) string { return wrap(Red, s) }

// Warning formats a warning message in yellow.
func Warning(s string) string { return wrap(Yellow, s) }

// Warningf formats a warning message with printf-style arguments.
func Warningf(format string, args ...any) string { return Warning(fmt.Sprintf(format, args...)) }

// Info formats an informational message in cyan.
func Info(s string) string { return wrap(Cyan, s) }

// Timer formats a timer name.
func Timer(name string) string { return wrap(Bold+Blue, name) }

// Duration formats an elapsed duration.
func Duration(s string) string { return wrap(Cyan, s) }

// Header formats a header in bold.
func Header(s string) string { return wrap(Bold, s) }

// Dim formats dimmed text (for secondary information).
func Dim(s string) string { return wrap(DimCode, s) }

// Code formats command strings.
func Code(s string) string { return wrap(Bold+DimCode, s) }
