// Package errclass defines the stable, machine-readable error classes
// surfaced by mtt.
package errclass

import "fmt"

// MTTError is a stable, machine-readable error class.
type MTTError struct {
	Code    string
	Message string
}

func (e *MTTError) Error() string {
	if e.Message == "" {
		return e.Code
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *MTTError) Is(target error) bool {
	t, ok := target.(*MTTError)
	return ok && e.Code == t.Code
}

// WithMessage returns a new MTTError with the same Code but a specific message.
func (e *MTTError) WithMessage(msg string) *MTTError {
	return &MTTError{Code: e.Code, Message: msg}
}

// WithMessagef returns a new MTTError with a formatted message.
func (e *MTTError) WithMessagef(format string, args ...any) *MTTError {
	return &MTTError{Code: e.Code, Message: fmt.Sprintf(format, args...)}
}

// Timer lifecycle and registry errors.
var (
	ErrTimerAlreadyRunning = &MTTError{Code: "E_TIMER_ALREADY_RUNNING"}
	ErrNoTimerRunning      = &MTTError{Code: "E_NO_TIMER_RUNNING"}
	ErrNoSuchTimer         = &MTTError{Code: "E_NO_SUCH_TIMER"}
	ErrDuplicateTimerName  = &MTTError{Code: "E_DUPLICATE_TIMER_NAME"}
	ErrNoActiveTimer       = &MTTError{Code: "E_NO_ACTIVE_TIMER"}
)

// Persistence and infrastructure errors.
var (
	ErrStateCorrupt       = &MTTError{Code: "E_STATE_CORRUPT"}
	ErrStateWrite         = &MTTError{Code: "E_STATE_WRITE"}
	ErrLockConflict       = &MTTError{Code: "E_LOCK_CONFLICT"}
	ErrLockNotHeld        = &MTTError{Code: "E_LOCK_NOT_HELD"}
	ErrJournalChainBroken = &MTTError{Code: "E_JOURNAL_CHAIN_BROKEN"}
)

// Input errors.
var (
	ErrTimeInvalid   = &MTTError{Code: "E_TIME_INVALID"}
	ErrConfigInvalid = &MTTError{Code: "E_CONFIG_INVALID"}
	ErrNameInvalid   = &MTTError{Code: "E_NAME_INVALID"}
)
