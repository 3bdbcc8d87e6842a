package model

// HashValue is a SHA-256 hash stored as hex string.
type HashValue string

// LockState represents the current state of the state-file lock.
type LockState string

const (
	LockStateHeld    LockState = "held"
	LockStateExpired LockState = "expired"
	LockStateFree    LockState = "free"
)
