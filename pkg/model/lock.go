package model

import "time"

// LockRecord is stored in <data-dir>/mtt/state.lock while an invocation
// holds the state file.
type LockRecord struct {
	HolderNonce string    `json:"holder_nonce"`
	PID         int       `json:"pid"`
	Purpose     string    `json:"purpose,omitempty"`
	AcquiredAt  time.Time `json:"acquired_at"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// IsExpired returns true if the lock has expired.
func (l *LockRecord) IsExpired(now time.Time) bool {
	return now.After(l.ExpiresAt)
}

// LockPolicy configures lock timing parameters.
type LockPolicy struct {
	LeaseTTL     time.Duration `json:"lease_ttl"`
	RetryTimeout time.Duration `json:"retry_timeout"`
	RetryEvery   time.Duration `json:"retry_every"`
}

// DefaultLockPolicy is used when the config does not override it.
func DefaultLockPolicy() LockPolicy {
	return LockPolicy{
		LeaseTTL:     30 * time.Second,
		RetryTimeout: 5 * time.Second,
		RetryEvery:   50 * time.Millisecond,
	}
}
