package lock

import "time"

// SetClock replaces the manager's time source.
func (m *Manager) SetClock(now func() time.Time) {
	m.now = now
}

// SetBeforeSteal installs a hook run between the expiry check and the
// rename of an expired lock.
func (m *Manager) SetBeforeSteal(fn func()) {
	m.beforeSteal = fn
}
