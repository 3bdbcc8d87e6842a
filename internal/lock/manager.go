// Package lock serializes state-file access across concurrent mtt
// invocations with an O_EXCL lock file carrying a lease.
package lock

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/mtt-project/mtt/pkg/errclass"
	"github.com/mtt-project/mtt/pkg/logging"
	"github.com/mtt-project/mtt/pkg/model"
)

// Manager guards one lock file.
type Manager struct {
	path   string
	policy model.LockPolicy
	mu     sync.Mutex
	now    func() time.Time

	beforeSteal func()
}

// NewManager creates a lock manager for the lock file at path.
func NewManager(path string, policy model.LockPolicy) *Manager {
	def := model.DefaultLockPolicy()
	if policy.LeaseTTL <= 0 {
		policy.LeaseTTL = def.LeaseTTL
	}
	if policy.RetryTimeout <= 0 {
		policy.RetryTimeout = def.RetryTimeout
	}
	if policy.RetryEvery <= 0 {
		policy.RetryEvery = def.RetryEvery
	}
	return &Manager{path: path, policy: policy, now: time.Now}
}

// Path returns the lock file path.
func (m *Manager) Path() string {
	return m.path
}

// Acquire takes the lock, waiting up to the policy's retry timeout (or
// until ctx is done). A lock whose lease has expired is stolen.
func (m *Manager) Acquire(ctx context.Context, purpose string) (*model.LockRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(m.path), 0755); err != nil {
		return nil, fmt.Errorf("create lock dir: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, m.policy.RetryTimeout)
	defer cancel()

	ticker := time.NewTicker(m.policy.RetryEvery)
	defer ticker.Stop()

	for {
		rec, err := m.tryAcquire(purpose)
		if err == nil {
			return rec, nil
		}
		if !errors.Is(err, errclass.ErrLockConflict) {
			return nil, err
		}

		if stolen, stealErr := m.stealIfExpired(); stealErr != nil {
			return nil, stealErr
		} else if stolen {
			continue
		}

		select {
		case <-ctx.Done():
			return nil, m.conflictError()
		case <-ticker.C:
		}
	}
}

func (m *Manager) tryAcquire(purpose string) (*model.LockRecord, error) {
	file, err := os.OpenFile(m.path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		if os.IsExist(err) {
			return nil, errclass.ErrLockConflict
		}
		return nil, fmt.Errorf("create lock: %w", err)
	}
	defer file.Close()

	now := m.now().UTC()
	rec := &model.LockRecord{
		HolderNonce: uuid.NewString(),
		PID:         os.Getpid(),
		Purpose:     purpose,
		AcquiredAt:  now,
		ExpiresAt:   now.Add(m.policy.LeaseTTL),
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		os.Remove(m.path)
		return nil, fmt.Errorf("marshal lock: %w", err)
	}
	if _, err := file.Write(data); err != nil {
		os.Remove(m.path)
		return nil, fmt.Errorf("write lock: %w", err)
	}
	if err := file.Sync(); err != nil {
		os.Remove(m.path)
		return nil, fmt.Errorf("sync lock: %w", err)
	}
	return rec, nil
}

// stealIfExpired moves an expired lock file out of the way. The expiry
// check and the rename are separate steps, so the renamed file is checked
// again: a fresh lock created in between is linked back into place.
func (m *Manager) stealIfExpired() (bool, error) {
	expired, err := m.expiredFile(m.path)
	if err != nil || !expired {
		return false, err
	}

	stale := fmt.Sprintf("%s.stale-%s", m.path, uuid.NewString()[:8])
	if m.beforeSteal != nil {
		m.beforeSteal()
	}
	if err := os.Rename(m.path, stale); err != nil {
		if os.IsNotExist(err) {
			return true, nil
		}
		return false, fmt.Errorf("steal lock: %w", err)
	}
	defer os.Remove(stale)

	expired, err = m.expiredFile(stale)
	if err != nil {
		return false, err
	}
	if !expired {
		if err := os.Link(stale, m.path); err != nil && !os.IsExist(err) {
			return false, fmt.Errorf("restore lock: %w", err)
		}
		return false, nil
	}
	logging.Warn("stole expired state lock", map[string]any{"lock": m.path})
	return true, nil
}

// expiredFile reports whether the lock record at path has outlived its
// lease. A missing file is not expired.
func (m *Manager) expiredFile(path string) (bool, error) {
	rec, err := readLockFile(path)
	if err == nil {
		return rec.IsExpired(m.now()), nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	// Unparsable: either mid-write or left by a crash. Judge by age.
	info, statErr := os.Stat(path)
	if statErr != nil {
		if os.IsNotExist(statErr) {
			return false, nil
		}
		return false, fmt.Errorf("stat lock: %w", statErr)
	}
	return m.now().Sub(info.ModTime()) > m.policy.LeaseTTL, nil
}

func (m *Manager) conflictError() error {
	rec, err := m.readLock()
	if err != nil {
		return errclass.ErrLockConflict.WithMessagef("state is locked (%s)", m.path)
	}
	return errclass.ErrLockConflict.WithMessagef("state is locked by pid %d (%s) until %s",
		rec.PID, rec.Purpose, rec.ExpiresAt.Local().Format(time.TimeOnly))
}

// Release frees the lock if holderNonce still owns it.
func (m *Manager) Release(holderNonce string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, err := m.readLock()
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read lock: %w", err)
	}

	if rec.HolderNonce != holderNonce {
		return errclass.ErrLockNotHeld.WithMessage("cannot release: nonce mismatch")
	}

	if err := os.Remove(m.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove lock: %w", err)
	}
	return nil
}

// Check returns ErrLockNotHeld unless holderNonce still owns the lock.
func (m *Manager) Check(holderNonce string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, err := m.readLock()
	if err != nil {
		if os.IsNotExist(err) {
			return errclass.ErrLockNotHeld.WithMessage("lock file is gone")
		}
		return fmt.Errorf("read lock: %w", err)
	}
	if rec.HolderNonce != holderNonce {
		return errclass.ErrLockNotHeld.WithMessagef("lock taken over by pid %d (%s)", rec.PID, rec.Purpose)
	}
	return nil
}

// ForceRelease removes the lock file regardless of holder.
func (m *Manager) ForceRelease() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := os.Remove(m.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove lock: %w", err)
	}
	return nil
}

// Status returns the current lock state.
func (m *Manager) Status() (model.LockState, *model.LockRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, err := m.readLock()
	if err != nil {
		if os.IsNotExist(err) {
			return model.LockStateFree, nil, nil
		}
		return model.LockStateFree, nil, fmt.Errorf("read lock: %w", err)
	}

	if rec.IsExpired(m.now()) {
		return model.LockStateExpired, rec, nil
	}
	return model.LockStateHeld, rec, nil
}

func (m *Manager) readLock() (*model.LockRecord, error) {
	return readLockFile(m.path)
}

func readLockFile(path string) (*model.LockRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var rec model.LockRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("parse lock: %w", err)
	}
	return &rec, nil
}
