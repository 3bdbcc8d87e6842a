// Package store persists the timer registry to a single JSON file in the
// data directory and serializes read-modify-write cycles through the
// state lock.
package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	json "github.com/goccy/go-json"

	"github.com/mtt-project/mtt/internal/lock"
	"github.com/mtt-project/mtt/pkg/errclass"
	"github.com/mtt-project/mtt/pkg/fsutil"
	"github.com/mtt-project/mtt/pkg/logging"
	"github.com/mtt-project/mtt/pkg/model"
)

const (
	StateFile   = "state.json"
	LockFile    = "state.lock"
	JournalFile = "journal.jsonl"
)

// Options controls locking behavior.
type Options struct {
	LockEnabled bool
	LockPolicy  model.LockPolicy
}

// Store is the on-disk home of the AppState.
type Store struct {
	dir   string
	locks *lock.Manager
}

// Open prepares a store rooted at dir, creating the directory on demand.
func Open(dir string, opts Options) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errclass.ErrStateWrite.WithMessagef("create data dir: %v", err)
	}
	s := &Store{dir: dir}
	if opts.LockEnabled {
		s.locks = lock.NewManager(filepath.Join(dir, LockFile), opts.LockPolicy)
	}
	return s, nil
}

// Dir returns the data directory.
func (s *Store) Dir() string { return s.dir }

// StatePath returns the state file path.
func (s *Store) StatePath() string { return filepath.Join(s.dir, StateFile) }

// LockPath returns the lock file path.
func (s *Store) LockPath() string { return filepath.Join(s.dir, LockFile) }

// JournalPath returns the journal file path.
func (s *Store) JournalPath() string { return filepath.Join(s.dir, JournalFile) }

// Locks returns the lock manager, or nil when locking is disabled.
func (s *Store) Locks() *lock.Manager { return s.locks }

// Load reads the state file. A missing file yields an empty registry.
func (s *Store) Load() (*model.AppState, error) {
	data, err := os.ReadFile(s.StatePath())
	if err != nil {
		if os.IsNotExist(err) {
			return model.NewAppState(), nil
		}
		return nil, fmt.Errorf("read state: %w", err)
	}

	state, err := Decode(data)
	if err != nil {
		return nil, errclass.ErrStateCorrupt.WithMessagef("%s: %v", s.StatePath(), err)
	}
	return state, nil
}

// Decode parses serialized state.
func Decode(data []byte) (*model.AppState, error) {
	var state model.AppState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, err
	}
	state.Normalize()
	return &state, nil
}

// Save overwrites the state file atomically.
func (s *Store) Save(state *model.AppState) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return errclass.ErrStateWrite.WithMessagef("marshal state: %v", err)
	}
	if err := fsutil.AtomicWrite(s.StatePath(), data, 0644); err != nil {
		return errclass.ErrStateWrite.WithMessagef("write state: %v", err)
	}
	return nil
}

// Quarantine moves the state file aside so the next load starts fresh.
// It returns the new path, or "" when there was no file.
func (s *Store) Quarantine() (string, error) {
	dest := fmt.Sprintf("%s.corrupt-%d", s.StatePath(), time.Now().Unix())
	if err := fsutil.RenameAndSync(s.StatePath(), dest); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("quarantine state: %w", err)
	}
	logging.Warn("quarantined state file", map[string]any{"path": dest})
	return dest, nil
}

// Session is one locked read-modify-write cycle.
type Session struct {
	State *model.AppState

	store *Store
	nonce string
	done  bool
}

// Begin acquires the state lock (when enabled) and loads the state.
func (s *Store) Begin(ctx context.Context, purpose string) (*Session, error) {
	sess := &Session{store: s}
	if s.locks != nil {
		rec, err := s.locks.Acquire(ctx, purpose)
		if err != nil {
			return nil, err
		}
		sess.nonce = rec.HolderNonce
	}

	state, err := s.Load()
	if err != nil {
		sess.Close()
		return nil, err
	}
	sess.State = state
	return sess, nil
}

// Commit saves the state and releases the lock. Nothing is written when
// the lock has been taken over since Begin.
func (sess *Session) Commit() error {
	if sess.done {
		return nil
	}
	if sess.store.locks != nil && sess.nonce != "" {
		if err := sess.store.locks.Check(sess.nonce); err != nil {
			sess.done = true
			return err
		}
	}
	if err := sess.store.Save(sess.State); err != nil {
		sess.Close()
		return err
	}
	return sess.Close()
}

// Close releases the lock without saving. It is safe to call repeatedly.
func (sess *Session) Close() error {
	if sess.done {
		return nil
	}
	sess.done = true
	if sess.store.locks == nil || sess.nonce == "" {
		return nil
	}
	return sess.store.locks.Release(sess.nonce)
}
