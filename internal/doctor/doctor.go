// Package doctor diagnoses and repairs the mtt data directory.
package doctor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mtt-project/mtt/internal/journal"
	"github.com/mtt-project/mtt/internal/store"
	"github.com/mtt-project/mtt/pkg/errclass"
	"github.com/mtt-project/mtt/pkg/fsutil"
	"github.com/mtt-project/mtt/pkg/model"
)

const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityError    = "error"
	SeverityCritical = "critical"
)

// Finding represents a detected issue.
type Finding struct {
	Category    string `json:"category"`
	Description string `json:"description"`
	Severity    string `json:"severity"`
	Path        string `json:"path,omitempty"`
	Repairable  bool   `json:"repairable"`
}

// Result contains doctor check results.
type Result struct {
	Healthy  bool      `json:"healthy"`
	Findings []Finding `json:"findings"`
}

func (r *Result) add(f Finding) {
	if f.Severity != SeverityInfo {
		r.Healthy = false
	}
	r.Findings = append(r.Findings, f)
}

// Doctor performs data directory health checks.
type Doctor struct {
	store   *store.Store
	journal *journal.Journal
}

// NewDoctor creates a doctor. j may be nil when the journal is disabled.
func NewDoctor(st *store.Store, j *journal.Journal) *Doctor {
	return &Doctor{store: st, journal: j}
}

// Check runs all diagnostic checks.
func (d *Doctor) Check() *Result {
	result := &Result{Healthy: true, Findings: []Finding{}}

	d.checkState(result)
	d.checkLock(result)
	d.checkOrphanTmp(result)
	d.checkJournal(result)

	return result
}

func (d *Doctor) checkState(result *Result) {
	state, err := d.store.Load()
	if err != nil {
		sev := SeverityError
		repairable := false
		if errors.Is(err, errclass.ErrStateCorrupt) {
			sev = SeverityCritical
			repairable = true
		}
		result.add(Finding{
			Category:    "state",
			Description: err.Error(),
			Severity:    sev,
			Path:        d.store.StatePath(),
			Repairable:  repairable,
		})
		return
	}

	if state.ActiveTimer != nil {
		if _, ok := state.GetTimer(*state.ActiveTimer); !ok {
			result.add(Finding{
				Category:    "state",
				Description: fmt.Sprintf("active timer '%s' does not exist", *state.ActiveTimer),
				Severity:    SeverityWarning,
				Path:        d.store.StatePath(),
				Repairable:  true,
			})
		}
	}
}

func (d *Doctor) checkLock(result *Result) {
	locks := d.store.Locks()
	if locks == nil {
		return
	}
	state, rec, err := locks.Status()
	if err != nil {
		result.add(Finding{
			Category:    "lock",
			Description: fmt.Sprintf("cannot read lock: %v", err),
			Severity:    SeverityWarning,
			Path:        locks.Path(),
			Repairable:  true,
		})
		return
	}

	switch state {
	case model.LockStateExpired:
		result.add(Finding{
			Category:    "lock",
			Description: fmt.Sprintf("expired lock held by pid %d (%s)", rec.PID, rec.Purpose),
			Severity:    SeverityWarning,
			Path:        locks.Path(),
			Repairable:  true,
		})
	case model.LockStateHeld:
		result.add(Finding{
			Category:    "lock",
			Description: fmt.Sprintf("lock held by pid %d (%s)", rec.PID, rec.Purpose),
			Severity:    SeverityInfo,
			Path:        locks.Path(),
		})
	}
}

func (d *Doctor) checkOrphanTmp(result *Result) {
	for _, path := range d.orphanTmp() {
		result.add(Finding{
			Category:    "tmp",
			Description: "orphan temporary file",
			Severity:    SeverityWarning,
			Path:        path,
			Repairable:  true,
		})
	}
}

func (d *Doctor) orphanTmp() []string {
	entries, err := os.ReadDir(d.store.Dir())
	if err != nil {
		return nil
	}
	var paths []string
	for _, e := range entries {
		name := e.Name()
		if fsutil.IsTempFile(name) || strings.HasPrefix(name, store.LockFile+".stale-") {
			paths = append(paths, filepath.Join(d.store.Dir(), name))
		}
	}
	return paths
}

func (d *Doctor) checkJournal(result *Result) {
	if d.journal == nil {
		return
	}
	if _, err := d.journal.Verify(); err != nil {
		result.add(Finding{
			Category:    "journal",
			Description: err.Error(),
			Severity:    SeverityError,
			Path:        d.journal.Path(),
		})
	}
}

// Repair fixes every repairable finding and returns a description of each
// action taken. Journal damage is reported but never rewritten.
func (d *Doctor) Repair(ctx context.Context) ([]string, error) {
	var actions []string

	locks := d.store.Locks()
	if locks != nil {
		state, _, err := locks.Status()
		if err != nil || state == model.LockStateExpired {
			if err := locks.ForceRelease(); err != nil {
				return actions, err
			}
			actions = append(actions, "removed expired lock")
		}

		rec, err := locks.Acquire(ctx, "doctor")
		if err != nil {
			return actions, err
		}
		defer locks.Release(rec.HolderNonce)
	}

	for _, path := range d.orphanTmp() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return actions, fmt.Errorf("remove %s: %w", path, err)
		}
		actions = append(actions, "removed "+filepath.Base(path))
	}

	state, err := d.store.Load()
	switch {
	case errors.Is(err, errclass.ErrStateCorrupt):
		dest, qerr := d.store.Quarantine()
		if qerr != nil {
			return actions, qerr
		}
		actions = append(actions, "moved corrupt state to "+filepath.Base(dest))
	case err != nil:
		return actions, err
	case state.ActiveTimer != nil && !state.HasActiveTimer():
		name := *state.ActiveTimer
		state.ActiveTimer = nil
		if err := d.store.Save(state); err != nil {
			return actions, err
		}
		actions = append(actions, fmt.Sprintf("cleared dangling active timer '%s'", name))
	}

	return actions, nil
}
