package model

import (
	"sort"
	"time"

	"github.com/mtt-project/mtt/pkg/errclass"
)

// AppState is the persisted root: every timer keyed by name plus the
// optional active timer selection.
//
// Timers are stored by pointer so repeated lookups of a name hand out the
// same instance. ActiveTimer is a lookup key, not an owner, and may name a
// timer that no longer exists.
type AppState struct {
	Timers      map[string]*Timer `json:"timers"`
	ActiveTimer *string           `json:"active_timer"`
}

// NewAppState returns an empty registry with no active timer.
func NewAppState() *AppState {
	return &AppState{Timers: make(map[string]*Timer)}
}

// Normalize repairs nil containers left behind by decoding.
func (s *AppState) Normalize() {
	if s.Timers == nil {
		s.Timers = make(map[string]*Timer)
	}
	for name, t := range s.Timers {
		if t == nil {
			s.Timers[name] = NewTimer()
			continue
		}
		if t.Records == nil {
			t.Records = []TimerRecord{}
		}
	}
}

// CreateTimer registers a new idle timer under name.
func (s *AppState) CreateTimer(name string) (*Timer, error) {
	if _, exists := s.Timers[name]; exists {
		return nil, errclass.ErrDuplicateTimerName.WithMessagef("timer %q already exists", name)
	}
	t := NewTimer()
	s.Timers[name] = t
	return t, nil
}

// GetTimer looks up a timer by name.
func (s *AppState) GetTimer(name string) (*Timer, bool) {
	t, ok := s.Timers[name]
	return t, ok
}

// RemoveTimer deletes a timer and clears the active selection if it
// pointed at it.
func (s *AppState) RemoveTimer(name string) error {
	if _, ok := s.Timers[name]; !ok {
		return errclass.ErrNoSuchTimer.WithMessagef("no timer named %q", name)
	}
	delete(s.Timers, name)
	if s.ActiveTimer != nil && *s.ActiveTimer == name {
		s.ActiveTimer = nil
	}
	return nil
}

// SetTimerActive selects name as the active timer.
func (s *AppState) SetTimerActive(name string) error {
	if _, ok := s.Timers[name]; !ok {
		return errclass.ErrNoSuchTimer.WithMessagef("no timer named %q", name)
	}
	active := name
	s.ActiveTimer = &active
	return nil
}

// ActiveTimerName returns the active timer's name. A name that no longer
// exists in the registry is reported as no active timer.
func (s *AppState) ActiveTimerName() (string, bool) {
	if s.ActiveTimer == nil {
		return "", false
	}
	if _, ok := s.Timers[*s.ActiveTimer]; !ok {
		return "", false
	}
	return *s.ActiveTimer, true
}

// GetActiveTimer returns the active timer, if one is set and still exists.
func (s *AppState) GetActiveTimer() (*Timer, bool) {
	name, ok := s.ActiveTimerName()
	if !ok {
		return nil, false
	}
	return s.Timers[name], true
}

// HasActiveTimer reports whether GetActiveTimer would return a timer.
func (s *AppState) HasActiveTimer() bool {
	_, ok := s.GetActiveTimer()
	return ok
}

// AbortTimer discards the running interval of name without recording it
// and returns the discarded start.
func (s *AppState) AbortTimer(name string) (time.Time, error) {
	t, ok := s.Timers[name]
	if !ok {
		return time.Time{}, errclass.ErrNoSuchTimer.WithMessagef("no timer named %q", name)
	}
	if t.CurrentStart == nil {
		return time.Time{}, errclass.ErrNoTimerRunning.WithMessagef("timer %q is not running", name)
	}
	started := *t.CurrentStart
	t.CurrentStart = nil
	return started, nil
}

// TimerNames returns all timer names in sorted order.
func (s *AppState) TimerNames() []string {
	names := make([]string, 0, len(s.Timers))
	for name := range s.Timers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RunningTimers returns the sorted names of timers with a run in progress.
func (s *AppState) RunningTimers() []string {
	var names []string
	for _, name := range s.TimerNames() {
		if s.Timers[name].IsRunning() {
			names = append(names, name)
		}
	}
	return names
}
