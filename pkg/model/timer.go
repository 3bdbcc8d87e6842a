package model

import (
	"time"

	"github.com/mtt-project/mtt/pkg/errclass"
)

// TimerStatus is the lifecycle state of a timer.
type TimerStatus string

const (
	TimerIdle    TimerStatus = "idle"
	TimerRunning TimerStatus = "running"
)

// Timer is a named stopwatch: a log of completed records plus at most one
// in-progress run.
type Timer struct {
	Records      []TimerRecord `json:"records"`
	CurrentStart *time.Time    `json:"current_start"`
}

// NewTimer returns an idle timer with an empty log.
func NewTimer() *Timer {
	return &Timer{Records: []TimerRecord{}}
}

// Start begins a run at now.
func (t *Timer) Start(now time.Time) error {
	if t.CurrentStart != nil {
		return errclass.ErrTimerAlreadyRunning.WithMessagef("running since %s", t.CurrentStart.Format(time.RFC3339))
	}
	start := now
	t.CurrentStart = &start
	return nil
}

// Stop ends the current run at now and appends it to the log.
// The returned pointer refers into the record log and is only valid until
// the timer is mutated again.
func (t *Timer) Stop(now time.Time, comment string) (*TimerRecord, error) {
	if t.CurrentStart == nil {
		return nil, errclass.ErrNoTimerRunning
	}
	t.Records = append(t.Records, NewTimerRecord(*t.CurrentStart, now, comment))
	t.CurrentStart = nil
	return &t.Records[len(t.Records)-1], nil
}

// Reset clears the record log. A running interval is kept.
func (t *Timer) Reset() {
	t.Records = []TimerRecord{}
}

// TotalDuration sums the durations of all completed records.
func (t *Timer) TotalDuration() time.Duration {
	var total time.Duration
	for _, r := range t.Records {
		total += r.Duration()
	}
	return total
}

// IsRunning reports whether a run is in progress.
func (t *Timer) IsRunning() bool {
	return t.CurrentStart != nil
}

// Status returns TimerRunning or TimerIdle.
func (t *Timer) Status() TimerStatus {
	if t.IsRunning() {
		return TimerRunning
	}
	return TimerIdle
}

// CurrentDuration returns how long the current run has lasted at now.
func (t *Timer) CurrentDuration(now time.Time) (time.Duration, error) {
	if t.CurrentStart == nil {
		return 0, errclass.ErrNoTimerRunning
	}
	d := now.Sub(*t.CurrentStart)
	if d < 0 {
		return 0, nil
	}
	return d, nil
}

// Elapsed is CurrentDuration with idle timers reported as zero.
func (t *Timer) Elapsed(now time.Time) time.Duration {
	d, _ := t.CurrentDuration(now)
	return d
}
