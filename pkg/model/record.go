package model

import "time"

// TimerRecord is one completed interval of a timer. It is never modified
// after it has been appended to a timer's log.
type TimerRecord struct {
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
	Comment string    `json:"comment"`
}

// NewTimerRecord creates a record for the interval [start, end].
func NewTimerRecord(start, end time.Time, comment string) TimerRecord {
	return TimerRecord{Start: start, End: end, Comment: comment}
}

// Duration returns end - start, or zero if the record ends before it starts.
func (r TimerRecord) Duration() time.Duration {
	d := r.End.Sub(r.Start)
	if d < 0 {
		return 0
	}
	return d
}
