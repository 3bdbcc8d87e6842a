package model

import "time"

// EventType identifies a committed timer mutation.
type EventType string

const (
	EventTimerCreate   EventType = "timer_create"
	EventTimerStart    EventType = "timer_start"
	EventTimerStop     EventType = "timer_stop"
	EventTimerAbort    EventType = "timer_abort"
	EventTimerReset    EventType = "timer_reset"
	EventTimerRemove   EventType = "timer_remove"
	EventTimerActivate EventType = "timer_activate"
)

// JournalEvent is a single line in the journal (JSONL format).
type JournalEvent struct {
	ID         string         `json:"id"`
	Timestamp  time.Time      `json:"timestamp"`
	EventType  EventType      `json:"event_type"`
	Timer      string         `json:"timer"`
	Details    map[string]any `json:"details,omitempty"`
	PrevHash   HashValue      `json:"prev_hash"`
	RecordHash HashValue      `json:"record_hash"`
}
