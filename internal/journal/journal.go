// Package journal keeps an append-only, hash-chained JSONL log of
// committed timer mutations.
package journal

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/mtt-project/mtt/pkg/errclass"
	"github.com/mtt-project/mtt/pkg/jsonutil"
	"github.com/mtt-project/mtt/pkg/model"
)

const maxLine = 1 << 20

// Journal appends events to a JSONL file.
type Journal struct {
	path string
	mu   sync.Mutex
	now  func() time.Time
}

// New creates a journal backed by path. The file is created on first append.
func New(path string) *Journal {
	return &Journal{path: path, now: time.Now}
}

// Path returns the journal file path.
func (j *Journal) Path() string {
	return j.path
}

// Append adds an event chained to the previous one.
func (j *Journal) Append(eventType model.EventType, timer string, details map[string]any) (*model.JournalEvent, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(j.path), 0755); err != nil {
		return nil, fmt.Errorf("create journal dir: %w", err)
	}

	file, err := os.OpenFile(j.path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	defer file.Close()

	if err := lockFile(file); err != nil {
		return nil, fmt.Errorf("flock journal: %w", err)
	}
	defer unlockFile(file)

	prevHash, err := lastHash(file)
	if err != nil {
		return nil, err
	}

	event := &model.JournalEvent{
		ID:        uuid.NewString(),
		Timestamp: j.now().UTC(),
		EventType: eventType,
		Timer:     timer,
		Details:   details,
		PrevHash:  prevHash,
	}
	hash, err := computeHash(event)
	if err != nil {
		return nil, err
	}
	event.RecordHash = hash

	line, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("marshal journal event: %w", err)
	}
	if _, err := file.Seek(0, io.SeekEnd); err != nil {
		return nil, fmt.Errorf("seek journal: %w", err)
	}
	if _, err := file.Write(append(line, '\n')); err != nil {
		return nil, fmt.Errorf("write journal: %w", err)
	}
	if err := file.Sync(); err != nil {
		return nil, fmt.Errorf("sync journal: %w", err)
	}
	return event, nil
}

// Filter narrows Read results.
type Filter struct {
	// Timer keeps only events for this timer when non-empty.
	Timer string
	// Limit keeps only the last N matching events when positive.
	Limit int
}

// Read returns events in append order. Malformed lines are skipped.
func (j *Journal) Read(filter Filter) ([]model.JournalEvent, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	var events []model.JournalEvent
	err := j.scan(func(_ int, event *model.JournalEvent, err error) error {
		if err != nil {
			return nil
		}
		if filter.Timer != "" && event.Timer != filter.Timer {
			return nil
		}
		events = append(events, *event)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if filter.Limit > 0 && len(events) > filter.Limit {
		events = events[len(events)-filter.Limit:]
	}
	return events, nil
}

// Verify recomputes the hash chain and returns the number of valid events.
func (j *Journal) Verify() (int, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	var (
		count int
		prev  model.HashValue
	)
	err := j.scan(func(lineNo int, event *model.JournalEvent, err error) error {
		if err != nil {
			return errclass.ErrJournalChainBroken.WithMessagef("line %d: %v", lineNo, err)
		}
		if event.PrevHash != prev {
			return errclass.ErrJournalChainBroken.WithMessagef("line %d: prev_hash does not match preceding event", lineNo)
		}
		want, err := computeHash(event)
		if err != nil {
			return err
		}
		if want != event.RecordHash {
			return errclass.ErrJournalChainBroken.WithMessagef("line %d: record_hash mismatch", lineNo)
		}
		prev = event.RecordHash
		count++
		return nil
	})
	return count, err
}

func (j *Journal) scan(fn func(lineNo int, event *model.JournalEvent, err error) error) error {
	file, err := os.Open(j.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("open journal: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLine)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		event, err := decodeEvent(line)
		if err := fn(lineNo, event, err); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scan journal: %w", err)
	}
	return nil
}

// decodeEvent keeps numbers in details as json.Number so hashes recompute
// byte-for-byte.
func decodeEvent(line []byte) (*model.JournalEvent, error) {
	dec := json.NewDecoder(bytes.NewReader(line))
	dec.UseNumber()
	var event model.JournalEvent
	if err := dec.Decode(&event); err != nil {
		return nil, err
	}
	return &event, nil
}

func lastHash(file *os.File) (model.HashValue, error) {
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("seek journal: %w", err)
	}

	var last model.HashValue
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLine)
	for scanner.Scan() {
		event, err := decodeEvent(scanner.Bytes())
		if err != nil {
			continue
		}
		last = event.RecordHash
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("scan journal: %w", err)
	}
	return last, nil
}

// hashedEvent is JournalEvent without record_hash.
type hashedEvent struct {
	ID        string          `json:"id"`
	Timestamp time.Time       `json:"timestamp"`
	EventType model.EventType `json:"event_type"`
	Timer     string          `json:"timer"`
	Details   map[string]any  `json:"details,omitempty"`
	PrevHash  model.HashValue `json:"prev_hash"`
}

func computeHash(event *model.JournalEvent) (model.HashValue, error) {
	h, err := jsonutil.CanonicalHash(hashedEvent{
		ID:        event.ID,
		Timestamp: event.Timestamp,
		EventType: event.EventType,
		Timer:     event.Timer,
		Details:   event.Details,
		PrevHash:  event.PrevHash,
	})
	if err != nil {
		return "", fmt.Errorf("hash journal event: %w", err)
	}
	return model.HashValue(h), nil
}
