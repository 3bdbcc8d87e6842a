package tui

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/mtt-project/mtt/pkg/logging"
)

// StateWatcher signals when the state file changes on disk.
type StateWatcher struct {
	path    string
	watcher *fsnotify.Watcher
	changes chan struct{}
}

// NewStateWatcher creates a watcher for the state file at path.
func NewStateWatcher(path string) (*StateWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		w.Close()
		return nil, fmt.Errorf("resolve state path: %w", err)
	}
	return &StateWatcher{
		path:    abs,
		watcher: w,
		changes: make(chan struct{}, 1),
	}, nil
}

// Start watches the state file's directory; atomic saves replace the file,
// so watching the file itself would lose track after the first rename.
func (sw *StateWatcher) Start(ctx context.Context) error {
	dir := filepath.Dir(sw.path)
	if err := sw.watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	go sw.loop(ctx)
	return nil
}

// Changes delivers at most one pending notification at a time.
func (sw *StateWatcher) Changes() <-chan struct{} {
	return sw.changes
}

// Close stops watching.
func (sw *StateWatcher) Close() error {
	return sw.watcher.Close()
}

func (sw *StateWatcher) loop(ctx context.Context) {
	name := filepath.Base(sw.path)
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-sw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != name {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) != 0 {
				logging.Debug("state file changed", map[string]any{"op": event.Op.String()})
				sw.notify()
			}
		case err, ok := <-sw.watcher.Errors:
			if !ok {
				return
			}
			logging.Warn("state watcher error", map[string]any{"error": err.Error()})
		}
	}
}

func (sw *StateWatcher) notify() {
	select {
	case sw.changes <- struct{}{}:
	default:
	}
}
