// internal/session/watch.go
package session

import (
	"context"
	"fmt"
	"path/filepath"

	shared "easy/shared/types"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DriftEvent reports that a tracked file's on-disk content no longer
// matches the state it would restore against.
type DriftEvent struct {
	Path  string
	State shared.Conflict
}

// Watch re-classifies tracked files whenever they change on disk and
// emits an event for every transition. Parent directories are watched
// rather than the files themselves so editors that replace files on save
// are still seen. The channel closes when ctx is done.
func (s *Session) Watch(ctx context.Context) (<-chan DriftEvent, error) {
	cfg := s.store.Read(s.root)

	tracked := make(map[string]shared.FileEntry)
	dirs := make(map[string]bool)
	for _, entry := range cfg.Files {
		if entry.IsUnnamed || entry.OriginalHash == "" {
			continue
		}
		abs := s.absPath(entry.Path)
		tracked[abs] = entry
		dirs[filepath.Dir(abs)] = true
	}
	if len(tracked) == 0 {
		return nil, fmt.Errorf("no tracked files with disk baselines")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			watcher.Close()
			return nil, fmt.Errorf("watching %s: %w", dir, err)
		}
	}

	events := make(chan DriftEvent)
	go func() {
		defer close(events)
		defer watcher.Close()

		last := make(map[string]shared.Conflict)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				entry, isTracked := tracked[ev.Name]
				if !isTracked {
					continue
				}
				state := Classify(entry, ev.Name)
				if state == last[ev.Name] {
					continue
				}
				last[ev.Name] = state
				select {
				case events <- DriftEvent{Path: entry.Path, State: state}:
				case <-ctx.Done():
					return
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				s.logger.Warn("watcher error", zap.Error(err))
			}
		}
	}()

	return events, nil
}
