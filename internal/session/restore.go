// internal/session/restore.go
package session

import (
	"context"
	"os"

	"easy/internal/diff"
	shared "easy/shared/types"

	"go.uber.org/zap"
)

// Restore replays the project's saved manifest onto the surface and
// returns how many documents were opened. Conflicted files suspend on the
// chooser before anything is applied. A missing blob, unreadable target,
// or diff that no longer applies skips that one entry; the operation
// itself never fails outright.
func (s *Session) Restore(ctx context.Context, surface DocumentSurface, chooser Chooser) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg := s.store.Read(s.root)
	if len(cfg.Files) == 0 {
		return 0, nil
	}

	// Classify named entries that have a stashed diff to apply. Everything
	// else either has no disk counterpart or will be opened verbatim, so
	// there is nothing to conflict with.
	states := make(map[string]shared.Conflict)
	var conflicts []ConflictItem
	for _, entry := range cfg.Files {
		if entry.IsUnnamed || !entry.Modified || entry.DiffHash == "" {
			continue
		}
		state := Classify(entry, s.absPath(entry.Path))
		states[entry.Path] = state
		if state != shared.ConflictNone {
			conflicts = append(conflicts, ConflictItem{Path: entry.Path, State: state})
		}
	}

	resolutions := make(map[string]shared.Resolution)
	if len(conflicts) > 0 {
		resolutions = Resolve(ctx, chooser, conflicts)
	}

	opened := 0
	ids := make(map[string]string)
	for _, entry := range cfg.Files {
		id, ok := s.restoreEntry(surface, entry, states, resolutions)
		if !ok {
			continue
		}
		opened++
		ids[entry.Path] = id
	}

	if cfg.ActiveFile != "" {
		if id, ok := ids[cfg.ActiveFile]; ok {
			if err := surface.Activate(id); err != nil {
				s.logger.Warn("failed to activate document",
					zap.String("file", cfg.ActiveFile),
					zap.Error(err))
			}
		}
	}

	s.logger.Debug("session restored",
		zap.String("root", s.root),
		zap.Int("opened", opened),
		zap.Int("conflicts", len(conflicts)))
	return opened, nil
}

func (s *Session) restoreEntry(surface DocumentSurface, entry shared.FileEntry,
	states map[string]shared.Conflict, resolutions map[string]shared.Resolution) (string, bool) {

	if entry.IsUnnamed {
		return s.restoreUnnamed(surface, entry)
	}

	abs := s.absPath(entry.Path)

	if !entry.Modified || entry.DiffHash == "" {
		id, err := surface.OpenFile(abs)
		if err != nil {
			s.logger.Warn("failed to open file",
				zap.String("path", entry.Path),
				zap.Error(err))
			return "", false
		}
		return id, true
	}

	resolution := shared.ResolveStashed
	if states[entry.Path] != shared.ConflictNone {
		resolution = resolutions[entry.Path]
	}

	switch resolution {
	case shared.ResolveSkip:
		return "", false
	case shared.ResolveDisk:
		id, err := surface.OpenFile(abs)
		if err != nil {
			s.logger.Warn("failed to open file",
				zap.String("path", entry.Path),
				zap.Error(err))
			return "", false
		}
		return id, true
	}

	return s.restoreStashed(surface, entry, abs)
}

// restoreStashed applies the stashed diff on top of current disk content
// and opens the result as an unsaved buffer.
func (s *Session) restoreStashed(surface DocumentSurface, entry shared.FileEntry, abs string) (string, bool) {
	diffText, err := s.blobs.GetDiff(entry.DiffHash)
	if err != nil {
		s.logger.Warn("missing diff blob",
			zap.String("path", entry.Path),
			zap.String("hash", entry.DiffHash),
			zap.Error(err))
		return "", false
	}

	var oldLines []string
	disk, err := os.ReadFile(abs)
	switch {
	case err == nil:
		oldLines = diff.SplitLines(disk)
	case os.IsNotExist(err):
		// File was new at save time; the diff targets an empty baseline.
	default:
		s.logger.Warn("failed to read file",
			zap.String("path", entry.Path),
			zap.Error(err))
		return "", false
	}

	lines, err := diff.Apply(oldLines, string(diffText))
	if err != nil {
		// Conflict detection should have screened out drifted baselines,
		// so this is unexpected for the file. Skip it, keep the batch.
		s.logger.Error("stashed diff no longer applies",
			zap.String("path", entry.Path),
			zap.Error(err))
		return "", false
	}

	id, err := surface.OpenFileWithLines(abs, lines)
	if err != nil {
		s.logger.Warn("failed to open restored document",
			zap.String("path", entry.Path),
			zap.Error(err))
		return "", false
	}
	return id, true
}

// restoreUnnamed materializes a scratch document from its content blob.
func (s *Session) restoreUnnamed(surface DocumentSurface, entry shared.FileEntry) (string, bool) {
	content, err := s.blobs.GetContent(entry.ContentHash)
	if err != nil {
		s.logger.Warn("missing content blob",
			zap.String("hash", entry.ContentHash),
			zap.Error(err))
		return "", false
	}

	id, err := surface.OpenBuffer(diff.SplitLines(content))
	if err != nil {
		s.logger.Warn("failed to open scratch document",
			zap.Error(err))
		return "", false
	}
	return id, true
}
