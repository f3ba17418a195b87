// internal/session/snapshot.go
package session

import (
	"os"

	"easy/internal/diff"
	"easy/internal/hash"
	shared "easy/shared/types"

	"go.uber.org/zap"
)

// Save snapshots the surface's open documents into the project's
// persisted record, writing diff and content blobs for modified ones.
// Per-document failures degrade to a less detailed entry; only a config
// write failure is returned, and callers may treat even that as non-fatal
// and continue without persisted state.
func (s *Session) Save(surface DocumentSurface, ui shared.UI) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	files := make([]shared.FileEntry, 0)
	ids := make(map[string]string)

	for _, doc := range surface.Documents() {
		if doc.Unnamed {
			if entry, ok := s.snapshotUnnamed(doc); ok {
				files = append(files, entry)
				ids[doc.ID] = entry.Path
			}
			continue
		}

		rel, ok := s.relPath(doc.Path)
		if !ok {
			continue
		}

		if !doc.Modified {
			files = append(files, shared.FileEntry{Path: rel})
			ids[doc.ID] = rel
			continue
		}

		files = append(files, s.snapshotModified(doc, rel))
		ids[doc.ID] = rel
	}

	cfg := &shared.ProjectConfig{
		Files:      files,
		ActiveFile: ids[surface.ActiveID()],
		UI:         ui,
	}

	if err := s.store.Write(s.root, cfg); err != nil {
		return err
	}

	s.logger.Debug("session saved",
		zap.String("root", s.root),
		zap.Int("files", len(files)))
	return nil
}

// snapshotUnnamed stashes a scratch document as a full content blob.
// Empty scratch documents carry no restorable value and are dropped.
func (s *Session) snapshotUnnamed(doc DocumentInfo) (shared.FileEntry, bool) {
	if len(doc.Lines) == 0 || (len(doc.Lines) == 1 && doc.Lines[0] == "") {
		return shared.FileEntry{}, false
	}

	key, err := s.blobs.PutContent(diff.JoinLines(doc.Lines))
	if err != nil {
		s.logger.Warn("failed to stash unnamed document",
			zap.Error(err))
		return shared.FileEntry{}, false
	}

	return shared.FileEntry{
		Path:        shared.UnnamedID(key),
		IsUnnamed:   true,
		Modified:    true,
		ContentHash: key,
	}, true
}

// snapshotModified stashes a named document's unsaved edits as a diff
// against current disk content, or an empty baseline when the file does
// not exist on disk yet. When the diff cannot be computed or stored the
// entry stays in the manifest with modified set but no diff fields, so
// the file is not lost from the session.
func (s *Session) snapshotModified(doc DocumentInfo, rel string) shared.FileEntry {
	entry := shared.FileEntry{Path: rel, Modified: true}

	var oldLines []string
	disk, err := os.ReadFile(doc.Path)
	switch {
	case err == nil:
		oldLines = diff.SplitLines(disk)
		entry.OriginalHash = hash.Fingerprint(disk)
	case os.IsNotExist(err):
		// New file: empty baseline, nothing to conflict with later.
	default:
		s.logger.Warn("failed to read disk baseline",
			zap.String("path", rel),
			zap.Error(err))
		return entry
	}

	diffText, err := s.engine.Compute(oldLines, doc.Lines)
	if err != nil {
		s.logger.Warn("failed to compute diff",
			zap.String("path", rel),
			zap.Error(err))
		entry.OriginalHash = ""
		return entry
	}

	key := hash.PathKey(rel)
	if err := s.blobs.PutDiff(key, []byte(diffText)); err != nil {
		s.logger.Warn("failed to write diff blob",
			zap.String("path", rel),
			zap.Error(err))
		entry.OriginalHash = ""
		return entry
	}

	entry.DiffHash = key
	return entry
}
