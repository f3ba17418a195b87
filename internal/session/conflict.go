// internal/session/conflict.go
package session

import (
	"os"

	"easy/internal/hash"
	shared "easy/shared/types"
)

// Classify compares the fingerprint recorded at save time against current
// disk state. Entries without an original fingerprint were new files at
// save time and have nothing to conflict with. Unnamed entries have no
// disk counterpart and must not be passed here.
func Classify(entry shared.FileEntry, abs string) shared.Conflict {
	if entry.OriginalHash == "" {
		return shared.ConflictNone
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		return shared.ConflictDeleted
	}
	if hash.Fingerprint(data) == entry.OriginalHash {
		return shared.ConflictNone
	}
	return shared.ConflictModified
}

// FileStatus pairs a manifest entry with its restore-time classification.
type FileStatus struct {
	Entry shared.FileEntry
	State shared.Conflict
}

// Status classifies every tracked file without restoring anything.
// Unnamed entries always report none.
func (s *Session) Status() []FileStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg := s.store.Read(s.root)
	statuses := make([]FileStatus, 0, len(cfg.Files))
	for _, entry := range cfg.Files {
		state := shared.ConflictNone
		if !entry.IsUnnamed {
			state = Classify(entry, s.absPath(entry.Path))
		}
		statuses = append(statuses, FileStatus{Entry: entry, State: state})
	}
	return statuses
}
