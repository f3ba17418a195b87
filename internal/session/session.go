// internal/session/session.go
package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"easy/internal/blob"
	"easy/internal/config"
	"easy/internal/diff"
	shared "easy/shared/types"

	"go.uber.org/zap"
)

const diffContextLines = 3

// FindRoot searches upward from startDir for a directory that carries
// saved session state, either the state directory or a legacy root-level
// config.
func FindRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, config.DirName)); err == nil {
			return dir, nil
		}
		if _, err := os.Stat(filepath.Join(dir, config.LegacyFileName)); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", errors.New("no saved session found in this directory or any parent")
}

// Session is the explicit per-project context for snapshot and restore
// work. It replaces any ambient "currently loaded project" state: callers
// create one on switch-in and close it on switch-out. A mutex serializes
// snapshot and restore for the project; re-entrant restores are not
// supported.
type Session struct {
	root   string
	store  *config.Store
	blobs  *blob.Store
	engine *diff.Engine
	logger *zap.Logger
	mu     sync.Mutex
}

// New opens a session for the project at root, creating the blob
// directory if needed. Opening a session for a project that was never
// saved is valid and restores nothing.
func New(root string, logger *zap.Logger) (*Session, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving project root %s: %w", root, err)
	}

	blobs, err := blob.NewStore(config.BlobDir(absRoot))
	if err != nil {
		return nil, fmt.Errorf("opening blob store: %w", err)
	}

	return &Session{
		root:   absRoot,
		store:  config.NewStore(logger),
		blobs:  blobs,
		engine: diff.NewEngine(diffContextLines),
		logger: logger,
	}, nil
}

// Root returns the project's absolute root path.
func (s *Session) Root() string {
	return s.root
}

// Config loads the project's persisted record.
func (s *Session) Config() *shared.ProjectConfig {
	return s.store.Read(s.root)
}

// Close releases session resources.
func (s *Session) Close() {
	s.blobs.Close()
}

// relPath maps an absolute document path into the project, returning
// ok=false for paths outside the root. Out-of-project files are not
// tracked.
func (s *Session) relPath(absPath string) (string, bool) {
	rel, err := filepath.Rel(s.root, absPath)
	if err != nil {
		return "", false
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

// absPath resolves a manifest-relative path against the project root.
func (s *Session) absPath(relPath string) string {
	return filepath.Join(s.root, filepath.FromSlash(relPath))
}

// StashedContent is the reconstructed stashed version of a tracked entry.
// Diff is empty for unnamed entries, which stash full content.
type StashedContent struct {
	Diff  []byte
	Lines []string
}

// Stashed reconstructs the stashed edits for a manifest entry without
// touching any surface: the content blob for unnamed entries, the stored
// diff applied over current disk content for named ones.
func (s *Session) Stashed(entry shared.FileEntry) (*StashedContent, error) {
	if entry.IsUnnamed {
		content, err := s.blobs.GetContent(entry.ContentHash)
		if err != nil {
			return nil, fmt.Errorf("reading content blob for %s: %w", entry.Path, err)
		}
		return &StashedContent{Lines: diff.SplitLines(content)}, nil
	}

	diffText, err := s.blobs.GetDiff(entry.DiffHash)
	if err != nil {
		return nil, fmt.Errorf("reading diff blob for %s: %w", entry.Path, err)
	}

	var oldLines []string
	if disk, err := os.ReadFile(s.absPath(entry.Path)); err == nil {
		oldLines = diff.SplitLines(disk)
	}

	lines, err := diff.Apply(oldLines, string(diffText))
	if err != nil {
		return nil, fmt.Errorf("applying stashed diff for %s: %w", entry.Path, err)
	}
	return &StashedContent{Diff: diffText, Lines: lines}, nil
}

// Sweep removes content blobs no longer referenced by the manifest.
// Returns the number of blobs removed.
func (s *Session) Sweep() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	live := make(map[string]bool)
	for _, entry := range s.store.Read(s.root).Files {
		if entry.ContentHash != "" {
			live[entry.ContentHash] = true
		}
	}
	return s.blobs.Sweep(live)
}
