// internal/config/store.go
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	shared "easy/shared/types"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// DirName is the per-project state directory.
	DirName = ".easy"
	// FileName is the project config inside DirName.
	FileName = "easy.json"
	// BlobDirName holds diff and content blobs inside DirName.
	BlobDirName = "diffs"
	// LegacyFileName is the pre-directory single-file config at the
	// project root, migrated into DirName on first read.
	LegacyFileName = ".easy.json"
)

// Dir returns the state directory for a project root.
func Dir(root string) string {
	return filepath.Join(root, DirName)
}

// Path returns the config file path for a project root.
func Path(root string) string {
	return filepath.Join(root, DirName, FileName)
}

// BlobDir returns the blob directory for a project root.
func BlobDir(root string) string {
	return filepath.Join(root, DirName, BlobDirName)
}

// Store reads and writes per-project config records. Missing or corrupt
// records read as an empty config; there is nothing to restore in either
// case and neither is fatal.
type Store struct {
	logger *zap.Logger
}

func NewStore(logger *zap.Logger) *Store {
	return &Store{logger: logger}
}

// Read loads the project's persisted record, migrating a legacy
// single-file config first if one exists.
func (s *Store) Read(root string) *shared.ProjectConfig {
	s.migrate(root)

	cfg := &shared.ProjectConfig{}
	data, err := os.ReadFile(Path(root))
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("failed to read project config",
				zap.String("root", root),
				zap.Error(err))
		}
		return cfg
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		s.logger.Warn("ignoring corrupt project config",
			zap.String("root", root),
			zap.Error(err))
		return &shared.ProjectConfig{}
	}

	return cfg
}

// Write persists the record, creating the state and blob directories as
// needed. Serialization is deterministic: struct-driven key order and
// stable indentation, so unchanged records write byte-identical files.
// The record is written to a uniquely named temp file and renamed into
// place so a crash never leaves a truncated config.
func (s *Store) Write(root string, cfg *shared.ProjectConfig) error {
	if err := os.MkdirAll(BlobDir(root), 0755); err != nil {
		return fmt.Errorf("creating state directories: %w", err)
	}

	if cfg.Files == nil {
		cfg.Files = []shared.FileEntry{}
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling project config: %w", err)
	}
	data = append(data, '\n')

	target := Path(root)
	tmp := target + "." + uuid.New().String() + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("writing temp config: %w", err)
	}
	if err := os.Rename(tmp, target); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("renaming config into place: %w", err)
	}

	return nil
}

// migrate moves a legacy root-level config into the state directory. It
// runs before every read but only acts when the legacy file exists and
// the new location does not, so repeated calls are no-ops.
func (s *Store) migrate(root string) {
	legacy := filepath.Join(root, LegacyFileName)
	data, err := os.ReadFile(legacy)
	if err != nil {
		return
	}
	if _, err := os.Stat(Path(root)); err == nil {
		return
	}

	if err := os.MkdirAll(Dir(root), 0755); err != nil {
		s.logger.Warn("legacy config migration failed",
			zap.String("root", root),
			zap.Error(err))
		return
	}
	// Bytes are copied verbatim; the schema did not change, only the
	// location.
	if err := os.WriteFile(Path(root), data, 0644); err != nil {
		s.logger.Warn("legacy config migration failed",
			zap.String("root", root),
			zap.Error(err))
		return
	}
	if err := os.Remove(legacy); err != nil {
		s.logger.Warn("failed to remove legacy config",
			zap.String("root", root),
			zap.Error(err))
	}

	s.logger.Info("migrated legacy config",
		zap.String("root", root))
}
