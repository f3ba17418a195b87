package config

import (
	"os"
	"path/filepath"
	"testing"

	shared "easy/shared/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupStore(t *testing.T) (*Store, string) {
	t.Helper()
	return NewStore(zap.NewNop()), t.TempDir()
}

func sampleConfig() *shared.ProjectConfig {
	return &shared.ProjectConfig{
		Files: []shared.FileEntry{
			{Path: "src/a.lua"},
			{
				Path:         "src/b.lua",
				Modified:     true,
				DiffHash:     "abc123def456",
				OriginalHash: "ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff",
			},
		},
		ActiveFile: "src/b.lua",
		UI:         shared.UI{ExplorerOpen: true, ExplorerWidth: 32},
	}
}

func TestReadMissing(t *testing.T) {
	store, root := setupStore(t)

	cfg := store.Read(root)
	require.NotNil(t, cfg)
	assert.Empty(t, cfg.Files)
	assert.Empty(t, cfg.ActiveFile)
}

func TestWriteReadRoundTrip(t *testing.T) {
	store, root := setupStore(t)
	cfg := sampleConfig()

	require.NoError(t, store.Write(root, cfg))
	got := store.Read(root)
	assert.Equal(t, cfg, got)

	// Blob directory is created alongside the config.
	info, err := os.Stat(BlobDir(root))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestWriteDeterministic(t *testing.T) {
	store, root := setupStore(t)
	cfg := sampleConfig()

	require.NoError(t, store.Write(root, cfg))
	first, err := os.ReadFile(Path(root))
	require.NoError(t, err)

	require.NoError(t, store.Write(root, store.Read(root)))
	second, err := os.ReadFile(Path(root))
	require.NoError(t, err)

	assert.Equal(t, first, second, "unchanged config must serialize byte-identically")
}

func TestReadCorrupt(t *testing.T) {
	store, root := setupStore(t)
	require.NoError(t, os.MkdirAll(Dir(root), 0755))
	require.NoError(t, os.WriteFile(Path(root), []byte("{not json"), 0644))

	cfg := store.Read(root)
	require.NotNil(t, cfg)
	assert.Empty(t, cfg.Files)
}

func TestNoTempFileLeftBehind(t *testing.T) {
	store, root := setupStore(t)
	require.NoError(t, store.Write(root, sampleConfig()))

	entries, err := os.ReadDir(Dir(root))
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{FileName, BlobDirName}, names)
}

func TestLegacyMigration(t *testing.T) {
	store, root := setupStore(t)
	legacy := filepath.Join(root, LegacyFileName)
	legacyBytes := []byte(`{"files":[{"path":"old.lua","is_unnamed":false,"modified":false}],"ui":{"explorer_open":false}}`)
	require.NoError(t, os.WriteFile(legacy, legacyBytes, 0644))

	cfg := store.Read(root)
	require.Len(t, cfg.Files, 1)
	assert.Equal(t, "old.lua", cfg.Files[0].Path)

	// Bytes moved verbatim, legacy file removed.
	moved, err := os.ReadFile(Path(root))
	require.NoError(t, err)
	assert.Equal(t, legacyBytes, moved)
	_, err = os.Stat(legacy)
	assert.True(t, os.IsNotExist(err))

	// Re-reading after migration is a no-op.
	again := store.Read(root)
	assert.Equal(t, cfg, again)
}

func TestLegacyIgnoredWhenNewExists(t *testing.T) {
	store, root := setupStore(t)
	require.NoError(t, store.Write(root, sampleConfig()))
	require.NoError(t, os.WriteFile(filepath.Join(root, LegacyFileName), []byte(`{"files":[]}`), 0644))

	cfg := store.Read(root)
	assert.Len(t, cfg.Files, 2, "existing config must win over a stray legacy file")
}
