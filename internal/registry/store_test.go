package registry

import (
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()

	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil // Disable logging for tests

	db, err := badger.Open(opts)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewStore(db)
}

func TestTouchAndList(t *testing.T) {
	store := setupTestStore(t)

	require.NoError(t, store.Touch("/home/u/projects/alpha"))
	time.Sleep(2 * time.Millisecond)
	require.NoError(t, store.Touch("/home/u/projects/beta"))

	projects, err := store.List()
	require.NoError(t, err)
	require.Len(t, projects, 2)
	assert.Equal(t, "/home/u/projects/beta", projects[0].Root, "most recently opened comes first")
	assert.Equal(t, "/home/u/projects/alpha", projects[1].Root)

	// Re-opening an old project moves it to the front.
	time.Sleep(2 * time.Millisecond)
	require.NoError(t, store.Touch("/home/u/projects/alpha"))
	projects, err = store.List()
	require.NoError(t, err)
	require.Len(t, projects, 2)
	assert.Equal(t, "/home/u/projects/alpha", projects[0].Root)
}

func TestRemove(t *testing.T) {
	store := setupTestStore(t)

	require.NoError(t, store.Touch("/p/one"))
	require.NoError(t, store.Touch("/p/two"))
	require.NoError(t, store.Remove("/p/one"))

	projects, err := store.List()
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, "/p/two", projects[0].Root)

	// Removing an unknown project is not an error.
	assert.NoError(t, store.Remove("/p/never-added"))
}

func TestListEmpty(t *testing.T) {
	store := setupTestStore(t)
	projects, err := store.List()
	require.NoError(t, err)
	assert.Empty(t, projects)
}
