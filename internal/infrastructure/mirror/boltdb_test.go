package mirror

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "nested", "mirror.db"), "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStore_EmptyGet(t *testing.T) {
	store := openTemp(t)

	_, _, ok, err := store.Get()
	require.NoError(t, err)
	assert.False(t, ok)

	ts, err := store.UpdatedAt()
	require.NoError(t, err)
	assert.True(t, ts.IsZero())
}

func TestStore_PutReplaces(t *testing.T) {
	store := openTemp(t)

	require.NoError(t, store.Put("site-data/data-1.json", []byte(`{"a":1}`)))
	require.NoError(t, store.Put("site-data/data-2.json", []byte(`{"a":2}`)))

	version, body, ok, err := store.Get()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "site-data/data-2.json", version)
	assert.JSONEq(t, `{"a":2}`, string(body))

	ts, err := store.UpdatedAt()
	require.NoError(t, err)
	assert.False(t, ts.IsZero())
}

func TestStore_ReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mirror.db")
	store, err := Open(path, "docs")
	require.NoError(t, err)
	require.NoError(t, store.Put("v1", []byte("body")))
	require.NoError(t, store.Close())

	reopened, err := Open(path, "docs")
	require.NoError(t, err)
	defer reopened.Close()

	version, body, ok, err := reopened.Get()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v1", version)
	assert.Equal(t, []byte("body"), body)
}

func TestStore_NilIsClosed(t *testing.T) {
	var store *Store
	assert.Error(t, store.Put("v", nil))
	_, _, _, err := store.Get()
	assert.Error(t, err)
	assert.NoError(t, store.Close())
}
