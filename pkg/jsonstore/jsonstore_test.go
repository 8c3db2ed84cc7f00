package jsonstore_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/umbra/akane/pkg/jsonstore"
)

func TestStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefixes.json")

	s, err := jsonstore.Open(path)
	require.NoError(t, err)
	assert.Equal(t, 0, s.Len())

	err = s.Put("705500489248145459", []string{"a!", "A!", "hey "})
	require.NoError(t, err)

	var prefixes []string
	require.NoError(t, s.Get("705500489248145459", &prefixes))
	assert.Equal(t, []string{"a!", "A!", "hey "}, prefixes)

	// Reopen from disk and read it back
	reopened, err := jsonstore.Open(path)
	require.NoError(t, err)
	prefixes = nil
	require.NoError(t, reopened.Get("705500489248145459", &prefixes))
	assert.Equal(t, []string{"a!", "A!", "hey "}, prefixes)
}

func TestStoreRemove(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blacklist.json")

	s, err := jsonstore.Open(path)
	require.NoError(t, err)

	require.NoError(t, s.Put("123", true))
	assert.True(t, s.Contains("123"))

	require.NoError(t, s.Remove("123"))
	assert.False(t, s.Contains("123"))
	assert.ErrorIs(t, s.Remove("123"), jsonstore.ErrNotFound)
}

func TestStoreMissingKey(t *testing.T) {
	s, err := jsonstore.Open(filepath.Join(t.TempDir(), "x.json"))
	require.NoError(t, err)

	var out bool
	assert.ErrorIs(t, s.Get("nope", &out), jsonstore.ErrNotFound)
}

func TestStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := jsonstore.Open(path)
	assert.Error(t, err)
}
