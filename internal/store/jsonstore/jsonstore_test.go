package jsonstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDir_GetMissingKey(t *testing.T) {
	d := New(filepath.Join(t.TempDir(), "not-created-yet"))

	b, ok, err := d.Get("items")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, b)
}

func TestDir_SetThenGet(t *testing.T) {
	base := t.TempDir()
	d := New(filepath.Join(base, "data"))

	require.NoError(t, d.Set("items", []byte(`[{"id":"a"}]`)))

	b, ok, err := d.Get("items")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `[{"id":"a"}]`, string(b))

	// On disk as <dir>/<key>.json
	raw, err := os.ReadFile(filepath.Join(base, "data", "items.json"))
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"a"}]`, string(raw))
}

func TestDir_SetOverwritesAndLeavesNoTempFiles(t *testing.T) {
	base := t.TempDir()
	d := New(base)

	require.NoError(t, d.Set("items", []byte("first, and longer")))
	require.NoError(t, d.Set("items", []byte("second")))

	b, ok, err := d.Get("items")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "second", string(b))

	entries, err := os.ReadDir(base)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "items.json", entries[0].Name())
}

func TestDir_InvalidKeys(t *testing.T) {
	d := New(t.TempDir())

	for _, key := range []string{"", ".", "..", "a/b", `a\b`} {
		_, _, err := d.Get(key)
		assert.ErrorIs(t, err, ErrInvalidKey, "Get(%q)", key)

		err = d.Set(key, []byte("x"))
		assert.ErrorIs(t, err, ErrInvalidKey, "Set(%q)", key)
	}
}

func TestDir_SeparateKeys(t *testing.T) {
	d := New(t.TempDir())

	require.NoError(t, d.Set("items", []byte("1")))
	require.NoError(t, d.Set("archive", []byte("2")))

	a, _, err := d.Get("items")
	require.NoError(t, err)
	b, _, err := d.Get("archive")
	require.NoError(t, err)
	assert.Equal(t, "1", string(a))
	assert.Equal(t, "2", string(b))
}
