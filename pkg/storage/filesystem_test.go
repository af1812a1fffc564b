package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageSaveRelativeAndAbsolute(t *testing.T) {
	base := filepath.Join(t.TempDir(), "exports")
	store, err := NewLocalStorage(base)
	require.NoError(t, err)

	path, err := store.Save("nested/students.csv", []byte("id\n"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "nested", "students.csv"), path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "id\n", string(data))

	abs := filepath.Join(t.TempDir(), "out.csv")
	path, err = store.Save(abs, []byte("x"))
	require.NoError(t, err)
	assert.Equal(t, abs, path)

	_, err = store.Save("", nil)
	assert.Error(t, err)
}
