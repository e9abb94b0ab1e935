package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveKeepsExtensionAndContent(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalFileStore(dir)
	require.NoError(t, err)

	path, err := store.Save(strings.NewReader("png bytes"), "kite.png")
	require.NoError(t, err)
	assert.Equal(t, ".png", filepath.Ext(path))
	assert.Equal(t, dir, filepath.Dir(path))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "png bytes", string(content))
}

func TestSaveGeneratesDistinctNames(t *testing.T) {
	store, err := NewLocalFileStore(t.TempDir())
	require.NoError(t, err)

	first, err := store.Save(strings.NewReader("a"), "same.jpg")
	require.NoError(t, err)
	second, err := store.Save(strings.NewReader("b"), "same.jpg")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestSaveIgnoresPathTraversalInName(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalFileStore(dir)
	require.NoError(t, err)

	path, err := store.Save(strings.NewReader("x"), "../../etc/passwd")
	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(path))
}
