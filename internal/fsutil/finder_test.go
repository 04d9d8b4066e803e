package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindFilesByExtension(t *testing.T) {
	root := t.TempDir()
	for _, p := range []string{"b.bst", "base/a.bst", "base/notes.txt", ".git/x.bst", "z/y/deep.bst"} {
		full := filepath.Join(root, filepath.FromSlash(p))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte("kind: manual\n"), 0o644))
	}

	files, err := FindFilesByExtension(root, ".bst")
	require.NoError(t, err)
	assert.Equal(t, []string{"b.bst", "base/a.bst", "z/y/deep.bst"}, files)
}

func TestFindFilesByExtension_MissingRoot(t *testing.T) {
	_, err := FindFilesByExtension(filepath.Join(t.TempDir(), "nope"), ".bst")
	assert.Error(t, err)
}

func TestFindFilesByExtension_EmptyExtensionPanics(t *testing.T) {
	assert.Panics(t, func() { _, _ = FindFilesByExtension(".", "") })
}

func TestDirs(t *testing.T) {
	root := t.TempDir()
	for _, d := range []string{"elements/base", ".git/objects", "kinds"} {
		require.NoError(t, os.MkdirAll(filepath.Join(root, filepath.FromSlash(d)), 0o755))
	}

	dirs, err := Dirs(root)
	require.NoError(t, err)
	assert.Equal(t, []string{
		root,
		filepath.Join(root, "elements"),
		filepath.Join(root, "elements", "base"),
		filepath.Join(root, "kinds"),
	}, dirs)
}
