package fsutil

import (
	"io/fs"
	"path/filepath"
	"strings"
)

// Dirs returns rootPath and every directory below it, skipping hidden ones.
func Dirs(rootPath string) ([]string, error) {
	var dirs []string
	err := filepath.WalkDir(rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != rootPath && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		dirs = append(dirs, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dirs, nil
}
