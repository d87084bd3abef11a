package source

import (
	"fmt"
	"os"
	"path/filepath"
)

// ReadDir lists the regular files directly inside dir, sorted by name.
// Subdirectories are not descended into.
func ReadDir(dir string) ([]File, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to stat folder: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s: %w", dir, ErrNotDirectory)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read folder: %w", err)
	}

	files := make([]File, 0, len(entries))
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		fi, err := entry.Info()
		if err != nil {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		files = append(files, &diskFile{
			path:    path,
			name:    entry.Name(),
			typ:     DetectType(path),
			size:    fi.Size(),
			modTime: fi.ModTime(),
		})
	}

	return files, nil
}
