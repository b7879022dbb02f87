// Package fsutil locates source files on disk.
package fsutil

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// FindFilesByExtension returns every file under root whose name ends with
// extension, sorted by path. A root that is itself a regular file is
// returned as the only result regardless of its extension, so an explicitly
// named file is never silently skipped.
func FindFilesByExtension(root string, extension string) ([]string, error) {
	if extension == "" {
		panic("extension must not be empty")
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{root}, nil
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), extension) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.Sort(files)
	return files, nil
}

// CollectFiles expands each of paths with FindFilesByExtension and returns
// the union in argument order, without duplicates.
func CollectFiles(paths []string, extension string) ([]string, error) {
	seen := make(map[string]struct{})
	var out []string
	for _, p := range paths {
		files, err := FindFilesByExtension(p, extension)
		if err != nil {
			return nil, fmt.Errorf("searching %s: %w", p, err)
		}
		for _, f := range files {
			clean := filepath.Clean(f)
			if _, dup := seen[clean]; dup {
				continue
			}
			seen[clean] = struct{}{}
			out = append(out, clean)
		}
	}
	return out, nil
}
