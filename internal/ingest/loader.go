package ingest

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"
)

// loadConcurrency bounds parallel disk reads when loading a batch.
const loadConcurrency = 8

// LoadFiles reads the given paths into pending files, preserving the input
// order. Reads run concurrently; any single read error fails the load.
func LoadFiles(paths []string) ([]PendingFile, error) {
	files := make([]PendingFile, len(paths))

	g := new(errgroup.Group)
	g.SetLimit(loadConcurrency)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			content, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}
			files[i] = NewPendingFile(filepath.Base(path), content)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return files, nil
}

// ListResumePaths walks a directory and returns the paths of all files with
// an allowed resume extension, sorted for a deterministic upload order.
// Hidden files and directories are skipped.
func ListResumePaths(dir string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if strings.HasPrefix(name, ".") && path != dir {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if _, ok := allowedExtensions[strings.ToLower(filepath.Ext(name))]; ok {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", dir, err)
	}
	sort.Strings(paths)
	return paths, nil
}
