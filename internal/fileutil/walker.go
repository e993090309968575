package fileutil

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// WalkOptions configures the pruning behavior of Walk
type WalkOptions struct {
	// ExcludeDirs is a list of directory names pruned wherever they appear (e.g., ".git", "bin")
	ExcludeDirs []string
	// SkipPaths is a list of absolute directory paths pruned by location
	SkipPaths []string
}

// WalkFunc is called for every non-directory entry that survives pruning.
// Returning an error stops the walk and the error is returned from Walk.
type WalkFunc func(path string, d fs.DirEntry) error

// Walk traverses root depth-first in lexical order. Excluded directories are
// pruned before descent, so nothing beneath them is ever visited. Unlike a
// tolerant scan, the first access error aborts the walk.
func Walk(root string, opts WalkOptions, fn WalkFunc) error {
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("failed to access directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("path is not a directory: %s", root)
	}

	excludeMap := make(map[string]bool, len(opts.ExcludeDirs))
	for _, name := range opts.ExcludeDirs {
		excludeMap[name] = true
	}

	skipMap := make(map[string]bool, len(opts.SkipPaths))
	for _, p := range opts.SkipPaths {
		skipMap[filepath.Clean(p)] = true
	}

	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("error accessing %s: %w", path, err)
		}

		if d.IsDir() {
			if path == root {
				return nil
			}
			if excludeMap[d.Name()] || skipMap[filepath.Clean(path)] {
				return filepath.SkipDir
			}
			return nil
		}

		return fn(path, d)
	})
}

// IsWithin reports whether path lies strictly beneath parent.
// Both paths are cleaned; no symlinks are resolved.
func IsWithin(parent, path string) bool {
	rel, err := filepath.Rel(filepath.Clean(parent), filepath.Clean(path))
	if err != nil {
		return false
	}
	if rel == "." || rel == ".." {
		return false
	}
	return !filepath.IsAbs(rel) && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
