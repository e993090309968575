// Package aggregator flattens a directory tree into a single destination
// directory by copying every file whose name ends in an included suffix.
package aggregator

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/harrison/filesaggregate/internal/fileutil"
	"github.com/harrison/filesaggregate/internal/models"
)

// DestinationDirName is the fixed name of the aggregation folder under the root
const DestinationDirName = "FilesAggregate"

// DefaultExcludedDirs are directory names pruned from every traversal.
var DefaultExcludedDirs = []string{
	".git",
	".vs",
	"bin",
	"obj",
	"Debug",
	"Release",
	"packages",
	"Migrations",
	"SmartAttachments",
}

// DefaultIncludedExtensions are the file suffixes eligible for copying.
// ".xaml.cs" is a compound suffix and is matched as a whole.
var DefaultIncludedExtensions = []string{
	".xaml",
	".xaml.cs",
	".cs",
	".html",
	".cshtml",
	".css",
	".js",
	".mrt",
	".json",
}

// Options configures a single aggregation run
type Options struct {
	// Root is the directory to traverse
	Root string
	// Destination is the flat output directory, created if missing
	Destination string
	// SelfPath is the running program's own file, never copied
	SelfPath string
	// SkipPaths are extra directories pruned by location (e.g., the state directory)
	SkipPaths []string
	// ExcludedDirs are directory names pruned wherever they appear
	ExcludedDirs []string
	// IncludedExtensions are the suffixes a file name must end with to be copied
	IncludedExtensions []string
}

// DefaultOptions returns Options for root with the built-in exclusion and
// inclusion sets and the destination at root/FilesAggregate.
func DefaultOptions(root, selfPath string) Options {
	return Options{
		Root:               root,
		Destination:        filepath.Join(root, DestinationDirName),
		SelfPath:           selfPath,
		ExcludedDirs:       append([]string(nil), DefaultExcludedDirs...),
		IncludedExtensions: append([]string(nil), DefaultIncludedExtensions...),
	}
}

// Reporter receives a notification after every successful copy
type Reporter interface {
	OnCopy(record models.CopyRecord)
}

// ReporterFunc adapts a function to the Reporter interface
type ReporterFunc func(record models.CopyRecord)

// OnCopy calls f(record).
func (f ReporterFunc) OnCopy(record models.CopyRecord) {
	f(record)
}

// Aggregate walks opts.Root and copies every matching file into
// opts.Destination. It stops at the first filesystem error; files copied
// before the failure stay in place and are listed in the returned result,
// which is non-nil even when err is not.
func Aggregate(ctx context.Context, opts Options, reporter Reporter) (*models.RunResult, error) {
	start := time.Now()
	result := &models.RunResult{
		RunID:     uuid.NewString(),
		StartedAt: start,
		Copied:    make([]models.CopyRecord, 0),
	}

	finish := func(err error) (*models.RunResult, error) {
		result.Duration = time.Since(start)
		switch {
		case err == nil:
			result.Status = models.RunCompleted
		case ctx.Err() != nil:
			result.Status = models.RunInterrupted
		default:
			result.Status = models.RunFailed
		}
		result.Err = err
		return result, err
	}

	root, err := filepath.Abs(opts.Root)
	if err != nil {
		return finish(fmt.Errorf("failed to resolve root %s: %w", opts.Root, err))
	}
	dest, err := filepath.Abs(opts.Destination)
	if err != nil {
		return finish(fmt.Errorf("failed to resolve destination %s: %w", opts.Destination, err))
	}
	result.Root = root
	result.Destination = dest

	var self string
	if opts.SelfPath != "" {
		if self, err = filepath.Abs(opts.SelfPath); err != nil {
			return finish(fmt.Errorf("failed to resolve program path %s: %w", opts.SelfPath, err))
		}
	}

	if info, err := os.Stat(root); err != nil {
		return finish(fmt.Errorf("failed to stat root %s: %w", root, err))
	} else if !info.IsDir() {
		return finish(fmt.Errorf("root %s is not a directory", root))
	}

	if err := os.MkdirAll(dest, 0755); err != nil {
		return finish(fmt.Errorf("failed to create destination directory: %w", err))
	}

	walkOpts := fileutil.WalkOptions{
		ExcludeDirs: opts.ExcludedDirs,
		SkipPaths:   append([]string{dest}, opts.SkipPaths...),
	}

	err = fileutil.Walk(root, walkOpts, func(path string, d fs.DirEntry) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		link := d.Type()&fs.ModeSymlink != 0
		if !d.Type().IsRegular() && !link {
			return nil
		}

		result.Scanned++

		if path == self || fileutil.IsWithin(dest, path) {
			result.Skipped++
			return nil
		}

		ext, ok := fileutil.MatchSuffix(d.Name(), opts.IncludedExtensions)
		if !ok {
			result.Skipped++
			return nil
		}

		// Links to files are copied under the link's name with the target's
		// content; links to directories are never followed.
		if link {
			info, err := os.Stat(path)
			if err != nil {
				return fmt.Errorf("failed to follow link %s: %w", path, err)
			}
			if !info.Mode().IsRegular() {
				result.Skipped++
				return nil
			}
		}

		record, err := copyIntoDestination(path, dest, d.Name(), ext)
		if err != nil {
			return err
		}

		result.Copied = append(result.Copied, record)
		if reporter != nil {
			reporter.OnCopy(record)
		}
		return nil
	})

	return finish(err)
}
