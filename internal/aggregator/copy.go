package aggregator

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/harrison/filesaggregate/internal/fileutil"
	"github.com/harrison/filesaggregate/internal/models"
	"gopkg.in/djherbis/times.v1"
)

// CollisionName returns the i-th alternative for a file name that already
// exists in the destination: "<stem>_<i><ext>". ext is the matched suffix,
// so "App.xaml.cs" becomes "App_1.xaml.cs".
func CollisionName(name, ext string, i int) string {
	return fmt.Sprintf("%s_%d%s", fileutil.SplitSuffix(name, ext), i, ext)
}

// copyIntoDestination copies src into dest under name, falling back to
// numbered names until one is free.
func copyIntoDestination(src, dest, name, ext string) (models.CopyRecord, error) {
	info, err := os.Stat(src)
	if err != nil {
		return models.CopyRecord{}, fmt.Errorf("failed to stat %s: %w", src, err)
	}

	candidate := filepath.Join(dest, name)
	for i := 1; ; i++ {
		if _, err := os.Lstat(candidate); err == nil {
			candidate = filepath.Join(dest, CollisionName(name, ext, i))
			continue
		} else if !errors.Is(err, fs.ErrNotExist) {
			return models.CopyRecord{}, fmt.Errorf("failed to check %s: %w", candidate, err)
		}

		err := CopyFile(src, candidate, info)
		if errors.Is(err, fs.ErrExist) {
			// created by someone else since the Lstat
			candidate = filepath.Join(dest, CollisionName(name, ext, i))
			continue
		}
		if err != nil {
			return models.CopyRecord{}, err
		}

		return models.CopyRecord{
			Source:      src,
			Destination: candidate,
			Size:        info.Size(),
			Renamed:     i > 1,
		}, nil
	}
}

// CopyFile copies the contents of src to dst, then applies the permission
// bits and access/modification times of src. dst must not exist; if it does
// the returned error satisfies errors.Is(err, fs.ErrExist). A failed copy
// removes the partial dst.
func CopyFile(src, dst string, info os.FileInfo) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm()|0200)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}
	defer func() {
		if out != nil {
			out.Close()
			os.Remove(dst)
		}
	}()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("failed to copy %s to %s: %w", src, dst, err)
	}

	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", dst, err)
	}
	out = nil

	if err := os.Chmod(dst, info.Mode().Perm()); err != nil {
		return fmt.Errorf("failed to set permissions on %s: %w", dst, err)
	}

	ts, err := times.Stat(src)
	if err != nil {
		return fmt.Errorf("failed to read times of %s: %w", src, err)
	}
	if err := os.Chtimes(dst, ts.AccessTime(), ts.ModTime()); err != nil {
		return fmt.Errorf("failed to set times on %s: %w", dst, err)
	}

	return nil
}
