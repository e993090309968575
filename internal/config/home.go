package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// StateDirName is the hidden directory under the root that holds config,
// logs, the history database and the run lock
const StateDirName = ".aggregate"

// ResolveRoot returns the directory containing the running executable along
// with the executable's own path, both with symlinks resolved.
func ResolveRoot() (root string, self string, err error) {
	exe, err := os.Executable()
	if err != nil {
		return "", "", fmt.Errorf("locate executable: %w", err)
	}

	self, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return "", "", fmt.Errorf("resolve executable path: %w", err)
	}

	return filepath.Dir(self), self, nil
}

// StateDir returns the state directory for root without creating it
func StateDir(root string) string {
	return filepath.Join(root, StateDirName)
}

// EnsureStateDir returns the state directory for root, creating it if needed
func EnsureStateDir(root string) (string, error) {
	dir := StateDir(root)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create state directory: %w", err)
	}
	return dir, nil
}
