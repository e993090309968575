package cmd

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/harrison/filesaggregate/internal/config"
	"github.com/harrison/filesaggregate/internal/filelock"
	"github.com/harrison/filesaggregate/internal/history"
	"github.com/harrison/filesaggregate/internal/logger"
	"github.com/harrison/filesaggregate/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
}

func listDest(t *testing.T, root string) []string {
	t.Helper()
	entries, err := os.ReadDir(filepath.Join(root, "FilesAggregate"))
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestRunAggregateScenario(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"a/x.cs":      "x",
		"a/.git/y.cs": "y",
		"b.txt":       "b",
	})

	var out, errOut bytes.Buffer
	err := runAggregate(context.Background(), runOptions{Root: root, Out: &out, ErrOut: &errOut})
	require.NoError(t, err)

	want := "Copied: " + filepath.Join(root, "a", "x.cs") + " -> " + filepath.Join(root, "FilesAggregate", "x.cs") + "\n"
	assert.Equal(t, want, out.String())
	assert.Equal(t, []string{"x.cs"}, listDest(t, root))

	assert.Contains(t, errOut.String(), "=== Aggregation Summary ===")
	assert.FileExists(t, filepath.Join(root, config.StateDirName, "history.db"))
	assert.FileExists(t, filepath.Join(root, config.StateDirName, "logs", "latest.log"))
}

func TestRunAggregateCollisionAcrossRuns(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"p/m.cs": "p",
		"q/m.cs": "q",
	})

	noHistory := true
	opts := runOptions{Root: root, Out: &bytes.Buffer{}, ErrOut: &bytes.Buffer{}, NoHistory: &noHistory}

	require.NoError(t, runAggregate(context.Background(), opts))
	assert.ElementsMatch(t, []string{"m.cs", "m_1.cs"}, listDest(t, root))

	require.NoError(t, runAggregate(context.Background(), opts))
	assert.ElementsMatch(t, []string{"m.cs", "m_1.cs", "m_2.cs", "m_3.cs"}, listDest(t, root))

	assert.NoFileExists(t, filepath.Join(root, config.StateDirName, "history.db"))
}

func TestRunAggregateSkipsSelfAndStateDir(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"tool.js":                   "self",
		"site/app.js":               "app",
		".aggregate/extra/keep.json": "{}",
	})

	var out bytes.Buffer
	err := runAggregate(context.Background(), runOptions{
		Root:     root,
		SelfPath: filepath.Join(root, "tool.js"),
		Out:      &out,
		ErrOut:   &bytes.Buffer{},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"app.js"}, listDest(t, root))
	assert.Equal(t, 1, strings.Count(out.String(), "Copied: "))
}

func TestRunAggregateNothingCopied(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{"notes.txt": "n"})

	var out, errOut bytes.Buffer
	require.NoError(t, runAggregate(context.Background(), runOptions{Root: root, Out: &out, ErrOut: &errOut}))

	assert.Empty(t, out.String())
	assert.Contains(t, errOut.String(), "No files were copied")
}

func TestRunAggregateLocked(t *testing.T) {
	root := t.TempDir()
	stateDir, err := config.EnsureStateDir(root)
	require.NoError(t, err)

	held, err := filelock.AcquireRunLock(stateDir)
	require.NoError(t, err)
	defer held.Unlock()

	var errOut bytes.Buffer
	err = runAggregate(context.Background(), runOptions{Root: root, Out: &bytes.Buffer{}, ErrOut: &errOut})
	require.ErrorIs(t, err, filelock.ErrLocked)
	assert.Contains(t, errOut.String(), "Another aggregation is already running")

	_, statErr := os.Stat(filepath.Join(root, "FilesAggregate"))
	assert.True(t, os.IsNotExist(statErr), "destination must not be created while locked")
}

func TestRunAggregateInvalidConfig(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{".aggregate/config.yaml": "log_level: loud\n"})

	err := runAggregate(context.Background(), runOptions{Root: root, Out: &bytes.Buffer{}, ErrOut: &bytes.Buffer{}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")

	level := "debug"
	err = runAggregate(context.Background(), runOptions{Root: root, Out: &bytes.Buffer{}, ErrOut: &bytes.Buffer{}, LogLevel: &level})
	require.NoError(t, err, "flag overrides the bad config value")
}

func TestRunAggregateFailureRecorded(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("root ignores file permissions")
	}

	root := t.TempDir()
	writeFiles(t, root, map[string]string{"a.cs": "a", "b.cs": "b"})
	bad := filepath.Join(root, "b.cs")
	require.NoError(t, os.Chmod(bad, 0000))
	t.Cleanup(func() { os.Chmod(bad, 0644) })

	var errOut bytes.Buffer
	err := runAggregate(context.Background(), runOptions{Root: root, Out: &bytes.Buffer{}, ErrOut: &errOut})
	require.Error(t, err)
	assert.Contains(t, errOut.String(), "[ERROR]")

	store, err := history.NewStore(filepath.Join(root, config.StateDirName, "history.db"))
	require.NoError(t, err)
	defer store.Close()

	runs, err := store.ListRuns(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, models.RunFailed, runs[0].Status)
	assert.Equal(t, 1, runs[0].Copied)
	assert.Contains(t, runs[0].ErrorMessage, "b.cs")
}

func TestRecordHistoryPrunesOldRuns(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.History.DBPath = filepath.Join(t.TempDir(), "history.db")
	cfg.History.KeepRuns = 2

	for i := 0; i < 3; i++ {
		result := &models.RunResult{
			RunID:     fmt.Sprintf("run-%d", i),
			Root:      "/src",
			StartedAt: time.Date(2026, 1, 1, 0, i, 0, 0, time.UTC),
			Status:    models.RunCompleted,
		}
		require.NoError(t, recordHistory(cfg, result, logger.NewNoOpLogger()))
	}

	store, err := history.NewStore(cfg.History.DBPath)
	require.NoError(t, err)
	defer store.Close()

	runs, err := store.ListRuns(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-2", runs[0].ID)
	assert.Equal(t, "run-1", runs[1].ID)
}
