package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/harrison/filesaggregate/internal/aggregator"
	"github.com/harrison/filesaggregate/internal/config"
	"github.com/harrison/filesaggregate/internal/display"
	"github.com/harrison/filesaggregate/internal/filelock"
	"github.com/harrison/filesaggregate/internal/history"
	"github.com/harrison/filesaggregate/internal/logger"
	"github.com/harrison/filesaggregate/internal/models"
)

// runOptions carries everything a single aggregation needs from the CLI
type runOptions struct {
	Root      string
	SelfPath  string
	Out       io.Writer
	ErrOut    io.Writer
	LogLevel  *string
	NoHistory *bool
}

// runAggregate loads configuration, takes the run lock, performs the
// aggregation and records it. Any filesystem error ends the run.
func runAggregate(ctx context.Context, opts runOptions) error {
	stateDir, err := config.EnsureStateDir(opts.Root)
	if err != nil {
		return err
	}

	cfg, err := config.LoadConfigFromDir(stateDir)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg.MergeWithFlags(opts.LogLevel, opts.NoHistory)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	cfg.ResolvePaths(stateDir)

	lock, err := filelock.AcquireRunLock(stateDir)
	if err != nil {
		if errors.Is(err, filelock.ErrLocked) {
			display.WarnRunLocked(filepath.Join(stateDir, filelock.RunLockName)).Display(opts.ErrOut)
		}
		return err
	}
	defer lock.Unlock()

	console := logger.NewConsoleLogger(opts.Out, opts.ErrOut, cfg.LogLevel)
	var log logger.Logger = console
	if cfg.FileLog {
		fileLog, err := logger.NewFileLogger(cfg.LogDir, cfg.LogLevel)
		if err != nil {
			return err
		}
		defer fileLog.Close()
		log = logger.NewMultiLogger(console, fileLog)
		console.LogDebug(fmt.Sprintf("Run log: %s", fileLog.RunFile()))
	}

	aggOpts := aggregator.DefaultOptions(opts.Root, opts.SelfPath)
	aggOpts.SkipPaths = []string{stateDir}

	log.LogInfo(fmt.Sprintf("Aggregating %s into %s", aggOpts.Root, aggOpts.Destination))
	log.LogDebug(fmt.Sprintf("Excluded directories: %v", aggOpts.ExcludedDirs))
	log.LogDebug(fmt.Sprintf("Included extensions: %v", aggOpts.IncludedExtensions))

	result, runErr := aggregator.Aggregate(ctx, aggOpts, aggregator.ReporterFunc(func(record models.CopyRecord) {
		log.LogCopy(record)
	}))

	if runErr != nil {
		log.LogError(runErr.Error())
	}
	log.LogSummary(result)

	if cfg.History.Enabled {
		if err := recordHistory(cfg, result, log); err != nil {
			if runErr == nil {
				return err
			}
			log.LogError(err.Error())
		}
	}

	if runErr != nil {
		return runErr
	}

	if len(result.Copied) == 0 {
		display.WarnNothingCopied(result.Root, aggOpts.IncludedExtensions).Display(opts.ErrOut)
	}

	return nil
}

// recordHistory writes the run to the history database and prunes old runs.
// It uses a fresh context so an interrupted run is still recorded.
func recordHistory(cfg *config.Config, result *models.RunResult, log logger.Logger) error {
	store, err := history.NewStore(cfg.History.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.RecordRun(ctx, result); err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}

	removed, err := store.PruneRuns(ctx, cfg.History.KeepRuns)
	if err != nil {
		return fmt.Errorf("failed to prune history: %w", err)
	}
	if removed > 0 {
		log.LogDebug(fmt.Sprintf("Pruned %d old runs from history", removed))
	}
	return nil
}
