package models

import "time"

// RunStatus is the terminal state of an aggregation run
type RunStatus string

const (
	// RunCompleted means the traversal was exhausted without error
	RunCompleted RunStatus = "completed"
	// RunFailed means a filesystem error aborted the traversal
	RunFailed RunStatus = "failed"
	// RunInterrupted means the run was cancelled before the traversal finished
	RunInterrupted RunStatus = "interrupted"
)

// CopyRecord describes one file copied into the destination directory
type CopyRecord struct {
	Source      string
	Destination string
	Size        int64
	// Renamed is true when the destination name carries a _N collision suffix
	Renamed bool
}

// RunResult aggregates everything observed during one aggregation run
type RunResult struct {
	RunID       string
	Root        string
	Destination string
	Copied      []CopyRecord
	// Scanned counts regular files visited outside pruned directories
	Scanned int
	// Skipped counts visited files that were not copied
	Skipped   int
	StartedAt time.Time
	Duration  time.Duration
	Status    RunStatus
	Err       error
}

// RenamedCount returns how many copies needed a collision suffix
func (r *RunResult) RenamedCount() int {
	n := 0
	for _, c := range r.Copied {
		if c.Renamed {
			n++
		}
	}
	return n
}

// BytesCopied returns the total size of all copied files
func (r *RunResult) BytesCopied() int64 {
	var total int64
	for _, c := range r.Copied {
		total += c.Size
	}
	return total
}
