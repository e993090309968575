package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/harrison/filesaggregate/internal/models"
	"github.com/mattn/go-isatty"
)

// ConsoleLogger writes copy lines to one writer (normally stdout) and
// timestamped diagnostics and the run summary to another (normally stderr).
// Copy lines are the tool's output and are never filtered by level.
// Color output is enabled per writer when it is a terminal.
type ConsoleLogger struct {
	out       io.Writer
	diag      io.Writer
	logLevel  string
	mutex     sync.Mutex
	outColor  bool
	diagColor bool
}

// NewConsoleLogger creates a ConsoleLogger. If a writer is nil, messages for
// it are silently discarded. logLevel determines the minimum level for
// diagnostic messages; empty or invalid values default to "info".
func NewConsoleLogger(out, diag io.Writer, logLevel string) *ConsoleLogger {
	return &ConsoleLogger{
		out:       out,
		diag:      diag,
		logLevel:  normalizeLogLevel(logLevel),
		outColor:  isTerminal(out),
		diagColor: isTerminal(diag),
	}
}

// isTerminal checks if the writer is a terminal that supports colors.
// Respects NO_COLOR through fatih/color.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok || f == nil {
		return false
	}
	if color.NoColor {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// LogTrace logs a trace-level message (most verbose).
// Format: "[HH:MM:SS] [TRACE] <message>"
func (cl *ConsoleLogger) LogTrace(message string) {
	cl.logWithLevel("TRACE", message)
}

// LogDebug logs a debug-level message.
func (cl *ConsoleLogger) LogDebug(message string) {
	cl.logWithLevel("DEBUG", message)
}

// LogInfo logs an info-level message.
func (cl *ConsoleLogger) LogInfo(message string) {
	cl.logWithLevel("INFO", message)
}

// LogWarn logs a warning-level message.
func (cl *ConsoleLogger) LogWarn(message string) {
	cl.logWithLevel("WARN", message)
}

// LogError logs an error-level message.
func (cl *ConsoleLogger) LogError(message string) {
	cl.logWithLevel("ERROR", message)
}

func (cl *ConsoleLogger) logWithLevel(level string, message string) {
	if cl.diag == nil {
		return
	}

	if !shouldLog(cl.logLevel, strings.ToLower(level)) {
		return
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	ts := timestamp()
	var formatted string

	if cl.diagColor {
		formatted = fmt.Sprintf("[%s] [%s] %s\n", ts, colorLevel(level), message)
	} else {
		formatted = fmt.Sprintf("[%s] [%s] %s\n", ts, level, message)
	}

	cl.diag.Write([]byte(formatted))
}

// colorLevel wraps a level name in its ANSI color.
func colorLevel(level string) string {
	switch strings.ToUpper(level) {
	case "TRACE":
		return color.New(color.FgHiBlack).Sprint(level)
	case "DEBUG":
		return color.New(color.FgCyan).Sprint(level)
	case "INFO":
		return color.New(color.FgBlue).Sprint(level)
	case "WARN":
		return color.New(color.FgYellow).Sprint(level)
	case "ERROR":
		return color.New(color.FgRed).Sprint(level)
	default:
		return level
	}
}

// LogCopy prints one copied file.
// Format: "Copied: <source_path> -> <dest_path>"
func (cl *ConsoleLogger) LogCopy(record models.CopyRecord) {
	if cl.out == nil {
		return
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	var line string
	if cl.outColor {
		label := color.New(color.FgGreen).Sprint("Copied:")
		dest := record.Destination
		if record.Renamed {
			dest = color.New(color.FgYellow).Sprint(dest)
		}
		line = fmt.Sprintf("%s %s -> %s\n", label, record.Source, dest)
	} else {
		line = formatCopy(record) + "\n"
	}

	cl.out.Write([]byte(line))
}

// LogSummary logs the run summary at INFO level.
func (cl *ConsoleLogger) LogSummary(result *models.RunResult) {
	if cl.diag == nil || result == nil {
		return
	}

	if !shouldLog(cl.logLevel, "info") {
		return
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	ts := timestamp()
	lines := summaryLines(result)

	var output string
	for i, line := range lines {
		if cl.diagColor {
			switch {
			case i == 0:
				line = color.New(color.Bold).Sprint(line)
			case strings.HasPrefix(line, "Status:") && result.Status == models.RunCompleted:
				line = color.New(color.FgGreen).Sprint(line)
			case strings.HasPrefix(line, "Status:"), strings.HasPrefix(line, "Error:"):
				line = color.New(color.FgRed).Sprint(line)
			}
		}
		output += fmt.Sprintf("[%s] %s\n", ts, line)
	}

	cl.diag.Write([]byte(output))
}
