// Package logger provides logging implementations for aggregation runs.
//
// Every logger writes levelled diagnostics ([HH:MM:SS] [LEVEL] message),
// one line per copied file, and an end-of-run summary. Implementations are
// thread-safe and write to the console, a per-run log file, or both.
package logger

import (
	"fmt"
	"strings"
	"time"

	"github.com/harrison/filesaggregate/internal/models"
)

// Log level constants for filtering
const (
	levelTrace int = 0
	levelDebug int = 1
	levelInfo  int = 2
	levelWarn  int = 3
	levelError int = 4
)

// Logger is the interface the CLI drives during a run
type Logger interface {
	LogTrace(message string)
	LogDebug(message string)
	LogInfo(message string)
	LogWarn(message string)
	LogError(message string)
	LogCopy(record models.CopyRecord)
	LogSummary(result *models.RunResult)
}

// normalizeLogLevel converts a log level string to lowercase and validates it.
// Returns "info" as default for empty or invalid levels.
func normalizeLogLevel(level string) string {
	normalized := strings.ToLower(strings.TrimSpace(level))

	switch normalized {
	case "trace", "debug", "info", "warn", "error":
		return normalized
	}

	return "info"
}

// logLevelToInt converts a log level string to its numeric value.
func logLevelToInt(level string) int {
	switch level {
	case "trace":
		return levelTrace
	case "debug":
		return levelDebug
	case "info":
		return levelInfo
	case "warn":
		return levelWarn
	case "error":
		return levelError
	default:
		return levelInfo
	}
}

// shouldLog reports whether messageLevel passes the configured level.
func shouldLog(configured, messageLevel string) bool {
	return logLevelToInt(messageLevel) >= logLevelToInt(configured)
}

// timestamp returns the current time formatted as "15:04:05" (HH:MM:SS).
func timestamp() string {
	return time.Now().Format("15:04:05")
}

// formatCopy renders the line printed for every copied file.
func formatCopy(record models.CopyRecord) string {
	return fmt.Sprintf("Copied: %s -> %s", record.Source, record.Destination)
}

// summaryLines renders the end-of-run summary without timestamps.
func summaryLines(result *models.RunResult) []string {
	lines := []string{
		"=== Aggregation Summary ===",
		fmt.Sprintf("Run: %s", result.RunID),
		fmt.Sprintf("Destination: %s", result.Destination),
		fmt.Sprintf("Scanned: %d", result.Scanned),
		fmt.Sprintf("Copied: %d (%s, %d renamed)", len(result.Copied), formatBytes(result.BytesCopied()), result.RenamedCount()),
		fmt.Sprintf("Skipped: %d", result.Skipped),
		fmt.Sprintf("Duration: %s", formatDuration(result.Duration)),
		fmt.Sprintf("Status: %s", result.Status),
	}
	if result.Err != nil {
		lines = append(lines, fmt.Sprintf("Error: %v", result.Err))
	}
	return lines
}

// formatDuration converts a time.Duration to a human-readable string.
// Examples: "250ms", "5s", "1m30s", "2h15m"
func formatDuration(d time.Duration) string {
	switch {
	case d >= time.Hour:
		hours := d / time.Hour
		remainder := d % time.Hour
		if remainder == 0 {
			return fmt.Sprintf("%dh", hours)
		}
		minutes := remainder / time.Minute
		remainder = remainder % time.Minute
		if remainder < time.Second {
			return fmt.Sprintf("%dh%dm", hours, minutes)
		}
		seconds := remainder / time.Second
		return fmt.Sprintf("%dh%dm%ds", hours, minutes, seconds)
	case d >= time.Minute:
		minutes := d / time.Minute
		remainder := d % time.Minute
		if remainder < time.Second {
			return fmt.Sprintf("%dm", minutes)
		}
		seconds := remainder / time.Second
		return fmt.Sprintf("%dm%ds", minutes, seconds)
	case d >= time.Second:
		return fmt.Sprintf("%ds", int64(d.Seconds()))
	default:
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
}

// formatBytes renders a byte count with a binary unit.
func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.2f %cB", float64(n)/float64(div), "KMGTPE"[exp])
}

// MultiLogger fans every call out to a list of loggers.
type MultiLogger struct {
	loggers []Logger
}

// NewMultiLogger creates a MultiLogger. Nil entries are dropped.
func NewMultiLogger(loggers ...Logger) *MultiLogger {
	m := &MultiLogger{}
	for _, l := range loggers {
		if l != nil {
			m.loggers = append(m.loggers, l)
		}
	}
	return m
}

// LogTrace forwards to every logger.
func (m *MultiLogger) LogTrace(message string) {
	for _, l := range m.loggers {
		l.LogTrace(message)
	}
}

// LogDebug forwards to every logger.
func (m *MultiLogger) LogDebug(message string) {
	for _, l := range m.loggers {
		l.LogDebug(message)
	}
}

// LogInfo forwards to every logger.
func (m *MultiLogger) LogInfo(message string) {
	for _, l := range m.loggers {
		l.LogInfo(message)
	}
}

// LogWarn forwards to every logger.
func (m *MultiLogger) LogWarn(message string) {
	for _, l := range m.loggers {
		l.LogWarn(message)
	}
}

// LogError forwards to every logger.
func (m *MultiLogger) LogError(message string) {
	for _, l := range m.loggers {
		l.LogError(message)
	}
}

// LogCopy forwards to every logger.
func (m *MultiLogger) LogCopy(record models.CopyRecord) {
	for _, l := range m.loggers {
		l.LogCopy(record)
	}
}

// LogSummary forwards to every logger.
func (m *MultiLogger) LogSummary(result *models.RunResult) {
	for _, l := range m.loggers {
		l.LogSummary(result)
	}
}

// NoOpLogger is a Logger implementation that discards all log messages.
// Useful for testing or when logging is disabled.
type NoOpLogger struct{}

// NewNoOpLogger creates a NoOpLogger instance.
func NewNoOpLogger() *NoOpLogger {
	return &NoOpLogger{}
}

func (n *NoOpLogger) LogTrace(message string)             {}
func (n *NoOpLogger) LogDebug(message string)             {}
func (n *NoOpLogger) LogInfo(message string)              {}
func (n *NoOpLogger) LogWarn(message string)              {}
func (n *NoOpLogger) LogError(message string)             {}
func (n *NoOpLogger) LogCopy(record models.CopyRecord)    {}
func (n *NoOpLogger) LogSummary(result *models.RunResult) {}
