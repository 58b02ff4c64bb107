// Package logger provides structured logging and metrics tracking for league-stats.
//
// Logging is backed by zerolog. Entries carry a timestamp, a level, a message and
// arbitrary structured fields, and are written either as JSON lines or in a
// human-readable console format. Logs go to stderr by default so command output
// on stdout stays machine-readable.
//
// Metrics tracking includes counters and timings; timings are summarised with
// mean, median, 95th percentile and max when a snapshot is taken.
//
// Example usage:
//
//	logger.Info("Fetched page", logger.Fields{
//	    "league": "la-liga",
//	    "tables": 6,
//	})
//
//	logger.Error("Fetch failed", logger.Fields{
//	    "url": url,
//	}, err)
//
//	logger.IncrCounter("scrape.retry")
//	logger.RecordTiming("scrape.fetch", duration)
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	mstats "github.com/montanaflynn/stats"
	"github.com/rs/zerolog"
)

// Level represents log severity
type Level string

const (
	LevelDebug Level = "DEBUG"
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
)

// Format selects how entries are rendered
type Format string

const (
	FormatJSON    Format = "json"
	FormatConsole Format = "console"
)

// Fields represents structured log fields
type Fields map[string]interface{}

// Logger provides structured logging
type Logger struct {
	zl zerolog.Logger
}

var defaultLogger = New(LevelInfo, FormatConsole, os.Stderr)

// ParseLevel converts a config value such as "debug" into a Level
func ParseLevel(s string) (Level, error) {
	switch l := Level(strings.ToUpper(strings.TrimSpace(s))); l {
	case LevelDebug, LevelInfo, LevelWarn, LevelError:
		return l, nil
	default:
		return "", fmt.Errorf("invalid log level: %s (must be debug, info, warn or error)", s)
	}
}

// New creates a logger writing entries at or above level to output
func New(level Level, format Format, output io.Writer) *Logger {
	w := output
	if format == FormatConsole {
		w = zerolog.ConsoleWriter{Out: output, TimeFormat: time.RFC3339}
	}

	zl := zerolog.New(w).
		Level(toZerolog(level)).
		With().
		Timestamp().
		Logger()

	return &Logger{zl: zl}
}

// SetDefault sets the default package-level logger used by the convenience functions
// (Debug, Info, Warn, Error).
func SetDefault(logger *Logger) {
	defaultLogger = logger
}

func toZerolog(level Level) zerolog.Level {
	switch level {
	case LevelDebug:
		return zerolog.DebugLevel
	case LevelWarn:
		return zerolog.WarnLevel
	case LevelError:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// log writes a structured log entry
func (l *Logger) log(level Level, message string, fields Fields, err error) {
	ev := l.zl.WithLevel(toZerolog(level))
	if ev == nil {
		return
	}
	if len(fields) > 0 {
		ev = ev.Fields(map[string]interface{}(fields))
	}
	if err != nil {
		ev = ev.Err(err)
	}
	ev.Msg(message)
}

// Debug logs a debug message with optional structured fields.
func (l *Logger) Debug(message string, fields Fields) {
	l.log(LevelDebug, message, fields, nil)
}

// Info logs an informational message with optional structured fields.
func (l *Logger) Info(message string, fields Fields) {
	l.log(LevelInfo, message, fields, nil)
}

// Warn logs a warning message with optional structured fields.
func (l *Logger) Warn(message string, fields Fields) {
	l.log(LevelWarn, message, fields, nil)
}

// Error logs an error message with optional structured fields and an error object.
func (l *Logger) Error(message string, fields Fields, err error) {
	l.log(LevelError, message, fields, err)
}

// Package-level convenience functions using default logger

// Debug logs a debug message with the default logger
func Debug(message string, fields Fields) {
	defaultLogger.Debug(message, fields)
}

// Info logs an info message with the default logger
func Info(message string, fields Fields) {
	defaultLogger.Info(message, fields)
}

// Warn logs a warning message with the default logger
func Warn(message string, fields Fields) {
	defaultLogger.Warn(message, fields)
}

// Error logs an error message with the default logger
func Error(message string, fields Fields, err error) {
	defaultLogger.Error(message, fields, err)
}

// Metrics tracks counters and timings. All operations are thread-safe.
type Metrics struct {
	mu       sync.Mutex
	counters map[string]int64
	timings  map[string]mstats.Float64Data // nanoseconds
}

// TimingStats summarises the durations recorded under one name
type TimingStats struct {
	Count  int           `json:"count"`
	Total  time.Duration `json:"total"`
	Mean   time.Duration `json:"mean"`
	Median time.Duration `json:"median"`
	P95    time.Duration `json:"p95"`
	Max    time.Duration `json:"max"`
}

// Snapshot is a point-in-time copy of a Metrics tracker
type Snapshot struct {
	Counters map[string]int64       `json:"counters"`
	Timings  map[string]TimingStats `json:"timings"`
}

var defaultMetrics = NewMetrics()

// NewMetrics creates a new metrics tracker
func NewMetrics() *Metrics {
	return &Metrics{
		counters: make(map[string]int64),
		timings:  make(map[string]mstats.Float64Data),
	}
}

// IncrCounter increments a counter by 1
func (m *Metrics) IncrCounter(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters[name]++
}

// RecordTiming records a duration measurement
func (m *Metrics) RecordTiming(name string, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.timings[name] = append(m.timings[name], float64(duration))
}

// Snapshot copies the counters and aggregates every timing series
func (m *Metrics) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := Snapshot{
		Counters: make(map[string]int64, len(m.counters)),
		Timings:  make(map[string]TimingStats, len(m.timings)),
	}
	for name, v := range m.counters {
		snap.Counters[name] = v
	}
	for name, data := range m.timings {
		if st, ok := timingStats(data); ok {
			snap.Timings[name] = st
		}
	}
	return snap
}

func timingStats(data mstats.Float64Data) (TimingStats, bool) {
	if data.Len() == 0 {
		return TimingStats{}, false
	}

	// Inputs are non-empty, so these cannot fail.
	sum, _ := data.Sum()
	mean, _ := data.Mean()
	median, _ := data.Median()
	p95, _ := data.Percentile(95)
	max, _ := data.Max()

	return TimingStats{
		Count:  data.Len(),
		Total:  time.Duration(sum),
		Mean:   time.Duration(mean),
		Median: time.Duration(median),
		P95:    time.Duration(p95),
		Max:    time.Duration(max),
	}, true
}

// Fields flattens the snapshot for a log entry, e.g. "scrape.fetch.p95"
func (s Snapshot) Fields() Fields {
	fields := make(Fields, len(s.Counters)+len(s.Timings)*3)
	for name, v := range s.Counters {
		fields[name] = v
	}
	for name, st := range s.Timings {
		fields[name+".count"] = st.Count
		fields[name+".mean"] = st.Mean.String()
		fields[name+".p95"] = st.P95.String()
	}
	return fields
}

// IncrCounter increments a counter on the default metrics tracker.
func IncrCounter(name string) {
	defaultMetrics.IncrCounter(name)
}

// RecordTiming records a timing on the default metrics tracker.
func RecordTiming(name string, duration time.Duration) {
	defaultMetrics.RecordTiming(name, duration)
}

// MetricsSnapshot returns a snapshot of the default tracker.
func MetricsSnapshot() Snapshot {
	return defaultMetrics.Snapshot()
}
