// Package logging provides structured JSON logging for surf components.
//
// Each log record is a single JSON line carrying the timestamp, level,
// message, component, and the caller's file:line. Records are appended to a
// session-specific file under ~/.surf/logs/ which rotates by size with
// numbered backups. Loggers are constructed explicitly and passed down so
// tests can substitute a capturing sink via NewWithWriter.
package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	// maxLogSize is the rotation threshold for a single log file.
	maxLogSize = 10 * 1024 * 1024

	// maxBackups is how many rotated files are kept before the oldest
	// is discarded.
	maxBackups = 5
)

// Logger writes structured JSON log records for a single component.
//
// All log methods (Debugf, Infof, Warnf, Errorf) write unconditionally.
// There is currently no log level filtering.
type Logger struct {
	sessionID string
	component string
	file      *os.File
	sink      io.Writer
	size      int64
	mu        sync.Mutex
	logPath   string
	closeOnce sync.Once
}

// entry is the on-disk shape of a single log record.
type entry struct {
	Timestamp string `json:"timestamp"`
	Level     string `json:"level"`
	Message   string `json:"message"`
	Component string `json:"component"`
	Source    string `json:"source"`
}

var (
	// Global session ID for the current execution
	sessionID     string
	sessionIDOnce sync.Once

	// logDir is the directory where log files are stored
	logDir string

	// initOnce ensures directory initialization happens once
	initOnce sync.Once

	// initErr stores any error from directory initialization
	initErr error
)

// getSessionID returns or creates the session ID for this execution
func getSessionID() string {
	sessionIDOnce.Do(func() {
		sessionID = uuid.New().String()
	})
	return sessionID
}

// initLogDirectory ensures the log directory exists
func initLogDirectory() error {
	initOnce.Do(func() {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			initErr = fmt.Errorf("failed to get home directory: %w", err)
			return
		}

		logDir = filepath.Join(homeDir, ".surf", "logs")
		if err := os.MkdirAll(logDir, 0750); err != nil {
			initErr = fmt.Errorf("failed to create log directory: %w", err)
			return
		}
	})
	return initErr
}

// New creates a logger for a specific component, writing to
// ~/.surf/logs/<session-id>-surf.log.
//
// If the log directory cannot be created or the log file cannot be opened,
// it returns a fallback logger that writes to stderr along with the error.
// Callers can check the error to detect fallback mode.
func New(component string) (*Logger, error) {
	if err := initLogDirectory(); err != nil {
		return newFallbackLogger(component), err
	}

	sessID := getSessionID()
	logPath := filepath.Join(logDir, fmt.Sprintf("%s-surf.log", sessID))

	// Open in append mode: multiple components share one session file.
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return newFallbackLogger(component), fmt.Errorf("failed to open log file: %w", err)
	}

	size := int64(0)
	if info, statErr := file.Stat(); statErr == nil {
		size = info.Size()
	}

	return &Logger{
		sessionID: sessID,
		component: component,
		file:      file,
		sink:      file,
		size:      size,
		logPath:   logPath,
	}, nil
}

// NewWithWriter creates a logger that writes records to the given writer
// instead of a file. Rotation is disabled. Intended for tests.
func NewWithWriter(component string, w io.Writer) *Logger {
	return &Logger{
		sessionID: getSessionID(),
		component: component,
		sink:      w,
	}
}

// newFallbackLogger creates a logger that writes to stderr when file
// logging fails.
func newFallbackLogger(component string) *Logger {
	return &Logger{
		sessionID: getSessionID(),
		component: component,
		sink:      os.Stderr,
	}
}

// log writes one JSON record. callerSkip is the number of frames between
// the original log call and this function.
func (l *Logger) log(level, message string, callerSkip int) {
	source := ""
	if _, file, line, ok := runtime.Caller(callerSkip); ok {
		source = fmt.Sprintf("%s:%d", filepath.Base(file), line)
	}

	rec := entry{
		Timestamp: time.Now().Format(time.RFC3339Nano),
		Level:     level,
		Message:   message,
		Component: l.component,
		Source:    source,
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return
	}
	data = append(data, '\n')

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file != nil && l.size+int64(len(data)) > maxLogSize {
		l.rotate()
	}

	n, _ := l.sink.Write(data)
	l.size += int64(n)
}

// rotate renames the current file to a numbered backup and reopens a fresh
// one. Backups shift up by one; the oldest beyond maxBackups is removed.
// Called with l.mu held.
func (l *Logger) rotate() {
	l.file.Close()

	oldest := fmt.Sprintf("%s.%d", l.logPath, maxBackups)
	os.Remove(oldest)
	for i := maxBackups - 1; i >= 1; i-- {
		src := fmt.Sprintf("%s.%d", l.logPath, i)
		dst := fmt.Sprintf("%s.%d", l.logPath, i+1)
		os.Rename(src, dst)
	}
	os.Rename(l.logPath, l.logPath+".1")

	file, err := os.OpenFile(l.logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		// Can't reopen: fall back to stderr rather than dropping records.
		l.file = nil
		l.sink = os.Stderr
		l.size = 0
		return
	}
	l.file = file
	l.sink = file
	l.size = 0
}

// Debugf logs a debug-level message
func (l *Logger) Debugf(format string, v ...interface{}) {
	l.log("DEBUG", fmt.Sprintf(format, v...), 2)
}

// Infof logs an info-level message
func (l *Logger) Infof(format string, v ...interface{}) {
	l.log("INFO", fmt.Sprintf(format, v...), 2)
}

// Warnf logs a warning-level message
func (l *Logger) Warnf(format string, v ...interface{}) {
	l.log("WARN", fmt.Sprintf(format, v...), 2)
}

// Errorf logs an error-level message
func (l *Logger) Errorf(format string, v ...interface{}) {
	l.log("ERROR", fmt.Sprintf(format, v...), 2)
}

// SessionID returns the current session ID
func (l *Logger) SessionID() string {
	return l.sessionID
}

// LogPath returns the path to the log file
func (l *Logger) LogPath() string {
	return l.logPath
}

// Close closes the log file. Safe to call multiple times.
func (l *Logger) Close() error {
	var err error
	l.closeOnce.Do(func() {
		if l.file != nil {
			err = l.file.Close()
		}
	})
	return err
}

// GetSessionID returns the current global session ID
func GetSessionID() string {
	return getSessionID()
}
