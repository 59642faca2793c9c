package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"sync"
	"testing"
)

// setupTestDir creates a temporary directory for test logs and resets global state
func setupTestDir(t *testing.T) (cleanup func()) {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "surf-logging-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}

	// Save original state
	origLogDir := logDir
	origInitErr := initErr
	origSessionID := sessionID

	// Reset global state
	logDir = tempDir
	initErr = nil
	initOnce = sync.Once{}
	sessionID = ""
	sessionIDOnce = sync.Once{}

	return func() {
		logDir = origLogDir
		initErr = origInitErr
		initOnce = sync.Once{}
		sessionID = origSessionID
		sessionIDOnce = sync.Once{}

		os.RemoveAll(tempDir)
	}
}

func TestNew(t *testing.T) {
	cleanup := setupTestDir(t)
	defer cleanup()

	logger, err := New("test-component")
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Close()

	if logger.component != "test-component" {
		t.Errorf("Expected component 'test-component', got %q", logger.component)
	}

	if logger.sessionID == "" {
		t.Error("Expected non-empty session ID")
	}

	if logger.logPath == "" {
		t.Error("Expected non-empty log path")
	}

	if _, err := os.Stat(logger.logPath); os.IsNotExist(err) {
		t.Errorf("Log file does not exist at %s", logger.logPath)
	}
}

func TestRecordShape(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter("intake", &buf)

	logger.Infof("received %d mentions", 2)

	var rec map[string]string
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("Record is not valid JSON: %v", err)
	}

	if rec["level"] != "INFO" {
		t.Errorf("Expected level INFO, got %q", rec["level"])
	}
	if rec["message"] != "received 2 mentions" {
		t.Errorf("Unexpected message: %q", rec["message"])
	}
	if rec["component"] != "intake" {
		t.Errorf("Unexpected component: %q", rec["component"])
	}
	if rec["timestamp"] == "" {
		t.Error("Expected non-empty timestamp")
	}
	if !strings.Contains(rec["source"], "logger_test.go:") {
		t.Errorf("Expected source to name this test file, got %q", rec["source"])
	}
}

func TestLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter("test", &buf)

	logger.Debugf("d")
	logger.Infof("i")
	logger.Warnf("w")
	logger.Errorf("e")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("Expected 4 records, got %d", len(lines))
	}

	want := []string{"DEBUG", "INFO", "WARN", "ERROR"}
	for i, line := range lines {
		var rec map[string]string
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			t.Fatalf("Record %d is not valid JSON: %v", i, err)
		}
		if rec["level"] != want[i] {
			t.Errorf("Record %d: expected level %s, got %q", i, want[i], rec["level"])
		}
	}
}

func TestMultipleComponentsShareFile(t *testing.T) {
	cleanup := setupTestDir(t)
	defer cleanup()

	first, err := New("first")
	if err != nil {
		t.Fatalf("Failed to create first logger: %v", err)
	}
	defer first.Close()

	second, err := New("second")
	if err != nil {
		t.Fatalf("Failed to create second logger: %v", err)
	}
	defer second.Close()

	if first.logPath != second.logPath {
		t.Errorf("Expected shared log file, got %q and %q", first.logPath, second.logPath)
	}

	first.Infof("from first")
	second.Infof("from second")

	data, err := os.ReadFile(first.logPath)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}

	content := string(data)
	if !strings.Contains(content, "from first") || !strings.Contains(content, "from second") {
		t.Errorf("Expected both records in shared file, got: %s", content)
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	cleanup := setupTestDir(t)
	defer cleanup()

	logger, err := New("test")
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}

	if err := logger.Close(); err != nil {
		t.Errorf("First close failed: %v", err)
	}
	if err := logger.Close(); err != nil {
		t.Errorf("Second close failed: %v", err)
	}
}

func TestRotation(t *testing.T) {
	cleanup := setupTestDir(t)
	defer cleanup()

	logger, err := New("test")
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Close()

	// Force the next write over the threshold.
	logger.size = maxLogSize

	logger.Infof("after rotation")

	if _, err := os.Stat(logger.logPath + ".1"); err != nil {
		t.Errorf("Expected rotated backup to exist: %v", err)
	}

	data, err := os.ReadFile(logger.logPath)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	if !strings.Contains(string(data), "after rotation") {
		t.Errorf("Expected fresh file to hold the new record, got: %s", data)
	}
}
