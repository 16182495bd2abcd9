package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	defaultLogName    = "tmx.log"
	defaultMaxSizeMB  = 5
	defaultMaxBackups = 3
	defaultMaxAgeDays = 14
)

var (
	mu           sync.Mutex
	traceEnabled bool
	logPath      = defaultLogPath()
	output       io.WriteCloser
)

// Error appends err to the shared log file.
func Error(err error) {
	if err == nil {
		return
	}
	write(fmt.Sprintf("%s ERROR %v\n", time.Now().Format(time.RFC3339), err))
}

// Warn appends a warning line to the shared log file.
func Warn(format string, args ...interface{}) {
	write(fmt.Sprintf("%s WARN %s\n", time.Now().Format(time.RFC3339), fmt.Sprintf(format, args...)))
}

// SetTraceEnabled toggles emission of structured trace entries.
func SetTraceEnabled(enabled bool) {
	mu.Lock()
	traceEnabled = enabled
	mu.Unlock()
}

// TraceEnabled reports whether trace entries are being written.
func TraceEnabled() bool {
	mu.Lock()
	defer mu.Unlock()
	return traceEnabled
}

// Trace appends a structured JSON entry to the shared log when tracing is enabled.
func Trace(event string, payload interface{}) {
	if !TraceEnabled() {
		return
	}

	entry := struct {
		Time    time.Time   `json:"time"`
		Event   string      `json:"event"`
		Payload interface{} `json:"payload,omitempty"`
	}{
		Time:    time.Now().UTC(),
		Event:   event,
		Payload: payload,
	}

	data, err := json.Marshal(entry)
	if err != nil {
		fmt.Fprintf(os.Stderr, "trace encoding failed: %v\n", err)
		return
	}
	write(string(data) + "\n")
}

// Configure sets the log destination. Empty values fall back to the default
// path. Directories are created automatically when missing.
func Configure(path string) {
	mu.Lock()
	defer mu.Unlock()
	closeOutputLocked()
	if strings.TrimSpace(path) == "" {
		logPath = defaultLogPath()
		return
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "unable to create log directory: %v\n", err)
		logPath = defaultLogPath()
		return
	}
	logPath = path
}

// Path returns the current log destination.
func Path() string {
	mu.Lock()
	defer mu.Unlock()
	return logPath
}

// Close flushes and releases the rotating log file.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	return closeOutputLocked()
}

func write(line string) {
	mu.Lock()
	defer mu.Unlock()
	if output == nil {
		output = &lumberjack.Logger{
			Filename:   logPath,
			MaxSize:    defaultMaxSizeMB,
			MaxBackups: defaultMaxBackups,
			MaxAge:     defaultMaxAgeDays,
		}
	}
	if _, err := io.WriteString(output, line); err != nil {
		fmt.Fprintf(os.Stderr, "logging failed: %v\n", err)
	}
}

func closeOutputLocked() error {
	if output == nil {
		return nil
	}
	err := output.Close()
	output = nil
	return err
}

func defaultLogPath() string {
	dir, err := os.UserCacheDir()
	if err != nil || dir == "" {
		return filepath.Join(os.TempDir(), defaultLogName)
	}
	return filepath.Join(dir, "tmx", defaultLogName)
}
