// Package logger appends tagged, levelled lines to the application log.
//
// Each line looks like
//
//	[2026-10-17 08:30:00][INFO][server] running on http://localhost:8080
//
// ERROR lines are echoed to the console writer as well.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Level of a log line.
type Level string

const (
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
)

const timeLayout = "2006-01-02 15:04:05"

// Logger writes to a file opened on demand. The zero value is not usable;
// create one with New or Discard.
type Logger struct {
	mu      sync.Mutex
	path    string
	console io.Writer
	now     func() time.Time
}

// New returns a logger appending to path. ERROR lines are also written to
// os.Stderr.
func New(path string) *Logger {
	return &Logger{path: path, console: os.Stderr, now: time.Now}
}

// Discard returns a logger that drops everything.
func Discard() *Logger {
	return &Logger{console: io.Discard, now: time.Now}
}

// SetConsole redirects the echo of ERROR lines.
func (l *Logger) SetConsole(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.console = w
}

func (l *Logger) Info(tag, msg string)  { l.write(LevelInfo, tag, msg) }
func (l *Logger) Warn(tag, msg string)  { l.write(LevelWarn, tag, msg) }
func (l *Logger) Error(tag, msg string) { l.write(LevelError, tag, msg) }

// Infof formats according to a format specifier and logs at INFO.
func (l *Logger) Infof(tag, format string, args ...interface{}) {
	l.write(LevelInfo, tag, fmt.Sprintf(format, args...))
}

// Warnf formats according to a format specifier and logs at WARN.
func (l *Logger) Warnf(tag, format string, args ...interface{}) {
	l.write(LevelWarn, tag, fmt.Sprintf(format, args...))
}

// Errorf formats according to a format specifier and logs at ERROR.
func (l *Logger) Errorf(tag, format string, args ...interface{}) {
	l.write(LevelError, tag, fmt.Sprintf(format, args...))
}

// Format builds one log line without the trailing newline.
func Format(t time.Time, level Level, tag, msg string) string {
	return fmt.Sprintf("[%s][%s][%s] %s", t.Format(timeLayout), level, tag, msg)
}

func (l *Logger) write(level Level, tag, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	line := Format(l.now(), level, tag, msg) + "\n"
	if l.path != "" {
		if err := l.appendLine(line); err != nil {
			fmt.Fprintf(l.console, "logger: %v\n", err)
		}
	}
	if level == LevelError {
		_, _ = io.WriteString(l.console, line)
	}
}

func (l *Logger) appendLine(line string) error {
	if dir := filepath.Dir(l.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(line); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
