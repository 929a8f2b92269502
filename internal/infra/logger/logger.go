package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
	"time"
)

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "FATAL"
	}
}

// sink is shared between a logger and its named children
type sink struct {
	mu     sync.Mutex
	file   *log.Logger
	closer io.Closer
	stdout io.Writer
}

type Logger struct {
	out       *sink
	level     Level
	component string
}

// New opens (or creates) filePath for appending. An empty path logs to stdout only.
func New(filePath string, level Level, includeStdout bool) (*Logger, error) {
	s := &sink{}

	if filePath != "" {
		f, err := os.OpenFile(filePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return nil, err
		}
		s.file = log.New(f, "", 0)
		s.closer = f
	}

	if includeStdout || filePath == "" {
		s.stdout = os.Stdout
	}

	return &Logger{out: s, level: level}, nil
}

// NewWriter logs every level to w. Used by tests and the CLI.
func NewWriter(w io.Writer, level Level) *Logger {
	return &Logger{out: &sink{file: log.New(w, "", 0)}, level: level}
}

// Named returns a logger that prefixes messages with the component name
func (l *Logger) Named(component string) *Logger {
	name := component
	if l.component != "" {
		name = l.component + "." + component
	}
	return &Logger{out: l.out, level: l.level, component: name}
}

func (l *Logger) Close() error {
	if l.out.closer == nil {
		return nil
	}
	return l.out.closer.Close()
}

func (l *Logger) log(lvl Level, format string, v ...any) {
	if lvl < l.level {
		return
	}

	timestamp := time.Now().Format("2006-01-02 15:04:05")
	msg := fmt.Sprintf(format, v...)
	fullMsg := fmt.Sprintf("%s [%s] %s", timestamp, lvl, msg)
	if l.component != "" {
		fullMsg = fmt.Sprintf("%s [%s] %s: %s", timestamp, lvl, l.component, msg)
	}

	l.out.mu.Lock()
	defer l.out.mu.Unlock()

	if l.out.file != nil {
		l.out.file.Println(fullMsg)
	}

	// Debug stays out of stdout so it doesn't break the CLI progress bar
	if l.out.stdout != nil && lvl >= LevelInfo {
		fmt.Fprintf(l.out.stdout, "%s\n", fullMsg)
	}
}

func ParseLevel(lvl string) Level {
	switch strings.ToLower(strings.TrimSpace(lvl)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

func (l *Logger) Debug(f string, v ...any) { l.log(LevelDebug, f, v...) }
func (l *Logger) Info(f string, v ...any)  { l.log(LevelInfo, f, v...) }
func (l *Logger) Warn(f string, v ...any)  { l.log(LevelWarn, f, v...) }
func (l *Logger) Error(f string, v ...any) { l.log(LevelError, f, v...) }
func (l *Logger) Fatal(f string, v ...any) { l.log(LevelFatal, f, v...); os.Exit(1) }

func (l *Logger) Write(p []byte) (n int, err error) {
	// Echo and other libraries often include a newline at the end
	msg := strings.TrimSpace(string(p))
	if msg != "" {
		l.Info("%s", msg)
	}
	return len(p), nil
}
