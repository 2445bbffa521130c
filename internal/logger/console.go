// Package logger provides the console logger used by glazboot.
//
// Messages go to the diagnostic stream prefixed with ">> ", the marker the
// Glaz bootstrap has always used for its own progress lines. Level filtering
// hides debug output unless verbose mode is on, and levels are coloured when
// the writer is a terminal.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// Level is a log severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// ParseLevel converts a level name to a Level, defaulting to info.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warn":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Logger writes leveled progress lines.
type Logger struct {
	mu       sync.Mutex
	writer   io.Writer
	level    Level
	colorful bool
}

// New creates a Logger writing to w. A nil writer discards everything.
// Colour is enabled only when w is a terminal and NO_COLOR is unset.
func New(w io.Writer, level Level) *Logger {
	return &Logger{
		writer:   w,
		level:    level,
		colorful: IsTerminal(w) && !color.NoColor,
	}
}

// Discard returns a logger that drops all messages.
func Discard() *Logger {
	return New(nil, LevelError)
}

// IsTerminal reports whether w is a file attached to a TTY.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok || f == nil {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (l *Logger) Debugf(format string, args ...any) { l.log(LevelDebug, format, args...) }
func (l *Logger) Infof(format string, args ...any)  { l.log(LevelInfo, format, args...) }
func (l *Logger) Warnf(format string, args ...any)  { l.log(LevelWarn, format, args...) }
func (l *Logger) Errorf(format string, args ...any) { l.log(LevelError, format, args...) }

func (l *Logger) log(level Level, format string, args ...any) {
	if l == nil || l.writer == nil || level < l.level {
		return
	}
	msg := fmt.Sprintf(format, args...)

	l.mu.Lock()
	defer l.mu.Unlock()

	prefix := ">>"
	if l.colorful {
		prefix = levelColor(level).Sprint(prefix)
	}
	_, _ = fmt.Fprintf(l.writer, "%s %s\n", prefix, msg)
}

func levelColor(level Level) *color.Color {
	switch level {
	case LevelDebug:
		return color.New(color.FgHiBlack)
	case LevelWarn:
		return color.New(color.FgYellow)
	case LevelError:
		return color.New(color.FgRed, color.Bold)
	default:
		return color.New(color.FgCyan)
	}
}
