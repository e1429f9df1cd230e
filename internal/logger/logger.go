package logger

import (
	"fmt"
	"io"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fatih/color" // Colored console output per log level
)

// Level is the severity of a log call. Debug is the least severe (most
// verbose), Error the most severe. A process-wide threshold set by Init
// filters calls: only calls at or above the threshold are emitted.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarning
	LevelError
)

// String returns the canonical tag rendered into each log line.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarning:
		return "WARN"
	case LevelError:
		return "ERROR"
	}
	return "INFO"
}

// ParseLevel maps a user-supplied level name to a Level. Matching is
// case-insensitive and accepts the common short forms. Anything
// unrecognized degrades to Info rather than failing: logging never
// rejects input.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warning", "warn":
		return LevelWarning
	case "error":
		return LevelError
	}
	return LevelInfo
}

// Colorized print functions per level, in the fatih/color style. These
// write the already-formatted line; color is the only thing that differs
// between levels.
var printers = map[Level]func(w io.Writer, format string, a ...any){
	LevelDebug:   color.New(color.FgCyan).FprintfFunc(),
	LevelInfo:    color.New(color.FgGreen).FprintfFunc(),
	LevelWarning: color.New(color.FgHiMagenta).FprintfFunc(),
	LevelError:   color.New(color.FgRed).FprintfFunc(),
}

// threshold holds the configured minimum severity. Stored atomically so
// Init can be called from anywhere without racing readers, although in
// practice it is set once at startup and read-only thereafter.
var threshold atomic.Int32

// out is the destination for all log lines. Defaults to color.Output
// (stdout with platform color handling); tests swap in a buffer.
var out io.Writer = color.Output

func init() {
	threshold.Store(int32(LevelInfo))
}

// Init sets the process-wide threshold level.
func Init(level Level) {
	threshold.Store(int32(level))
}

// SetOutput redirects log output, returning the previous writer. Used by
// tests to capture lines.
func SetOutput(w io.Writer) io.Writer {
	prev := out
	out = w
	return prev
}

// Log emits one line at the given level, tagged with the component that
// produced it. The line carries a timestamp, the level tag, the component
// tag, and the message. An empty message is rendered as a single space so
// the line structure stays intact. Log never returns an error and never
// panics; a call below the configured threshold is dropped silently.
func Log(level Level, component, format string, a ...any) {
	if level < LevelDebug || level > LevelError {
		// Unrecognized severity filters as Info.
		level = LevelInfo
	}
	if int32(level) < threshold.Load() {
		return
	}

	msg := fmt.Sprintf(format, a...)
	if msg == "" {
		msg = " "
	}

	printers[level](out, "%s [%s] [%s] %s\n", time.Now().Format("2006-01-02 15:04:05"), level, component, msg)
}

// Debugf logs at Debug level for the given component.
func Debugf(component, format string, a ...any) { Log(LevelDebug, component, format, a...) }

// Infof logs at Info level for the given component.
func Infof(component, format string, a ...any) { Log(LevelInfo, component, format, a...) }

// Warnf logs at Warning level for the given component.
func Warnf(component, format string, a ...any) { Log(LevelWarning, component, format, a...) }

// Errorf logs at Error level for the given component.
func Errorf(component, format string, a ...any) { Log(LevelError, component, format, a...) }
