// Package log owns the destination behind the process logger: level
// parsing for the -log-level flag and a writer that appends to a file
// and reopens it on SIGHUP, falling back to stderr when no file is
// configured.
package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
)

// LevelTrace sits below slog's debug level for very chatty output.
const LevelTrace = slog.LevelDebug - 4

// LevelNone sits above every level slog emits, so nothing is logged.
const LevelNone = slog.LevelError + 4

// ParseLevel maps a -log-level flag value onto slog levels. Unknown
// strings disable logging.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "trace":
		return LevelTrace
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return LevelNone
	}
}

// Output is the io.Writer handed to the slog handler. With a path it
// appends to that file and reopens it when the process receives
// SIGHUP; without one it writes to stderr.
type Output struct {
	mu   sync.Mutex
	path string
	file *os.File
}

// Open prepares the log destination. A path that cannot be opened
// falls back to stderr with a warning.
func Open(path string) *Output {
	out := &Output{path: path}
	if path == "" {
		return out
	}
	fh, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
		out.path = ""
		return out
	}
	out.file = fh
	out.watchRotation()
	return out
}

func (o *Output) Write(p []byte) (int, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.writer().Write(p)
}

func (o *Output) writer() io.Writer {
	if o.file != nil {
		return o.file
	}
	return os.Stderr
}

func (o *Output) reopen() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.file != nil {
		o.file.Close()
	}
	fh, err := os.OpenFile(o.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not reopen log file: %v\n", err)
		o.file = nil
		return
	}
	o.file = fh
}

/*
 * While logging to a file, listen for SIGHUP so log rotation does not
 * need a restart:
 *   mv lox.log lox.bak && kill -HUP <pid>
 */
func (o *Output) watchRotation() {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGHUP)
	go func() {
		for range sigs {
			o.reopen()
		}
	}()
}

func (o *Output) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.file != nil {
		_ = o.file.Close()
		o.file = nil
	}
}
