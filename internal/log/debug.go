// Package log provides quickscene's debug logging. While the TUI owns
// the terminal nothing may be written to stderr, so messages go to a
// log file when one is configured and are buffered in memory until then.
package log

import (
	"log"
	"os"
	"sync"
)

type sink struct {
	mu      sync.Mutex
	file    *os.File
	buffer  []byte
	discard bool
}

var (
	globalSink = &sink{}
	stdLogger  = log.New(globalSink, "", log.LstdFlags|log.Lmicroseconds)
)

// Write implements io.Writer. Messages go to the file when one is set,
// otherwise into the buffer.
func (s *sink) Write(p []byte) (n int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.discard {
		return len(p), nil
	}
	if s.file != nil {
		n, err = s.file.Write(p)
		// Sync errors are not worth failing a log call over.
		_ = s.file.Sync()
		return n, err
	}

	b := make([]byte, len(p))
	copy(b, p)
	s.buffer = append(s.buffer, b...)
	return len(p), nil
}

// SetFile directs logging to path, creating the file if needed and
// flushing anything buffered so far. An empty path discards buffered
// and future messages.
func SetFile(path string) error {
	globalSink.mu.Lock()
	defer globalSink.mu.Unlock()

	if globalSink.file != nil {
		_ = globalSink.file.Close()
		globalSink.file = nil
	}

	if path == "" {
		globalSink.discard = true
		globalSink.buffer = nil
		return nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600) //nolint:gosec
	if err != nil {
		globalSink.discard = true
		globalSink.buffer = nil
		return err
	}

	globalSink.file = f
	globalSink.discard = false

	if len(globalSink.buffer) > 0 {
		_, _ = f.Write(globalSink.buffer)
		_ = f.Sync()
		globalSink.buffer = nil
	}
	return nil
}

// Printf writes a formatted debug message.
func Printf(format string, args ...any) {
	stdLogger.Printf(format, args...)
}

// Close closes the log file if one is open.
func Close() error {
	globalSink.mu.Lock()
	defer globalSink.mu.Unlock()

	if globalSink.file == nil {
		return nil
	}
	err := globalSink.file.Close()
	globalSink.file = nil
	return err
}
