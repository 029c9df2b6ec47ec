package log

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func resetSink(t *testing.T) func() {
	t.Helper()

	globalSink.mu.Lock()
	prevFile := globalSink.file
	prevBuffer := append([]byte(nil), globalSink.buffer...)
	prevDiscard := globalSink.discard
	globalSink.file = nil
	globalSink.buffer = nil
	globalSink.discard = false
	globalSink.mu.Unlock()

	return func() {
		globalSink.mu.Lock()
		if globalSink.file != nil {
			_ = globalSink.file.Close()
		}
		globalSink.file = prevFile
		globalSink.buffer = prevBuffer
		globalSink.discard = prevDiscard
		globalSink.mu.Unlock()
	}
}

func TestBufferFlushedToFile(t *testing.T) {
	restore := resetSink(t)
	t.Cleanup(restore)

	Printf("buffered before file")

	logPath := filepath.Join(t.TempDir(), "debug.log")
	if err := SetFile(logPath); err != nil {
		t.Fatalf("SetFile: %v", err)
	}
	Printf("written after file")
	if err := Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	for _, want := range []string{"buffered before file", "written after file"} {
		if !strings.Contains(string(data), want) {
			t.Fatalf("log missing %q, got:\n%s", want, data)
		}
	}
}

func TestSetFileFailureDiscardsLogs(t *testing.T) {
	restore := resetSink(t)
	t.Cleanup(restore)

	unwritableDir := t.TempDir()
	if err := os.Chmod(unwritableDir, 0o500); err != nil { //nolint:gosec
		t.Fatalf("set directory permissions: %v", err)
	}
	t.Cleanup(func() {
		_ = os.Chmod(unwritableDir, 0o700) //nolint:gosec
	})

	logPath := filepath.Join(unwritableDir, "debug.log")
	if err := SetFile(logPath); err == nil {
		t.Fatalf("expected SetFile to fail for %q", logPath)
	}

	globalSink.mu.Lock()
	discard := globalSink.discard
	bufferLen := len(globalSink.buffer)
	globalSink.mu.Unlock()

	if !discard {
		t.Fatalf("expected discard to be enabled after SetFile failure")
	}
	if bufferLen != 0 {
		t.Fatalf("expected buffer to be cleared after SetFile failure")
	}

	Printf("should be discarded")

	globalSink.mu.Lock()
	bufferLen = len(globalSink.buffer)
	globalSink.mu.Unlock()

	if bufferLen != 0 {
		t.Fatalf("expected buffer to remain empty after logging")
	}
}
