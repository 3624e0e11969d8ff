// Package pkg is a package that provides utilities for vulnsweep.
package pkg

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// OutputCapture buffers subprocess output in a temporary file instead of
// holding it in memory. One capture is scoped to a single invocation; Close
// deletes the backing file.
type OutputCapture interface {
	io.Writer
	Path() string
	Size() int64
	Bytes() ([]byte, error)
	Close() error
}

type outputCaptureImpl struct {
	path string
	file *os.File
	mu   sync.Mutex
	size int64
}

// Write implements OutputCapture.
func (o *outputCaptureImpl) Write(p []byte) (int, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.file == nil {
		return 0, fmt.Errorf("capture %s is closed", o.path)
	}

	n, err := o.file.Write(p)
	o.size += int64(n)

	if err != nil {
		slog.Error("failed to write captured output", "path", o.path, "error", err)
		return n, fmt.Errorf("failed to write captured output: %w", err)
	}

	return n, nil
}

// Path implements OutputCapture.
func (o *outputCaptureImpl) Path() string {
	return o.path
}

// Size implements OutputCapture.
func (o *outputCaptureImpl) Size() int64 {
	o.mu.Lock()
	defer o.mu.Unlock()

	return o.size
}

// Bytes implements OutputCapture.
func (o *outputCaptureImpl) Bytes() ([]byte, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	data, err := os.ReadFile(o.path)
	if err != nil {
		slog.Error("failed to read captured output", "path", o.path, "error", err)
		return nil, fmt.Errorf("failed to read captured output: %w", err)
	}

	slog.Debug("read captured output", "path", o.path, "bytes", len(data))

	return data, nil
}

// Close implements OutputCapture.
func (o *outputCaptureImpl) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.file == nil {
		return nil
	}

	if err := o.file.Close(); err != nil {
		slog.Error("failed to close capture file", "path", o.path, "error", err)
		return fmt.Errorf("failed to close capture file: %w", err)
	}

	o.file = nil

	if err := os.Remove(o.path); err != nil {
		slog.Error("failed to remove capture file", "path", o.path, "error", err)
		return fmt.Errorf("failed to remove capture file: %w", err)
	}

	slog.Debug("closed output capture", "path", o.path, "bytes", o.size)

	return nil
}

// NewOutputCapture creates a file-backed capture buffer for one subprocess run.
func NewOutputCapture() (OutputCapture, error) {
	tmpDir := filepath.Join(os.TempDir(), "vulnsweep")
	if err := os.MkdirAll(tmpDir, 0o750); err != nil {
		slog.Error("failed to create temp directory", "path", tmpDir, "error", err)
		return nil, fmt.Errorf("failed to create temp directory: %w", err)
	}

	file, err := os.CreateTemp(tmpDir, "scan-*.out")
	if err != nil {
		slog.Error("failed to create temp file", "path", tmpDir, "error", err)
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}

	slog.Debug("created output capture", "path", file.Name())

	return &outputCaptureImpl{
		path: file.Name(),
		file: file,
		size: 0,
	}, nil
}
