package adapter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"time"

	m "vulnsweep.dev/pkg/vulnsweep/internal/model"
	"vulnsweep.dev/pkg/vulnsweep/pkg"
)

// DefaultScanTimeout bounds a single scanner invocation when no override is
// configured.
const DefaultScanTimeout = 600 * time.Second

// ScanRunnerAdapter abstracts subprocess execution for the scan pipeline.
type ScanRunnerAdapter interface {
	// Run executes bin with args and returns the combined stdout/stderr bytes.
	// workDir may be empty to inherit the current directory; a non-nil env
	// fully replaces the subprocess environment.
	Run(ctx context.Context, workDir m.Path, bin string, args []string, env []string) ([]byte, error)
}

// LocalScanRunnerAdapter provides a concrete implementation using os/exec.
// Output goes through a file-backed capture buffer and every invocation is
// bounded by a wall-clock timeout.
type LocalScanRunnerAdapter struct {
	timeout time.Duration
}

// NewLocalScanRunnerAdapter constructs a LocalScanRunnerAdapter. A
// non-positive timeout falls back to DefaultScanTimeout.
func NewLocalScanRunnerAdapter(timeout time.Duration) *LocalScanRunnerAdapter {
	if timeout <= 0 {
		timeout = DefaultScanTimeout
	}

	return &LocalScanRunnerAdapter{
		timeout: timeout,
	}
}

// Run executes the command, killing it once the timeout expires. A non-zero
// exit is not an error: the scanner exits non-zero when it finds
// vulnerabilities and the captured text is all that matters.
func (a *LocalScanRunnerAdapter) Run(ctx context.Context, workDir m.Path, bin string, args []string, env []string) ([]byte, error) {
	runCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	capture, err := pkg.NewOutputCapture()
	if err != nil {
		return nil, fmt.Errorf("create output capture: %w", err)
	}

	defer func() {
		if err := capture.Close(); err != nil {
			slog.Error("failed to close output capture", "bin", bin, "error", err)
		}
	}()

	cmd := exec.CommandContext(runCtx, bin, args...)
	if workDir != "" {
		cmd.Dir = string(workDir)
	}

	if env != nil {
		cmd.Env = env
	}

	cmd.Stdout = capture
	cmd.Stderr = capture

	runErr := cmd.Run()

	output, readErr := capture.Bytes()
	if readErr != nil {
		return nil, readErr
	}

	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		return output, fmt.Errorf("%s timed out after %s: %w", bin, a.timeout, context.DeadlineExceeded)
	}

	if ctxErr := runCtx.Err(); ctxErr != nil {
		return output, ctxErr
	}

	if runErr != nil {
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			slog.Debug("command exited non-zero", "bin", bin, "code", exitErr.ExitCode())
			return output, nil
		}

		return output, fmt.Errorf("run %s: %w", bin, runErr)
	}

	return output, nil
}
