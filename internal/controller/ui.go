// Package controller provides output adapters for displaying scan progress
// and results.
package controller

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"
	m "vulnsweep.dev/pkg/vulnsweep/internal/model"
)

// StartMode defines the mode of operation for the UI.
type StartMode int

// Available StartMode values.
const (
	ModeScan StartMode = iota
	ModeView
)

// StartOption is a functional option for Start method.
type StartOption func(*StartConfig)

// StartConfig holds configuration for starting the UI.
type StartConfig struct {
	mode StartMode
}

// WithScanMode sets the UI to scan progress mode.
func WithScanMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeScan
	}
}

// WithViewMode sets the UI to report browsing mode.
func WithViewMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeView
	}
}

// UI defines the interface for displaying scan progress and findings.
// Implementations can use different output methods (simple text, TUI, etc).
type UI interface {
	Start(ctx context.Context, options ...StartOption) error
	Close(ctx context.Context)
	Wait(ctx context.Context) // Wait for UI to finish (user closes it)
	DisplayToolchainInfo(ctx context.Context, scanner m.Path)
	DisplayRootsInfo(ctx context.Context, roots []m.Path)
	DisplayScanStartInfo(ctx context.Context, root m.Path, index, total int)
	DisplayScanResult(ctx context.Context, result m.RootResult)
	DisplaySummary(ctx context.Context, results []m.RootResult, report m.Path)
	DisplayIssues(ctx context.Context, issues []m.Issue) error
}

// NewUI picks the interactive TUI on a terminal and the plain printer
// otherwise.
func NewUI(cmd *cobra.Command, isTTY bool) UI {
	if isTTY {
		return NewTUI(cmd.OutOrStdout())
	}

	return NewSimpleUI(cmd)
}

// IsTTY reports whether w is an interactive terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}

	return term.IsTerminal(int(f.Fd()))
}
