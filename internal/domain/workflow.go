package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"vulnsweep.dev/pkg/vulnsweep/internal/adapter"
	"vulnsweep.dev/pkg/vulnsweep/internal/controller"
	m "vulnsweep.dev/pkg/vulnsweep/internal/model"
)

// scanPattern is the package pattern handed to the scanner in each module root.
const scanPattern = "./..."

// ScanArgs carries the per-run inputs of a scan.
type ScanArgs struct {
	SourceDir  m.Path
	Output     m.Path
	TaskParams m.TaskParams
	Toolchain  ResolverOptions
}

// ViewArgs carries the per-run inputs of a report view.
type ViewArgs struct {
	Report m.Path
}

type Workflow interface {
	Scan(ctx context.Context, args ScanArgs) error
	View(ctx context.Context, args ViewArgs) error
}

type workflow struct {
	adapter.ScanRunnerAdapter
	adapter.ReportStore
	controller.UI
	ToolchainResolver
	ModuleDiscovery
	OutputParser
}

func NewWorkflow(
	runner adapter.ScanRunnerAdapter,
	reportStore adapter.ReportStore,
	ui controller.UI,
	resolver ToolchainResolver,
	discovery ModuleDiscovery,
	parser OutputParser,
) Workflow {
	return &workflow{
		ScanRunnerAdapter: runner,
		ReportStore:       reportStore,
		UI:                ui,
		ToolchainResolver: resolver,
		ModuleDiscovery:   discovery,
		OutputParser:      parser,
	}
}

// Scan resolves the toolchain, discovers module roots under args.SourceDir,
// scans each root and writes the aggregated report to args.Output.
func (w *workflow) Scan(ctx context.Context, args ScanArgs) error {
	if err := w.Start(ctx, controller.WithScanMode()); err != nil {
		return fmt.Errorf("start ui: %w", err)
	}
	defer w.Close(ctx)

	toolchain, err := w.Resolve(ctx, args.Toolchain)
	if err != nil {
		return fmt.Errorf("resolve toolchain: %w", err)
	}
	w.DisplayToolchainInfo(ctx, toolchain.Scanner)

	roots, err := w.DiscoverRoots(ctx, args.SourceDir, args.TaskParams)
	if err != nil {
		return fmt.Errorf("discover module roots: %w", err)
	}
	w.DisplayRootsInfo(ctx, roots)

	results, issues := w.scanRoots(ctx, toolchain, roots)
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := w.SaveIssues(args.Output, issues); err != nil {
		return fmt.Errorf("save report: %w", err)
	}
	w.DisplaySummary(ctx, results, args.Output)

	w.Wait(ctx)
	return nil
}

// View loads a previously written report and renders its findings.
func (w *workflow) View(ctx context.Context, args ViewArgs) error {
	issues, err := w.LoadIssues(args.Report)
	if err != nil {
		return fmt.Errorf("load report: %w", err)
	}

	if err := w.Start(ctx, controller.WithViewMode()); err != nil {
		return fmt.Errorf("start ui: %w", err)
	}
	defer w.Close(ctx)

	if err := w.DisplayIssues(ctx, issues); err != nil {
		return fmt.Errorf("display findings: %w", err)
	}

	w.Wait(ctx)
	return nil
}

func (w *workflow) scanRoots(ctx context.Context, toolchain *Toolchain, roots []m.Path) ([]m.RootResult, []m.Issue) {
	env := toolchain.Env.Slice()

	results := make([]m.RootResult, 0, len(roots))

	var issues []m.Issue

	for i, root := range roots {
		if ctx.Err() != nil {
			break
		}

		w.DisplayScanStartInfo(ctx, root, i+1, len(roots))
		result, found := w.scanRoot(ctx, toolchain.Scanner, env, root)
		w.DisplayScanResult(ctx, result)

		results = append(results, result)
		issues = append(issues, found...)
	}

	return results, issues
}

func (w *workflow) scanRoot(ctx context.Context, scanner m.Path, env []string, root m.Path) (m.RootResult, []m.Issue) {
	start := time.Now()
	slog.Info("scanning module root", "root", root, "pattern", scanPattern)

	output, err := w.Run(ctx, root, string(scanner), []string{scanPattern}, env)
	result := m.RootResult{Root: root, Duration: time.Since(start)}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		slog.Warn("scan timed out", "root", root, "duration", result.Duration)
		result.Status = m.ScanTimeout
	case err != nil:
		slog.Error("scan failed", "root", root, "error", err)
		result.Status = m.ScanFailed
	case !utf8.Valid(output):
		slog.Warn("scanner output is not valid UTF-8", "root", root)
		result.Status = m.ScanDecodeError
	default:
		found := w.Parse(string(output), root)
		result.Status = m.ScanOK
		result.Issues = len(found)

		return result, found
	}

	return result, nil
}
