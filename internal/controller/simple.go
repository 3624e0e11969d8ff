package controller

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	m "vulnsweep.dev/pkg/vulnsweep/internal/model"
)

// SimpleUI implements UI using cobra Command's output stream.
type SimpleUI struct {
	cmd *cobra.Command
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// Start initializes the UI.
func (s *SimpleUI) Start(ctx context.Context, _ ...StartOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return nil
}

// Close finalizes the UI.
func (s *SimpleUI) Close(ctx context.Context) {
	if err := ctx.Err(); err != nil {
		return
	}
}

// Wait blocks until the UI is closed (no-op for SimpleUI).
func (s *SimpleUI) Wait(ctx context.Context) {
	if err := ctx.Err(); err != nil {
		return
	}
	// SimpleUI doesn't block - it just prints and continues
}

// DisplayToolchainInfo shows which scanner binary the run uses.
func (s *SimpleUI) DisplayToolchainInfo(ctx context.Context, scanner m.Path) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("Scanner: %s\n", scanner)
}

// DisplayRootsInfo shows the module roots queued for scanning.
func (s *SimpleUI) DisplayRootsInfo(ctx context.Context, roots []m.Path) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("Scanning %d module root(s)\n", len(roots))

	for _, root := range roots {
		s.printf("  %s\n", root)
	}
}

// DisplayScanStartInfo shows which root is being scanned.
func (s *SimpleUI) DisplayScanStartInfo(ctx context.Context, root m.Path, index, total int) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("[%d/%d] scanning %s\n", index, total, root)
}

// DisplayScanResult shows the outcome of one root.
func (s *SimpleUI) DisplayScanResult(ctx context.Context, result m.RootResult) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("[%s] %s: %d issue(s) in %s\n",
		result.Status, result.Root, result.Issues, formatDuration(result.Duration))
}

// DisplaySummary renders the per-root result table and the report location.
func (s *SimpleUI) DisplaySummary(ctx context.Context, results []m.RootResult, report m.Path) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("\n%s", renderSummaryTable(results))
	s.printf("\nReport written to %s\n", report)
}

func renderSummaryTable(results []m.RootResult) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Root", "Status", "Issues", "Duration"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_CENTER,
		tablewriter.ALIGN_CENTER,
		tablewriter.ALIGN_RIGHT,
	})

	totalIssues := 0

	var totalDuration time.Duration

	for _, result := range results {
		table.Append([]string{
			string(result.Root),
			result.Status.String(),
			fmt.Sprintf("%d", result.Issues),
			formatDuration(result.Duration),
		})

		totalIssues += result.Issues
		totalDuration += result.Duration
	}

	table.SetFooter([]string{
		fmt.Sprintf("Total Roots %d", len(results)),
		"",
		fmt.Sprintf("%d", totalIssues),
		formatDuration(totalDuration),
	})

	table.Render()

	return tableBuffer.String()
}

// DisplayIssues prints every recorded finding with its location.
func (s *SimpleUI) DisplayIssues(ctx context.Context, issues []m.Issue) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if len(issues) == 0 {
		s.printf("No vulnerabilities recorded.\n")
		return nil
	}

	for i, issue := range issues {
		s.printf("[%d] %s %s\n", i+1, issue.Rule, issueLocation(issue))

		headline, _, _ := strings.Cut(issue.Msg, "\n")
		s.printf("    %s\n", headline)
	}

	s.printf("\n%d finding(s)\n", len(issues))

	return nil
}

// issueLocation renders path:line:column, dropping the parts a module-level
// finding doesn't carry.
func issueLocation(issue m.Issue) string {
	if issue.Line == (m.Line{}) {
		return string(issue.Path)
	}

	if issue.Column == "" {
		return fmt.Sprintf("%s:%s", issue.Path, issue.Line)
	}

	return fmt.Sprintf("%s:%s:%s", issue.Path, issue.Line, issue.Column)
}

func formatDuration(d time.Duration) string {
	return d.Round(time.Millisecond).String()
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}
