package controller

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"
	m "vulnsweep.dev/pkg/vulnsweep/internal/model"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")) // Cyan

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")) // Light gray

	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("82")) // Green

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("220")). // Yellow
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")). // Red
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("242")) // Dim
)

// TUI implements UI using Bubble Tea for interactive display.
type TUI struct {
	output  io.Writer
	program *tea.Program
	group   *errgroup.Group
}

// NewTUI creates a new TUI.
func NewTUI(output io.Writer) *TUI {
	return &TUI{output: output}
}

// Start launches the progress program for scan mode. View mode needs no
// long-running program; DisplayIssues drives its own pager.
func (p *TUI) Start(ctx context.Context, options ...StartOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	config := StartConfig{}
	for _, opt := range options {
		opt(&config)
	}

	if config.mode != ModeScan {
		return nil
	}

	p.program = tea.NewProgram(newScanProgressModel(), tea.WithOutput(p.output))

	group, _ := errgroup.WithContext(ctx)
	p.group = group

	group.Go(func() error {
		_, err := p.program.Run()
		return err
	})

	return nil
}

// Close stops the progress program if it is still running.
func (p *TUI) Close(ctx context.Context) {
	if err := ctx.Err(); err != nil {
		return
	}

	if p.program == nil {
		return
	}

	p.program.Quit()
	p.joinProgram()
}

// Wait blocks until the progress program finishes.
func (p *TUI) Wait(ctx context.Context) {
	if err := ctx.Err(); err != nil {
		return
	}

	p.joinProgram()
}

func (p *TUI) joinProgram() {
	if p.group == nil {
		return
	}

	if err := p.group.Wait(); err != nil {
		slog.Error("progress display failed", "error", err)
	}

	p.group = nil
	p.program = nil
}

func (p *TUI) send(msg tea.Msg) {
	if p.program == nil {
		return
	}

	p.program.Send(msg)
}

// DisplayToolchainInfo shows which scanner binary the run uses.
func (p *TUI) DisplayToolchainInfo(ctx context.Context, scanner m.Path) {
	if err := ctx.Err(); err != nil {
		return
	}

	p.send(toolchainMsg{scanner: string(scanner)})
}

// DisplayRootsInfo shows the module roots queued for scanning.
func (p *TUI) DisplayRootsInfo(ctx context.Context, roots []m.Path) {
	if err := ctx.Err(); err != nil {
		return
	}

	p.send(rootsMsg{count: len(roots)})
}

// DisplayScanStartInfo shows which root is being scanned.
func (p *TUI) DisplayScanStartInfo(ctx context.Context, root m.Path, index, total int) {
	if err := ctx.Err(); err != nil {
		return
	}

	p.send(scanStartMsg{root: string(root), index: index, total: total})
}

// DisplayScanResult shows the outcome of one root.
func (p *TUI) DisplayScanResult(ctx context.Context, result m.RootResult) {
	if err := ctx.Err(); err != nil {
		return
	}

	p.send(scanResultMsg{result: result})
}

// DisplaySummary renders the final report line and stops the progress
// program.
func (p *TUI) DisplaySummary(ctx context.Context, results []m.RootResult, report m.Path) {
	if err := ctx.Err(); err != nil {
		return
	}

	totalIssues := 0
	for _, result := range results {
		totalIssues += result.Issues
	}

	p.send(summaryMsg{issues: totalIssues, report: string(report)})
}

// Messages feeding the scan progress model.
type toolchainMsg struct {
	scanner string
}

type rootsMsg struct {
	count int
}

type scanStartMsg struct {
	root  string
	index int
	total int
}

type scanResultMsg struct {
	result m.RootResult
}

type summaryMsg struct {
	issues int
	report string
}

// scanProgressModel is the Bubble Tea model for live scan progress.
type scanProgressModel struct {
	spinner  spinner.Model
	scanner  string
	total    int
	current  string
	index    int
	results  []m.RootResult
	summary  *summaryMsg
	quitting bool
}

func newScanProgressModel() scanProgressModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = titleStyle

	return scanProgressModel{spinner: sp}
}

func (spm scanProgressModel) Init() tea.Cmd {
	return spm.spinner.Tick
}

func (spm scanProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		spm.spinner, cmd = spm.spinner.Update(msg)

		return spm, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			spm.quitting = true
			return spm, tea.Quit
		}

		return spm, nil

	case toolchainMsg:
		spm.scanner = msg.scanner
		return spm, nil

	case rootsMsg:
		spm.total = msg.count
		return spm, nil

	case scanStartMsg:
		spm.current = msg.root
		spm.index = msg.index
		spm.total = msg.total

		return spm, nil

	case scanResultMsg:
		spm.results = append(spm.results, msg.result)
		spm.current = ""

		return spm, nil

	case summaryMsg:
		spm.summary = &msg
		spm.quitting = true

		return spm, tea.Quit
	}

	return spm, nil
}

func (spm scanProgressModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("vulnsweep") + "\n")

	if spm.scanner != "" {
		fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("scanner:"), spm.scanner)
	}

	b.WriteString("\n")

	for _, result := range spm.results {
		fmt.Fprintf(&b, "  %s %s  %d issue(s)  %s\n",
			renderScanStatus(result.Status), result.Root, result.Issues,
			dimStyle.Render(formatDuration(result.Duration)))
	}

	if spm.current != "" {
		fmt.Fprintf(&b, "  %s [%d/%d] scanning %s\n",
			spm.spinner.View(), spm.index, spm.total, spm.current)
	}

	if spm.summary != nil {
		fmt.Fprintf(&b, "\n%s %d finding(s), report written to %s\n",
			okStyle.Render("done:"), spm.summary.issues, spm.summary.report)
	}

	return b.String()
}

func renderScanStatus(status m.ScanStatus) string {
	label := status.String()

	switch status {
	case m.ScanOK:
		return okStyle.Render(label)
	case m.ScanTimeout:
		return warnStyle.Render(label)
	default:
		return errorStyle.Render(label)
	}
}

// DisplayIssues shows recorded findings, paginating interactively when the
// list is taller than the terminal.
func (p *TUI) DisplayIssues(ctx context.Context, issues []m.Issue) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	model := newIssuesPagerModel(issues)

	// Get initial terminal size
	if f, ok := p.output.(*os.File); ok {
		width, height, err := term.GetSize(int(f.Fd()))
		if err == nil {
			model.height = height
			model.width = width
		}
	}

	// If list is small, just print and exit
	if !model.needsPagination() {
		_, err := fmt.Fprint(p.output, model.View())
		return err
	}

	program := tea.NewProgram(model, tea.WithOutput(p.output), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return err
	}

	return nil
}

// issuesPagerModel is the Bubble Tea model for browsing report findings.
type issuesPagerModel struct {
	lines    []string
	total    int
	height   int
	width    int
	offset   int // Current scroll offset
	quitting bool
}

func newIssuesPagerModel(issues []m.Issue) issuesPagerModel {
	lines := make([]string, 0, len(issues)*2)

	for i, issue := range issues {
		lines = append(lines, fmt.Sprintf("  %s %s %s",
			errorStyle.Render(fmt.Sprintf("[%d]", i+1)), issue.Rule, issueLocation(issue)))

		headline, _, _ := strings.Cut(issue.Msg, "\n")
		lines = append(lines, dimStyle.Render("      "+headline))
	}

	return issuesPagerModel{
		lines:  lines,
		total:  len(issues),
		height: 0, // Will be set on first WindowSizeMsg
	}
}

func (ipm issuesPagerModel) Init() tea.Cmd {
	return nil
}

func (ipm issuesPagerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		ipm.height = msg.Height
		ipm.width = msg.Width

		return ipm, nil

	case tea.KeyMsg:
		return ipm.handleKeyPress(msg)
	}

	return ipm, nil
}

//nolint:cyclop,exhaustive // Key handling requires multiple cases for UI navigation
func (ipm issuesPagerModel) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		ipm.quitting = true
		return ipm, tea.Quit
	default:
		// Handle other key types in the string switch below
	}

	switch msg.String() {
	case "q":
		ipm.quitting = true
		return ipm, tea.Quit

	case "down", "j":
		ipm.offset++

		maxOffset := ipm.maxOffset()
		if ipm.offset > maxOffset {
			ipm.offset = maxOffset
		}

		return ipm, nil

	case "up", "k":
		ipm.offset--
		if ipm.offset < 0 {
			ipm.offset = 0
		}

		return ipm, nil

	case "g", "home":
		ipm.offset = 0

		return ipm, nil

	case "G", "end":
		ipm.offset = ipm.maxOffset()

		return ipm, nil

	case "d", "pgdown":
		ipm.offset += ipm.itemsPerPage()

		maxOffset := ipm.maxOffset()
		if ipm.offset > maxOffset {
			ipm.offset = maxOffset
		}

		return ipm, nil

	case "u", "pgup":
		ipm.offset -= ipm.itemsPerPage()
		if ipm.offset < 0 {
			ipm.offset = 0
		}

		return ipm, nil
	}

	return ipm, nil
}

// itemsPerPage calculates how many lines can fit on screen.
func (ipm issuesPagerModel) itemsPerPage() int {
	if ipm.height == 0 {
		return 10 // Default
	}
	// Reserve space for:
	// - Title: 2 lines
	// - Total: 2 lines (empty + total)
	// - Footer: 3 lines (empty + page + help)
	// Total: 7 lines
	reserved := 7

	available := ipm.height - reserved
	if available < 1 {
		return 1
	}

	return available
}

// maxOffset returns the maximum scroll offset.
func (ipm issuesPagerModel) maxOffset() int {
	lineCount := len(ipm.lines)

	perPage := ipm.itemsPerPage()
	if perPage <= 0 {
		return 0
	}

	maxOff := lineCount - perPage
	if maxOff < 0 {
		return 0
	}

	return maxOff
}

// needsPagination returns true if the list is too large to fit on screen.
func (ipm issuesPagerModel) needsPagination() bool {
	if len(ipm.lines) == 0 {
		return false
	}

	return len(ipm.lines) > ipm.itemsPerPage() && ipm.height > 0
}

func (ipm issuesPagerModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("vulnsweep findings") + "\n\n")

	if ipm.total == 0 {
		b.WriteString("  No vulnerabilities recorded.\n")
		return b.String()
	}

	ipm.renderIssueList(&b)

	return b.String()
}

func (ipm issuesPagerModel) renderIssueList(b *strings.Builder) {
	lineCount := len(ipm.lines)

	// Calculate pagination
	itemsPerPage := ipm.itemsPerPage()
	needsPagination := lineCount > itemsPerPage && ipm.height > 0

	start := ipm.offset

	end := start + itemsPerPage
	if end > lineCount {
		end = lineCount
	}

	if start >= lineCount {
		start = lineCount - 1
		if start < 0 {
			start = 0
		}
	}

	// Show lines for current page
	displayLines := ipm.lines

	if needsPagination {
		displayLines = ipm.lines[start:end]
	}

	for _, line := range displayLines {
		b.WriteString(line + "\n")
	}

	// Total count
	b.WriteString("\n")
	fmt.Fprintf(b, "  %d finding(s)\n", ipm.total)

	// Footer with navigation help
	if needsPagination {
		b.WriteString("\n")

		currentPage := (ipm.offset / itemsPerPage) + 1
		totalPages := (lineCount + itemsPerPage - 1) / itemsPerPage
		fmt.Fprintf(b, "  Page %d/%d | Showing %d-%d of %d\n",
			currentPage, totalPages, start+1, end, lineCount)
		b.WriteString("  ↑/k: up | ↓/j: down | g: top | G: bottom | q: quit\n")
	}
}
