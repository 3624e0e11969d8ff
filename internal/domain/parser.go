package domain

import (
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"

	m "vulnsweep.dev/pkg/vulnsweep/internal/model"
)

// vulnHeaderRE matches a vulnerability header at the start of a line, e.g.
// "Vulnerability #1: GO-2023-0001".
var vulnHeaderRE = regexp.MustCompile(`^Vulnerability #(\d+):`)

// traceMarker introduces the call-site list inside a vulnerability section.
const traceMarker = "Example traces found:"

// traceFieldCount is the shape of a trace line once split on colons:
// index, file, line, column, message. Colons inside the message survive the
// bounded split.
const traceFieldCount = 5

// OutputParser turns raw scanner output into report issues. Malformed
// constructs degrade to logged skips; parsing never fails.
type OutputParser interface {
	Parse(raw string, workDir m.Path) []m.Issue
}

type scanOutputParser struct{}

// NewOutputParser creates the section-based scanner output parser.
func NewOutputParser() OutputParser {
	return &scanOutputParser{}
}

// Parse splits raw scanner output into blank-line-separated sections. A
// section holding an "Example traces found:" marker yields one issue per
// trace line; a section opening with a vulnerability header but no traces
// yields a single module-level issue on the manifest; anything else is
// forwarded to the log verbatim.
func (p *scanOutputParser) Parse(raw string, workDir m.Path) []m.Issue {
	var issues []m.Issue

	for _, section := range strings.Split(raw, "\n\n") {
		markerOffset := strings.Index(section, traceMarker)

		switch {
		case markerOffset >= 0:
			issues = append(issues, parseTraceSection(section, workDir, markerOffset)...)
		case vulnHeaderRE.MatchString(section):
			issues = append(issues, summaryIssue(section, workDir))
		default:
			for _, line := range strings.Split(section, "\n") {
				if line == "" {
					continue
				}
				slog.Info("scanner output", "line", line)
			}
		}
	}

	return issues
}

// summaryIssue covers a vulnerability reported without call traces, typically
// one found in a dependency but not reachable from scanned code. The finding
// lands on the module manifest with no usable line.
func summaryIssue(section string, workDir m.Path) m.Issue {
	loc := vulnHeaderRE.FindStringIndex(section)
	headerLine, _, _ := strings.Cut(section, "\n")

	rule := ruleName(headerLine)
	slog.Info("found vulnerability", "rule", rule)

	return m.Issue{
		Path: m.Path(filepath.Join(string(workDir), manifestName)),
		Rule: m.RuleGoVulnerability,
		Msg:  strings.TrimSpace(section[loc[1]:]),
	}
}

// parseTraceSection extracts call-site findings from a section carrying a
// trace marker. It tracks the byte offset just past the most recent
// vulnerability header so every finding can embed the advisory text between
// that header and the marker.
func parseTraceSection(section string, workDir m.Path, markerOffset int) []m.Issue {
	var issues []m.Issue

	headerEnd := -1
	pastMarker := false
	offset := 0

	for _, line := range strings.Split(section, "\n") {
		lineStart := offset
		offset += len(line) + 1

		if line == "" {
			continue
		}

		if loc := vulnHeaderRE.FindStringIndex(line); loc != nil {
			slog.Info("found vulnerability", "rule", ruleName(line))
			headerEnd = lineStart + loc[1]

			continue
		}

		if strings.Contains(line, traceMarker) {
			pastMarker = true
			continue
		}

		if !pastMarker || headerEnd < 0 {
			continue
		}

		fields := strings.SplitN(line, ":", traceFieldCount)
		if len(fields) < traceFieldCount {
			slog.Warn("unmatched output", "line", line)
			continue
		}

		issues = append(issues, m.Issue{
			Path:   m.Path(filepath.Join(string(workDir), strings.TrimSpace(fields[1]))),
			Rule:   m.RuleGoVulnerability,
			Msg:    strings.TrimSpace(fields[4]) + "\n" + traceExcerpt(section, headerEnd, markerOffset),
			Line:   m.Line{Text: strings.TrimSpace(fields[2])},
			Column: strings.TrimSpace(fields[3]),
		})
	}

	return issues
}

// traceExcerpt returns the section text between the last vulnerability header
// and the trace marker, clamped to valid bounds.
func traceExcerpt(section string, headerEnd, markerOffset int) string {
	if headerEnd < 0 || headerEnd > len(section) {
		return ""
	}
	if markerOffset < headerEnd || markerOffset > len(section) {
		return ""
	}

	return section[headerEnd:markerOffset]
}

// ruleName pulls the advisory ID out of a header line like
// "Vulnerability #1: GO-2023-0001".
func ruleName(line string) string {
	parts := strings.SplitN(line, ":", 3)
	if len(parts) < 2 {
		return ""
	}

	return strings.TrimSpace(parts[1])
}
