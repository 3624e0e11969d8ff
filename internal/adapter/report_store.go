package adapter

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	m "vulnsweep.dev/pkg/vulnsweep/internal/model"
)

// ReportStore persists scan findings and reads them back for later browsing.
type ReportStore interface {
	SaveIssues(path m.Path, issues []m.Issue) error
	LoadIssues(path m.Path) ([]m.Issue, error)
}

type jsonReportStore struct{}

// NewReportStore returns a ReportStore backed by pretty-printed JSON files.
func NewReportStore() ReportStore {
	return &jsonReportStore{}
}

// SaveIssues writes the whole issue list as an indented JSON array, replacing
// any previous report. An empty run still produces a valid `[]` document.
func (s *jsonReportStore) SaveIssues(path m.Path, issues []m.Issue) error {
	if issues == nil {
		issues = []m.Issue{}
	}

	data, err := json.MarshalIndent(issues, "", "  ")
	if err != nil {
		slog.Error("failed to encode report", "path", path, "error", err)
		return fmt.Errorf("encode report: %w", err)
	}

	if err := os.WriteFile(string(path), data, 0o600); err != nil {
		slog.Error("failed to write report", "path", path, "error", err)
		return fmt.Errorf("write report: %w", err)
	}

	slog.Info("report written", "path", path, "issues", len(issues))

	return nil
}

// LoadIssues reads a report produced by SaveIssues.
func (s *jsonReportStore) LoadIssues(path m.Path) ([]m.Issue, error) {
	data, err := os.ReadFile(string(path))
	if err != nil {
		return nil, fmt.Errorf("read report: %w", err)
	}

	var issues []m.Issue
	if err := json.Unmarshal(data, &issues); err != nil {
		return nil, fmt.Errorf("decode report %s: %w", path, err)
	}

	return issues, nil
}
