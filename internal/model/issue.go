// Package model defines the data structures shared by the scan pipeline.
package model

import (
	"encoding/json"
	"strconv"
)

// RuleGoVulnerability is the classification tag attached to every finding
// produced by the scanner, both module-level summaries and call-site traces.
const RuleGoVulnerability = "GO-Vulnerability"

// Line is a 1-based source line number as it appears in the report. Trace
// output carries line numbers as strings ("42"); module-level findings have
// no usable location and serialize as the integer 0.
type Line struct {
	Number int    // used when Text is empty
	Text   string // verbatim digits from the scanner output, when present
}

// MarshalJSON writes Text as a JSON string when set, Number otherwise.
func (l Line) MarshalJSON() ([]byte, error) {
	if l.Text != "" {
		return json.Marshal(l.Text)
	}

	return json.Marshal(l.Number)
}

// String renders the line number for display.
func (l Line) String() string {
	if l.Text != "" {
		return l.Text
	}

	return strconv.Itoa(l.Number)
}

// UnmarshalJSON accepts either a JSON string or a JSON number.
func (l *Line) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		l.Number = 0

		return json.Unmarshal(data, &l.Text)
	}

	l.Text = ""

	return json.Unmarshal(data, &l.Number)
}

// Issue is the unit of report output. Issues are immutable once appended to
// the run's result list; every Issue carries a non-empty Path and Rule.
type Issue struct {
	Path   Path   `json:"path"`
	Rule   string `json:"rule"`
	Msg    string `json:"msg"`
	Line   Line   `json:"line"`
	Column string `json:"column,omitempty"`
}
