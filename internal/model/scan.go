package model

import "time"

// Path represents a file system path.
type Path string

// ScanStatus classifies the outcome of scanning a single module root.
type ScanStatus int

const (
	// ScanOK indicates the scanner ran to completion and its output was parsed.
	ScanOK ScanStatus = iota
	// ScanTimeout indicates the scanner was killed after the per-scan deadline.
	ScanTimeout
	// ScanDecodeError indicates the captured output was not valid UTF-8.
	ScanDecodeError
	// ScanFailed indicates the scanner run failed outright, e.g. the binary
	// could not be started.
	ScanFailed
)

// String returns the human-readable status label used in logs and summaries.
func (s ScanStatus) String() string {
	switch s {
	case ScanOK:
		return "ok"
	case ScanTimeout:
		return "timeout"
	case ScanDecodeError:
		return "decode-error"
	case ScanFailed:
		return "failed"
	}

	return "unknown"
}

// RootResult summarizes the scan of one module root for display purposes.
// The issues themselves accumulate in the run-wide list.
type RootResult struct {
	Root     Path
	Issues   int
	Duration time.Duration
	Status   ScanStatus
}
