package model

// TaskRequest is the on-disk envelope of the task-parameter file named by the
// TASK_REQUEST environment variable.
type TaskRequest struct {
	TaskParams TaskParams `json:"task_params"`
}

// TaskParams is the configuration block consumed once at startup. It never
// changes for the lifetime of the process.
type TaskParams struct {
	PathFilters PathFilters `json:"path_filters"`

	// IncrScan is carried by the task file but differential scanning is not
	// implemented; the value is logged and otherwise ignored.
	IncrScan bool `json:"incr_scan"`
}

// PathFilters narrows which module roots are scanned.
type PathFilters struct {
	// Inclusion holds glob-like path suffixes relative to the source
	// directory; a trailing "/*" is stripped before matching.
	Inclusion []string `json:"inclusion"`
}
