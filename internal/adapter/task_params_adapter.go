package adapter

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	m "vulnsweep.dev/pkg/vulnsweep/internal/model"
)

// TaskParamsAdapter loads the task parameters that drive a scan run.
type TaskParamsAdapter interface {
	Load(path m.Path) (m.TaskParams, error)
}

// LocalTaskParamsAdapter reads task parameters from a JSON request file on
// disk.
type LocalTaskParamsAdapter struct{}

// NewLocalTaskParamsAdapter constructs a LocalTaskParamsAdapter.
func NewLocalTaskParamsAdapter() *LocalTaskParamsAdapter {
	return &LocalTaskParamsAdapter{}
}

// Load parses the request file and returns its task_params object.
func (a *LocalTaskParamsAdapter) Load(path m.Path) (m.TaskParams, error) {
	data, err := os.ReadFile(string(path))
	if err != nil {
		return m.TaskParams{}, fmt.Errorf("read task request: %w", err)
	}

	var request m.TaskRequest
	if err := json.Unmarshal(data, &request); err != nil {
		return m.TaskParams{}, fmt.Errorf("decode task request %s: %w", path, err)
	}

	slog.Debug("task request loaded",
		"path", path,
		"inclusion", request.TaskParams.PathFilters.Inclusion,
		"incr_scan", request.TaskParams.IncrScan,
	)

	return request.TaskParams, nil
}
