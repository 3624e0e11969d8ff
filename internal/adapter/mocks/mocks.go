// Package mocks provides testify mocks for the adapter interfaces.
package mocks

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/mock"
	"vulnsweep.dev/pkg/vulnsweep/internal/adapter"
	m "vulnsweep.dev/pkg/vulnsweep/internal/model"
)

var (
	_ adapter.ScanRunnerAdapter = (*MockScanRunnerAdapter)(nil)
	_ adapter.ReportStore       = (*MockReportStore)(nil)
	_ adapter.SourceFSAdapter   = (*MockSourceFSAdapter)(nil)
	_ adapter.TaskParamsAdapter = (*MockTaskParamsAdapter)(nil)
)

// MockScanRunnerAdapter mocks adapter.ScanRunnerAdapter.
type MockScanRunnerAdapter struct {
	mock.Mock
}

// NewMockScanRunnerAdapter creates a MockScanRunnerAdapter whose expectations
// are asserted on test cleanup.
func NewMockScanRunnerAdapter(t *testing.T) *MockScanRunnerAdapter {
	mk := &MockScanRunnerAdapter{}
	mk.Test(t)
	t.Cleanup(func() { mk.AssertExpectations(t) })

	return mk
}

func (mk *MockScanRunnerAdapter) Run(ctx context.Context, workDir m.Path, bin string, args []string, env []string) ([]byte, error) {
	ret := mk.Called(ctx, workDir, bin, args, env)

	var output []byte
	if ret.Get(0) != nil {
		output = ret.Get(0).([]byte)
	}

	return output, ret.Error(1)
}

// MockReportStore mocks adapter.ReportStore.
type MockReportStore struct {
	mock.Mock
}

// NewMockReportStore creates a MockReportStore whose expectations are
// asserted on test cleanup.
func NewMockReportStore(t *testing.T) *MockReportStore {
	mk := &MockReportStore{}
	mk.Test(t)
	t.Cleanup(func() { mk.AssertExpectations(t) })

	return mk
}

func (mk *MockReportStore) SaveIssues(path m.Path, issues []m.Issue) error {
	return mk.Called(path, issues).Error(0)
}

func (mk *MockReportStore) LoadIssues(path m.Path) ([]m.Issue, error) {
	ret := mk.Called(path)

	var issues []m.Issue
	if ret.Get(0) != nil {
		issues = ret.Get(0).([]m.Issue)
	}

	return issues, ret.Error(1)
}

// MockSourceFSAdapter mocks adapter.SourceFSAdapter.
type MockSourceFSAdapter struct {
	mock.Mock
}

// NewMockSourceFSAdapter creates a MockSourceFSAdapter whose expectations are
// asserted on test cleanup.
func NewMockSourceFSAdapter(t *testing.T) *MockSourceFSAdapter {
	mk := &MockSourceFSAdapter{}
	mk.Test(t)
	t.Cleanup(func() { mk.AssertExpectations(t) })

	return mk
}

func (mk *MockSourceFSAdapter) Walk(ctx context.Context, root m.Path, fn adapter.FilepathWalkFunc) error {
	return mk.Called(ctx, root, fn).Error(0)
}

func (mk *MockSourceFSAdapter) ReadFile(path m.Path) ([]byte, error) {
	ret := mk.Called(path)

	var data []byte
	if ret.Get(0) != nil {
		data = ret.Get(0).([]byte)
	}

	return data, ret.Error(1)
}

func (mk *MockSourceFSAdapter) FileInfo(path m.Path) (os.FileInfo, error) {
	ret := mk.Called(path)

	var info os.FileInfo
	if ret.Get(0) != nil {
		info = ret.Get(0).(os.FileInfo)
	}

	return info, ret.Error(1)
}

func (mk *MockSourceFSAdapter) AbsPath(path m.Path) (m.Path, error) {
	ret := mk.Called(path)

	var abs m.Path
	if ret.Get(0) != nil {
		abs = ret.Get(0).(m.Path)
	}

	return abs, ret.Error(1)
}

func (mk *MockSourceFSAdapter) JoinPath(elem ...string) m.Path {
	args := make([]interface{}, 0, len(elem))
	for _, e := range elem {
		args = append(args, e)
	}

	return mk.Called(args...).Get(0).(m.Path)
}

// MockTaskParamsAdapter mocks adapter.TaskParamsAdapter.
type MockTaskParamsAdapter struct {
	mock.Mock
}

// NewMockTaskParamsAdapter creates a MockTaskParamsAdapter whose expectations
// are asserted on test cleanup.
func NewMockTaskParamsAdapter(t *testing.T) *MockTaskParamsAdapter {
	mk := &MockTaskParamsAdapter{}
	mk.Test(t)
	t.Cleanup(func() { mk.AssertExpectations(t) })

	return mk
}

func (mk *MockTaskParamsAdapter) Load(path m.Path) (m.TaskParams, error) {
	ret := mk.Called(path)

	var params m.TaskParams
	if ret.Get(0) != nil {
		params = ret.Get(0).(m.TaskParams)
	}

	return params, ret.Error(1)
}
