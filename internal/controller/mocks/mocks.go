// Package mocks provides testify mocks for the controller interfaces.
package mocks

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"vulnsweep.dev/pkg/vulnsweep/internal/controller"
	m "vulnsweep.dev/pkg/vulnsweep/internal/model"
)

var _ controller.UI = (*MockUI)(nil)

// MockUI mocks controller.UI.
type MockUI struct {
	mock.Mock
}

// NewMockUI creates a MockUI whose expectations are asserted on test cleanup.
func NewMockUI(t *testing.T) *MockUI {
	mk := &MockUI{}
	mk.Test(t)
	t.Cleanup(func() { mk.AssertExpectations(t) })

	return mk
}

func (mk *MockUI) Start(ctx context.Context, options ...controller.StartOption) error {
	args := make([]interface{}, 0, len(options)+1)
	args = append(args, ctx)

	for _, opt := range options {
		args = append(args, opt)
	}

	return mk.Called(args...).Error(0)
}

func (mk *MockUI) Close(ctx context.Context) {
	mk.Called(ctx)
}

func (mk *MockUI) Wait(ctx context.Context) {
	mk.Called(ctx)
}

func (mk *MockUI) DisplayToolchainInfo(ctx context.Context, scanner m.Path) {
	mk.Called(ctx, scanner)
}

func (mk *MockUI) DisplayRootsInfo(ctx context.Context, roots []m.Path) {
	mk.Called(ctx, roots)
}

func (mk *MockUI) DisplayScanStartInfo(ctx context.Context, root m.Path, index, total int) {
	mk.Called(ctx, root, index, total)
}

func (mk *MockUI) DisplayScanResult(ctx context.Context, result m.RootResult) {
	mk.Called(ctx, result)
}

func (mk *MockUI) DisplaySummary(ctx context.Context, results []m.RootResult, report m.Path) {
	mk.Called(ctx, results, report)
}

func (mk *MockUI) DisplayIssues(ctx context.Context, issues []m.Issue) error {
	return mk.Called(ctx, issues).Error(0)
}
