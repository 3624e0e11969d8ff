// Package mocks provides testify mocks for the domain interfaces.
package mocks

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"vulnsweep.dev/pkg/vulnsweep/internal/domain"
	m "vulnsweep.dev/pkg/vulnsweep/internal/model"
)

var (
	_ domain.ToolchainResolver = (*MockToolchainResolver)(nil)
	_ domain.ModuleDiscovery   = (*MockModuleDiscovery)(nil)
	_ domain.OutputParser      = (*MockOutputParser)(nil)
	_ domain.Workflow          = (*MockWorkflow)(nil)
)

// MockToolchainResolver mocks domain.ToolchainResolver.
type MockToolchainResolver struct {
	mock.Mock
}

// NewMockToolchainResolver creates a MockToolchainResolver whose expectations
// are asserted on test cleanup.
func NewMockToolchainResolver(t *testing.T) *MockToolchainResolver {
	mk := &MockToolchainResolver{}
	mk.Test(t)
	t.Cleanup(func() { mk.AssertExpectations(t) })

	return mk
}

func (mk *MockToolchainResolver) Resolve(ctx context.Context, opts domain.ResolverOptions) (*domain.Toolchain, error) {
	ret := mk.Called(ctx, opts)

	var toolchain *domain.Toolchain
	if ret.Get(0) != nil {
		toolchain = ret.Get(0).(*domain.Toolchain)
	}

	return toolchain, ret.Error(1)
}

// MockModuleDiscovery mocks domain.ModuleDiscovery.
type MockModuleDiscovery struct {
	mock.Mock
}

// NewMockModuleDiscovery creates a MockModuleDiscovery whose expectations are
// asserted on test cleanup.
func NewMockModuleDiscovery(t *testing.T) *MockModuleDiscovery {
	mk := &MockModuleDiscovery{}
	mk.Test(t)
	t.Cleanup(func() { mk.AssertExpectations(t) })

	return mk
}

func (mk *MockModuleDiscovery) DiscoverRoots(ctx context.Context, sourceDir m.Path, params m.TaskParams) ([]m.Path, error) {
	ret := mk.Called(ctx, sourceDir, params)

	var roots []m.Path
	if ret.Get(0) != nil {
		roots = ret.Get(0).([]m.Path)
	}

	return roots, ret.Error(1)
}

// MockOutputParser mocks domain.OutputParser.
type MockOutputParser struct {
	mock.Mock
}

// NewMockOutputParser creates a MockOutputParser whose expectations are
// asserted on test cleanup.
func NewMockOutputParser(t *testing.T) *MockOutputParser {
	mk := &MockOutputParser{}
	mk.Test(t)
	t.Cleanup(func() { mk.AssertExpectations(t) })

	return mk
}

func (mk *MockOutputParser) Parse(raw string, workDir m.Path) []m.Issue {
	ret := mk.Called(raw, workDir)

	var issues []m.Issue
	if ret.Get(0) != nil {
		issues = ret.Get(0).([]m.Issue)
	}

	return issues
}

// MockWorkflow mocks domain.Workflow.
type MockWorkflow struct {
	mock.Mock
}

// NewMockWorkflow creates a MockWorkflow whose expectations are asserted on
// test cleanup.
func NewMockWorkflow(t *testing.T) *MockWorkflow {
	mk := &MockWorkflow{}
	mk.Test(t)
	t.Cleanup(func() { mk.AssertExpectations(t) })

	return mk
}

func (mk *MockWorkflow) Scan(ctx context.Context, args domain.ScanArgs) error {
	return mk.Called(ctx, args).Error(0)
}

func (mk *MockWorkflow) View(ctx context.Context, args domain.ViewArgs) error {
	return mk.Called(ctx, args).Error(0)
}
