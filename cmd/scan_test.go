package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"vulnsweep.dev/pkg/vulnsweep/internal/domain"
	domainmocks "vulnsweep.dev/pkg/vulnsweep/internal/domain/mocks"
	m "vulnsweep.dev/pkg/vulnsweep/internal/model"
)

func newScanTestCmd(t *testing.T) (*cobra.Command, *domainmocks.MockWorkflow) {
	t.Helper()

	mockWorkflow := domainmocks.NewMockWorkflow(t)

	cmd := newRootCmd()
	cmd.AddCommand(newScanCmd())
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	originalWorkflow := workflow
	workflow = mockWorkflow
	t.Cleanup(func() { workflow = originalWorkflow })

	return cmd, mockWorkflow
}

func writeTaskRequest(t *testing.T, contents string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "task_request.json")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	return path
}

func TestScanCmd_Defaults(t *testing.T) {
	cmd, mockWorkflow := newScanTestCmd(t)

	mockWorkflow.On("Scan", mock.Anything, mock.MatchedBy(func(args domain.ScanArgs) bool {
		return args.SourceDir == m.Path(".") &&
			args.Output == m.Path("result.json") &&
			len(args.TaskParams.PathFilters.Inclusion) == 0 &&
			args.Toolchain.GOOS == runtime.GOOS &&
			args.Toolchain.ToolRoot == m.Path(".") &&
			args.Toolchain.Mode == "auto" &&
			args.Toolchain.Home == m.Path("") &&
			len(args.Toolchain.BaseEnv) > 0
	})).Return(nil)

	cmd.SetArgs([]string{"scan"})
	err := cmd.Execute()
	require.NoError(t, err)

	mockWorkflow.AssertExpectations(t)
}

func TestScanCmd_PositionalSourceDirWins(t *testing.T) {
	cmd, mockWorkflow := newScanTestCmd(t)
	t.Setenv("SOURCE_DIR", "/env/tree")

	mockWorkflow.On("Scan", mock.Anything, mock.MatchedBy(func(args domain.ScanArgs) bool {
		return args.SourceDir == m.Path("/work/tree")
	})).Return(nil)

	cmd.SetArgs([]string{"scan", "/work/tree"})
	err := cmd.Execute()
	require.NoError(t, err)

	mockWorkflow.AssertExpectations(t)
}

func TestScanCmd_SourceDirFromEnv(t *testing.T) {
	cmd, mockWorkflow := newScanTestCmd(t)
	t.Setenv("SOURCE_DIR", "/env/tree")

	mockWorkflow.On("Scan", mock.Anything, mock.MatchedBy(func(args domain.ScanArgs) bool {
		return args.SourceDir == m.Path("/env/tree")
	})).Return(nil)

	cmd.SetArgs([]string{"scan"})
	err := cmd.Execute()
	require.NoError(t, err)

	mockWorkflow.AssertExpectations(t)
}

func TestScanCmd_OutputFlagIsPassedThrough(t *testing.T) {
	cmd, mockWorkflow := newScanTestCmd(t)

	mockWorkflow.On("Scan", mock.Anything, mock.MatchedBy(func(args domain.ScanArgs) bool {
		return args.Output == m.Path("./findings.json")
	})).Return(nil)

	cmd.SetArgs([]string{"scan", "--output", "./findings.json"})
	err := cmd.Execute()
	require.NoError(t, err)

	mockWorkflow.AssertExpectations(t)
}

func TestScanCmd_ToolchainFlags(t *testing.T) {
	cmd, mockWorkflow := newScanTestCmd(t)

	mockWorkflow.On("Scan", mock.Anything, mock.MatchedBy(func(args domain.ScanArgs) bool {
		return args.Toolchain.Mode == "off" &&
			args.Toolchain.Home == m.Path("/opt/bundle") &&
			args.Toolchain.ToolRoot == m.Path("/opt/bundle")
	})).Return(nil)

	cmd.SetArgs([]string{
		"scan",
		"--toolchain-mode", "off",
		"--toolchain-home", "/opt/bundle",
		"--tool-dir", "/opt/bundle",
	})
	err := cmd.Execute()
	require.NoError(t, err)

	mockWorkflow.AssertExpectations(t)
}

func TestScanCmd_TaskRequestIsLoaded(t *testing.T) {
	cmd, mockWorkflow := newScanTestCmd(t)
	requestPath := writeTaskRequest(t, `{
		"task_params": {
			"path_filters": {"inclusion": ["services/*", "tools"]},
			"incr_scan": false
		}
	}`)

	mockWorkflow.On("Scan", mock.Anything, mock.MatchedBy(func(args domain.ScanArgs) bool {
		inclusion := args.TaskParams.PathFilters.Inclusion
		return len(inclusion) == 2 && inclusion[0] == "services/*" && inclusion[1] == "tools"
	})).Return(nil)

	cmd.SetArgs([]string{"scan", "--task-request", requestPath})
	err := cmd.Execute()
	require.NoError(t, err)

	mockWorkflow.AssertExpectations(t)
}

func TestScanCmd_MissingTaskRequestFails(t *testing.T) {
	cmd, mockWorkflow := newScanTestCmd(t)

	cmd.SetArgs([]string{"scan", "--task-request", "/does/not/exist.json"})
	err := cmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "load task request")
	mockWorkflow.AssertNotCalled(t, "Scan", mock.Anything, mock.Anything)
}

func TestScanCmd_IncrScanIsIgnored(t *testing.T) {
	cmd, mockWorkflow := newScanTestCmd(t)
	requestPath := writeTaskRequest(t, `{
		"task_params": {
			"path_filters": {"inclusion": []},
			"incr_scan": true
		}
	}`)
	logPath := filepath.Join(t.TempDir(), "scan.log")

	mockWorkflow.On("Scan", mock.Anything, mock.MatchedBy(func(args domain.ScanArgs) bool {
		return args.TaskParams.IncrScan
	})).Return(nil)

	cmd.SetArgs([]string{"scan", "--task-request", requestPath, "--log-file", logPath})
	err := cmd.Execute()
	require.NoError(t, err)

	contents, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(contents), "not supported")

	mockWorkflow.AssertExpectations(t)
}

func TestScanCmd_RejectsExtraArgs(t *testing.T) {
	cmd, mockWorkflow := newScanTestCmd(t)

	cmd.SetArgs([]string{"scan", "./a", "./b"})
	err := cmd.Execute()

	require.Error(t, err)
	mockWorkflow.AssertNotCalled(t, "Scan", mock.Anything, mock.Anything)
}

func TestNewScanCmd(t *testing.T) {
	cmd := newScanCmd()

	assert.Equal(t, "scan [source-dir]", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)
	assert.Equal(t, scanLongDescription, cmd.Long)

	for _, name := range []string{taskRequestFlagName, toolchainModeFlagName, toolchainHomeFlagName, toolDirFlagName} {
		assert.NotNil(t, cmd.Flags().Lookup(name), name)
	}
}
