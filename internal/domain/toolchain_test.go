package domain_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	adaptermocks "vulnsweep.dev/pkg/vulnsweep/internal/adapter/mocks"
	"vulnsweep.dev/pkg/vulnsweep/internal/domain"
	m "vulnsweep.dev/pkg/vulnsweep/internal/model"
)

var pathListSep = string(os.PathListSeparator)

func expectGoVersionProbe(runner *adaptermocks.MockScanRunnerAdapter, output []byte, err error) {
	runner.On("Run", mock.Anything, m.Path(""), "go", []string{"version"}, mock.Anything).
		Return(output, err).Once()
}

func expectScannerVersionProbe(runner *adaptermocks.MockScanRunnerAdapter) {
	runner.On("Run", mock.Anything, m.Path(""), mock.MatchedBy(func(bin string) bool {
		return strings.Contains(bin, "govulncheck")
	}), []string{"-version"}, mock.Anything).
		Return([]byte("Go: go1.21.0\nScanner: govulncheck@v1.0.4\n"), nil).Once()
}

func linuxOptions(mode string) domain.ResolverOptions {
	return domain.ResolverOptions{
		GOOS:     "linux",
		ToolRoot: "/bundle",
		Mode:     mode,
		Home:     "/bundle",
		BaseEnv:  []string{"PATH=/usr/bin" + pathListSep + "/bin"},
	}
}

func TestToolchainResolver_UnsupportedPlatform(t *testing.T) {
	runner := adaptermocks.NewMockScanRunnerAdapter(t)
	resolver := domain.NewToolchainResolver(runner)

	opts := linuxOptions(domain.ModeAuto)
	opts.GOOS = "plan9"

	_, err := resolver.Resolve(context.Background(), opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported platform")
	runner.AssertNumberOfCalls(t, "Run", 0)
}

func TestToolchainResolver_AutoProbeDecides(t *testing.T) {
	tests := []struct {
		name       string
		probeOut   []byte
		probeErr   error
		wantPinned bool
	}{
		{name: "recent go is kept", probeOut: []byte("go version go1.22.4 linux/amd64\n")},
		{name: "minimum go is kept", probeOut: []byte("go version go1.21.0 linux/amd64\n")},
		{name: "old go is overridden", probeOut: []byte("go version go1.19.13 linux/amd64\n"), wantPinned: true},
		{name: "go1.9 is older than go1.21", probeOut: []byte("go version go1.9 linux/amd64\n"), wantPinned: true},
		{name: "go2.0 is newer than go1.21", probeOut: []byte("go version go2.0 linux/amd64\n")},
		{name: "garbled output is overridden", probeOut: []byte("sh: go: command not found\n"), wantPinned: true},
		{name: "probe failure is overridden", probeErr: errors.New("exec: go: not found"), wantPinned: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := adaptermocks.NewMockScanRunnerAdapter(t)
			expectGoVersionProbe(runner, tt.probeOut, tt.probeErr)
			expectScannerVersionProbe(runner)

			resolver := domain.NewToolchainResolver(runner)

			tc, err := resolver.Resolve(context.Background(), linuxOptions(domain.ModeAuto))
			require.NoError(t, err)

			if tt.wantPinned {
				assert.Equal(t, filepath.Join("/bundle", "tool", "linux", "go-1.21.0"), tc.Env.Get("GOROOT"))
			} else {
				assert.False(t, tc.Env.IsSet("GOROOT"))
			}
		})
	}
}

func TestToolchainResolver_OffSkipsProbe(t *testing.T) {
	runner := adaptermocks.NewMockScanRunnerAdapter(t)
	expectScannerVersionProbe(runner)

	resolver := domain.NewToolchainResolver(runner)

	tc, err := resolver.Resolve(context.Background(), linuxOptions("OFF"))
	require.NoError(t, err)

	goRoot := filepath.Join("/bundle", "tool", "linux", "go-1.21.0")
	goPath := filepath.Join("/bundle", "tool", "linux", "gopath")
	goBin := filepath.Join(goPath, "bin")

	assert.Equal(t, goRoot, tc.Env.Get("GOROOT"))
	assert.Equal(t, goPath, tc.Env.Get("GOPATH"))
	assert.Equal(t, goBin, tc.Env.Get("GOBIN"))
	assert.Equal(t,
		filepath.Join(goRoot, "bin")+pathListSep+goBin+pathListSep+"/usr/bin"+pathListSep+"/bin",
		tc.Env.Get("PATH"))

	// The only subprocess was the scanner version probe.
	runner.AssertNumberOfCalls(t, "Run", 1)
}

func TestToolchainResolver_UnknownModeLeavesEnvUntouched(t *testing.T) {
	runner := adaptermocks.NewMockScanRunnerAdapter(t)
	expectScannerVersionProbe(runner)

	resolver := domain.NewToolchainResolver(runner)

	tc, err := resolver.Resolve(context.Background(), linuxOptions("manual"))
	require.NoError(t, err)

	assert.False(t, tc.Env.IsSet("GOROOT"))
	assert.Equal(t, "/usr/bin"+pathListSep+"/bin", tc.Env.Get("PATH"))
	runner.AssertNumberOfCalls(t, "Run", 1)
}

func TestToolchainResolver_OffWithoutHomeSkipsOverride(t *testing.T) {
	runner := adaptermocks.NewMockScanRunnerAdapter(t)
	expectScannerVersionProbe(runner)

	resolver := domain.NewToolchainResolver(runner)

	opts := linuxOptions(domain.ModeOff)
	opts.Home = ""

	tc, err := resolver.Resolve(context.Background(), opts)
	require.NoError(t, err)

	assert.False(t, tc.Env.IsSet("GOROOT"))
	assert.False(t, tc.Env.IsSet("GOBIN"))
	assert.Equal(t, "/usr/bin"+pathListSep+"/bin", tc.Env.Get("PATH"))
}

func TestToolchainResolver_ExistingGOPATHIsKept(t *testing.T) {
	runner := adaptermocks.NewMockScanRunnerAdapter(t)
	expectScannerVersionProbe(runner)

	resolver := domain.NewToolchainResolver(runner)

	opts := linuxOptions(domain.ModeOff)
	opts.BaseEnv = append(opts.BaseEnv, "GOPATH=/home/dev/go")

	tc, err := resolver.Resolve(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, "/home/dev/go", tc.Env.Get("GOPATH"))
	// GOBIN still points into the pinned workspace.
	assert.Equal(t, filepath.Join("/bundle", "tool", "linux", "gopath", "bin"), tc.Env.Get("GOBIN"))
}

func TestToolchainResolver_ScannerPathFollowsPlatform(t *testing.T) {
	runner := adaptermocks.NewMockScanRunnerAdapter(t)
	expectScannerVersionProbe(runner)

	resolver := domain.NewToolchainResolver(runner)

	opts := linuxOptions("manual")
	opts.GOOS = "darwin"

	tc, err := resolver.Resolve(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, m.Path(filepath.Join("/bundle", "tool", "mac", "govulncheck")), tc.Scanner)
}

func TestToolchainResolver_ScannerProbeFailureIsNotFatal(t *testing.T) {
	runner := adaptermocks.NewMockScanRunnerAdapter(t)
	runner.On("Run", mock.Anything, m.Path(""), mock.Anything, []string{"-version"}, mock.Anything).
		Return(nil, errors.New("no such file")).Once()

	resolver := domain.NewToolchainResolver(runner)

	tc, err := resolver.Resolve(context.Background(), linuxOptions("manual"))
	require.NoError(t, err)
	require.NotNil(t, tc)
}
