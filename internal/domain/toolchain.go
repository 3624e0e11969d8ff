package domain

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"vulnsweep.dev/pkg/vulnsweep/internal/adapter"
	m "vulnsweep.dev/pkg/vulnsweep/internal/model"
)

const (
	// ModeAuto probes the system Go and overrides the environment only when it
	// is missing or too old.
	ModeAuto = "auto"
	// ModeOff skips the probe and always uses the pinned toolchain.
	ModeOff = "off"
)

// goVersionRE extracts major/minor from `go version` output, e.g.
// "go version go1.22.4 linux/amd64".
var goVersionRE = regexp.MustCompile(`go(\d+)\.(\d+)`)

// The scanner needs at least this Go release on PATH.
const (
	minGoMajor = 1
	minGoMinor = 21
)

// Toolchain is the resolved scanner invocation context: which binary to run
// and the explicit environment every subsequent subprocess receives.
type Toolchain struct {
	Scanner m.Path
	Env     Environ
}

// ResolverOptions selects the platform bundle and toolchain mode for one run.
type ResolverOptions struct {
	// GOOS selects the platform bundle, normally runtime.GOOS.
	GOOS string
	// ToolRoot is the directory holding the tool/<platform> bundle with the
	// scanner binary.
	ToolRoot m.Path
	// Mode is ModeAuto, ModeOff, or anything else to leave the environment
	// untouched. Matched case-insensitively.
	Mode string
	// Home is the root of the pinned Go install used for overrides. Empty
	// skips the override even when one is requested.
	Home m.Path
	// BaseEnv is the parent environment, usually os.Environ().
	BaseEnv []string
}

// ToolchainResolver decides which Go toolchain the scanner runs against.
type ToolchainResolver interface {
	Resolve(ctx context.Context, opts ResolverOptions) (*Toolchain, error)
}

type toolchainResolver struct {
	adapter.ScanRunnerAdapter
}

// NewToolchainResolver creates a ToolchainResolver that probes via runner.
func NewToolchainResolver(runner adapter.ScanRunnerAdapter) ToolchainResolver {
	return &toolchainResolver{ScanRunnerAdapter: runner}
}

// Resolve picks the scanner binary for the requested platform and builds the
// subprocess environment, overlaying the pinned toolchain when the configured
// mode calls for it. The ambient process environment is never mutated.
func (r *toolchainResolver) Resolve(ctx context.Context, opts ResolverOptions) (*Toolchain, error) {
	spec, err := ResolvePlatform(opts.GOOS)
	if err != nil {
		return nil, err
	}

	env := NewEnviron(opts.BaseEnv)

	switch strings.ToLower(opts.Mode) {
	case ModeAuto:
		if !r.systemGoUsable(ctx, env) {
			overlayPinned(spec, opts.Home, env)
		}
	case ModeOff:
		overlayPinned(spec, opts.Home, env)
	default:
		slog.Debug("toolchain mode leaves environment untouched", "mode", opts.Mode)
	}

	slog.Info("effective toolchain environment",
		"GOPROXY", env.Get("GOPROXY"),
		"GOROOT", env.Get("GOROOT"),
		"GOBIN", env.Get("GOBIN"),
		"PATH", env.Get("PATH"),
	)

	scanner := spec.ScannerPath(opts.ToolRoot)
	r.logScannerVersion(ctx, scanner, env)

	return &Toolchain{Scanner: scanner, Env: env}, nil
}

// systemGoUsable probes `go version` under env and reports whether the
// ambient Go toolchain is recent enough for the scanner. Any probe failure
// counts as unusable.
func (r *toolchainResolver) systemGoUsable(ctx context.Context, env Environ) bool {
	output, err := r.Run(ctx, "", "go", []string{"version"}, env.Slice())
	if err != nil {
		slog.Warn("go version probe failed", "error", err)
		return false
	}

	line, _, _ := strings.Cut(string(output), "\n")
	slog.Info("go version probe", "output", line)

	match := goVersionRE.FindStringSubmatch(line)
	if match == nil {
		slog.Warn("go version probe output not recognized", "output", line)
		return false
	}

	// Submatches are all digits, so Atoi cannot fail.
	major, _ := strconv.Atoi(match[1])
	minor, _ := strconv.Atoi(match[2])

	if major != minGoMajor {
		return major > minGoMajor
	}

	return minor >= minGoMinor
}

// overlayPinned points env at the pinned Go install under home. Without a
// configured home there is nothing to point at and env stays as probed.
func overlayPinned(spec PlatformSpec, home m.Path, env Environ) {
	if home == "" {
		slog.Debug("pinned toolchain home not configured, keeping probed environment")
		return
	}

	goRoot := string(spec.GoRoot(home))
	goPath := string(spec.GoPath(home))
	goBin := filepath.Join(goPath, "bin")
	sep := string(os.PathListSeparator)

	env.Set("GOROOT", goRoot)

	if env.IsSet("GOPATH") {
		slog.Info("GOPATH already set", "GOPATH", env.Get("GOPATH"))
	} else {
		env.Set("GOPATH", goPath)
		slog.Info("GOPATH defaulted to pinned workspace", "GOPATH", goPath)
	}

	env.Set("GOBIN", goBin)
	env.Prepend("PATH", filepath.Join(goRoot, "bin")+sep+goBin, sep)
}

// logScannerVersion runs `<scanner> -version` and logs each output line. A
// failing probe is recorded and otherwise ignored; a broken scanner surfaces
// again on the first real scan.
func (r *toolchainResolver) logScannerVersion(ctx context.Context, scanner m.Path, env Environ) {
	output, err := r.Run(ctx, "", string(scanner), []string{"-version"}, env.Slice())
	if err != nil {
		slog.Warn("scanner version probe failed", "scanner", scanner, "error", err)
		return
	}

	for _, line := range strings.Split(strings.TrimRight(string(output), "\n"), "\n") {
		if line == "" {
			continue
		}
		slog.Info("scanner version", "line", line)
	}
}
