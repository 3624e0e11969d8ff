// Package domain contains the core scan workflow and logic.
package domain

import (
	"fmt"
	"path/filepath"

	m "vulnsweep.dev/pkg/vulnsweep/internal/model"
)

// toolSubdir is the directory under a tool root that holds per-platform
// toolchain bundles.
const toolSubdir = "tool"

// pinnedGoDir is the directory name of the bundled Go distribution inside a
// platform bundle.
const pinnedGoDir = "go-1.21.0"

// PlatformSpec describes where the scanner and the bundled Go toolchain live
// for one operating system.
type PlatformSpec struct {
	// BundleDir is the platform directory name under <root>/tool.
	BundleDir string
	// Scanner is the scanner binary name inside the bundle.
	Scanner string
}

var platforms = map[string]PlatformSpec{
	"linux":   {BundleDir: "linux", Scanner: "govulncheck"},
	"darwin":  {BundleDir: "mac", Scanner: "govulncheck"},
	"windows": {BundleDir: "win", Scanner: "govulncheck.exe"},
}

// ResolvePlatform maps a GOOS value to its toolchain layout. Unknown values
// are a hard error; nothing can run without a scanner binary.
func ResolvePlatform(goos string) (PlatformSpec, error) {
	spec, ok := platforms[goos]
	if !ok {
		return PlatformSpec{}, fmt.Errorf("unsupported platform %q", goos)
	}

	return spec, nil
}

// ScannerPath returns the scanner binary location under toolRoot.
func (p PlatformSpec) ScannerPath(toolRoot m.Path) m.Path {
	return m.Path(filepath.Join(string(toolRoot), toolSubdir, p.BundleDir, p.Scanner))
}

// GoRoot returns the bundled Go installation under home.
func (p PlatformSpec) GoRoot(home m.Path) m.Path {
	return m.Path(filepath.Join(string(home), toolSubdir, p.BundleDir, pinnedGoDir))
}

// GoPath returns the bundled module workspace under home.
func (p PlatformSpec) GoPath(home m.Path) m.Path {
	return m.Path(filepath.Join(string(home), toolSubdir, p.BundleDir, "gopath"))
}
