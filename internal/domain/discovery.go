package domain

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"vulnsweep.dev/pkg/vulnsweep/internal/adapter"
	m "vulnsweep.dev/pkg/vulnsweep/internal/model"
)

// manifestName marks a directory as a module root.
const manifestName = "go.mod"

// ModuleDiscovery locates the module roots to scan under a source tree.
type ModuleDiscovery interface {
	DiscoverRoots(ctx context.Context, sourceDir m.Path, params m.TaskParams) ([]m.Path, error)
}

type moduleDiscovery struct {
	adapter.SourceFSAdapter
}

// NewModuleDiscovery creates a ModuleDiscovery that walks via fsAdapter.
func NewModuleDiscovery(fsAdapter adapter.SourceFSAdapter) ModuleDiscovery {
	return &moduleDiscovery{SourceFSAdapter: fsAdapter}
}

// DiscoverRoots walks sourceDir for directories containing a go.mod. A tree
// without any manifest falls back to sourceDir itself. The inclusion filter
// narrows the result only when it intersects the discovered roots. Roots come
// back sorted so scan order is stable between runs.
func (d *moduleDiscovery) DiscoverRoots(ctx context.Context, sourceDir m.Path, params m.TaskParams) ([]m.Path, error) {
	roots, err := d.walkManifests(ctx, sourceDir)
	if err != nil {
		return nil, err
	}

	if len(roots) == 0 {
		slog.Info("no module manifest found, scanning source dir directly", "dir", sourceDir)
		roots = []m.Path{sourceDir}
	}

	roots = d.applyInclusionFilter(sourceDir, roots, params.PathFilters.Inclusion)

	sort.Slice(roots, func(i, j int) bool { return roots[i] < roots[j] })

	return roots, nil
}

func (d *moduleDiscovery) walkManifests(ctx context.Context, sourceDir m.Path) ([]m.Path, error) {
	var roots []m.Path

	err := d.Walk(ctx, sourceDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			slog.Warn("skipping unreadable path", "path", path, "error", err)
			return nil
		}

		if !info.IsDir() && filepath.Base(path) == manifestName {
			roots = append(roots, m.Path(filepath.Dir(path)))
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", sourceDir, err)
	}

	return roots, nil
}

// applyInclusionFilter keeps the discovered roots named by the inclusion
// patterns. Patterns are source-dir-relative with an optional trailing "/*".
// A filter that matches nothing leaves the root list alone.
func (d *moduleDiscovery) applyInclusionFilter(sourceDir m.Path, roots []m.Path, inclusion []string) []m.Path {
	if len(inclusion) == 0 {
		return roots
	}

	rootSet := make(map[m.Path]struct{}, len(roots))
	for _, root := range roots {
		rootSet[root] = struct{}{}
	}

	matched := make([]m.Path, 0, len(inclusion))
	seen := make(map[m.Path]struct{}, len(inclusion))

	for _, pattern := range inclusion {
		candidate := d.JoinPath(string(sourceDir), strings.TrimSuffix(pattern, "/*"))
		if _, ok := rootSet[candidate]; !ok {
			continue
		}
		if _, ok := seen[candidate]; ok {
			continue
		}

		seen[candidate] = struct{}{}
		matched = append(matched, candidate)
	}

	if len(matched) == 0 {
		slog.Info("inclusion filter matched no module roots, scanning all", "patterns", inclusion)
		return roots
	}

	slog.Debug("inclusion filter applied", "kept", len(matched), "discovered", len(roots))

	return matched
}
