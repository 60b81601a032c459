package configloader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// snaplineConfigFiles are the config file names searched for, in order of
// preference.
//
//nolint:gochecknoglobals // Read-only lookup table.
var snaplineConfigFiles = []string{
	".snapline.yaml",
	".snapline.yml",
}

// vcsRootMarkers are directories that indicate a VCS root, bounding the
// upward search.
//
//nolint:gochecknoglobals // Read-only lookup table.
var vcsRootMarkers = []string{".git", ".hg", ".svn"}

// FindProjectConfig searches upward from workDir for a snapline config
// file. The search stops at the first VCS root or the filesystem root.
// A missing config is represented as an empty string, not an error.
func FindProjectConfig(ctx context.Context, workDir string) (string, error) {
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("find project config: %w", ctx.Err())
	default:
	}

	dir, err := filepath.Abs(workDir)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", workDir, err)
	}

	for {
		for _, name := range snaplineConfigFiles {
			candidate := filepath.Join(dir, name)
			if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
				return candidate, nil
			}
		}

		if isVCSRoot(dir) {
			return "", nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

func isVCSRoot(dir string) bool {
	for _, marker := range vcsRootMarkers {
		if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
			return true
		}
	}
	return false
}
