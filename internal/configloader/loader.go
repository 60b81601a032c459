// Package configloader resolves the snapline configuration from its
// sources: built-in defaults, a project .snapline.yaml discovered by
// upward search, and SNAPLINE_* environment variables.
package configloader

import (
	"context"
	"fmt"
	"os"

	"github.com/yaklabco/snapline/pkg/config"
)

// LoadOptions controls configuration loading behavior.
type LoadOptions struct {
	// WorkingDir is the directory to search from for project config.
	// Defaults to the current working directory if empty.
	WorkingDir string

	// ExplicitPath is an explicit config file path (from --config).
	// If set, project config discovery is skipped.
	ExplicitPath string

	// IgnoreEnv skips environment variable overrides.
	IgnoreEnv bool
}

// LoadResult contains the resolved configuration and metadata.
type LoadResult struct {
	// Config is the final merged configuration.
	Config *config.Config

	// Path is the config file that was loaded, or "" for pure defaults.
	Path string
}

// Load resolves the final configuration. Precedence, highest first:
//
//  1. Environment variables (SNAPLINE_*)
//  2. Explicit config file (opts.ExplicitPath)
//  3. Project config (.snapline.yaml upward search)
//  4. Defaults
func Load(ctx context.Context, opts LoadOptions) (*LoadResult, error) {
	workDir := opts.WorkingDir
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("working directory: %w", err)
		}
		workDir = wd
	}

	path := opts.ExplicitPath
	if path == "" {
		found, err := FindProjectConfig(ctx, workDir)
		if err != nil {
			return nil, err
		}
		path = found
	}

	cfg := config.Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		parsed, err := config.FromYAML(data)
		if err != nil {
			return nil, fmt.Errorf("config %s: %w", path, err)
		}
		cfg = parsed
	}

	if !opts.IgnoreEnv {
		if err := LoadFromEnv(cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return &LoadResult{Config: cfg, Path: path}, nil
}
