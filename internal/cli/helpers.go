package cli

import (
	"context"
	"errors"
	"io"

	"github.com/spf13/cobra"

	"github.com/yaklabco/snapline/internal/configloader"
	"github.com/yaklabco/snapline/internal/ui/pretty"
	"github.com/yaklabco/snapline/pkg/config"
)

// ErrProblemsFound is returned when check finds problems. It carries no
// message worth logging; the findings were already printed.
var ErrProblemsFound = errors.New("snapshot problems found")

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// loadConfig resolves the configuration honoring the root --config flag.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		configPath = ""
	}
	result, err := configloader.Load(commandContext(cmd), configloader.LoadOptions{
		ExplicitPath: configPath,
	})
	if err != nil {
		return nil, err
	}
	return result.Config, nil
}

// stylesFor builds output styles honoring the root --color flag.
func stylesFor(cmd *cobra.Command, w io.Writer) *pretty.Styles {
	mode, err := cmd.Flags().GetString("color")
	if err != nil {
		mode = "auto"
	}
	return pretty.NewStyles(pretty.IsColorEnabled(mode, w))
}

// snapshotLabels returns the closure labels the CLI treats as snapshot
// slots: the built-in wrappers plus the configured default label.
func snapshotLabels(cfg *config.Config, extra []string) map[string]bool {
	labels := map[string]bool{
		"Matches":      true,
		"ErrorMessage": true,
	}
	if cfg != nil && cfg.Label != "" {
		labels[cfg.Label] = true
	}
	for _, l := range extra {
		labels[l] = true
	}
	return labels
}
