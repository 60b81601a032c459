package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/snapline/internal/logging"
	"github.com/yaklabco/snapline/pkg/config"
)

const configFileName = ".snapline.yaml"

const configHeader = `# snapline configuration
# record: re-record every snapshot on the next test run
# label: wrapper name used for newly recorded snapshot closures
# log_level: debug, info, warn, or error`

func newInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default .snapline.yaml",
		Long:  `Write a default .snapline.yaml in the current directory.`,
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runInit(force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")

	return cmd
}

func runInit(force bool) error {
	if _, err := os.Stat(configFileName); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", configFileName)
	}

	data, err := config.Default().ToYAML()
	if err != nil {
		return err
	}

	content := configHeader + "\n\n" + string(data)
	if err := os.WriteFile(configFileName, []byte(content), 0644); err != nil {
		return fmt.Errorf("write %s: %w", configFileName, err)
	}

	logging.Default().Info("wrote config", logging.FieldPath, configFileName)
	return nil
}
