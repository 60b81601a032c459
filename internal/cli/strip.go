package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/snapline/internal/logging"
	"github.com/yaklabco/snapline/pkg/fsutil"
	"github.com/yaklabco/snapline/pkg/rewrite"
	"github.com/yaklabco/snapline/pkg/runner"
	"github.com/yaklabco/snapline/pkg/source"
)

type stripFlags struct {
	names  []string
	labels []string
	dryRun bool
}

func newStripCommand() *cobra.Command {
	flags := &stripFlags{}

	cmd := &cobra.Command{
		Use:   "strip [paths...]",
		Short: "Remove recorded snapshots so the next run re-records them",
		Long: `Strip the recorded snapshot closures from assertion calls.

The assertions stay in place; only the embedded expected values are
removed. The next test run records fresh snapshots, which is the bulk
way to re-record a tree without SNAPLINE_RECORD=1.

Examples:
  snapline strip ./pkg/api       # Strip one subtree
  snapline strip --dry-run       # Show what would change`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStrip(cmd, args, flags)
		},
	}

	cmd.Flags().StringSliceVar(&flags.names, "assert", nil, "additional assertion function names to strip from")
	cmd.Flags().StringSliceVar(&flags.labels, "label", nil, "additional closure labels to strip")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "report without modifying files")

	return cmd
}

func runStrip(cmd *cobra.Command, args []string, flags *stripFlags) error {
	ctx := commandContext(cmd)
	logger := logging.Default()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	files, err := runner.Discover(ctx, runner.Options{Paths: cleanPatterns(args)})
	if err != nil {
		return err
	}

	nameSet := make(map[string]bool)
	for _, n := range append([]string{"AssertSnapshot", "AssertWithError", "AssertInline"}, flags.names...) {
		nameSet[n] = true
	}
	labelSet := snapshotLabels(cfg, flags.labels)

	totalStripped := 0
	filesChanged := 0

	for _, path := range files {
		content, info, err := fsutil.ReadFile(ctx, path)
		if err != nil {
			return err
		}

		f, err := source.Parse(path, content)
		if err != nil {
			logger.Warn("skipping unparseable file",
				logging.FieldPath, path,
				logging.FieldError, err)
			continue
		}

		res, stripped, err := rewrite.Strip(f, nameSet, labelSet)
		if err != nil {
			return err
		}
		if !res.Changed {
			continue
		}

		totalStripped += stripped
		filesChanged++

		if flags.dryRun {
			logger.Info("would strip snapshots",
				logging.FieldPath, path,
				logging.FieldSnapshots, stripped)
			continue
		}

		// Refuse to write over a file that changed since it was read.
		if modified, err := fsutil.CheckModified(ctx, info); err != nil {
			return err
		} else if modified {
			return fmt.Errorf("%s changed while stripping; rerun", path)
		}

		if err := fsutil.WriteAtomic(ctx, path, res.Content, info.Mode); err != nil {
			return err
		}
		logger.Info("stripped snapshots",
			logging.FieldPath, path,
			logging.FieldSnapshots, stripped)
	}

	out := cmd.OutOrStdout()
	styles := stylesFor(cmd, out)
	verb := "Stripped"
	if flags.dryRun {
		verb = "Would strip"
	}
	fmt.Fprintln(out, styles.Bold.Render(
		fmt.Sprintf("%s %d snapshots across %d files", verb, totalStripped, filesChanged)))

	return nil
}
