package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/snapline/internal/ui/pretty"
	"github.com/yaklabco/snapline/pkg/runner"
)

type listFlags struct {
	jobs    int
	names   []string
	pending bool
}

func newListCommand() *cobra.Command {
	flags := &listFlags{}

	cmd := &cobra.Command{
		Use:   "list [paths...]",
		Short: "List inline snapshot assertion sites",
		Long: `List every inline snapshot assertion in the given test trees.

Each line shows the call site, the assertion function, and the labels of
the recorded snapshot closures. Sites whose snapshot has not been
recorded yet are marked pending.

Examples:
  snapline list                  # Scan the current directory
  snapline list ./internal/...   # Scan a subtree
  snapline list --pending        # Only sites awaiting a first record`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, args, flags)
		},
	}

	cmd.Flags().IntVar(&flags.jobs, "jobs", 0, "number of parallel workers (0 = auto)")
	cmd.Flags().StringSliceVar(&flags.names, "assert", nil, "additional assertion function names to scan for")
	cmd.Flags().BoolVar(&flags.pending, "pending", false, "only show sites without a recorded snapshot")

	return cmd
}

func runList(cmd *cobra.Command, args []string, flags *listFlags) error {
	result, err := runner.Run(commandContext(cmd), runner.Options{
		Paths:          cleanPatterns(args),
		Jobs:           flags.jobs,
		AssertionNames: appendDefaults(flags.names),
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	styles := stylesFor(cmd, out)
	width := pretty.Width(out)

	for _, file := range result.Files {
		if file.Err != nil {
			fmt.Fprintln(out, styles.FormatFinding(file.Path, 0, "error", file.Err.Error()))
			continue
		}
		for _, site := range file.Sites {
			if flags.pending && site.Recorded() {
				continue
			}
			fmt.Fprintln(out, styles.FormatSite(site, width))
		}
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, styles.FormatSummary(result.Stats))

	return nil
}

// appendDefaults merges user-supplied assertion names with the built-in
// entry points.
func appendDefaults(names []string) []string {
	if len(names) == 0 {
		return nil
	}
	return append([]string{"AssertSnapshot", "AssertWithError", "AssertInline"}, names...)
}

// cleanPatterns strips the Go-style /... suffix users habitually type.
func cleanPatterns(args []string) []string {
	cleaned := make([]string, 0, len(args))
	for _, arg := range args {
		if n := len(arg); n > 4 && arg[n-4:] == "/..." {
			arg = arg[:n-4]
		}
		cleaned = append(cleaned, arg)
	}
	return cleaned
}
