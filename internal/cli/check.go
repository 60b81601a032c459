package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/snapline/pkg/runner"
)

type checkFlags struct {
	jobs   int
	names  []string
	strict bool
}

func newCheckCommand() *cobra.Command {
	flags := &checkFlags{}

	cmd := &cobra.Command{
		Use:   "check [paths...]",
		Short: "Verify that embedded snapshots are well-formed",
		Long: `Check every inline snapshot in the given test trees.

A snapshot closure must be a single return of a string literal, and the
literal must round-trip through the engine's framing so a re-record
reproduces it byte for byte. Problems fail the check; formatting drift
is reported as a warning (an error with --strict).

Examples:
  snapline check                 # Check the current directory
  snapline check --strict        # Fail on formatting drift too`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args, flags)
		},
	}

	cmd.Flags().IntVar(&flags.jobs, "jobs", 0, "number of parallel workers (0 = auto)")
	cmd.Flags().StringSliceVar(&flags.names, "assert", nil, "additional assertion function names to scan for")
	cmd.Flags().BoolVar(&flags.strict, "strict", false, "treat warnings as errors")

	return cmd
}

func runCheck(cmd *cobra.Command, args []string, flags *checkFlags) error {
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

	problems := 0
	warnings := 0

	for _, file := range result.Files {
		if file.Err != nil {
			fmt.Fprintln(out, styles.FormatFinding(file.Path, 0, "error", file.Err.Error()))
			problems++
			continue
		}
		for _, site := range file.Sites {
			for _, slot := range site.Slots {
				switch {
				case !slot.Literal:
					fmt.Fprintln(out, styles.FormatFinding(file.Path, slot.Line, "error",
						fmt.Sprintf("%s closure body is not a single string literal", slotName(slot))))
					problems++
				case !slot.RoundTrips:
					fmt.Fprintln(out, styles.FormatFinding(file.Path, slot.Line, "warning",
						fmt.Sprintf("%s snapshot does not round-trip; a re-record would reformat it", slotName(slot))))
					warnings++
				}
			}
		}
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, styles.FormatSummary(result.Stats))

	if problems > 0 || (flags.strict && warnings > 0) {
		return ErrProblemsFound
	}
	return nil
}

func slotName(slot runner.Slot) string {
	if slot.Label == "" {
		return fmt.Sprintf("slot %d", slot.Offset)
	}
	return slot.Label
}
