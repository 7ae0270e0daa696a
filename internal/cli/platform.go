package cli

import (
	"fmt"

	"github.com/futureCreator/nfbuild/internal/steps"
	"github.com/spf13/cobra"
)

func newPlatformCmd(platform string) *cobra.Command {
	var opts runOptions
	cmd := &cobra.Command{
		Use:   platform + " [workflow] [step...]",
		Short: fmt.Sprintf("Run %s build steps or a workflow", platform),
		Long: fmt.Sprintf(`Run build steps for %s.

At most one workflow may be named; it expands to its steps in declared order.
Extra step names are appended when not already part of the workflow. With no
workflow the default (empty) workflow is used.`, platform),
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.platform = platform
			opts.args = args
			return runBuild(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "print the selection and stream tool output")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "", "override log_level (debug, info, warn, error)")

	defaultHelp := cmd.HelpFunc()
	cmd.SetHelpFunc(func(c *cobra.Command, args []string) {
		defaultHelp(c, args)
		cat, err := steps.For(platform)
		if err != nil {
			return
		}
		reg, err := cat.Registry()
		if err != nil {
			fmt.Fprintf(c.OutOrStdout(), "\nworkflows unavailable: %v\n", err)
			return
		}
		fmt.Fprintln(c.OutOrStdout())
		reg.Describe(c.OutOrStdout())
	})
	return cmd
}
