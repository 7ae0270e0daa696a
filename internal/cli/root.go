package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/futureCreator/nfbuild/internal/build"
	"github.com/futureCreator/nfbuild/internal/workflow"
	"github.com/futureCreator/nfbuild/pkg/version"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "nfbuild",
	Short: "CI build orchestrator for CMake C++ libraries",
	Long: `nfbuild runs named build steps and workflows (lint, generate, build, test,
coverage, package) for a CMake based C++ library on Linux, macOS and iOS.`,
	SilenceUsage: true,
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the CLI; ctx cancellation stops the build between steps.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(historyCmd)
	for _, name := range build.Platforms() {
		rootCmd.AddCommand(newPlatformCmd(name))
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "nfbuild %s\n", version.Version)
	},
}

// ExitCode maps a command error to the process exit code: the failing tool's
// or test binary's own code, 2 for configuration errors, 1 otherwise.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var coded interface{ ExitCode() int }
	if errors.As(err, &coded) && coded.ExitCode() > 0 {
		return coded.ExitCode()
	}
	if errors.Is(err, workflow.ErrConfiguration) {
		return 2
	}
	return 1
}

// configError marks err as a configuration problem.
func configError(format string, err error) error {
	return fmt.Errorf("%w: "+format, workflow.ErrConfiguration, err)
}
