package cli

import (
	"fmt"
	"io"
	"os/exec"
	"runtime"

	"github.com/futureCreator/nfbuild/internal/build"
	"github.com/futureCreator/nfbuild/internal/config"
	"github.com/futureCreator/nfbuild/internal/steps"
	"github.com/gookit/color"
	"github.com/spf13/cobra"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor [platform]",
	Short: "Check nfbuild prerequisites and configuration",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

// hostPlatform is the platform checked when none is named.
func hostPlatform() string {
	if runtime.GOOS == "darwin" {
		return "osx"
	}
	return "linux"
}

// lookPath is swapped in tests.
var lookPath = exec.LookPath

func runDoctor(cmd *cobra.Command, args []string) error {
	platform := hostPlatform()
	if len(args) == 1 {
		platform = args[0]
	}
	if !diagnose(cmd.OutOrStdout(), platform) {
		return fmt.Errorf("some checks failed for %s", platform)
	}
	return nil
}

// diagnose prints one line per check and reports whether all passed.
func diagnose(w io.Writer, platform string) bool {
	allOK := true

	check := func(label string, ok bool, hint string) {
		if ok {
			fmt.Fprintf(w, "%s %s\n", color.Success.Sprint("✔"), label)
		} else {
			fmt.Fprintf(w, "%s %s: %s\n", color.Danger.Sprint("✘"), label, hint)
			allOK = false
		}
	}

	// 1. platform and workflows
	pl, err := build.Lookup(platform)
	check("platform "+platform+" supported", err == nil, fmt.Sprintf("choose one of %v", build.Platforms()))
	if err != nil {
		return false
	}
	cat, err := steps.For(pl.Name())
	if err == nil {
		_, err = cat.Registry()
	}
	check("workflows valid", err == nil, fmt.Sprintf("%v", err))

	// 2. config
	cfg, cfgErr := config.Load()
	check("config loadable", cfgErr == nil, fmt.Sprintf("fix config: %v", cfgErr))
	if cfgErr != nil {
		return false
	}
	validateErr := cfg.Validate()
	check("config valid", validateErr == nil, fmt.Sprintf("%v", validateErr))

	_, bcErr := config.LoadBuildConfig(cfg.BuildConfig, pl.Name())
	check("build config "+cfg.BuildConfig+" valid", bcErr == nil, fmt.Sprintf("%v", bcErr))

	// 3. tools
	seen := map[string]bool{}
	for _, tool := range pl.RequiredTools(cfg) {
		if tool == "" || seen[tool] {
			continue
		}
		seen[tool] = true
		_, err := lookPath(tool)
		check(tool+" installed", err == nil, "not found on PATH")
	}
	_, err = lookPath("git")
	check("git installed", err == nil, "run records will lack branch and commit")

	fmt.Fprintln(w)
	if allOK {
		fmt.Fprintf(w, "All checks passed. nfbuild is ready for %s.\n", platform)
	} else {
		fmt.Fprintln(w, "Some checks failed. Fix the issues above before running nfbuild.")
	}
	return allOK
}
