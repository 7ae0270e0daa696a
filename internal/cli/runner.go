package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/futureCreator/nfbuild/internal/build"
	"github.com/futureCreator/nfbuild/internal/config"
	"github.com/futureCreator/nfbuild/internal/executor"
	vlog "github.com/futureCreator/nfbuild/internal/log"
	"github.com/futureCreator/nfbuild/internal/pipeline"
	"github.com/futureCreator/nfbuild/internal/project"
	"github.com/futureCreator/nfbuild/internal/run"
	"github.com/futureCreator/nfbuild/internal/steps"
)

type runOptions struct {
	platform string
	args     []string
	verbose  bool
	logLevel string
}

// runsDir holds one directory per recorded invocation.
var runsDir = filepath.Join(config.Dir, "runs")

// runBuild is the shared entry point for the platform commands.
func runBuild(ctx context.Context, out io.Writer, opts runOptions) error {
	// Load config
	cfg, err := config.Load()
	if err != nil {
		return configError("loading config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		return configError("invalid config: %v", err)
	}
	timeout, _ := cfg.Timeout()

	level := cfg.LogLevel
	if opts.logLevel != "" {
		level = opts.logLevel
	} else if opts.verbose {
		level = "debug"
	}
	vlog.Init(level, cfg.LogFormat, nil)

	// Resolve the selection
	cat, err := steps.For(opts.platform)
	if err != nil {
		return configError("%v", err)
	}
	reg, err := cat.Registry()
	if err != nil {
		return err
	}
	sel, err := reg.Resolve(opts.args)
	if err != nil {
		return err
	}
	buildOpts := cat.Options(sel)
	if opts.verbose {
		fmt.Fprintf(out, "Workflow: %s\nSteps: %s\nOptions: %+v\n", sel.Workflow, strings.Join(sel.Steps, ", "), buildOpts)
	}

	actions := cat.Actions(sel)
	if len(actions) == 0 {
		fmt.Fprintln(out, "Nothing to do.")
		return nil
	}

	bc, err := config.LoadBuildConfig(cfg.BuildConfig, opts.platform)
	if err != nil {
		return configError("%v", err)
	}

	platform, err := build.Lookup(opts.platform)
	if err != nil {
		return configError("%v", err)
	}

	// Collect git info
	gitInfo, err := project.CollectGitInfo(".")
	if err != nil {
		vlog.Warn("could not collect git info", "err", err)
		gitInfo = &project.GitInfo{}
	}

	// Create run directory
	r, err := run.New(runsDir, run.Options{
		Platform:  opts.platform,
		Workflow:  sel.Workflow,
		Selected:  sel.Steps,
		BuildType: string(buildOpts.BuildType),
		GitBranch: gitInfo.Branch,
		GitCommit: gitInfo.Commit,
		GitDirty:  gitInfo.IsDirty,
	})
	if err != nil {
		return fmt.Errorf("creating run: %w", err)
	}

	logFile, err := os.Create(r.FilePath("nfbuild.log"))
	if err != nil {
		vlog.Warn("could not open run log", "err", err)
	} else {
		defer logFile.Close()
		vlog.Init(level, cfg.LogFormat, logFile)
	}
	vlog.Info("run started", "id", r.ID, "platform", opts.platform, "workflow", sel.Workflow)

	shell := &executor.ShellExecutor{Timeout: timeout}
	if opts.verbose {
		shell.Stdout = os.Stdout
		shell.Stderr = os.Stderr
	}

	pl, err := build.New(platform, buildOpts, cfg, bc, shell, ".")
	if err != nil {
		return err
	}

	disp := pipeline.NewDisplay(fmt.Sprintf("%s %s (%s)", opts.platform, sel.Workflow, buildOpts.BuildType), opts.verbose)
	disp.Header()

	engine := &pipeline.Engine{
		Catalog:  cat,
		Env:      &steps.Env{Ops: pl, Config: cfg, Build: bc},
		Run:      r,
		Display:  disp,
		ExitCode: ExitCode,
	}
	if err := engine.Execute(ctx, sel); err != nil {
		return err
	}

	if len(pl.AnalyzedFiles) > 0 {
		vlog.Info("files analyzed", "count", len(pl.AnalyzedFiles))
	}
	return nil
}
