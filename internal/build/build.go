// Package build implements the CI build pipeline: a single ordered contract
// (Operations) shared by every platform, with the platform-specific calls to
// the generator, build driver and packager supplied by a Platform.
package build

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/futureCreator/nfbuild/internal/config"
	"github.com/futureCreator/nfbuild/internal/executor"
)

// BuildType is the configuration passed to the generator and build driver.
type BuildType string

const (
	Release BuildType = "Release"
	Debug   BuildType = "Debug"
)

// Toolchain selects the compilers used for project generation.
type Toolchain string

const (
	DefaultToolchain Toolchain = ""
	GNU              Toolchain = "gnu"
	LLVM             Toolchain = "llvm"
)

// Options is fixed before the pipeline is constructed. Configuration steps
// such as "debug" produce Options; they never mutate a running pipeline.
type Options struct {
	BuildType                   BuildType
	CodeCoverage                bool
	AddressSanitizer            bool
	ThreadSanitizer             bool
	UndefinedBehaviourSanitizer bool
	Toolchain                   Toolchain
}

// DefaultOptions returns a release build with no instrumentation.
func DefaultOptions() Options {
	return Options{BuildType: Release}
}

// State is the per-invocation state of a pipeline.
type State struct {
	BuildType BuildType
	WorkDir   string
	BuildDir  string
	OutputDir string
	// AnalyzedFiles accumulates every file passed to a static lint tool.
	AnalyzedFiles []string
}

// Destination scopes a build to one SDK/architecture pair. The zero value
// means the platform default.
type Destination struct {
	SDK  string
	Arch string
}

func (d Destination) String() string {
	if d.SDK == "" && d.Arch == "" {
		return "default"
	}
	return d.SDK + "/" + d.Arch
}

// Operations is the capability set every step is built from.
type Operations interface {
	InstallDependencies(ctx context.Context) error
	LintSources(ctx context.Context, fix bool) error
	LintBuildConfig(ctx context.Context) error
	ResetBuildDirectory(ctx context.Context) error
	GenerateProject(ctx context.Context) error
	BuildTarget(ctx context.Context, name string, dest Destination) error
	ResolveTargetBinary(name string) (string, error)
	RunTarget(ctx context.Context, name string) error
	RunUnitTests(ctx context.Context) error
	CollectCoverage(ctx context.Context) error
	PackageArtifacts(ctx context.Context) error
}

// Platform supplies the OS/SDK specific parts of the pipeline.
type Platform interface {
	Name() string
	GenerateProject(ctx context.Context, p *Pipeline) error
	BuildTarget(ctx context.Context, p *Pipeline, name string, dest Destination) error
	PackageArtifacts(ctx context.Context, p *Pipeline) error
	// RequiredTools lists the executables the platform's steps invoke.
	RequiredTools(cfg *config.Config) []string
}

// Pipeline is the one active build for a process.
type Pipeline struct {
	State
	Options  Options
	Config   *config.Config
	Build    *config.BuildConfig
	Exec     executor.Executor
	Platform Platform
}

var _ Operations = (*Pipeline)(nil)

// New constructs the pipeline rooted at workDir.
func New(platform Platform, opts Options, cfg *config.Config, bc *config.BuildConfig, exec executor.Executor, workDir string) (*Pipeline, error) {
	if platform == nil || cfg == nil || bc == nil || exec == nil {
		return nil, fmt.Errorf("build: platform, config, build config and executor are required")
	}
	if opts.BuildType == "" {
		opts.BuildType = Release
	}
	abs, err := filepath.Abs(workDir)
	if err != nil {
		return nil, fmt.Errorf("resolving work dir: %w", err)
	}
	buildDir := cfg.BuildDir
	if !filepath.IsAbs(buildDir) {
		buildDir = filepath.Join(abs, buildDir)
	}
	buildDir = filepath.Clean(buildDir)
	if err := checkBuildDir(cfg, abs, buildDir); err != nil {
		return nil, err
	}
	return &Pipeline{
		State: State{
			BuildType: opts.BuildType,
			WorkDir:   abs,
			BuildDir:  buildDir,
			OutputDir: filepath.Join(buildDir, "output"),
		},
		Options:  opts,
		Config:   cfg,
		Build:    bc,
		Exec:     exec,
		Platform: platform,
	}, nil
}

// checkBuildDir rejects a build directory that reset would wipe along with
// the project or its sources.
func checkBuildDir(cfg *config.Config, workDir, buildDir string) error {
	if within(buildDir, workDir) {
		return &BuildDirError{Dir: cfg.BuildDir, Reason: "it contains the project directory"}
	}
	sources := append(append([]string{}, cfg.Sources.LintDirs...), cfg.Sources.CMakeDirs...)
	if cfg.Sources.IncludeDir != "" {
		sources = append(sources, cfg.Sources.IncludeDir)
	}
	for _, dir := range sources {
		src := filepath.Clean(filepath.Join(workDir, dir))
		if within(buildDir, src) || within(src, buildDir) {
			return &BuildDirError{Dir: cfg.BuildDir, Reason: fmt.Sprintf("it overlaps source directory %q", dir)}
		}
	}
	return nil
}

// within reports whether path is dir or lies below it.
func within(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// Lookup returns the platform registered under name.
func Lookup(name string) (Platform, error) {
	switch strings.ToLower(name) {
	case "linux":
		return Linux{}, nil
	case "osx", "macos", "darwin":
		return OSX{}, nil
	case "ios":
		return IOS{}, nil
	}
	return nil, fmt.Errorf("unknown platform %q", name)
}

// Platforms lists the supported platform names.
func Platforms() []string {
	return []string{"linux", "osx", "ios"}
}

// run invokes a tool from the working directory.
func (p *Pipeline) run(ctx context.Context, tool string, args []string, env map[string]string) (*executor.Result, error) {
	return p.Exec.Execute(ctx, &executor.Request{
		Tool: tool,
		Args: args,
		Dir:  p.WorkDir,
		Env:  env,
	})
}

func (p *Pipeline) GenerateProject(ctx context.Context) error {
	if err := p.requireFreshBuildDir("generate project"); err != nil {
		return err
	}
	return p.Platform.GenerateProject(ctx, p)
}

func (p *Pipeline) BuildTarget(ctx context.Context, name string, dest Destination) error {
	if err := p.requireBuildDir("build target " + name); err != nil {
		return err
	}
	return p.Platform.BuildTarget(ctx, p, name, dest)
}

func (p *Pipeline) PackageArtifacts(ctx context.Context) error {
	if err := p.requireBuildDir("package artifacts"); err != nil {
		return err
	}
	return p.Platform.PackageArtifacts(ctx, p)
}
