package build

import (
	"context"
	"path/filepath"

	"github.com/futureCreator/nfbuild/internal/cmake"
	"github.com/futureCreator/nfbuild/internal/config"
)

// OSX generates Xcode projects and builds them with xcodebuild.
type OSX struct{}

func (OSX) Name() string { return "osx" }

func (OSX) GenerateProject(ctx context.Context, p *Pipeline) error {
	return generateXcode(ctx, p, false)
}

func (OSX) BuildTarget(ctx context.Context, p *Pipeline, name string, dest Destination) error {
	if dest.SDK == "" {
		dest.SDK = p.Config.Platforms.OSX.SDK
	}
	if dest.Arch == "" {
		dest.Arch = p.Config.Platforms.OSX.Arch
	}
	return xcodebuild(ctx, p, name, dest)
}

func (OSX) PackageArtifacts(ctx context.Context, p *Pipeline) error {
	return p.packageLibrary(ctx, false)
}

func (OSX) RequiredTools(cfg *config.Config) []string {
	return []string{cfg.Tools.CMake, cfg.Tools.XcodeBuild, cfg.Tools.ClangFormat, cfg.Tools.CMakeLint, cfg.Tools.LCov, cfg.Tools.GenHTML}
}

func generateXcode(ctx context.Context, p *Pipeline, ios bool) error {
	cm := cmake.New(".", p.relBuildDir()).
		Generator("Xcode").
		Flag("CODE_COVERAGE", p.Options.CodeCoverage).
		Flag("USE_ADDRESS_SANITIZER", p.Options.AddressSanitizer)
	if p.Options.ThreadSanitizer {
		cm.Flag("USE_THREAD_SANITIZER", true)
	}
	if p.Options.UndefinedBehaviourSanitizer {
		cm.Flag("USE_UNDEFINED_BEHAVIOUR_SANITIZER", true)
	}
	if ios {
		cm.Define("CMAKE_SYSTEM_NAME", "iOS")
	}
	p.applyCompilers(cm)
	_, err := p.run(ctx, p.Config.Tools.CMake, cm.Args(), cm.Environ())
	return err
}

func xcodebuild(ctx context.Context, p *Pipeline, name string, dest Destination) error {
	project := filepath.Join(p.relBuildDir(), p.Build.Library+".xcodeproj")
	args := []string{
		"-project", project,
		"-target", name,
		"-sdk", dest.SDK,
		"-arch", dest.Arch,
		"-configuration", string(p.BuildType),
		"build",
	}
	_, err := p.run(ctx, p.Config.Tools.XcodeBuild, args, nil)
	return err
}
