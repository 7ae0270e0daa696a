package build

import (
	"context"
	"os"
	"path/filepath"

	"github.com/futureCreator/nfbuild/internal/cmake"
	"github.com/futureCreator/nfbuild/internal/config"
	vlog "github.com/futureCreator/nfbuild/internal/log"
)

// Linux generates Ninja projects and builds them with ninja.
type Linux struct{}

func (Linux) Name() string { return "linux" }

func (Linux) GenerateProject(ctx context.Context, p *Pipeline) error {
	if p.Options.CodeCoverage || p.Options.AddressSanitizer || p.Options.ThreadSanitizer || p.Options.UndefinedBehaviourSanitizer {
		vlog.Warn("coverage and sanitizer options are not supported on linux, ignoring")
	}
	cm := cmake.New(".", p.relBuildDir()).
		Generator("Ninja").
		BuildType(string(p.BuildType))
	p.applyCompilers(cm)
	_, err := p.run(ctx, p.Config.Tools.CMake, cm.Args(), cm.Environ())
	return err
}

func (Linux) BuildTarget(ctx context.Context, p *Pipeline, name string, dest Destination) error {
	if dest != (Destination{}) {
		vlog.Debug("destination ignored on linux", "dest", dest.String())
	}
	args := []string{"-C", p.relBuildDir(), "-f", "build.ninja", name}
	_, err := p.run(ctx, p.Config.Tools.Ninja, args, nil)
	return err
}

func (Linux) PackageArtifacts(ctx context.Context, p *Pipeline) error {
	return p.packageLibrary(ctx, false)
}

func (Linux) RequiredTools(cfg *config.Config) []string {
	return []string{cfg.Tools.CMake, cfg.Tools.Ninja, cfg.Tools.ClangFormat, cfg.Tools.CMakeLint, cfg.Tools.LCov, cfg.Tools.GenHTML}
}

// relBuildDir is the build directory as passed to tools run from WorkDir.
func (p *Pipeline) relBuildDir() string {
	rel, err := filepath.Rel(p.WorkDir, p.BuildDir)
	if err != nil {
		return p.BuildDir
	}
	return rel
}

// compilers resolves the C and C++ compilers: the selected toolchain first,
// then CC and CXX from the environment.
func (p *Pipeline) compilers() (cc, cxx string) {
	switch p.Options.Toolchain {
	case GNU:
		return p.Config.Toolchains.GNU.CC, p.Config.Toolchains.GNU.CXX
	case LLVM:
		return p.Config.Toolchains.LLVM.CC, p.Config.Toolchains.LLVM.CXX
	}
	return os.Getenv("CC"), os.Getenv("CXX")
}

func (p *Pipeline) applyCompilers(cm *cmake.CMake) {
	cc, cxx := p.compilers()
	if cc != "" {
		cm.Env("CC", cc).Define("CMAKE_C_COMPILER", cc)
	}
	if cxx != "" {
		cm.Env("CXX", cxx).Define("CMAKE_CXX_COMPILER", cxx)
	}
}
