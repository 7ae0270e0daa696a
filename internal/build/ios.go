package build

import (
	"context"

	"github.com/futureCreator/nfbuild/internal/config"
)

// IOS cross-compiles with Xcode for the simulator and device slices.
type IOS struct{}

func (IOS) Name() string { return "ios" }

func (IOS) GenerateProject(ctx context.Context, p *Pipeline) error {
	return generateXcode(ctx, p, true)
}

// BuildTarget builds for dest, defaulting to the simulator slice.
func (IOS) BuildTarget(ctx context.Context, p *Pipeline, name string, dest Destination) error {
	sim := p.Config.Platforms.IOS.Simulator
	if dest.SDK == "" {
		dest.SDK = sim.SDK
	}
	if dest.Arch == "" {
		dest.Arch = sim.Arch
	}
	return xcodebuild(ctx, p, name, dest)
}

// PackageArtifacts merges the per-slice libraries into one.
func (IOS) PackageArtifacts(ctx context.Context, p *Pipeline) error {
	return p.packageLibrary(ctx, true)
}

func (IOS) RequiredTools(cfg *config.Config) []string {
	return []string{cfg.Tools.CMake, cfg.Tools.XcodeBuild, cfg.Tools.ClangFormat, cfg.Tools.CMakeLint, cfg.Tools.Lipo}
}

// SimulatorDestination and DeviceDestination are the configured iOS slices.
func SimulatorDestination(cfg *config.Config) Destination {
	return Destination{SDK: cfg.Platforms.IOS.Simulator.SDK, Arch: cfg.Platforms.IOS.Simulator.Arch}
}

func DeviceDestination(cfg *config.Config) Destination {
	return Destination{SDK: cfg.Platforms.IOS.Device.SDK, Arch: cfg.Platforms.IOS.Device.Arch}
}
