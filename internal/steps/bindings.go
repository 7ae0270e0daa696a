package steps

import (
	"context"

	"github.com/futureCreator/nfbuild/internal/build"
)

var (
	debug = Binding{
		Name:        "debug",
		Description: "Enable Debug Mode",
		Configure:   func(o *build.Options) { o.BuildType = build.Debug },
	}
	addressSanitizer = Binding{
		Name:        "addressSanitizer",
		Description: "Enable Address Sanitizer in generate project",
		Configure:   func(o *build.Options) { o.AddressSanitizer = true },
	}
	threadSanitizer = Binding{
		Name:        "threadSanitizer",
		Description: "Enable Thread Sanitizer in generate project",
		Configure:   func(o *build.Options) { o.ThreadSanitizer = true },
	}
	undefinedBehaviourSanitizer = Binding{
		Name:        "undefinedBehaviourSanitizer",
		Description: "Enable Undefined Behaviour Sanitizer in generate project",
		Configure:   func(o *build.Options) { o.UndefinedBehaviourSanitizer = true },
	}
	gnuToolchain = Binding{
		Name:        "gnuToolchain",
		Description: "Build with gcc and libstdc++",
		Configure:   func(o *build.Options) { o.Toolchain = build.GNU },
	}
	llvmToolchain = Binding{
		Name:        "llvmToolchain",
		Description: "Build with clang and libc++",
		Configure:   func(o *build.Options) { o.Toolchain = build.LLVM },
	}
	codeCoverage = Binding{
		Name:        "codeCoverage",
		Description: "Enable code coverage in generate project and collect it",
		Configure:   func(o *build.Options) { o.CodeCoverage = true },
		Run: func(ctx context.Context, env *Env) error {
			return env.Ops.CollectCoverage(ctx)
		},
	}

	installDependencies = Binding{
		Name:        "installDependencies",
		Description: "Install dependencies",
		Run: func(ctx context.Context, env *Env) error {
			return env.Ops.InstallDependencies(ctx)
		},
	}
	lintCmake = Binding{
		Name:        "lintCmake",
		Description: "Lint cmake files",
		Run: func(ctx context.Context, env *Env) error {
			return env.Ops.LintBuildConfig(ctx)
		},
	}
	lintCpp = Binding{
		Name:        "lintCpp",
		Description: "Lint CPP Files",
		Run: func(ctx context.Context, env *Env) error {
			return env.Ops.LintSources(ctx, false)
		},
	}
	lintCppWithInlineChange = Binding{
		Name:        "lintCppWithInlineChange",
		Description: "Lint CPP Files and fix them",
		Run: func(ctx context.Context, env *Env) error {
			return env.Ops.LintSources(ctx, true)
		},
	}
	makeBuildDirectory = Binding{
		Name:        "makeBuildDirectory",
		Description: "Wipe existing build directory",
		Run: func(ctx context.Context, env *Env) error {
			return env.Ops.ResetBuildDirectory(ctx)
		},
	}
	generateProject = Binding{
		Name:        "generateProject",
		Description: "Regenerate project",
		Run: func(ctx context.Context, env *Env) error {
			return env.Ops.GenerateProject(ctx)
		},
	}
	buildTargetLibrary = Binding{
		Name:        "buildTargetLibrary",
		Description: "Build Target: Library",
		Run: func(ctx context.Context, env *Env) error {
			return env.Ops.BuildTarget(ctx, env.Build.LibraryTarget, build.Destination{})
		},
	}
	buildTargetIphoneSimulator = Binding{
		Name:        "buildTargetIphoneSimulator",
		Description: "Build Target: iPhone Simulator",
		Run: func(ctx context.Context, env *Env) error {
			return env.Ops.BuildTarget(ctx, env.Build.LibraryTarget, build.SimulatorDestination(env.Config))
		},
	}
	buildTargetIphoneOS = Binding{
		Name:        "buildTargetIphoneOS",
		Description: "Build Target: iPhone OS",
		Run: func(ctx context.Context, env *Env) error {
			return env.Ops.BuildTarget(ctx, env.Build.LibraryTarget, build.DeviceDestination(env.Config))
		},
	}
	unitTests = Binding{
		Name:        "unitTests",
		Description: "Run Unit Tests",
		Run: func(ctx context.Context, env *Env) error {
			return env.Ops.RunUnitTests(ctx)
		},
	}
	packageArtifacts = Binding{
		Name:        "packageArtifacts",
		Description: "Package the artifacts produced by the build",
		Run: func(ctx context.Context, env *Env) error {
			return env.Ops.PackageArtifacts(ctx)
		},
	}
)
