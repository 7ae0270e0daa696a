package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Dir is the per-project and per-user configuration directory name.
const Dir = ".nfbuild"

// Config is the top-level configuration structure.
type Config struct {
	BuildDir    string           `yaml:"build_dir"`
	BuildConfig string           `yaml:"build_config"`
	Sources     SourcesConfig    `yaml:"sources"`
	Tools       ToolsConfig      `yaml:"tools"`
	ToolTimeout string           `yaml:"tool_timeout"`
	Toolchains  ToolchainsConfig `yaml:"toolchains"`
	Platforms   PlatformsConfig  `yaml:"platforms"`
	Coverage    CoverageConfig   `yaml:"coverage"`
	LogLevel    string           `yaml:"log_level"`
	LogFormat   string           `yaml:"log_format"`
}

type SourcesConfig struct {
	// LintDirs are walked by the formatter check.
	LintDirs   []string `yaml:"lint_dirs"`
	Extensions []string `yaml:"extensions"`
	// IncludeDir holds the public headers that get packaged.
	IncludeDir string `yaml:"include_dir"`
	// CMakeDirs are walked for nested CMakeLists.txt files; the top-level
	// CMakeLists.txt is always linted.
	CMakeDirs []string `yaml:"cmake_dirs"`
}

type ToolsConfig struct {
	CMake       string `yaml:"cmake"`
	Ninja       string `yaml:"ninja"`
	XcodeBuild  string `yaml:"xcodebuild"`
	ClangFormat string `yaml:"clang_format"`
	CMakeLint   string `yaml:"cmakelint"`
	LCov        string `yaml:"lcov"`
	GenHTML     string `yaml:"genhtml"`
	GcovTool    string `yaml:"gcov_tool"`
	Lipo        string `yaml:"lipo"`
}

type Toolchain struct {
	CC  string `yaml:"cc"`
	CXX string `yaml:"cxx"`
}

type ToolchainsConfig struct {
	GNU  Toolchain `yaml:"gnu"`
	LLVM Toolchain `yaml:"llvm"`
}

// PlatformConfig holds settings that differ per target platform.
type PlatformConfig struct {
	// Install lists commands run by the installDependencies step, one per
	// entry, split on whitespace.
	Install []string `yaml:"install"`
	SDK     string   `yaml:"sdk"`
	Arch    string   `yaml:"arch"`
}

type PlatformsConfig struct {
	Linux PlatformConfig `yaml:"linux"`
	OSX   PlatformConfig `yaml:"osx"`
	IOS   IOSConfig      `yaml:"ios"`
}

type IOSConfig struct {
	Install   []string `yaml:"install"`
	Simulator Slice    `yaml:"simulator"`
	Device    Slice    `yaml:"device"`
}

// Slice is one SDK/architecture pair of a cross-compiled build.
type Slice struct {
	SDK  string `yaml:"sdk"`
	Arch string `yaml:"arch"`
}

type CoverageConfig struct {
	// SourcePrefix is the build-tree relative prefix coverage data must
	// live under to be kept.
	SourcePrefix string `yaml:"source_prefix"`
	// Exclude drops coverage data files whose path contains any entry.
	Exclude []string `yaml:"exclude"`
	// Remove are lcov --remove patterns applied to the captured info.
	Remove []string `yaml:"remove"`
}

// Validate checks that required fields are present.
func (c *Config) Validate() error {
	dir := filepath.Clean(c.BuildDir)
	if c.BuildDir == "" || dir == "." || dir == string(filepath.Separator) {
		return fmt.Errorf("build_dir must name a dedicated directory, got %q", c.BuildDir)
	}
	if c.BuildConfig == "" {
		return fmt.Errorf("build_config is required")
	}
	if c.Tools.CMake == "" {
		return fmt.Errorf("tools.cmake is required")
	}
	if _, err := c.Timeout(); err != nil {
		return err
	}
	return nil
}

// Timeout returns the per-tool timeout. Zero means no timeout.
func (c *Config) Timeout() (time.Duration, error) {
	if c.ToolTimeout == "" || c.ToolTimeout == "0" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.ToolTimeout)
	if err != nil {
		return 0, fmt.Errorf("invalid tool_timeout %q: %w", c.ToolTimeout, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("tool_timeout must not be negative")
	}
	return d, nil
}

// InstallCommands returns the dependency install commands for a platform,
// each split into argv form.
func (c *Config) InstallCommands(platform string) [][]string {
	var lines []string
	switch platform {
	case "linux":
		lines = c.Platforms.Linux.Install
	case "osx":
		lines = c.Platforms.OSX.Install
	case "ios":
		lines = c.Platforms.IOS.Install
	}
	var cmds [][]string
	for _, l := range lines {
		if f := strings.Fields(l); len(f) > 0 {
			cmds = append(cmds, f)
		}
	}
	return cmds
}

// Load resolves config from project → user → defaults.
func Load() (*Config, error) {
	cfg := Defaults()

	// user-level config
	home, err := os.UserHomeDir()
	if err == nil {
		userPath := filepath.Join(home, Dir, "config.yaml")
		if err := mergeFile(cfg, userPath); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("loading user config: %w", err)
		}
	}

	// project-level config (highest priority)
	projectPath := filepath.Join(Dir, "config.yaml")
	if err := mergeFile(cfg, projectPath); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	return cfg, nil
}

func mergeFile(dst *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

// Defaults returns the built-in configuration.
func Defaults() *Config {
	return &Config{
		BuildDir:    "build",
		BuildConfig: filepath.Join("ci", "ci.yaml"),
		Sources: SourcesConfig{
			LintDirs:   []string{"source", "include"},
			Extensions: []string{".cpp", ".h", ".m", ".mm"},
			IncludeDir: "include",
			CMakeDirs:  []string{"source"},
		},
		Tools: ToolsConfig{
			CMake:       "cmake",
			Ninja:       "ninja",
			XcodeBuild:  "xcodebuild",
			ClangFormat: "clang-format",
			CMakeLint:   "cmakelint",
			LCov:        "lcov",
			GenHTML:     "genhtml",
			Lipo:        "lipo",
		},
		Toolchains: ToolchainsConfig{
			GNU:  Toolchain{CC: "gcc", CXX: "g++"},
			LLVM: Toolchain{CC: "clang", CXX: "clang++"},
		},
		Platforms: PlatformsConfig{
			Linux: PlatformConfig{SDK: "linux", Arch: "x86_64"},
			OSX:   PlatformConfig{SDK: "macosx", Arch: "x86_64"},
			IOS: IOSConfig{
				Simulator: Slice{SDK: "iphonesimulator", Arch: "x86_64"},
				Device:    Slice{SDK: "iphoneos", Arch: "arm64"},
			},
		},
		Coverage: CoverageConfig{
			SourcePrefix: "source/",
			Exclude:      []string{"/test/", "/usr/include/c++/"},
			Remove:       []string{"*/usr/include/c++/*", "*/test/*"},
		},
		LogLevel:  "info",
		LogFormat: "text",
	}
}
