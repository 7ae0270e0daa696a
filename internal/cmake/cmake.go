// Package cmake assembles CMake generator invocations.
package cmake

import (
	"sort"
)

// CMake collects the options of one "cmake -S <source> -B <build>" call.
type CMake struct {
	sourceDir string
	buildDir  string
	generator string
	buildType string
	defines   map[string]string
	env       map[string]string
}

// New returns a CMake call generating buildDir from sourceDir.
func New(sourceDir, buildDir string) *CMake {
	return &CMake{
		sourceDir: sourceDir,
		buildDir:  buildDir,
		defines:   map[string]string{},
		env:       map[string]string{},
	}
}

// Generator sets the CMake generator (e.g. "Ninja", "Xcode").
func (c *CMake) Generator(name string) *CMake {
	c.generator = name
	return c
}

// BuildType sets CMAKE_BUILD_TYPE. Ignored by multi-config generators.
func (c *CMake) BuildType(name string) *CMake {
	c.buildType = name
	return c
}

// Define adds an untyped -D<key>=<value> definition.
func (c *CMake) Define(key, value string) *CMake {
	c.defines[key] = value
	return c
}

// Flag adds -D<key>=1 or -D<key>=0, the form the project's CMakeLists
// options expect.
func (c *CMake) Flag(key string, on bool) *CMake {
	if on {
		return c.Define(key, "1")
	}
	return c.Define(key, "0")
}

// Env sets an environment variable for the generator process.
func (c *CMake) Env(key, value string) *CMake {
	c.env[key] = value
	return c
}

// Environ returns the environment overrides for the generator process.
func (c *CMake) Environ() map[string]string {
	out := make(map[string]string, len(c.env))
	for k, v := range c.env {
		out[k] = v
	}
	return out
}

// Args returns the generator arguments. Definitions are sorted by key.
func (c *CMake) Args() []string {
	args := []string{"-S", c.sourceDir, "-B", c.buildDir}
	if c.generator != "" {
		args = append(args, "-G", c.generator)
	}
	if c.buildType != "" {
		c.Define("CMAKE_BUILD_TYPE", c.buildType)
	}
	return append(args, c.definesArgs()...)
}

func (c *CMake) definesArgs() []string {
	if len(c.defines) == 0 {
		return nil
	}
	keys := make([]string, 0, len(c.defines))
	for k := range c.defines {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	args := make([]string, 0, len(keys))
	for _, k := range keys {
		args = append(args, "-D"+k+"="+c.defines[k])
	}
	return args
}
