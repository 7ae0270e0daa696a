package cmake

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestArgs(t *testing.T) {
	tests := []struct {
		name string
		c    *CMake
		want []string
	}{
		{
			name: "source and build only",
			c:    New("/src", "/src/build"),
			want: []string{"-S", "/src", "-B", "/src/build"},
		},
		{
			name: "ninja release",
			c:    New(".", "build").Generator("Ninja").BuildType("Release"),
			want: []string{"-S", ".", "-B", "build", "-G", "Ninja", "-DCMAKE_BUILD_TYPE=Release"},
		},
		{
			name: "xcode flags sorted",
			c: New(".", "build").Generator("Xcode").
				Flag("USE_ADDRESS_SANITIZER", false).
				Flag("CODE_COVERAGE", true).
				Define("CMAKE_SYSTEM_NAME", "iOS"),
			want: []string{
				"-S", ".", "-B", "build", "-G", "Xcode",
				"-DCMAKE_SYSTEM_NAME=iOS",
				"-DCODE_COVERAGE=1",
				"-DUSE_ADDRESS_SANITIZER=0",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, tt.c.Args()); diff != "" {
				t.Errorf("Args() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEnviron(t *testing.T) {
	c := New(".", "build").Env("CC", "gcc").Env("CXX", "g++")
	env := c.Environ()
	env["CC"] = "mutated"
	if got := c.Environ()["CC"]; got != "gcc" {
		t.Errorf("Environ() must return a copy, got CC=%q", got)
	}
	if got := c.Environ()["CXX"]; got != "g++" {
		t.Errorf("expected CXX=g++, got %q", got)
	}
}
