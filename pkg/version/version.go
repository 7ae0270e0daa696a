// Package version holds the build version, set at link time with
// -ldflags "-X github.com/futureCreator/nfbuild/pkg/version.Version=...".
package version

var Version = "dev"
