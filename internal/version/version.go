// Package version carries build identification, set via -ldflags at release
// time.
package version

var (
	// Version is the driver release version.
	Version = "dev"
	// GitSHA is the git commit the binary was built from.
	GitSHA = "unknown"
	// BuildTime is the build timestamp.
	BuildTime = "unknown"
)
