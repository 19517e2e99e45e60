// Package version holds build-time version information.
package version

// Version is the application version, set at build time via
// -ldflags "-X github.com/chronofeed/chronofeed/internal/version.Version=v1.2.3".
var Version = "dev"
