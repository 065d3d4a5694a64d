// Package buildinfo holds values stamped at link time.
package buildinfo

// Version is overridden with -ldflags "-X picgo-mcp/internal/buildinfo.Version=...".
var Version = "0.1.0-dev"
