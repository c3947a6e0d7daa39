// Package constant defines immutable application-level identifiers and build metadata.
package constant

const (
	// Vlog is the canonical application identifier used for filesystem paths, env prefixes and CLI branding.
	Vlog = "vlog"

	// Version is the current application semantic version string.
	Version = "0.3.0"

	// Repository hosts releases, used by the update check.
	Repository = "vlog-app/vlog"

	// UserAgent is sent with HTTP requests made on behalf of playlist scripts and update checks.
	UserAgent = "vlog/" + Version
)

// Build metadata, overridden through -ldflags at release time.
var (
	BuiltAt  = "unknown"
	BuiltBy  = "unknown"
	Revision = "unknown"
)
