// Package key defines the canonical set of configuration identifiers.
package key

// Library - roots and filters used when enumerating local videos.
const (
	LibraryRoots      = "library.roots"
	LibraryExtensions = "library.extensions"
	LibraryShowHidden = "library.show_hidden"
	LibrarySort       = "library.sort"
	LibraryReadTags   = "library.read_tags"
)

// Player - playback engine selection and the sampling loop.
const (
	PlayerEngine         = "player.engine"
	PlayerEngineArgs     = "player.engine_args"
	PlayerSampleInterval = "player.sample_interval"
	PlayerSeekIncrement  = "player.seek_increment"
	PlayerAutoplay       = "player.autoplay"
)

// History - resume positions.
const (
	HistoryResume = "history.resume"
	HistorySave   = "history.save"
)

// Playlist - preset network media.
const (
	PlaylistPresets = "playlist.presets"
)

// Search - filter suggestions in the browser.
const (
	SearchShowQuerySuggestions = "search.show_query_suggestions"
)

// TUI
const (
	TUIItemSpacing = "tui.item_spacing"
	TUIShowPaths   = "tui.show_paths"
)

const (
	IconsVariant = "icons.variant"
)

// Logs
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI
const (
	CliColored      = "cli.colored"
	CliVersionCheck = "cli.version_check"
)
