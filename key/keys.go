// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// Resolution - these keys configure the stream resolution endpoint and the engine bounds.
const (
	ResolverEndpoint = "resolver.endpoint"
	ResolverTimeout  = "resolver.timeout"
)

// Stream cache - freshness window for resolved stream descriptors.
const (
	CacheTTL = "cache.ttl"
)

// Catalog - season and episode listing for shows.
const (
	CatalogEndpoint = "catalog.endpoint"
)

// Captions - default caption track selection.
const (
	CaptionsLanguage = "captions.language"
)

// Network transport tuning.
const (
	NetworkImpersonateTLS = "network.impersonate_tls"
)

// History Tracking - these keys configure the persistence of watched streams.
const (
	HistorySave = "history.save"
)

// Iconography - these keys manage the visual rendering of UI symbols.
const (
	IconsVariant = "icons.variant"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment - these settings govern the non-TUI application behavior.
const (
	CliColored      = "cli.colored"
	CliVersionCheck = "cli.version_check"
)

// Media Playback.
const (
	Player = "player.default"
)
