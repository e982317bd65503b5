// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// Download Engine - these keys parameterize the concurrent segment transfer stage.
const (
	DownloadConcurrency  = "download.concurrency"
	DownloadTimeout      = "download.timeout"
	DownloadMaxRetries   = "download.max_retries"
	DownloadRetryDelayMs = "download.retry_delay_ms"
	DownloadMaxDepth     = "download.max_depth"
)

// Temporary Workspace - these keys govern the per-download scratch directory.
const (
	TempDir     = "temp.dir"
	TempCleanup = "temp.cleanup"
)

// FFmpeg Invocation - these keys locate the external merge/remux binary.
const (
	FFmpegPath = "ffmpeg.path"
)

// Output Handling - these keys control final file placement behavior.
const (
	OutputOverwrite = "output.overwrite"
)

// Report Storage - these keys configure the structured download report writers.
const (
	StorageFormat = "storage.format"
	StorageDir    = "storage.dir"
	StorageAppend = "storage.append"
)

// History Tracking - these keys configure the persistence of completed download records.
const (
	HistorySaveOnDownload = "history.save_on_download"
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

// CLI Execution Environment - these settings govern general CLI behavior.
const (
	CliColored      = "cli.colored"
	CliVersionCheck = "cli.version_check"
)
