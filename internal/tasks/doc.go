// Package tasks orchestrates bulk playlist exports with real-time progress reporting.
//
// # Core Operation
//
// [ExportEngine.BulkExport] exports a set of the user's playlists to
// disk in one of four formats (json, csv, markdown, txt):
//   - Fetches each playlist's detail (videos included) through a rate
//     limiter, falling back to the local snapshot cache when the
//     backend is unreachable
//   - Writes files concurrently via a bounded worker pool
//   - Produces a manifest JSON summarizing successes and failures
//
// # Progress Reporting
//
// All operations use non-blocking channels for progress updates.
// The [ProgressUpdate] struct contains phase, step counters, messages,
// and optional data for advanced UI rendering. Updates use select with
// default so a slow consumer never stalls the export.
package tasks
