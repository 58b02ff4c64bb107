// Package export writes scraped statistics pages to JSON, CSV or XLSX files.
//
// Relative output paths are resolved inside the export data directory, which
// defaults to ~/.local/share/league-stats/ and is created on demand. Exports are
// written only on explicit request; nothing is read back implicitly between runs.
package export
