// Package cli implements the command-line interface for league-stats.
//
// The cli package provides the Cobra-based CLI with commands to list leagues,
// show a league's statistics tables (optionally filtered by player name), list
// categories, chart a category as an image or text, export a page to JSON, CSV
// or XLSX, and open the interactive terminal UI. It coordinates the config,
// league, scraper, stats, chart and export packages.
package cli
