// Package app provides the orchestration layer for the showcase application.
//
// # Overview
//
// This package wires together configuration, logging, the catalog source,
// the image loader, the editing session, and the UI. It is the composition
// root where all dependencies are initialized and connected.
//
// # Startup
//
//  1. Load .env files into the environment (existing variables win)
//  2. Read ~/.config/showcase/config.toml and apply SHOWCASE_* overrides
//  3. Apply command-line overrides (--source)
//  4. Open the JSON log file
//  5. Create the catalog source client and, for the TUI, the image loader
//     resolving references against the catalog location
//  6. Build the session and hand it to the UI or the exporter
//
// # Commands
//
//	Run()     interactive slide editor; the catalog loads in the background
//	          and a failed load shows the empty-catalog screen
//	Export()  loads once, prints the product list to the writer and
//	          optionally copies it; a failed load is returned as an error
//
// # Error Handling
//
// Fatal errors (returned to main):
//   - Unreadable or invalid config file
//   - Missing catalog source
//   - Log file cannot be created
//   - Export only: catalog load failure or clipboard failure
//
// Everything that happens inside the TUI is reported on the status line and
// in the log instead.
package app
