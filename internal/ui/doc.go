// Package ui provides terminal UI components for the molehole CLI.
//
// This package uses Bubble Tea and Lipgloss to render terminal output for
// discovery commands. Components follow a "run once and exit" pattern: they
// show live progress while a run executes and print the result, but never
// wait for navigation input.
//
// # Architecture
//
//   - Header: command banner showing the operation and its parameters
//   - StepList: step list for the LAN window, wireless scan and merge
//   - DiscoveryModel: Bubble Tea model with spinner and window countdown
//   - Result: success, warning and failure boxes
//   - Device table: aligned rows with an OUI vendor column
//
// DiscoveryRunner ties these together for interactive terminals. Commands
// writing to a pipe or asked for compact/JSON output skip the live display
// and use Printer directly.
//
// # Logging Integration
//
// This package expects logging to be controlled via the MOLEHOLE_LOG_LEVEL
// environment variable. When unset or empty, zap logging is silent, allowing
// the curated UI output to be displayed cleanly.
package ui
