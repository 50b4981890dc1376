package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Color palette for command output
var (
	// Primary colors
	PrimaryColor = lipgloss.Color("#7D56F4") // Purple - headers, borders
	SuccessColor = lipgloss.Color("#43BF6D") // Green - success, checkmarks
	ErrorColor   = lipgloss.Color("#FF5555") // Red - errors, X marks
	WarningColor = lipgloss.Color("#FFA500") // Orange - warnings
	MutedColor   = lipgloss.Color("#626262") // Gray - secondary info
	TextColor    = lipgloss.Color("#FFFFFF") // White - main content
)

// Layout constants
const (
	MinTerminalWidth = 60  // Minimum supported terminal width
	MaxContentWidth  = 100 // Maximum content width before capping
)

// Shared styles for command output
var (
	// HeaderTitleStyle is for the main command title (e.g., "DEVICE DISCOVERY")
	HeaderTitleStyle = lipgloss.NewStyle().
				Foreground(TextColor).
				Bold(true).
				PaddingLeft(2)

	// HeaderCommandStyle is for the command path (e.g., "molehole devices")
	HeaderCommandStyle = lipgloss.NewStyle().
				Foreground(MutedColor).
				PaddingLeft(2)

	// HeaderParamKeyStyle is for parameter keys (e.g., "Window:")
	HeaderParamKeyStyle = lipgloss.NewStyle().
				Foreground(MutedColor).
				PaddingLeft(2)

	// HeaderParamValueStyle is for parameter values (e.g., "10s")
	HeaderParamValueStyle = lipgloss.NewStyle().
				Foreground(TextColor)

	// ProgressLabelStyle is for "Listening for advertisements..."
	ProgressLabelStyle = lipgloss.NewStyle().
				Foreground(TextColor).
				PaddingLeft(2)

	// StepCompleteStyle is for completed step text
	StepCompleteStyle = lipgloss.NewStyle().
				Foreground(SuccessColor)

	// StepRunningStyle is for currently running step text
	StepRunningStyle = lipgloss.NewStyle().
				Foreground(WarningColor)

	// StepPendingStyle is for pending step text
	StepPendingStyle = lipgloss.NewStyle().
				Foreground(MutedColor)

	// StepNoteStyle is for optional notes in parentheses
	StepNoteStyle = lipgloss.NewStyle().
			Foreground(MutedColor).
			Italic(true)

	// SuccessTitleStyle is for the success result title
	SuccessTitleStyle = lipgloss.NewStyle().
				Foreground(SuccessColor).
				Bold(true)

	// ErrorTitleStyle is for the error result title
	ErrorTitleStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true)

	// ErrorMessageStyle is for error message text
	ErrorMessageStyle = lipgloss.NewStyle().
				Foreground(ErrorColor)

	// ResultKeyStyle is for result detail keys
	ResultKeyStyle = lipgloss.NewStyle().
			Foreground(MutedColor).
			Width(15)

	// ResultValueStyle is for result detail values
	ResultValueStyle = lipgloss.NewStyle().
				Foreground(TextColor)

	// TroubleshootingTitleStyle is for "Troubleshooting:" headers
	TroubleshootingTitleStyle = lipgloss.NewStyle().
					Foreground(MutedColor).
					Bold(true)

	// TroubleshootingItemStyle is for troubleshooting bullet points
	TroubleshootingItemStyle = lipgloss.NewStyle().
					Foreground(MutedColor)

	// TableHeaderStyle is for device table column headings
	TableHeaderStyle = lipgloss.NewStyle().
				Foreground(PrimaryColor).
				Bold(true)

	// TableCellStyle is for device table cells
	TableCellStyle = lipgloss.NewStyle().
			Foreground(TextColor)

	// TableMutedCellStyle is for empty or secondary cells
	TableMutedCellStyle = lipgloss.NewStyle().
				Foreground(MutedColor)

	// SourceLANStyle tags sightings from the LAN pipeline
	SourceLANStyle = lipgloss.NewStyle().
			Foreground(SuccessColor)

	// SourceAPStyle tags sightings from the wireless scan
	SourceAPStyle = lipgloss.NewStyle().
			Foreground(WarningColor)

	// SpinnerStyle is for the activity spinner
	SpinnerStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor)
)

// Step status markers
const (
	StepMarkerComplete = "✓"
	StepMarkerRunning  = "●"
	StepMarkerPending  = "·"
	StepMarkerSkipped  = "⊘"
	SuccessMarker      = "✓"
	FailureMarker      = "✗"
)

// GetTerminalWidth returns the current terminal width, with fallback
func GetTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width < MinTerminalWidth {
		return MinTerminalWidth
	}
	if width > MaxContentWidth {
		return MaxContentWidth
	}
	return width
}

// ProgressBarStyle returns a style for the progress bar container
func ProgressBarStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		PaddingLeft(2)
}

// IsTerminal reports whether f is attached to a terminal
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
