package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/molehole/internal/discovery"
)

// Printer provides methods for printing UI components to a writer.
// This is the primary way commands should output styled content.
type Printer struct {
	out   io.Writer
	width int
}

// NewPrinter creates a new Printer that writes to the given writer.
// If w is nil, os.Stdout is used.
func NewPrinter(w io.Writer) *Printer {
	if w == nil {
		w = os.Stdout
	}
	return &Printer{
		out:   w,
		width: GetTerminalWidth(),
	}
}

// SetWidth overrides the detected terminal width
func (p *Printer) SetWidth(width int) *Printer {
	p.width = width
	return p
}

// Width returns the current terminal width used by this printer
func (p *Printer) Width() int {
	return p.width
}

// Print writes content to the output
func (p *Printer) Print(content string) {
	_, _ = fmt.Fprint(p.out, content)
}

// Println writes content with a newline
func (p *Printer) Println(content string) {
	_, _ = fmt.Fprintln(p.out, content)
}

// Newline prints an empty line
func (p *Printer) Newline() {
	_, _ = fmt.Fprintln(p.out)
}

// PrintHeader prints a command header box
func (p *Printer) PrintHeader(title, command string, params map[string]string) {
	p.Print(NewHeader(title, command, params).SetWidth(p.width).Render())
	p.Newline()
}

// PrintSuccess prints a success result box
func (p *Printer) PrintSuccess(title string, details map[string]string) {
	p.Print(NewSuccessResult(title, details).SetWidth(p.width).Render())
	p.Newline()
}

// PrintWarning prints a warning result box with optional troubleshooting tips
func (p *Printer) PrintWarning(title string, details map[string]string, troubleshooting []string) {
	r := NewWarningResult(title, details).SetWidth(p.width)
	r.Troubleshooting = troubleshooting
	p.Print(r.Render())
	p.Newline()
}

// PrintError prints an error result box with troubleshooting tips
func (p *Printer) PrintError(title string, err error, troubleshooting []string) {
	p.Print(NewFailureResult(title, err, troubleshooting).SetWidth(p.width).Render())
	p.Newline()
}

// PrintDevices prints the device table, or a warning box when there are none
func (p *Printer) PrintDevices(source string, devices []discovery.DeviceInfo) {
	if len(devices) == 0 {
		p.PrintWarning("No devices found", map[string]string{"Source": source}, NoDevicesTroubleshooting(source))
		return
	}
	p.Println(RenderDeviceTable(devices, p.width))
}

// PrintDevicesCompact prints one line per device without styling
func (p *Printer) PrintDevicesCompact(devices []discovery.DeviceInfo) {
	for _, d := range devices {
		p.Println(RenderDeviceLine(d))
	}
}

// PrintSteps prints a finished step list
func (p *Printer) PrintSteps(steps *StepList) {
	p.Println(steps.Render())
}

// RenderIssue renders a mapping lint finding as one line
func RenderIssue(severity, text string) string {
	style := lipgloss.NewStyle().Foreground(WarningColor)
	marker := "⚠"
	if strings.EqualFold(severity, "error") {
		style = ErrorMessageStyle
		marker = FailureMarker
	}
	return style.Render(fmt.Sprintf("  %s %s", marker, text))
}
