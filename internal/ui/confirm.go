package ui

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Confirm displays a warning box listing warnings and asks a yes/no
// question. Only "y" or "yes" (any case) confirms.
func Confirm(in io.Reader, out io.Writer, title string, warnings []string, question string) bool {
	width := GetTerminalWidth()

	var lines []string

	titleLine := lipgloss.NewStyle().
		Foreground(WarningColor).
		Bold(true).
		Render(fmt.Sprintf("   ⚠  WARNING  ─  %s", title))
	lines = append(lines, "")
	lines = append(lines, titleLine)
	lines = append(lines, "")

	for _, warning := range warnings {
		bulletStyle := lipgloss.NewStyle().Foreground(TextColor)
		lines = append(lines, bulletStyle.Render("   • "+warning))
	}
	lines = append(lines, "")

	box := lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(WarningColor).
		Width(width-2).
		Padding(0, 2).
		Render(strings.Join(lines, "\n"))

	_, _ = fmt.Fprintln(out, box)
	_, _ = fmt.Fprintln(out)

	promptStyle := lipgloss.NewStyle().
		Foreground(WarningColor).
		Bold(true)
	_, _ = fmt.Fprint(out, promptStyle.Render(question+" [y/N]: "))

	input, err := bufio.NewReader(in).ReadString('\n')
	_, _ = fmt.Fprintln(out)
	if err != nil && input == "" {
		return false
	}

	switch strings.ToLower(strings.TrimSpace(input)) {
	case "y", "yes":
		return true
	}

	cancelStyle := lipgloss.NewStyle().Foreground(MutedColor)
	_, _ = fmt.Fprintln(out, cancelStyle.Render("  Operation cancelled."))
	return false
}
