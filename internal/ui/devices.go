package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/endobit/oui"

	"github.com/muurk/molehole/internal/discovery"
)

var deviceColumns = []string{"ID", "MAC", "VENDOR", "SOURCE", "IP", "HOST", "SSID"}

// Vendor returns the registered manufacturer for mac, or "Unknown"
func Vendor(mac string) string {
	if mac == "" {
		return "Unknown"
	}
	if v := oui.Vendor(strings.ToLower(mac)); v != "" {
		return v
	}
	return "Unknown"
}

// deviceRow returns the cells of one table row
func deviceRow(d discovery.DeviceInfo) []string {
	return []string{
		d.ID,
		d.MAC,
		Vendor(d.MAC),
		d.Source(),
		deref(d.IP),
		deref(d.Host),
		ssidCell(d.SSID),
	}
}

func deref(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}

func ssidCell(s *string) string {
	switch {
	case s == nil:
		return "-"
	case *s == "":
		return "(hidden)"
	default:
		return *s
	}
}

// RenderDeviceTable renders devices as an aligned table. Columns wider than
// the terminal allows are truncated from the vendor column first.
func RenderDeviceTable(devices []discovery.DeviceInfo, width int) string {
	rows := make([][]string, 0, len(devices))
	for _, d := range devices {
		rows = append(rows, deviceRow(d))
	}

	widths := make([]int, len(deviceColumns))
	for i, h := range deviceColumns {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if w := lipgloss.Width(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}
	fitWidths(widths, width)

	var b strings.Builder
	b.WriteString(renderRow(deviceColumns, widths, func(int, string) lipgloss.Style { return TableHeaderStyle }))
	b.WriteString("\n")

	total := 0
	for _, w := range widths {
		total += w + 2
	}
	b.WriteString(TableMutedCellStyle.Render("  " + strings.Repeat("─", total-2)))

	for _, row := range rows {
		b.WriteString("\n")
		b.WriteString(renderRow(row, widths, cellStyle))
	}

	b.WriteString("\n\n")
	b.WriteString(TableMutedCellStyle.Render(fmt.Sprintf("  %d device(s)", len(rows))))
	return b.String()
}

func cellStyle(col int, value string) lipgloss.Style {
	switch {
	case value == "-":
		return TableMutedCellStyle
	case col == 3 && value == discovery.SourceLAN:
		return SourceLANStyle
	case col == 3 && value == discovery.SourceAP:
		return SourceAPStyle
	default:
		return TableCellStyle
	}
}

func renderRow(cells []string, widths []int, style func(int, string) lipgloss.Style) string {
	var b strings.Builder
	b.WriteString("  ")
	for i, cell := range cells {
		cell = truncate(cell, widths[i])
		pad := widths[i] - lipgloss.Width(cell)
		b.WriteString(style(i, cell).Render(cell))
		if i < len(cells)-1 {
			b.WriteString(strings.Repeat(" ", pad+2))
		}
	}
	return b.String()
}

// fitWidths shrinks the vendor column, then the host column, until the row fits.
func fitWidths(widths []int, total int) {
	const minCol = 8
	need := func() int {
		n := 2
		for _, w := range widths {
			n += w + 2
		}
		return n
	}
	for _, col := range []int{2, 5} {
		for need() > total && widths[col] > minCol {
			widths[col]--
		}
	}
}

func truncate(s string, width int) string {
	if lipgloss.Width(s) <= width {
		return s
	}
	r := []rune(s)
	if width <= 1 {
		return string(r[:width])
	}
	for len(r) > 0 && lipgloss.Width(string(r))+1 > width {
		r = r[:len(r)-1]
	}
	return string(r) + "…"
}

// RenderDeviceLine renders one device as a single unstyled line
func RenderDeviceLine(d discovery.DeviceInfo) string {
	return strings.Join(deviceRow(d), "\t")
}

// NoDevicesTroubleshooting returns tips for an empty result from source
func NoDevicesTroubleshooting(source string) []string {
	lan := []string{
		"Devices must advertise _ssh._tcp over mDNS on this network segment",
		"Allow UDP port 5353 (mDNS) through the local firewall",
		"Try a longer window with --timeout",
		"Active ARP and ping fallbacks need raw socket privileges (run as root)",
	}
	ap := []string{
		"A wireless interface is required (nmcli or iw on Linux)",
		"Some platforms hide BSSIDs unless location access is granted",
	}
	common := []string{"Check the mapping table with: molehole mapping check"}

	var tips []string
	switch source {
	case discovery.SourceLAN:
		tips = append(tips, lan...)
	case discovery.SourceAP:
		tips = append(tips, ap...)
	default:
		tips = append(append(tips, lan...), ap...)
	}
	return append(tips, common...)
}
