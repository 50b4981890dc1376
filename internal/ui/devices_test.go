package ui

import (
	"strings"
	"testing"

	"github.com/samber/lo"

	"github.com/muurk/molehole/internal/discovery"
)

func TestVendor(t *testing.T) {
	if got := Vendor(""); got != "Unknown" {
		t.Errorf("Vendor(\"\") = %q, want Unknown", got)
	}
	if got := Vendor("02:00:00:00:00:01"); got != "Unknown" {
		t.Errorf("Vendor(locally administered) = %q, want Unknown", got)
	}
	if got := Vendor("B8:27:EB:12:34:56"); got == "Unknown" {
		t.Errorf("Vendor(B8:27:EB:12:34:56) = Unknown, want a registered vendor")
	}
}

func TestDeviceRow(t *testing.T) {
	tests := []struct {
		name   string
		device discovery.DeviceInfo
		want   []string
	}{
		{
			name: "lan sighting",
			device: discovery.DeviceInfo{
				ID:   "pi",
				MAC:  "02:00:00:00:00:01",
				IP:   lo.ToPtr("192.168.1.20"),
				Host: lo.ToPtr("pi.local"),
			},
			want: []string{"pi", "02:00:00:00:00:01", "Unknown", "lan", "192.168.1.20", "pi.local", "-"},
		},
		{
			name: "ap sighting",
			device: discovery.DeviceInfo{
				ID:   "cam",
				MAC:  "02:00:00:00:00:02",
				SSID: lo.ToPtr("camera-setup"),
			},
			want: []string{"cam", "02:00:00:00:00:02", "Unknown", "ap", "-", "-", "camera-setup"},
		},
		{
			name: "hidden network",
			device: discovery.DeviceInfo{
				ID:   "cam",
				MAC:  "02:00:00:00:00:03",
				SSID: lo.ToPtr(""),
			},
			want: []string{"cam", "02:00:00:00:00:03", "Unknown", "ap", "-", "-", "(hidden)"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := deviceRow(tt.device)
			if strings.Join(got, "|") != strings.Join(tt.want, "|") {
				t.Errorf("deviceRow() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRenderDeviceTable(t *testing.T) {
	devices := []discovery.DeviceInfo{
		{ID: "pi", MAC: "02:00:00:00:00:01", IP: lo.ToPtr("192.168.1.20"), Host: lo.ToPtr("pi.local")},
		{ID: "cam", MAC: "02:00:00:00:00:02", SSID: lo.ToPtr("camera-setup")},
	}

	out := RenderDeviceTable(devices, 120)
	for _, want := range []string{"ID", "VENDOR", "SSID", "pi.local", "camera-setup", "2 device(s)"} {
		if !strings.Contains(out, want) {
			t.Errorf("RenderDeviceTable() missing %q in:\n%s", want, out)
		}
	}
}

func TestRenderDeviceLine(t *testing.T) {
	d := discovery.DeviceInfo{ID: "pi", MAC: "02:00:00:00:00:01", IP: lo.ToPtr("10.0.0.2")}
	want := "pi\t02:00:00:00:00:01\tUnknown\tlan\t10.0.0.2\t-\t-"
	if got := RenderDeviceLine(d); got != want {
		t.Errorf("RenderDeviceLine() = %q, want %q", got, want)
	}
}

func TestFitWidths(t *testing.T) {
	widths := []int{4, 17, 40, 6, 15, 30, 10}
	fitWidths(widths, 100)

	total := 2
	for _, w := range widths {
		total += w + 2
	}
	if total > 100 {
		t.Errorf("fitWidths() total = %d, want <= 100 (widths %v)", total, widths)
	}
	if widths[1] != 17 {
		t.Errorf("fitWidths() shrank MAC column to %d", widths[1])
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"short", 10, "short"},
		{"exactly", 7, "exactly"},
		{"Raspberry Pi Foundation", 10, "Raspberry…"},
	}

	for _, tt := range tests {
		if got := truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}

func TestNoDevicesTroubleshooting(t *testing.T) {
	lan := NoDevicesTroubleshooting(discovery.SourceLAN)
	ap := NoDevicesTroubleshooting(discovery.SourceAP)
	all := NoDevicesTroubleshooting(discovery.SourceAll)

	if len(all) != len(lan)+len(ap)-1 {
		t.Errorf("len(all) = %d, want %d", len(all), len(lan)+len(ap)-1)
	}
	if !strings.Contains(strings.Join(lan, "\n"), "mDNS") {
		t.Error("lan tips should mention mDNS")
	}
	if strings.Contains(strings.Join(ap, "\n"), "mDNS") {
		t.Error("ap tips should not mention mDNS")
	}
}
