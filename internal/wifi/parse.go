package wifi

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"howett.net/plist"

	"github.com/muurk/molehole/internal/macaddr"
)

// splitNmcliTerse splits one line of "nmcli -t" output. Literal colons inside
// fields are escaped as "\:" and backslashes as "\\".
func splitNmcliTerse(line string) []string {
	var (
		fields []string
		cur    strings.Builder
	)
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == '\\' && i+1 < len(line):
			i++
			cur.WriteByte(line[i])
		case c == ':':
			fields = append(fields, cur.String())
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
	}
	return append(fields, cur.String())
}

// parseNmcli parses "nmcli -t -f BSSID,SSID,CHAN,SIGNAL,SECURITY device wifi list".
func parseNmcli(out string) []AccessPoint {
	var aps []AccessPoint
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := splitNmcliTerse(line)
		if len(fields) < 5 {
			continue
		}

		signal, _ := strconv.Atoi(strings.TrimSpace(fields[3]))
		security := strings.TrimSpace(fields[4])
		if security == "" || security == "--" {
			security = "OPEN"
		}

		aps = append(aps, AccessPoint{
			MAC:         macaddr.Normalize(fields[0]),
			SSID:        fields[1],
			Channel:     strings.TrimSpace(fields[2]),
			SignalLevel: percentToDBm(signal),
			Security:    security,
		})
	}
	return aps
}

var (
	iwBSSPattern     = regexp.MustCompile(`^BSS\s+([0-9a-fA-F:]{17})`)
	iwSignalPattern  = regexp.MustCompile(`^signal:\s*([\-0-9.]+)\s*dBm`)
	iwChannelPattern = regexp.MustCompile(`(?:DS Parameter set: channel|\* primary channel:)\s*(\d+)`)
)

// parseIw parses "iw dev <iface> scan" output.
func parseIw(out string) []AccessPoint {
	var (
		aps []AccessPoint
		cur *AccessPoint
	)
	flush := func() {
		if cur != nil {
			if cur.Security == "" {
				cur.Security = "OPEN"
			}
			aps = append(aps, *cur)
		}
		cur = nil
	}

	for _, ln := range strings.Split(out, "\n") {
		line := strings.TrimSpace(ln)
		if m := iwBSSPattern.FindStringSubmatch(line); m != nil {
			flush()
			cur = &AccessPoint{MAC: macaddr.Normalize(m[1])}
			continue
		}
		if cur == nil {
			continue
		}

		switch {
		case strings.HasPrefix(line, "SSID:"):
			cur.SSID = strings.TrimSpace(strings.TrimPrefix(line, "SSID:"))
		case iwSignalPattern.MatchString(line):
			m := iwSignalPattern.FindStringSubmatch(line)
			if v, err := strconv.ParseFloat(m[1], 64); err == nil {
				cur.SignalLevel = int(math.Round(v))
			}
		case iwChannelPattern.MatchString(line):
			if cur.Channel == "" {
				cur.Channel = iwChannelPattern.FindStringSubmatch(line)[1]
			}
		case strings.HasPrefix(line, "RSN:"):
			cur.Security = "WPA2"
		case strings.HasPrefix(line, "WPA:"):
			if cur.Security == "" {
				cur.Security = "WPA"
			}
		}
	}
	flush()
	return aps
}

// parseAirport parses the plist produced by "airport -s -x".
func parseAirport(data []byte) ([]AccessPoint, error) {
	var entries []map[string]any
	if _, err := plist.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse airport plist: %w", err)
	}

	aps := make([]AccessPoint, 0, len(entries))
	for _, e := range entries {
		ap := AccessPoint{
			MAC:         macaddr.Normalize(plistString(e["BSSID"])),
			SSID:        plistString(e["SSID_STR"]),
			Channel:     plistString(e["CHANNEL"]),
			SignalLevel: plistInt(e["RSSI"]),
			Security:    "OPEN",
		}
		switch {
		case e["RSN_IE"] != nil:
			ap.Security = "WPA2"
		case e["WPA_IE"] != nil:
			ap.Security = "WPA"
		}
		aps = append(aps, ap)
	}
	return aps, nil
}

func plistString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case []byte:
		return string(t)
	case uint64:
		return strconv.FormatUint(t, 10)
	case int64:
		return strconv.FormatInt(t, 10)
	default:
		return ""
	}
}

func plistInt(v any) int {
	switch t := v.(type) {
	case int64:
		return int(t)
	case uint64:
		// RSSI arrives as a two's-complement integer on some releases
		return int(int64(t))
	case float64:
		return int(t)
	default:
		return 0
	}
}

// parseNetsh parses "netsh wlan show networks mode=bssid".
func parseNetsh(out string) []AccessPoint {
	var (
		aps      []AccessPoint
		ssid     string
		security string
		cur      *AccessPoint
	)
	flush := func() {
		if cur != nil {
			aps = append(aps, *cur)
		}
		cur = nil
	}

	for _, ln := range strings.Split(out, "\n") {
		line := strings.TrimSpace(strings.TrimRight(ln, "\r"))
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		switch {
		case strings.HasPrefix(key, "SSID"):
			flush()
			ssid = value
			security = ""
		case strings.HasPrefix(key, "Authentication"):
			security = value
		case strings.HasPrefix(key, "BSSID"):
			flush()
			cur = &AccessPoint{MAC: macaddr.Normalize(value), SSID: ssid, Security: security}
			if cur.Security == "" || strings.EqualFold(cur.Security, "Open") {
				cur.Security = "OPEN"
			}
		case cur != nil && strings.HasPrefix(key, "Signal"):
			if p, err := strconv.Atoi(strings.TrimSuffix(value, "%")); err == nil {
				cur.SignalLevel = percentToDBm(p)
			}
		case cur != nil && strings.HasPrefix(key, "Channel"):
			cur.Channel = value
		}
	}
	flush()
	return aps
}
