// Package macaddr normalizes hardware addresses to the canonical uppercase
// colon-separated form used throughout molehole.
package macaddr

import (
	"regexp"
	"strings"
)

var (
	exactPattern = regexp.MustCompile(`(?i)^([0-9a-f]{1,2}[:-]){5}[0-9a-f]{1,2}$`)
	findPattern  = regexp.MustCompile(`(?i)\b([0-9a-f]{1,2}[:-]){5}[0-9a-f]{1,2}\b`)
)

// Zero is the placeholder the kernel reports for incomplete neighbour entries
const Zero = "00:00:00:00:00:00"

// Broadcast is the all-ones address
const Broadcast = "FF:FF:FF:FF:FF:FF"

// Normalize converts a 6-octet address written with ':' or '-' separators and
// one or two hex digits per octet to "AA:BB:CC:DD:EE:FF". It returns "" for
// anything else.
func Normalize(raw string) string {
	raw = strings.TrimSpace(raw)
	if !exactPattern.MatchString(raw) {
		return ""
	}
	parts := strings.FieldsFunc(raw, func(r rune) bool { return r == ':' || r == '-' })
	for i, p := range parts {
		if len(p) == 1 {
			parts[i] = "0" + p
		}
	}
	return strings.ToUpper(strings.Join(parts, ":"))
}

// Find returns the first address embedded in text, normalized, or "".
func Find(text string) string {
	return Normalize(findPattern.FindString(text))
}

// IsUsable reports whether mac is a normalized unicast-looking address that
// is neither the zero placeholder nor broadcast.
func IsUsable(mac string) bool {
	return mac != "" && mac != Zero && mac != Broadcast
}
