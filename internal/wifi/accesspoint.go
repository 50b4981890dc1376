package wifi

import "fmt"

// AccessPoint is a single wireless network seen during a scan.
type AccessPoint struct {
	// MAC is the BSSID in uppercase colon form, empty when the OS redacts it
	MAC string `json:"mac,omitempty"`

	// SSID is the advertised network name (empty for hidden networks)
	SSID string `json:"ssid"`

	// Channel is the radio channel as reported by the OS
	Channel string `json:"channel"`

	// SignalLevel is the received signal strength in dBm
	SignalLevel int `json:"signal_level"`

	// Security is a coarse label such as "WPA2" or "OPEN"
	Security string `json:"security,omitempty"`
}

// String returns a human-readable representation of the access point
func (ap AccessPoint) String() string {
	return fmt.Sprintf("%s (%s) ch %s %d dBm", ap.SSID, ap.MAC, ap.Channel, ap.SignalLevel)
}

// percentToDBm maps a 0-100 quality figure onto the usual [-100, -50] dBm span.
func percentToDBm(percent int) int {
	if percent <= 0 {
		return -100
	}
	if percent >= 100 {
		return -50
	}
	return percent/2 - 100
}
