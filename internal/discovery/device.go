package discovery

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// DeviceInfo is one sighting of a recognised device.
type DeviceInfo struct {
	// ID is the mapping id the hardware address matched
	ID string `json:"id"`

	// MAC is the uppercase colon-separated hardware address
	MAC string `json:"mac"`

	// IP is the resolved IPv4 address (LAN sightings only)
	IP *string `json:"ip,omitempty"`

	// Host is the advertised hostname (LAN sightings only)
	Host *string `json:"host,omitempty"`

	// SSID is the network name (AP sightings only, present even when empty)
	SSID *string `json:"ssid,omitempty"`
}

// Equal reports whether two sightings are structurally identical. An absent
// optional field only equals another absent field.
func (d DeviceInfo) Equal(o DeviceInfo) bool {
	return d.ID == o.ID &&
		d.MAC == o.MAC &&
		optEqual(d.IP, o.IP) &&
		optEqual(d.Host, o.Host) &&
		optEqual(d.SSID, o.SSID)
}

// String returns a human-readable representation of the sighting
func (d DeviceInfo) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s", d.ID, d.MAC)
	if d.IP != nil {
		fmt.Fprintf(&b, " ip=%s", *d.IP)
	}
	if d.Host != nil {
		fmt.Fprintf(&b, " host=%s", *d.Host)
	}
	if d.SSID != nil {
		fmt.Fprintf(&b, " ssid=%q", *d.SSID)
	}
	return b.String()
}

// Source reports which pipeline produced the sighting.
func (d DeviceInfo) Source() string {
	if d.SSID != nil {
		return SourceAP
	}
	return SourceLAN
}

func optEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

type optKey struct {
	set bool
	val string
}

type deviceKey struct {
	id, mac        string
	ip, host, ssid optKey
}

func keyOf(opt *string) optKey {
	if opt == nil {
		return optKey{}
	}
	return optKey{set: true, val: *opt}
}

// key is a comparable projection of d; two keys are equal iff Equal is true.
func (d DeviceInfo) key() deviceKey {
	return deviceKey{
		id:   d.ID,
		mac:  d.MAC,
		ip:   keyOf(d.IP),
		host: keyOf(d.Host),
		ssid: keyOf(d.SSID),
	}
}

// Dedup drops later duplicates under Equal and keeps first-occurrence order.
// It never returns nil.
func Dedup(devices []DeviceInfo) []DeviceInfo {
	return lo.UniqBy(devices, DeviceInfo.key)
}
