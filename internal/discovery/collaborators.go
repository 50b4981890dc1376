package discovery

import (
	"context"

	"github.com/muurk/molehole/internal/wifi"
)

const (
	// ServiceType is the DNS-SD service browsed by the LAN pipeline
	ServiceType = "_ssh._tcp"

	// ServiceDomain is the mDNS domain (typically "local.")
	ServiceDomain = "local."
)

// Sighting sources
const (
	SourceLAN = "lan"
	SourceAP  = "ap"
	SourceAll = "all"
)

// Matcher maps an uppercase hardware address to a device id.
type Matcher interface {
	MatchDeviceID(mac string) (string, bool)
}

// Scanner lists nearby wireless access points.
type Scanner interface {
	Scan(ctx context.Context) ([]wifi.AccessPoint, error)
}

// Advertisement is one service instance seen while browsing.
type Advertisement struct {
	Host      string
	Addresses []string
}

// Browser streams advertisements until ctx is cancelled.
type Browser interface {
	Browse(ctx context.Context, service, domain string) (<-chan Advertisement, error)
}

// Resolver maps an IPv4 address to an uppercase hardware address.
type Resolver interface {
	ResolveMAC(ctx context.Context, ip string) (string, bool)
}
