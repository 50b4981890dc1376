package discovery

import (
	"context"
	"strings"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/muurk/molehole/internal/logging"
)

// APDiscoverer recognises devices among the access points of one wireless scan.
type APDiscoverer struct {
	Scanner Scanner
	Matcher Matcher
}

// Discover runs a single scan and returns the deduplicated matches. A failed
// or empty scan yields an empty list.
func (a *APDiscoverer) Discover(ctx context.Context) []DeviceInfo {
	if a.Scanner == nil {
		logging.Warn("No wireless scanner configured")
		return []DeviceInfo{}
	}

	aps, err := a.Scanner.Scan(ctx)
	if err != nil {
		logging.Warn("Wireless scan failed", zap.Error(err))
		return []DeviceInfo{}
	}
	if aps == nil {
		return []DeviceInfo{}
	}

	devices := make([]DeviceInfo, 0, len(aps))
	for _, ap := range aps {
		if ap.MAC == "" {
			continue
		}
		mac := strings.ToUpper(ap.MAC)
		id, ok := a.Matcher.MatchDeviceID(mac)
		logging.LogSighting(SourceAP, mac, id, ok)
		if !ok {
			continue
		}
		devices = append(devices, DeviceInfo{
			ID:   id,
			MAC:  mac,
			SSID: lo.ToPtr(ap.SSID),
		})
	}
	return Dedup(devices)
}
