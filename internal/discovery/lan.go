package discovery

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/muurk/molehole/internal/logging"
)

// LANDiscoverer recognises devices advertising a service on the local network.
type LANDiscoverer struct {
	Browser  Browser
	Resolver Resolver
	Matcher  Matcher

	// Service and Domain default to ServiceType and ServiceDomain
	Service string
	Domain  string

	// After starts the listening window timer (defaults to time.After)
	After func(time.Duration) <-chan time.Time

	// onAdd is called after a sighting has been accepted into the results
	onAdd func(DeviceInfo)
}

// Discover listens for advertisements for the normalized window, then
// returns the deduplicated matches collected so far. Resolutions still
// running when the window closes are allowed to finish but their results
// are dropped. Cancelling ctx closes the window early.
func (l *LANDiscoverer) Discover(ctx context.Context, timeoutSeconds float64) []DeviceInfo {
	window := NormalizeTimeout(timeoutSeconds)

	browseCtx, stop := context.WithCancel(ctx)
	defer stop()

	ads, err := l.Browser.Browse(browseCtx, l.service(), l.domain())
	if err != nil {
		logging.Warn("Failed to start service browser, waiting out the window",
			zap.String("service", l.service()),
			zap.Error(err),
		)
		ads = nil
	}
	timer := l.after()(window)

	results := &resultSet{}
	resolveCtx := context.WithoutCancel(ctx)

loop:
	for {
		select {
		case ad, ok := <-ads:
			if !ok {
				ads = nil
				continue
			}
			go l.handle(resolveCtx, ad, results)
		case <-timer:
			break loop
		case <-ctx.Done():
			logging.Debug("LAN window cancelled", zap.Error(ctx.Err()))
			break loop
		}
	}

	snapshot := results.seal()
	stop()
	return Dedup(snapshot)
}

// handle resolves each address of one advertisement in order.
func (l *LANDiscoverer) handle(ctx context.Context, ad Advertisement, results *resultSet) {
	logging.LogAdvertisement(ad.Host, ad.Addresses)

	for _, ip := range ad.Addresses {
		if results.isSealed() {
			return
		}
		mac, ok := l.Resolver.ResolveMAC(ctx, ip)
		if !ok {
			continue
		}
		mac = strings.ToUpper(mac)

		id, ok := l.Matcher.MatchDeviceID(mac)
		logging.LogSighting(SourceLAN, mac, id, ok)
		if !ok {
			continue
		}

		d := DeviceInfo{
			ID:   id,
			MAC:  mac,
			IP:   lo.ToPtr(ip),
			Host: lo.ToPtr(ad.Host),
		}
		if results.add(d) && l.onAdd != nil {
			l.onAdd(d)
		}
	}
}

func (l *LANDiscoverer) service() string {
	if l.Service == "" {
		return ServiceType
	}
	return l.Service
}

func (l *LANDiscoverer) domain() string {
	if l.Domain == "" {
		return ServiceDomain
	}
	return l.Domain
}

func (l *LANDiscoverer) after() func(time.Duration) <-chan time.Time {
	if l.After == nil {
		return time.After
	}
	return l.After
}

// resultSet collects sightings until sealed; later adds are ignored.
type resultSet struct {
	mu      sync.Mutex
	devices []DeviceInfo
	sealed  bool
}

func (r *resultSet) add(d DeviceInfo) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sealed {
		return false
	}
	r.devices = append(r.devices, d)
	return true
}

func (r *resultSet) isSealed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sealed
}

// seal stops accepting results and returns a copy of what was collected.
func (r *resultSet) seal() []DeviceInfo {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sealed = true
	return append([]DeviceInfo(nil), r.devices...)
}
