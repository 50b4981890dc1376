package discovery

import (
	"context"
	"fmt"
	"strings"

	"github.com/grandcat/zeroconf"
)

// ZeroconfBrowser browses DNS-SD services over multicast DNS.
type ZeroconfBrowser struct{}

// NewZeroconfBrowser creates a browser using all multicast-capable interfaces.
func NewZeroconfBrowser() *ZeroconfBrowser {
	return &ZeroconfBrowser{}
}

// Browse starts a browse session. Cancelling ctx ends it; the returned
// channel is closed once the resolver has shut down.
func (b *ZeroconfBrowser) Browse(ctx context.Context, service, domain string) (<-chan Advertisement, error) {
	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	entries := make(chan *zeroconf.ServiceEntry)
	if err := resolver.Browse(ctx, service, domain, entries); err != nil {
		go drain(entries)
		return nil, fmt.Errorf("failed to browse for mDNS services: %w", err)
	}

	out := make(chan Advertisement)
	go forward(ctx, entries, out)
	return out, nil
}

// forward converts entries until the resolver closes the channel. The
// resolver blocks on every send and only shuts down its sockets once it sees
// ctx done, so entries keep being read after cancellation.
func forward(ctx context.Context, entries <-chan *zeroconf.ServiceEntry, out chan<- Advertisement) {
	defer close(out)
	for entry := range entries {
		if ctx.Err() != nil {
			continue
		}
		ad, ok := advertisementFromEntry(entry)
		if !ok {
			continue
		}
		select {
		case out <- ad:
		case <-ctx.Done():
		}
	}
}

func drain(entries <-chan *zeroconf.ServiceEntry) {
	for range entries {
	}
}

// advertisementFromEntry keeps the IPv4 addresses of an entry. Entries
// without any are dropped.
func advertisementFromEntry(entry *zeroconf.ServiceEntry) (Advertisement, bool) {
	if entry == nil || len(entry.AddrIPv4) == 0 {
		return Advertisement{}, false
	}

	host := strings.TrimSuffix(entry.HostName, ".")
	if host == "" {
		host = entry.Instance
	}

	addrs := make([]string, 0, len(entry.AddrIPv4))
	for _, ip := range entry.AddrIPv4 {
		addrs = append(addrs, ip.String())
	}
	return Advertisement{Host: host, Addresses: addrs}, true
}
