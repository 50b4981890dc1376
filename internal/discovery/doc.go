// Package discovery finds recognised devices on the local network.
//
// Two pipelines feed a single result list:
//
//   - The LAN pipeline browses multicast DNS for "_ssh._tcp" services in
//     "local." for a fixed window, resolves each advertised IPv4 address to a
//     hardware address and keeps the ones the mapping table recognises.
//   - The AP pipeline runs one wireless scan and keeps access points whose
//     BSSID the mapping table recognises.
//
// The Engine runs the LAN pipeline to completion, then the AP pipeline, and
// returns both lists concatenated and deduplicated.
//
// # Usage Example
//
//	engine := discovery.NewEngine(discovery.Options{
//	    Matcher:  table,
//	    Scanner:  wifi.NewScanner(""),
//	    Browser:  discovery.NewZeroconfBrowser(),
//	    Resolver: arp.New(arp.DefaultConfig()),
//	})
//
//	for _, d := range engine.GetDevices(ctx, 10) {
//	    fmt.Println(d)
//	}
//
// # Failure Model
//
// None of the entry points return errors. An unavailable scanner yields an
// empty AP list, an address that cannot be resolved is skipped and an invalid
// timeout falls back to 10 seconds.
//
// # Network Requirements
//
// - Requires multicast support on the network interface
// - Devices must be on the same local network segment
// - Firewall must allow mDNS (UDP port 5353)
//
// # Thread Safety
//
// An Engine is safe for concurrent use. Concurrent runs share the resolver
// cache but nothing else.
package discovery
