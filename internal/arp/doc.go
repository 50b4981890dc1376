// Package arp resolves IPv4 addresses to hardware addresses on the local
// segment.
//
// A Resolver walks a fixed chain of strategies and stops at the first one
// that yields a usable address:
//
//  1. an in-memory LRU cache of earlier successes
//  2. the operating system neighbour table (/proc/net/arp on Linux, the
//     arp command elsewhere)
//  3. an active ARP request via arping (usually needs raw socket privileges)
//  4. a single ICMP echo to populate the neighbour table, then a re-read
//
// Every strategy except the cache can be switched off through Config.
// Failures never surface as errors; the caller only learns that no address
// was found.
package arp
