package config

import "time"

// Config is the molehole application configuration file.
type Config struct {
	Version int `yaml:"version"`

	// MappingFile is the device mapping table; empty means <config dir>/mapping.yaml
	MappingFile string `yaml:"mapping_file,omitempty"`

	Discovery Discovery `yaml:"discovery"`
	Resolver  Resolver  `yaml:"resolver"`
	WiFi      WiFi      `yaml:"wifi"`
	Server    Server    `yaml:"server"`
}

// Discovery tunes the LAN listening window and browse criteria.
type Discovery struct {
	TimeoutSeconds float64 `yaml:"timeout_seconds"` // LAN window, normalized to whole seconds
	Service        string  `yaml:"service"`         // DNS-SD service type
	Domain         string  `yaml:"domain"`          // mDNS domain
}

// Resolver selects the address resolution strategies.
type Resolver struct {
	CacheSize     int           `yaml:"cache_size"`
	CacheTTL      time.Duration `yaml:"cache_ttl"`
	ARPTable      bool          `yaml:"arp_table"`      // Read the OS neighbour table
	Arping        bool          `yaml:"arping"`         // Send ARP requests (needs privileges)
	ArpingTimeout time.Duration `yaml:"arping_timeout"` // Per-request ARP timeout
	PingPrime     bool          `yaml:"ping_prime"`     // Ping, then re-read the neighbour table
	PingTimeout   time.Duration `yaml:"ping_timeout"`
}

// WiFi configures wireless scanning.
type WiFi struct {
	Interface string `yaml:"interface"` // Empty means auto-detect
}

// Server configures the HTTP/WebSocket service.
type Server struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Default returns a Config with every field at its default value.
func Default() *Config {
	return &Config{
		Version: 1,
		Discovery: Discovery{
			TimeoutSeconds: 10,
			Service:        "_ssh._tcp",
			Domain:         "local.",
		},
		Resolver: Resolver{
			CacheSize:     256,
			CacheTTL:      5 * time.Minute,
			ARPTable:      true,
			Arping:        true,
			ArpingTimeout: 500 * time.Millisecond,
			PingPrime:     true,
			PingTimeout:   time.Second,
		},
		Server: Server{
			Port: 8080,
		},
	}
}
