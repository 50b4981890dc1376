package arp

import (
	"context"
	"net"
	"time"

	"github.com/projectdiscovery/gcache"
	"go.uber.org/zap"

	"github.com/muurk/molehole/internal/logging"
)

const (
	DefaultCacheSize     = 256
	DefaultCacheTTL      = 5 * time.Minute
	DefaultArpingTimeout = 500 * time.Millisecond
	DefaultPingTimeout   = time.Second
)

// Config selects and tunes the resolution strategies.
type Config struct {
	CacheSize     int
	CacheTTL      time.Duration
	UseTable      bool
	UseArping     bool
	UsePing       bool
	ArpingTimeout time.Duration
	PingTimeout   time.Duration
}

// DefaultConfig enables every strategy.
func DefaultConfig() Config {
	return Config{
		CacheSize:     DefaultCacheSize,
		CacheTTL:      DefaultCacheTTL,
		UseTable:      true,
		UseArping:     true,
		UsePing:       true,
		ArpingTimeout: DefaultArpingTimeout,
		PingTimeout:   DefaultPingTimeout,
	}
}

// Resolver maps IPv4 addresses to hardware addresses. It is safe for
// concurrent use.
type Resolver struct {
	cfg   Config
	cache gcache.Cache[string, string]

	table  tableReader
	arping arpingProbe
	ping   pingProbe
}

// New builds a resolver backed by the platform neighbour table and probes.
func New(cfg Config) *Resolver {
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = DefaultCacheSize
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = DefaultCacheTTL
	}
	if cfg.ArpingTimeout <= 0 {
		cfg.ArpingTimeout = DefaultArpingTimeout
	}
	if cfg.PingTimeout <= 0 {
		cfg.PingTimeout = DefaultPingTimeout
	}
	configureArping(cfg.ArpingTimeout)

	return &Resolver{
		cfg: cfg,
		cache: gcache.New[string, string](cfg.CacheSize).
			LRU().
			Expiration(cfg.CacheTTL).
			Build(),
		table:  systemTable(defaultGOOS),
		arping: sendARP,
		ping:   sendPing,
	}
}

// ResolveMAC returns the uppercase colon-separated hardware address for ip,
// or false when no strategy produced one. Only IPv4 literals are resolved.
func (r *Resolver) ResolveMAC(ctx context.Context, ip string) (string, bool) {
	parsed := net.ParseIP(ip)
	if parsed == nil || parsed.To4() == nil {
		return "", false
	}
	ip = parsed.To4().String()

	if mac, err := r.cache.Get(ip); err == nil {
		logging.LogResolution(ip, mac, "cache")
		return mac, true
	}

	mac, method, ok := r.resolve(ctx, parsed.To4(), ip)
	if !ok {
		logging.LogResolution(ip, "", "none")
		return "", false
	}

	if err := r.cache.Set(ip, mac); err != nil {
		logging.Debug("Failed to cache resolution", zap.String("ip", ip), zap.Error(err))
	}
	logging.LogResolution(ip, mac, method)
	return mac, true
}

func (r *Resolver) resolve(ctx context.Context, addr net.IP, ip string) (string, string, bool) {
	if r.cfg.UseTable {
		if mac, ok := r.table(ctx, ip); ok {
			return mac, "table", true
		}
	}

	if r.cfg.UseArping && ctx.Err() == nil {
		if mac, ok := r.arping(ctx, addr, r.cfg.ArpingTimeout); ok {
			return mac, "arping", true
		}
	}

	if r.cfg.UsePing && ctx.Err() == nil {
		if err := r.ping(ctx, ip, r.cfg.PingTimeout); err != nil {
			logging.Debug("Ping prime failed", zap.String("ip", ip), zap.Error(err))
		}
		if mac, ok := r.table(ctx, ip); ok {
			return mac, "ping", true
		}
	}

	return "", "", false
}
