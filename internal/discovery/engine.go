package discovery

import (
	"context"
	"time"

	"github.com/rs/xid"
	"go.uber.org/zap"

	"github.com/muurk/molehole/internal/logging"
)

// Options wires the collaborators of an Engine.
type Options struct {
	Matcher  Matcher
	Scanner  Scanner
	Browser  Browser
	Resolver Resolver

	// Service and Domain override the browsed service (defaults ServiceType, ServiceDomain)
	Service string
	Domain  string

	// After overrides the LAN window timer, mainly for tests
	After func(time.Duration) <-chan time.Time
}

// Result is the outcome of one discovery run.
type Result struct {
	RunID   string        `json:"run_id"`
	Source  string        `json:"source"`
	Devices []DeviceInfo  `json:"devices"`
	Elapsed time.Duration `json:"-"`
}

// Engine runs the discovery pipelines against one mapping table.
type Engine struct {
	lan *LANDiscoverer
	ap  *APDiscoverer
}

// NewEngine creates an engine from its collaborators.
func NewEngine(opts Options) *Engine {
	return &Engine{
		lan: &LANDiscoverer{
			Browser:  opts.Browser,
			Resolver: opts.Resolver,
			Matcher:  opts.Matcher,
			Service:  opts.Service,
			Domain:   opts.Domain,
			After:    opts.After,
		},
		ap: &APDiscoverer{
			Scanner: opts.Scanner,
			Matcher: opts.Matcher,
		},
	}
}

// DiscoverFromAP returns devices seen in one wireless scan.
func (e *Engine) DiscoverFromAP(ctx context.Context) []DeviceInfo {
	return e.Run(ctx, SourceAP, 0).Devices
}

// DiscoverFromLAN returns devices advertising on the local network during a
// window of timeoutSeconds (see NormalizeTimeout).
func (e *Engine) DiscoverFromLAN(ctx context.Context, timeoutSeconds float64) []DeviceInfo {
	return e.Run(ctx, SourceLAN, timeoutSeconds).Devices
}

// GetDevices runs the LAN pipeline to completion and only then the AP
// pipeline, and returns LAN sightings followed by AP sightings, deduplicated.
// A device seen by both pipelines appears once per pipeline.
func (e *Engine) GetDevices(ctx context.Context, timeoutSeconds float64) []DeviceInfo {
	return e.Run(ctx, SourceAll, timeoutSeconds).Devices
}

// Run executes the pipelines selected by source ("lan", "ap" or "all") under
// a fresh run id. Unknown sources run both.
func (e *Engine) Run(ctx context.Context, source string, timeoutSeconds float64) Result {
	res := Result{RunID: xid.New().String(), Source: source}
	start := time.Now()

	startFields := []zap.Field{}
	if source != SourceAP {
		startFields = append(startFields, zap.Duration("window", NormalizeTimeout(timeoutSeconds)))
	}
	logging.LogRun(res.RunID, source, "started", startFields...)

	switch source {
	case SourceLAN:
		res.Devices = e.lan.Discover(ctx, timeoutSeconds)
	case SourceAP:
		res.Devices = e.ap.Discover(ctx)
	default:
		res.Source = SourceAll
		lan := e.lan.Discover(ctx, timeoutSeconds)
		ap := e.ap.Discover(ctx)
		res.Devices = Dedup(append(lan, ap...))
	}

	res.Elapsed = time.Since(start)
	logging.LogRun(res.RunID, res.Source, "finished",
		zap.Int("devices", len(res.Devices)),
		zap.Duration("elapsed", res.Elapsed),
	)
	return res
}
