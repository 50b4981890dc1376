package discovery

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/muurk/molehole/internal/mapping"
	"github.com/muurk/molehole/internal/wifi"
)

func testTable() *mapping.Table {
	return mapping.New([]mapping.DeviceMacMapping{
		{ID: "dev1", MAC: []mapping.MacRange{{Start: "AA:BB:CC:00:00:00", End: "AA:BB:CC:00:00:FF"}}},
		{ID: "dev2", MAC: []mapping.MacRange{{Start: "DD:EE:FF:00:00:00", End: "DD:EE:FF:00:00:FF"}}},
	})
}

type fakeScanner struct {
	aps    []wifi.AccessPoint
	err    error
	onScan func()
	calls  int
}

func (f *fakeScanner) Scan(_ context.Context) ([]wifi.AccessPoint, error) {
	f.calls++
	if f.onScan != nil {
		f.onScan()
	}
	return f.aps, f.err
}

type fakeBrowser struct {
	ads     []Advertisement
	err     error
	stopped chan struct{}

	mu      sync.Mutex
	service string
	domain  string
}

func newFakeBrowser(ads ...Advertisement) *fakeBrowser {
	return &fakeBrowser{ads: ads, stopped: make(chan struct{})}
}

func (f *fakeBrowser) Browse(ctx context.Context, service, domain string) (<-chan Advertisement, error) {
	f.mu.Lock()
	f.service, f.domain = service, domain
	f.mu.Unlock()

	if f.err != nil {
		return nil, f.err
	}
	ch := make(chan Advertisement, len(f.ads))
	for _, ad := range f.ads {
		ch <- ad
	}
	go func() {
		<-ctx.Done()
		close(f.stopped)
	}()
	return ch, nil
}

type fakeResolver struct {
	macs  map[string]string
	gates map[string]chan struct{}

	mu    sync.Mutex
	calls []string
}

func (f *fakeResolver) ResolveMAC(_ context.Context, ip string) (string, bool) {
	f.mu.Lock()
	f.calls = append(f.calls, ip)
	gate := f.gates[ip]
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}
	mac, ok := f.macs[ip]
	return mac, ok
}

func (f *fakeResolver) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// fakeTimer hands out a channel the test fires explicitly.
type fakeTimer struct {
	ch chan time.Time

	mu        sync.Mutex
	durations []time.Duration
}

func newFakeTimer() *fakeTimer {
	return &fakeTimer{ch: make(chan time.Time, 1)}
}

func (f *fakeTimer) After(d time.Duration) <-chan time.Time {
	f.mu.Lock()
	f.durations = append(f.durations, d)
	f.mu.Unlock()
	return f.ch
}

func (f *fakeTimer) fire() {
	f.ch <- time.Now()
}

func (f *fakeTimer) requested() []time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]time.Duration(nil), f.durations...)
}

// waitAdds blocks until n sightings have been accepted.
func waitAdds(t *testing.T, added <-chan DeviceInfo, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-added:
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for sighting %d of %d", i+1, n)
		}
	}
}

func findByMAC(devices []DeviceInfo, mac string) (DeviceInfo, bool) {
	for _, d := range devices {
		if d.MAC == mac {
			return d, true
		}
	}
	return DeviceInfo{}, false
}
