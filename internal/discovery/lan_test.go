package discovery

import (
	"context"
	"errors"
	"testing"
	"time"
)

func newTestLAN(b Browser, r Resolver, timer *fakeTimer) (*LANDiscoverer, chan DeviceInfo) {
	added := make(chan DeviceInfo, 16)
	l := &LANDiscoverer{
		Browser:  b,
		Resolver: r,
		Matcher:  testTable(),
		After:    timer.After,
		onAdd:    func(d DeviceInfo) { added <- d },
	}
	return l, added
}

func TestLANDiscoverer_WindowLength(t *testing.T) {
	tests := []struct {
		in   float64
		want time.Duration
	}{
		{0, 10 * time.Second},
		{-5, 10 * time.Second},
		{3.7, 4 * time.Second},
	}

	for _, tt := range tests {
		timer := newFakeTimer()
		timer.fire()
		l, _ := newTestLAN(newFakeBrowser(), &fakeResolver{}, timer)

		l.Discover(context.Background(), tt.in)

		got := timer.requested()
		if len(got) != 1 || got[0] != tt.want {
			t.Errorf("Discover(%v) window = %v, want [%v]", tt.in, got, tt.want)
		}
	}
}

func TestLANDiscoverer_BrowsesFixedService(t *testing.T) {
	timer := newFakeTimer()
	timer.fire()
	b := newFakeBrowser()
	l, _ := newTestLAN(b, &fakeResolver{}, timer)

	l.Discover(context.Background(), 1)

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.service != "_ssh._tcp" || b.domain != "local." {
		t.Errorf("browsed %q in %q, want _ssh._tcp in local.", b.service, b.domain)
	}
}

func TestLANDiscoverer_CollectsMatches(t *testing.T) {
	b := newFakeBrowser(
		Advertisement{Host: "pi.local", Addresses: []string{"10.0.0.1"}},
		Advertisement{Host: "nas.local", Addresses: []string{"10.0.0.2", "10.0.0.3"}},
		Advertisement{Host: "laptop.local", Addresses: []string{"10.0.0.4"}},
	)
	r := &fakeResolver{macs: map[string]string{
		"10.0.0.1": "AA:BB:CC:00:00:01",
		"10.0.0.3": "dd:ee:ff:00:00:03",
		"10.0.0.4": "11:22:33:44:55:66",
	}}
	timer := newFakeTimer()
	l, added := newTestLAN(b, r, timer)

	done := make(chan []DeviceInfo, 1)
	go func() { done <- l.Discover(context.Background(), 5) }()

	waitAdds(t, added, 2)
	timer.fire()
	got := <-done

	if len(got) != 2 {
		t.Fatalf("Discover() returned %d entries, want 2: %v", len(got), got)
	}

	pi, ok := findByMAC(got, "AA:BB:CC:00:00:01")
	if !ok {
		t.Fatalf("missing pi sighting in %v", got)
	}
	if pi.ID != "dev1" || *pi.IP != "10.0.0.1" || *pi.Host != "pi.local" || pi.SSID != nil {
		t.Errorf("pi sighting = %v", pi)
	}

	nas, ok := findByMAC(got, "DD:EE:FF:00:00:03")
	if !ok {
		t.Fatalf("missing nas sighting (upper-cased MAC) in %v", got)
	}
	if nas.ID != "dev2" || *nas.IP != "10.0.0.3" {
		t.Errorf("nas sighting = %v", nas)
	}
}

func TestLANDiscoverer_FailedResolutionDoesNotStopOthers(t *testing.T) {
	b := newFakeBrowser(Advertisement{Host: "multi.local", Addresses: []string{"10.0.0.9", "10.0.0.1"}})
	r := &fakeResolver{macs: map[string]string{"10.0.0.1": "AA:BB:CC:00:00:01"}}
	timer := newFakeTimer()
	l, added := newTestLAN(b, r, timer)

	done := make(chan []DeviceInfo, 1)
	go func() { done <- l.Discover(context.Background(), 5) }()

	waitAdds(t, added, 1)
	timer.fire()
	got := <-done

	if len(got) != 1 || got[0].MAC != "AA:BB:CC:00:00:01" {
		t.Errorf("Discover() = %v, want the second address resolved", got)
	}
}

func TestLANDiscoverer_LateResultDropped(t *testing.T) {
	gate := make(chan struct{})
	b := newFakeBrowser(
		Advertisement{Host: "fast.local", Addresses: []string{"10.0.0.1"}},
		Advertisement{Host: "slow.local", Addresses: []string{"10.0.0.2"}},
	)
	r := &fakeResolver{
		macs: map[string]string{
			"10.0.0.1": "AA:BB:CC:00:00:01",
			"10.0.0.2": "AA:BB:CC:00:00:02",
		},
		gates: map[string]chan struct{}{"10.0.0.2": gate},
	}
	timer := newFakeTimer()
	l, added := newTestLAN(b, r, timer)

	done := make(chan []DeviceInfo, 1)
	go func() { done <- l.Discover(context.Background(), 5) }()

	waitAdds(t, added, 1)
	timer.fire()
	got := <-done
	close(gate)

	if len(got) != 1 || got[0].MAC != "AA:BB:CC:00:00:01" {
		t.Errorf("Discover() = %v, want only the sighting resolved before the window closed", got)
	}

	select {
	case d := <-added:
		t.Errorf("late sighting accepted after the window closed: %v", d)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestLANDiscoverer_StopsBrowserWhenWindowCloses(t *testing.T) {
	b := newFakeBrowser()
	timer := newFakeTimer()
	timer.fire()
	l, _ := newTestLAN(b, &fakeResolver{}, timer)

	l.Discover(context.Background(), 1)

	select {
	case <-b.stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("browser was not stopped after the window closed")
	}
}

func TestLANDiscoverer_BrowserFailureWaitsForWindow(t *testing.T) {
	b := newFakeBrowser()
	b.err = errors.New("multicast unavailable")
	r := &fakeResolver{}
	timer := newFakeTimer()
	l, _ := newTestLAN(b, r, timer)

	done := make(chan []DeviceInfo, 1)
	go func() { done <- l.Discover(context.Background(), 5) }()

	select {
	case <-done:
		t.Fatal("Discover() returned before the window closed")
	case <-time.After(50 * time.Millisecond):
	}

	timer.fire()
	got := <-done
	if got == nil || len(got) != 0 {
		t.Errorf("Discover() = %v, want empty list", got)
	}
	if r.callCount() != 0 {
		t.Errorf("resolver called %d times, want 0", r.callCount())
	}
}

func TestLANDiscoverer_ContextCancelEndsWindow(t *testing.T) {
	b := newFakeBrowser(Advertisement{Host: "pi.local", Addresses: []string{"10.0.0.1"}})
	r := &fakeResolver{macs: map[string]string{"10.0.0.1": "AA:BB:CC:00:00:01"}}
	timer := newFakeTimer()
	l, added := newTestLAN(b, r, timer)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan []DeviceInfo, 1)
	go func() { done <- l.Discover(ctx, 60) }()

	waitAdds(t, added, 1)
	cancel()

	select {
	case got := <-done:
		if len(got) != 1 {
			t.Errorf("Discover() = %v, want the sighting collected before cancel", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Discover() did not return after cancel")
	}
}

func TestResultSet_SealDropsLateAdds(t *testing.T) {
	var rs resultSet
	if !rs.add(DeviceInfo{ID: "a", MAC: "1"}) {
		t.Fatal("add() before seal = false, want true")
	}

	snapshot := rs.seal()
	if rs.add(DeviceInfo{ID: "b", MAC: "2"}) {
		t.Error("add() after seal = true, want false")
	}
	if !rs.isSealed() {
		t.Error("isSealed() = false after seal")
	}
	if len(snapshot) != 1 || snapshot[0].ID != "a" {
		t.Errorf("seal() = %v, want only the first sighting", snapshot)
	}
}
