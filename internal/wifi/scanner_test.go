package wifi

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type fakeRunner struct {
	outputs map[string]string
	errs    map[string]error
	calls   []string
}

func (f *fakeRunner) run(_ context.Context, name string, args ...string) ([]byte, error) {
	f.calls = append(f.calls, name+" "+strings.Join(args, " "))
	if err := f.errs[name]; err != nil {
		return nil, err
	}
	return []byte(f.outputs[name]), nil
}

func newTestScanner(goos string, runner *fakeRunner, available ...string) *Scanner {
	s := NewScanner("")
	s.GOOS = goos
	s.run = runner.run
	s.lookPath = func(name string) (string, error) {
		for _, a := range available {
			if a == name {
				return "/usr/bin/" + name, nil
			}
		}
		return "", errors.New("not found")
	}
	s.ifaces = func() ([]string, error) { return []string{"wlan0"}, nil }
	return s
}

func TestScanner_LinuxPrefersNmcli(t *testing.T) {
	runner := &fakeRunner{outputs: map[string]string{
		"nmcli": `AA\:BB\:CC\:00\:00\:01:Net1:6:80:WPA2`,
	}}
	s := newTestScanner("linux", runner, "nmcli", "iw")

	aps, err := s.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if len(aps) != 1 || aps[0].SSID != "Net1" {
		t.Errorf("Scan() = %v, want one Net1 entry", aps)
	}
	if len(runner.calls) != 1 || !strings.HasPrefix(runner.calls[0], "nmcli") {
		t.Errorf("calls = %v, want a single nmcli call", runner.calls)
	}
}

func TestScanner_LinuxFallsBackToIw(t *testing.T) {
	runner := &fakeRunner{
		outputs: map[string]string{"iw": "BSS aa:bb:cc:00:00:01(on wlan0)\n\tSSID: Net1\n"},
		errs:    map[string]error{"nmcli": errors.New("NetworkManager is not running")},
	}
	s := newTestScanner("linux", runner, "nmcli", "iw")

	aps, err := s.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if len(aps) != 1 || aps[0].MAC != "AA:BB:CC:00:00:01" {
		t.Errorf("Scan() = %v", aps)
	}
	if last := runner.calls[len(runner.calls)-1]; last != "iw dev wlan0 scan" {
		t.Errorf("last call = %q, want iw dev wlan0 scan", last)
	}
}

func TestScanner_LinuxExplicitInterface(t *testing.T) {
	runner := &fakeRunner{outputs: map[string]string{"iw": ""}}
	s := newTestScanner("linux", runner, "iw")
	s.Interface = "wlp3s0"

	if _, err := s.Scan(context.Background()); err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if runner.calls[0] != "iw dev wlp3s0 scan" {
		t.Errorf("call = %q, want iw dev wlp3s0 scan", runner.calls[0])
	}
}

func TestScanner_LinuxNoTools(t *testing.T) {
	s := newTestScanner("linux", &fakeRunner{})
	if _, err := s.Scan(context.Background()); err == nil {
		t.Error("Scan() error = nil, want error when no tools are installed")
	}
}

func TestScanner_LinuxNoInterface(t *testing.T) {
	s := newTestScanner("linux", &fakeRunner{}, "iw")
	s.ifaces = func() ([]string, error) { return nil, nil }

	if _, err := s.Scan(context.Background()); !errors.Is(err, ErrNoInterface) {
		t.Errorf("Scan() error = %v, want ErrNoInterface", err)
	}
}

func TestScanner_Unsupported(t *testing.T) {
	s := newTestScanner("plan9", &fakeRunner{})
	if _, err := s.Scan(context.Background()); !errors.Is(err, ErrUnsupported) {
		t.Errorf("Scan() error = %v, want ErrUnsupported", err)
	}
}

func TestScanner_DarwinCommandError(t *testing.T) {
	runner := &fakeRunner{errs: map[string]error{airportPath: errors.New("exit status 1")}}
	s := newTestScanner("darwin", runner)

	if _, err := s.Scan(context.Background()); err == nil {
		t.Error("Scan() error = nil, want airport failure")
	}
}
