package wifi

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	psnet "github.com/shirou/gopsutil/v3/net"
	"go.uber.org/zap"

	"github.com/muurk/molehole/internal/logging"
)

const (
	// DefaultScanTimeout bounds a single scan command
	DefaultScanTimeout = 20 * time.Second

	airportPath = "/System/Library/PrivateFrameworks/Apple80211.framework/Versions/Current/Resources/airport"
)

// ErrUnsupported is returned on platforms without a scan backend
var ErrUnsupported = errors.New("wireless scanning is not supported on this platform")

// ErrNoInterface is returned when no wireless interface could be found
var ErrNoInterface = errors.New("no wireless interface found")

// CommandRunner executes an external command and returns its combined output.
type CommandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

// Scanner runs wireless scans through the platform tooling.
type Scanner struct {
	// Interface forces the wireless interface used by iw; empty means auto-detect
	Interface string

	// Timeout bounds each scan command
	Timeout time.Duration

	// GOOS selects the backend (defaults to runtime.GOOS)
	GOOS string

	run      CommandRunner
	lookPath func(string) (string, error)
	ifaces   func() ([]string, error)
}

// NewScanner creates a scanner for the current platform.
func NewScanner(iface string) *Scanner {
	return &Scanner{
		Interface: iface,
		Timeout:   DefaultScanTimeout,
		GOOS:      runtime.GOOS,
		run:       runCommand,
		lookPath:  exec.LookPath,
		ifaces:    wirelessInterfaces,
	}
}

// Scan performs one scan and returns every access point reported.
func (s *Scanner) Scan(ctx context.Context) ([]AccessPoint, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout())
	defer cancel()

	var (
		aps []AccessPoint
		err error
	)
	switch s.GOOS {
	case "linux":
		aps, err = s.scanLinux(ctx)
	case "darwin":
		aps, err = s.scanDarwin(ctx)
	case "windows":
		aps, err = s.scanWindows(ctx)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, s.GOOS)
	}
	if err != nil {
		return nil, err
	}

	logging.Debug("Wireless scan finished",
		zap.String("os", s.GOOS),
		zap.Int("access_points", len(aps)),
	)
	return aps, nil
}

func (s *Scanner) scanLinux(ctx context.Context) ([]AccessPoint, error) {
	if s.hasCmd("nmcli") {
		out, err := s.run(ctx, "nmcli", "-t", "-f", "BSSID,SSID,CHAN,SIGNAL,SECURITY",
			"device", "wifi", "list", "--rescan", "yes")
		if err == nil {
			return parseNmcli(string(out)), nil
		}
		logging.Debug("nmcli scan failed, trying iw", zap.Error(err))
	}

	if !s.hasCmd("iw") {
		return nil, fmt.Errorf("wireless scan failed: neither nmcli nor iw is available")
	}

	iface, err := s.pickInterface()
	if err != nil {
		return nil, err
	}
	out, err := s.run(ctx, "iw", "dev", iface, "scan")
	if err != nil {
		return nil, fmt.Errorf("wireless scan failed (iw %s): %w", iface, err)
	}
	return parseIw(string(out)), nil
}

func (s *Scanner) scanDarwin(ctx context.Context) ([]AccessPoint, error) {
	out, err := s.run(ctx, airportPath, "-s", "-x")
	if err != nil {
		return nil, fmt.Errorf("wireless scan failed (airport): %w", err)
	}
	return parseAirport(out)
}

func (s *Scanner) scanWindows(ctx context.Context) ([]AccessPoint, error) {
	out, err := s.run(ctx, "netsh", "wlan", "show", "networks", "mode=bssid")
	if err != nil {
		return nil, fmt.Errorf("wireless scan failed (netsh): %w", err)
	}
	return parseNetsh(string(out)), nil
}

func (s *Scanner) pickInterface() (string, error) {
	if s.Interface != "" {
		return s.Interface, nil
	}
	names, err := s.ifaces()
	if err != nil {
		return "", fmt.Errorf("failed to list network interfaces: %w", err)
	}
	if len(names) == 0 {
		return "", ErrNoInterface
	}
	return names[0], nil
}

func (s *Scanner) hasCmd(name string) bool {
	_, err := s.lookPath(name)
	return err == nil
}

func (s *Scanner) timeout() time.Duration {
	if s.Timeout <= 0 {
		return DefaultScanTimeout
	}
	return s.Timeout
}

func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	out, err := cmd.CombinedOutput()
	if ctx.Err() == context.DeadlineExceeded {
		return out, fmt.Errorf("command timed out: %s %s", name, strings.Join(args, " "))
	}
	if err != nil {
		if trimmed := strings.TrimSpace(string(out)); trimmed != "" {
			return out, fmt.Errorf("command failed: %s: %w: %s", name, err, trimmed)
		}
		return out, fmt.Errorf("command failed: %s: %w", name, err)
	}
	return out, nil
}

// wirelessInterfaces lists interfaces that are up and expose a wireless
// sysfs node, falling back to the conventional "wl" name prefix.
func wirelessInterfaces() ([]string, error) {
	stats, err := psnet.Interfaces()
	if err != nil {
		return nil, err
	}

	var names []string
	for _, st := range stats {
		if !hasFlag(st.Flags, "up") || hasFlag(st.Flags, "loopback") {
			continue
		}
		if _, err := os.Stat(filepath.Join("/sys/class/net", st.Name, "wireless")); err == nil {
			names = append(names, st.Name)
			continue
		}
		if strings.HasPrefix(st.Name, "wl") {
			names = append(names, st.Name)
		}
	}
	return names, nil
}

func hasFlag(flags []string, want string) bool {
	for _, f := range flags {
		if f == want {
			return true
		}
	}
	return false
}
