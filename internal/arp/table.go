package arp

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/muurk/molehole/internal/macaddr"
)

// procARPPath is the Linux kernel neighbour table
const procARPPath = "/proc/net/arp"

// atfComplete is the ATF_COM flag set on resolved /proc/net/arp entries
const atfComplete = 0x2

// tableReader looks up ip in the OS neighbour table.
type tableReader func(ctx context.Context, ip string) (string, bool)

// systemTable returns the neighbour table reader for goos.
func systemTable(goos string) tableReader {
	if goos == "linux" {
		return func(_ context.Context, ip string) (string, bool) {
			f, err := os.Open(procARPPath)
			if err != nil {
				return "", false
			}
			defer f.Close()
			return lookupProcARP(f, ip)
		}
	}
	return func(ctx context.Context, ip string) (string, bool) {
		out, err := exec.CommandContext(ctx, "arp", arpArgs(goos, ip)...).CombinedOutput()
		if err != nil {
			return "", false
		}
		return lookupARPOutput(string(out), ip)
	}
}

func arpArgs(goos, ip string) []string {
	if goos == "windows" {
		return []string{"-a", ip}
	}
	return []string{"-n", ip}
}

// lookupProcARP scans /proc/net/arp content for ip. Incomplete entries and
// zero addresses are treated as missing.
//
//	IP address       HW type     Flags       HW address            Mask     Device
//	192.168.1.20     0x1         0x2         00:1b:63:84:45:e6     *        eth0
func lookupProcARP(r io.Reader, ip string) (string, bool) {
	sc := bufio.NewScanner(r)
	first := true
	for sc.Scan() {
		if first {
			first = false
			continue
		}
		fields := strings.Fields(sc.Text())
		if len(fields) < 4 || fields[0] != ip {
			continue
		}

		var flags int
		if _, err := fmt.Sscanf(fields[2], "0x%x", &flags); err != nil || flags&atfComplete == 0 {
			return "", false
		}
		mac := macaddr.Normalize(fields[3])
		if !macaddr.IsUsable(mac) {
			return "", false
		}
		return mac, true
	}
	return "", false
}

// lookupARPOutput extracts the address for ip from "arp -n" or "arp -a"
// output. Only lines mentioning ip are considered.
func lookupARPOutput(out, ip string) (string, bool) {
	for _, line := range strings.Split(out, "\n") {
		if !mentionsIP(line, ip) {
			continue
		}
		mac := macaddr.Find(line)
		if macaddr.IsUsable(mac) {
			return mac, true
		}
	}
	return "", false
}

// mentionsIP matches ip as a whole token, optionally parenthesised as BSD
// arp prints it.
func mentionsIP(line, ip string) bool {
	for _, f := range strings.Fields(line) {
		if strings.Trim(f, "()") == ip {
			return true
		}
	}
	return false
}

// defaultGOOS exists so tests can build readers for other platforms.
var defaultGOOS = runtime.GOOS
