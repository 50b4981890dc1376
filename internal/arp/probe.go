package arp

import (
	"context"
	"net"
	"runtime"
	"sync"
	"time"

	ping "github.com/go-ping/ping"
	"github.com/j-keck/arping"

	"github.com/muurk/molehole/internal/macaddr"
)

// arpingProbe sends an ARP request for ip and waits up to timeout for the
// reply.
type arpingProbe func(ctx context.Context, ip net.IP, timeout time.Duration) (string, bool)

// pingProbe sends one ICMP echo so the kernel learns the neighbour.
type pingProbe func(ctx context.Context, ip string, timeout time.Duration) error

// arping keeps its timeout in package state, read by every Ping. It is
// written once, before the first probe.
var arpingTimeout sync.Once

func configureArping(timeout time.Duration) {
	arpingTimeout.Do(func() {
		arping.SetTimeout(timeout)
	})
}

// sendARP waits at most timeout for a reply, independently of the package
// wide arping timeout.
func sendARP(ctx context.Context, ip net.IP, timeout time.Duration) (string, bool) {
	type reply struct {
		hw  net.HardwareAddr
		err error
	}

	configureArping(timeout)
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ch := make(chan reply, 1)
	go func() {
		hw, _, err := arping.Ping(ip)
		ch <- reply{hw, err}
	}()

	select {
	case <-ctx.Done():
		return "", false
	case r := <-ch:
		if r.err != nil {
			return "", false
		}
		mac := macaddr.Normalize(r.hw.String())
		return mac, macaddr.IsUsable(mac)
	}
}

func sendPing(ctx context.Context, ip string, timeout time.Duration) error {
	pinger, err := ping.NewPinger(ip)
	if err != nil {
		return err
	}

	if runtime.GOOS == "windows" {
		pinger.SetPrivileged(true)
	} else {
		pinger.SetPrivileged(false)
	}
	pinger.Count = 1
	pinger.Timeout = timeout

	errCh := make(chan error, 1)
	go func() {
		errCh <- pinger.Run()
	}()

	select {
	case <-ctx.Done():
		pinger.Stop()
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}
