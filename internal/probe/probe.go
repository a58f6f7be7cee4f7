// Package probe blocks until a TCP endpoint accepts connections.
//
// It is the boot gate for the host: the terminal view is not shown until the
// locally hosted web process is serving. A failed probe is fatal to startup.
package probe

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
)

// ErrTimeout is returned when the endpoint never became reachable.
var ErrTimeout = errors.New("timed out waiting for port")

const (
	attemptTimeout = time.Second
	retryDelay     = 250 * time.Millisecond
)

// Prober polls an address. The zero value dials real sockets and sleeps in
// wall-clock time; tests replace the hooks.
type Prober struct {
	Dial  func(network, address string, timeout time.Duration) (net.Conn, error)
	Sleep func(time.Duration)
	Now   func() time.Time
}

// WaitForPort waits for host:port using the default Prober.
func WaitForPort(host string, port int, timeout time.Duration) error {
	return Prober{}.WaitForPort(host, port, timeout)
}

// WaitForAddr waits for a host:port address using the default Prober.
func WaitForAddr(addr string, timeout time.Duration) error {
	host, port, err := SplitAddr(addr)
	if err != nil {
		return err
	}
	return WaitForPort(host, port, timeout)
}

// SplitAddr parses a host:port pair. An empty host means localhost.
func SplitAddr(addr string) (string, int, error) {
	host, portStr, err := net.SplitHostPort(strings.TrimSpace(addr))
	if err != nil {
		return "", 0, fmt.Errorf("parse address %q: %w", addr, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil || port <= 0 || port > 65535 {
		return "", 0, fmt.Errorf("parse address %q: invalid port", addr)
	}
	if host == "" {
		host = "127.0.0.1"
	}
	return host, port, nil
}

// WaitForPort attempts a TCP connect every 250ms (each attempt bounded to one
// second) until one succeeds or more than timeout has elapsed since the first
// attempt. Probe connections are closed immediately.
func (p Prober) WaitForPort(host string, port int, timeout time.Duration) error {
	dial := p.Dial
	if dial == nil {
		dial = net.DialTimeout
	}
	sleep := p.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}
	now := p.Now
	if now == nil {
		now = time.Now
	}

	addr := net.JoinHostPort(host, strconv.Itoa(port))
	start := now()
	attempts := 0
	for {
		attempts++
		conn, err := dial("tcp", addr, attemptTimeout)
		if err == nil {
			_ = conn.Close()
			return nil
		}
		if elapsed := now().Sub(start); elapsed > timeout {
			return fmt.Errorf("%w: %s after %d attempts in %s: %v",
				ErrTimeout, addr, attempts, elapsed.Round(time.Millisecond), err)
		}
		sleep(retryDelay)
	}
}
