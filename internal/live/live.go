// Package live ties the session machine and the hotspot together behind the
// single "go live" action the host exposes.
package live

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/hodory/beacon/internal/hotspot"
	"github.com/hodory/beacon/internal/payload"
	"github.com/hodory/beacon/internal/session"
)

// HotspotManager is the subset of *hotspot.Manager the controller drives.
type HotspotManager interface {
	Validate(opts hotspot.StartOptions) (hotspot.StartOptions, error)
	Start(ctx context.Context, opts hotspot.StartOptions) (hotspot.Status, error)
	Stop(ctx context.Context) hotspot.StopResult
	Release(ctx context.Context) hotspot.StopResult
	Status(ctx context.Context, opts hotspot.StatusOptions) hotspot.Status
}

// Options configure GoLive.
type Options struct {
	Module  string
	Room    string
	Hotspot *hotspot.StartOptions // nil leaves the hotspot untouched
}

// Broadcast is what the host shows for a running session.
type Broadcast struct {
	Session session.Session        `json:"session"`
	Payload payload.SessionPayload `json:"payload"`
	Encoded string                 `json:"encoded"`
	Hotspot *hotspot.Status        `json:"hotspot,omitempty"`
}

// Controller serializes hotspot changes and keeps the hotspot's lifetime
// tied to the session's.
type Controller struct {
	machine    *session.Machine
	hotspot    HotspotManager
	apiBaseURL string
	defaults   hotspot.StartOptions

	mu sync.Mutex // serializes hotspot calls
	bg sync.WaitGroup

	netMu   sync.Mutex
	network *payload.Network
}

// New returns a Controller and registers its expiry hook on machine.
func New(machine *session.Machine, hs HotspotManager, apiBaseURL string, defaults hotspot.StartOptions) *Controller {
	c := &Controller{
		machine:    machine,
		hotspot:    hs,
		apiBaseURL: strings.TrimSpace(apiBaseURL),
		defaults:   defaults,
	}
	machine.SetExpireHook(c.onExpire)
	return c
}

// HotspotDefaults returns the configured access point settings.
func (c *Controller) HotspotDefaults() hotspot.StartOptions {
	return c.defaults
}

// GoLive starts a session and, when requested, the hotspot. Hotspot options
// are validated before the session starts. If the hotspot then fails to come
// up the session keeps running and the error is returned with the broadcast.
func (c *Controller) GoLive(ctx context.Context, opts Options) (Broadcast, error) {
	var hsOpts hotspot.StartOptions
	if opts.Hotspot != nil {
		var err error
		hsOpts, err = c.hotspot.Validate(*opts.Hotspot)
		if err != nil {
			return Broadcast{}, err
		}
	}

	sess, err := c.machine.Start(opts.Module, opts.Room)
	if err != nil {
		return Broadcast{}, fmt.Errorf("start session: %w", err)
	}
	log.Printf("session %s started: module=%q room=%q", sess.ID, sess.ModuleCode, sess.Room)

	c.mu.Lock()
	defer c.mu.Unlock()

	var status *hotspot.Status
	var hsErr error
	if opts.Hotspot != nil {
		st, err := c.hotspot.Start(ctx, hsOpts)
		if err != nil {
			log.Printf("hotspot start failed, session %s continues without it: %v", sess.ID, err)
			c.setNetwork(nil)
			hsErr = fmt.Errorf("start hotspot: %w", err)
		} else {
			status = &st
			c.setNetwork(networkFor(hsOpts))
		}
	}

	b, err := c.broadcast(sess)
	if err != nil {
		return Broadcast{}, err
	}
	b.Hotspot = status
	return b, hsErr
}

// StopLive ends the session and brings the hotspot down.
func (c *Controller) StopLive(ctx context.Context) hotspot.StopResult {
	c.machine.Stop()
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setNetwork(nil)
	log.Printf("session stopped")
	return c.hotspot.Stop(ctx)
}

// Shutdown ends the session and removes the hotspot profile.
func (c *Controller) Shutdown(ctx context.Context) hotspot.StopResult {
	c.machine.Stop()
	c.bg.Wait()
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setNetwork(nil)
	return c.hotspot.Release(ctx)
}

// HotspotStart starts the hotspot independently of the session. A running
// session's payload picks up the new network.
func (c *Controller) HotspotStart(ctx context.Context, opts hotspot.StartOptions) (hotspot.Status, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	st, err := c.hotspot.Start(ctx, opts)
	if err != nil {
		return st, err
	}
	normalized, _ := c.hotspot.Validate(opts)
	c.setNetwork(networkFor(normalized))
	return st, nil
}

// HotspotStop brings the hotspot down and leaves the session running.
func (c *Controller) HotspotStop(ctx context.Context) hotspot.StopResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setNetwork(nil)
	return c.hotspot.Stop(ctx)
}

// HotspotStatus queries the hotspot. An empty ifname uses the configured one.
func (c *Controller) HotspotStatus(ctx context.Context, ifname string) hotspot.Status {
	if strings.TrimSpace(ifname) == "" {
		ifname = c.defaults.Ifname
	}
	return c.hotspot.Status(ctx, hotspot.StatusOptions{Ifname: ifname})
}

// SessionStatus returns the current session.
func (c *Controller) SessionStatus() session.Session {
	return c.machine.Snapshot()
}

// Current returns the broadcast for the running session, if any.
func (c *Controller) Current() (Broadcast, bool) {
	sess := c.machine.Snapshot()
	if !sess.IsActive {
		return Broadcast{}, false
	}
	b, err := c.broadcast(sess)
	if err != nil {
		log.Printf("encode payload: %v", err)
		return Broadcast{}, false
	}
	return b, true
}

// onExpire runs on the machine's ticking goroutine, so the hotspot stop is
// handed off and never holds up the countdown behind an nmcli call.
func (c *Controller) onExpire(s session.Session) {
	log.Printf("session %s expired", s.ID)
	c.bg.Add(1)
	go func() {
		defer c.bg.Done()
		c.stopAfterExpiry()
	}()
}

func (c *Controller) stopAfterExpiry() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.machine.Snapshot().IsActive {
		// a new session started between expiry and this stop
		return
	}
	c.setNetwork(nil)
	res := c.hotspot.Stop(context.Background())
	if res.Error != "" {
		log.Printf("hotspot stop after expiry: %s", res.Error)
	}
}

func (c *Controller) setNetwork(n *payload.Network) {
	c.netMu.Lock()
	c.network = n
	c.netMu.Unlock()
}

func (c *Controller) currentNetwork() *payload.Network {
	c.netMu.Lock()
	defer c.netMu.Unlock()
	return c.network
}

func (c *Controller) broadcast(sess session.Session) (Broadcast, error) {
	p := payload.New(payload.SessionInfo{
		ID:              sess.ID,
		Code:            sess.Code,
		ModuleCode:      sess.ModuleCode,
		Room:            sess.Room,
		StartedAt:       payload.FormatStartedAt(sess.StartedAt),
		DurationMinutes: session.DurationSeconds / 60,
	}, c.currentNetwork(), c.apiBaseURL)
	encoded, err := payload.Encode(p)
	if err != nil {
		return Broadcast{}, err
	}
	return Broadcast{Session: sess, Payload: p, Encoded: encoded}, nil
}

func networkFor(opts hotspot.StartOptions) *payload.Network {
	return &payload.Network{
		SSID:     opts.SSID,
		Password: opts.Password,
		Security: string(opts.Security),
	}
}
