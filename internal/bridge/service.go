package bridge

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/godbus/dbus/v5"

	"github.com/hodory/beacon/internal/hotspot"
	"github.com/hodory/beacon/internal/live"
	"github.com/hodory/beacon/internal/session"
)

// callTimeout bounds one bridge call. A hotspot start runs up to six nmcli
// steps of 30 seconds each.
const callTimeout = 4 * time.Minute

// Host is the slice of *live.Controller exported on the bus.
type Host interface {
	GoLive(ctx context.Context, opts live.Options) (live.Broadcast, error)
	StopLive(ctx context.Context) hotspot.StopResult
	HotspotStart(ctx context.Context, opts hotspot.StartOptions) (hotspot.Status, error)
	HotspotStop(ctx context.Context) hotspot.StopResult
	HotspotStatus(ctx context.Context, ifname string) hotspot.Status
	SessionStatus() session.Session
	Current() (live.Broadcast, bool)
	HotspotDefaults() hotspot.StartOptions
}

// Service is the object exported at ObjectPath. Every method answers with a
// JSON document or a D-Bus error named ErrorPrefix+CODE.
type Service struct {
	ctx  context.Context
	host Host
}

// NewService returns a Service whose calls are bounded by ctx.
func NewService(ctx context.Context, host Host) *Service {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Service{ctx: ctx, host: host}
}

func (s *Service) HotspotStart(ssid, password, security, ifname string) (string, *dbus.Error) {
	ctx, cancel := context.WithTimeout(s.ctx, callTimeout)
	defer cancel()

	st, err := s.host.HotspotStart(ctx, hotspot.StartOptions{
		SSID:     ssid,
		Password: password,
		Security: hotspot.Security(security),
		Ifname:   ifname,
	})
	if err != nil {
		log.Printf("bridge: hotspot start failed: %v", err)
		return "", toDBusError(err)
	}
	return reply(st)
}

func (s *Service) HotspotStop() (string, *dbus.Error) {
	ctx, cancel := context.WithTimeout(s.ctx, callTimeout)
	defer cancel()
	return reply(s.host.HotspotStop(ctx))
}

func (s *Service) HotspotStatus(ifname string) (string, *dbus.Error) {
	ctx, cancel := context.WithTimeout(s.ctx, callTimeout)
	defer cancel()
	return reply(s.host.HotspotStatus(ctx, ifname))
}

func (s *Service) SessionStart(module, room string, withHotspot bool) (string, *dbus.Error) {
	if module == "" {
		return "", newError(codeInvalidInput, "module code is required")
	}
	ctx, cancel := context.WithTimeout(s.ctx, callTimeout)
	defer cancel()

	opts := live.Options{Module: module, Room: room}
	if withHotspot {
		defaults := s.host.HotspotDefaults()
		opts.Hotspot = &defaults
	}
	b, err := s.host.GoLive(ctx, opts)
	if err != nil && !b.Session.IsActive {
		log.Printf("bridge: session start failed: %v", err)
		return "", toDBusError(err)
	}
	out := SessionReply{Broadcast: b}
	if err != nil {
		out.HotspotError = err.Error()
	}
	return reply(out)
}

func (s *Service) SessionStop() (string, *dbus.Error) {
	ctx, cancel := context.WithTimeout(s.ctx, callTimeout)
	defer cancel()
	return reply(s.host.StopLive(ctx))
}

func (s *Service) SessionStatus() (string, *dbus.Error) {
	if b, ok := s.host.Current(); ok {
		return reply(SessionReply{Broadcast: b})
	}
	return reply(SessionReply{Broadcast: live.Broadcast{Session: s.host.SessionStatus()}})
}

func reply(v any) (string, *dbus.Error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", newError(codeInternal, err.Error())
	}
	return string(data), nil
}

func newError(code, msg string) *dbus.Error {
	return dbus.NewError(ErrorPrefix+code, []interface{}{msg})
}

// toDBusError names the error after its hotspot code. Unclassified errors
// are INTERNAL.
func toDBusError(err error) *dbus.Error {
	code := string(hotspot.CodeOf(err))
	if code == "" {
		code = codeInternal
	}
	return newError(code, err.Error())
}
