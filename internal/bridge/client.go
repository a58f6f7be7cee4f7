package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/godbus/dbus/v5"

	"github.com/hodory/beacon/internal/hotspot"
)

// RemoteError is a failure reported by the host.
type RemoteError struct {
	Code    string
	Message string
}

func (e *RemoteError) Error() string {
	if e.Message == "" {
		return e.Code
	}
	return e.Message
}

// Is lets a RemoteError carrying a hotspot code match the hotspot sentinels.
func (e *RemoteError) Is(target error) bool {
	t, ok := target.(*hotspot.Error)
	return ok && string(t.Code) == e.Code
}

// Client calls a running beacon host over D-Bus.
type Client struct {
	conn *dbus.Conn
	obj  dbus.BusObject
}

// Dial connects to the session bus, or the system bus when system is set.
func Dial(system bool) (*Client, error) {
	conn, err := connect(system)
	if err != nil {
		return nil, err
	}
	return &Client{
		conn: conn,
		obj:  conn.Object(ServiceName, dbus.ObjectPath(ObjectPath)),
	}, nil
}

// Close releases the bus connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

func (c *Client) HotspotStart(ctx context.Context, opts hotspot.StartOptions) (hotspot.Status, error) {
	var st hotspot.Status
	err := c.call(ctx, "HotspotStart", &st, opts.SSID, opts.Password, string(opts.Security), opts.Ifname)
	return st, err
}

func (c *Client) HotspotStop(ctx context.Context) (hotspot.StopResult, error) {
	var res hotspot.StopResult
	err := c.call(ctx, "HotspotStop", &res)
	return res, err
}

func (c *Client) HotspotStatus(ctx context.Context, ifname string) (hotspot.Status, error) {
	var st hotspot.Status
	err := c.call(ctx, "HotspotStatus", &st, ifname)
	return st, err
}

func (c *Client) SessionStart(ctx context.Context, module, room string, withHotspot bool) (SessionReply, error) {
	var out SessionReply
	err := c.call(ctx, "SessionStart", &out, module, room, withHotspot)
	return out, err
}

func (c *Client) SessionStop(ctx context.Context) (hotspot.StopResult, error) {
	var res hotspot.StopResult
	err := c.call(ctx, "SessionStop", &res)
	return res, err
}

func (c *Client) SessionStatus(ctx context.Context) (SessionReply, error) {
	var out SessionReply
	err := c.call(ctx, "SessionStatus", &out)
	return out, err
}

func (c *Client) call(ctx context.Context, method string, out any, args ...any) error {
	var raw string
	if err := c.obj.CallWithContext(ctx, InterfaceName+"."+method, 0, args...).Store(&raw); err != nil {
		return fromDBusError(method, err)
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return fmt.Errorf("%s: decode reply: %w", method, err)
	}
	return nil
}

func fromDBusError(method string, err error) error {
	var de dbus.Error
	if errors.As(err, &de) && strings.HasPrefix(de.Name, ErrorPrefix) {
		return &RemoteError{
			Code:    strings.TrimPrefix(de.Name, ErrorPrefix),
			Message: de.Error(),
		}
	}
	return fmt.Errorf("%s: %w", method, err)
}
