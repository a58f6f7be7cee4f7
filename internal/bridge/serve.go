package bridge

import (
	"context"
	"fmt"

	"github.com/godbus/dbus/v5"
)

// Serve exports host on the session bus, or the system bus when system is
// set, and blocks until ctx is done.
func Serve(ctx context.Context, host Host, system bool) error {
	conn, err := connect(system)
	if err != nil {
		return err
	}
	defer conn.Close()

	reply, err := conn.RequestName(ServiceName, dbus.NameFlagDoNotQueue)
	if err != nil {
		return fmt.Errorf("request name %s: %w", ServiceName, err)
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		return fmt.Errorf("request name %s: already owned", ServiceName)
	}

	if err := conn.Export(NewService(ctx, host), dbus.ObjectPath(ObjectPath), InterfaceName); err != nil {
		return fmt.Errorf("export %s: %w", InterfaceName, err)
	}

	<-ctx.Done()
	return nil
}

func connect(system bool) (*dbus.Conn, error) {
	if system {
		conn, err := dbus.ConnectSystemBus()
		if err != nil {
			return nil, fmt.Errorf("connect to system bus: %w", err)
		}
		return conn, nil
	}
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("connect to session bus: %w", err)
	}
	return conn, nil
}
