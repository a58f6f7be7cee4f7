package hotspot

import (
	"context"
	"fmt"
	"log"
)

// step is one nmcli invocation in an ordered pipeline. Best-effort steps may
// fail without aborting the steps after them.
type step struct {
	name       string
	args       []string
	bestEffort bool
}

func startSteps(iface string, opts StartOptions) []step {
	return []step{
		{name: "down", args: downArgs(), bestEffort: true},
		{name: "delete", args: deleteArgs(), bestEffort: true},
		{name: "add", args: addArgs(iface, opts.SSID)},
		{name: "mode", args: accessPointArgs()},
		{name: "security", args: securityArgs(opts.Security, opts.Password)},
		{name: "up", args: upArgs()},
	}
}

func releaseSteps() []step {
	return []step{
		{name: "down", args: downArgs(), bestEffort: true},
		{name: "delete", args: deleteArgs(), bestEffort: true},
	}
}

// runSteps executes steps strictly in order. The first must-succeed failure
// stops the pipeline and is returned wrapped with the step name.
func (m *Manager) runSteps(ctx context.Context, steps []step) error {
	for _, s := range steps {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("hotspot %s: %w", s.name, err)
		}
		if _, err := m.runner.Run(ctx, s.args...); err != nil {
			if s.bestEffort {
				log.Printf("hotspot: %s step ignored: %v", s.name, err)
				continue
			}
			return fmt.Errorf("hotspot %s: %w", s.name, err)
		}
	}
	return nil
}
