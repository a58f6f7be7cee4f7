// Package bridge exposes the running host on D-Bus so beaconctl and other
// local tools can drive the session and the hotspot.
package bridge

import (
	"github.com/hodory/beacon/internal/live"
)

const (
	ObjectPath    = "/io/hodory/Beacon"
	InterfaceName = "io.hodory.Beacon.Host"
	ServiceName   = "io.hodory.Beacon"

	// ErrorPrefix is prepended to a failure code to form the D-Bus error name.
	ErrorPrefix = "io.hodory.Beacon.Error."
)

// Codes the bridge adds to the hotspot taxonomy.
const (
	codeInternal     = "INTERNAL"
	codeInvalidInput = "INVALID_INPUT"
)

// SessionReply is returned by SessionStart and SessionStatus. HotspotError is
// set when the session went live but the hotspot could not be raised.
type SessionReply struct {
	live.Broadcast
	HotspotError string `json:"hotspotError,omitempty"`
}
