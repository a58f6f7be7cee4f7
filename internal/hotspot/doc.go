// Package hotspot provisions, tears down, and reports on the single WiFi
// access point a lecturer's machine advertises for a live attendance session.
//
// # Overview
//
// The access point is a NetworkManager connection profile with the reserved
// name [ConnectionName]. The manager never caches anything about it: every
// operation shells out to nmcli and reads the live configuration back.
//
// # Operations
//
//   - [Manager.Start] validates options, resolves the wireless interface, then
//     runs an ordered pipeline: down and delete any stale profile (best effort),
//     add, switch to access-point mode with shared IPv4, apply security, bring
//     it up. It returns a fresh [Status].
//   - [Manager.Stop] brings the profile down. It never fails.
//   - [Manager.Status] reports the interface state and whether the reserved
//     profile is the active connection. Failures are carried in Status.Error.
//   - [Manager.Release] brings the profile down and deletes it, for shutdown.
//
// # Concurrency
//
// The manager holds no locks. Two overlapping Start calls race on the
// delete/create steps, so callers must serialize them.
//
// # Platform
//
// Only Linux with NetworkManager is supported. On any other GOOS every
// operation fails fast with UNSUPPORTED_PLATFORM and no command is run.
package hotspot
