// Package app is the composition root of the beacon host.
//
// Run performs, in order:
//
//  1. config.Load (TOML file, .env file, environment)
//  2. log redirection to <log_dir>/beacon.log, since the UI owns the terminal
//  3. the readiness gate: probe.WaitForAddr on web_addr; failure aborts launch
//  4. the backend client, the nmcli hotspot manager and the session machine,
//     tied together by live.Controller
//  5. the background poller (hotspot status and backend reachability)
//  6. the D-Bus bridge, unless disabled; a bus that is unavailable is logged,
//     not fatal
//  7. the Bubble Tea UI, which blocks
//
// On return the session is stopped and the hotspot profile released, even
// when ctx was cancelled by a signal.
//
// The poller waits defaultPollInterval between polls and backs off
// exponentially while the backend is unreachable, capped at maxBackoff.
// Hotspot status is refreshed on every poll regardless.
package app
