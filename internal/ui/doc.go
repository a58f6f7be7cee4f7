// Package ui implements the beacon host's terminal interface with Bubble Tea.
//
// # Views
//
//   - Session: the QR code for the running session, its code in large
//     spaced letters, module, room and countdown, plus the hotspot panel
//   - Logs: a tail of the host log file, styled by inferred level
//
// Overlays sit on top of either view: the new-session form (n) and the help
// overlay (h or ?).
//
// # Data Flow
//
// The model never blocks. Every tick it reads a state.Snapshot (hotspot and
// backend, written by the poller) and asks the Controller for the current
// broadcast. Actions that shell out to nmcli (go live, stop, hotspot
// toggle) run as tea.Cmds and report back through messages; while one is
// in flight the command bar shows it and further actions are ignored.
//
// The QR code is re-rendered only when the encoded payload changes, which
// happens on a new session or a hotspot change, not on every countdown tick.
//
// # Themes
//
// Dracula and Slate, cycled with T and persisted to prefs along with the
// last module and room entered in the form.
package ui
