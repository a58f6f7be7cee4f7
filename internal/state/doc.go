// Package state provides thread-safe state management for the beacon host.
//
// # Overview
//
// This package implements a small thread-safe store for sharing hotspot
// status and backend reachability between the background poller and the UI.
// It is where polling updates meet UI rendering.
//
// # Architecture
//
//	Producer (Poller):              Consumer (UI):
//	┌──────────────────┐           ┌──────────────────┐
//	│ HotspotStatus()  │           │                  │
//	│ Ping()           │           │                  │
//	│      ↓           │           │                  │
//	│ store.Update()   │──────────→│ store.Snapshot() │
//	│      ↓           │  (mutex)  │      ↓           │
//	│  repeat...       │           │  render UI       │
//	└──────────────────┘           └──────────────────┘
//
// Session state is not kept here. The session machine owns it and the UI
// reads it directly through the live controller.
//
// # Concurrency Model
//
//   - Update(): Acquires write lock (exclusive access)
//   - Snapshot(): Acquires read lock (concurrent reads allowed)
//
// The lock is held only while copying, never during network I/O or
// rendering.
//
// # Update Semantics
//
//	// Success: store both results, reset the failure counter
//	store.Update(hs, health, nil)
//
//	// Backend error: hotspot still refreshed, backend health kept but
//	// marked unreachable, failure counter incremented
//	store.Update(hs, backend.Health{}, err)
//
// Hotspot problems never count as failures. They are carried in
// hotspot.Status.Error, and a laptop without NetworkManager would otherwise
// look permanently offline.
//
// IsOffline reports true after two consecutive failed pings.
//
// # Testing Considerations
//
// The zero Store is ready to use:
//
//	store := &state.Store{}
//
// Snapshot() returns a zero Snapshot if never updated.
package state
