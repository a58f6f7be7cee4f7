// Package session holds the attendance session state machine.
//
// A Machine is either idle or running one session. Start generates a fresh
// code and a 90 minute countdown; Tick, normally driven by Run, counts it
// down and returns the machine to idle when it reaches zero. Stop ends the
// session early. Time comes from an injected Clock so tests can advance the
// countdown without sleeping.
package session
