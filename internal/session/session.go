package session

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	// DurationSeconds is how long a session accepts codes.
	DurationSeconds = 90 * 60
	// IdleCode is shown in place of a code while no session runs.
	IdleCode = "----"
)

// Session is a copy of the machine's state.
type Session struct {
	ID               string    `json:"id,omitempty"`
	IsActive         bool      `json:"isActive"`
	ModuleCode       string    `json:"moduleCode"`
	Room             string    `json:"room"`
	Code             string    `json:"code"`
	RemainingSeconds int       `json:"remainingSeconds"`
	StartedAt        time.Time `json:"startedAt,omitzero"`
}

func idle() Session {
	return Session{Code: IdleCode}
}

// Remaining returns the time left as a duration.
func (s Session) Remaining() time.Duration {
	return time.Duration(s.RemainingSeconds) * time.Second
}

// Machine owns the single attendance session of this process. All methods
// are safe for concurrent use; Tick and Stop are mutually exclusive so no
// decrement lands after a stop.
type Machine struct {
	mu       sync.Mutex
	clock    Clock
	current  Session
	onExpire func(Session)
	newCode  func() (string, error)
}

// NewMachine returns an idle machine. A nil clock means RealClock.
func NewMachine(clock Clock) *Machine {
	if clock == nil {
		clock = RealClock{}
	}
	return &Machine{clock: clock, current: idle(), newCode: NewCode}
}

// SetExpireHook registers fn to run after a session runs out naturally. fn is
// called without the machine lock held and receives the expired session.
func (m *Machine) SetExpireHook(fn func(Session)) {
	m.mu.Lock()
	m.onExpire = fn
	m.mu.Unlock()
}

// Start begins a new session with a fresh code. A running session is
// replaced in place.
func (m *Machine) Start(module, room string) (Session, error) {
	code, err := m.newCode()
	if err != nil {
		return Session{}, err
	}
	id, err := uuid.NewRandom()
	if err != nil {
		return Session{}, fmt.Errorf("generate session id: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = Session{
		ID:               id.String(),
		IsActive:         true,
		ModuleCode:       strings.TrimSpace(module),
		Room:             strings.TrimSpace(room),
		Code:             code,
		RemainingSeconds: DurationSeconds,
		StartedAt:        m.clock.Now(),
	}
	return m.current, nil
}

// Stop returns the machine to idle. Stopping an idle machine is a no-op.
func (m *Machine) Stop() {
	m.mu.Lock()
	m.current = idle()
	m.mu.Unlock()
}

// Snapshot returns a copy of the current session.
func (m *Machine) Snapshot() Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Tick advances the countdown by one second. It reports true when this tick
// expired the session.
func (m *Machine) Tick() bool {
	m.mu.Lock()
	if !m.current.IsActive || m.current.RemainingSeconds <= 0 {
		m.mu.Unlock()
		return false
	}
	m.current.RemainingSeconds--
	if m.current.RemainingSeconds > 0 {
		m.mu.Unlock()
		return false
	}
	expired := m.current
	expired.IsActive = false
	m.current = idle()
	hook := m.onExpire
	m.mu.Unlock()

	if hook != nil {
		hook(expired)
	}
	return true
}

// Run ticks once per second until ctx is cancelled.
func (m *Machine) Run(ctx context.Context) {
	ticker := m.clock.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C():
			m.Tick()
		}
	}
}
