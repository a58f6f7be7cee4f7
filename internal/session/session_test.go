package session

import (
	"context"
	"regexp"
	"sync"
	"testing"
	"time"
)

var codePattern = regexp.MustCompile(`^[` + Alphabet + `]{4}-[` + Alphabet + `]{4}$`)

type manualTicker struct {
	ch      chan time.Time
	stopped chan struct{}
	once    sync.Once
}

func (t *manualTicker) C() <-chan time.Time { return t.ch }
func (t *manualTicker) Stop()               { t.once.Do(func() { close(t.stopped) }) }

type manualClock struct {
	now    time.Time
	ticker *manualTicker
	ready  chan struct{}
}

func newManualClock() *manualClock {
	return &manualClock{
		now:   time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC),
		ready: make(chan struct{}),
	}
}

func (c *manualClock) Now() time.Time { return c.now }

func (c *manualClock) NewTicker(time.Duration) Ticker {
	c.ticker = &manualTicker{ch: make(chan time.Time), stopped: make(chan struct{})}
	close(c.ready)
	return c.ticker
}

func TestMachine_StartsIdle(t *testing.T) {
	s := NewMachine(newManualClock()).Snapshot()
	if s.IsActive || s.RemainingSeconds != 0 || s.Code != IdleCode {
		t.Fatalf("initial = %#v, want idle sentinel", s)
	}
}

func TestMachine_Start(t *testing.T) {
	clock := newManualClock()
	m := NewMachine(clock)

	s, err := m.Start(" CS101 ", "B-204")
	if err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	if !s.IsActive || s.RemainingSeconds != DurationSeconds {
		t.Fatalf("Start = %#v, want active with %d seconds", s, DurationSeconds)
	}
	if !codePattern.MatchString(s.Code) {
		t.Fatalf("Code = %q, want pattern %s", s.Code, codePattern)
	}
	if s.ModuleCode != "CS101" || s.Room != "B-204" {
		t.Fatalf("module/room = %q/%q", s.ModuleCode, s.Room)
	}
	if !s.StartedAt.Equal(clock.now) {
		t.Fatalf("StartedAt = %v, want %v", s.StartedAt, clock.now)
	}
	if s.ID == "" {
		t.Fatalf("ID empty")
	}
	if got := m.Snapshot(); got != s {
		t.Fatalf("Snapshot = %#v, want %#v", got, s)
	}
}

func TestMachine_RestartReplacesSession(t *testing.T) {
	m := NewMachine(newManualClock())
	first, _ := m.Start("CS101", "A")
	m.Tick()
	second, err := m.Start("CS102", "B")
	if err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	if second.ID == first.ID {
		t.Fatalf("restart kept id %q", first.ID)
	}
	if second.RemainingSeconds != DurationSeconds || second.ModuleCode != "CS102" {
		t.Fatalf("restart = %#v, want fresh CS102 session", second)
	}
}

func TestMachine_StopAtAnyRemaining(t *testing.T) {
	for _, ticks := range []int{0, 1, 2700, DurationSeconds - 1, DurationSeconds} {
		m := NewMachine(newManualClock())
		if _, err := m.Start("CS101", "A"); err != nil {
			t.Fatalf("Start returned error: %v", err)
		}
		for i := 0; i < ticks; i++ {
			m.Tick()
		}
		m.Stop()
		m.Stop()
		s := m.Snapshot()
		if s.IsActive || s.RemainingSeconds != 0 || s.Code != IdleCode {
			t.Fatalf("after %d ticks Stop = %#v, want idle", ticks, s)
		}
	}
}

func TestMachine_TicksToExpiry(t *testing.T) {
	m := NewMachine(newManualClock())
	var expired []Session
	m.SetExpireHook(func(s Session) { expired = append(expired, s) })
	if _, err := m.Start("CS101", "A"); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}

	for i := 1; i <= DurationSeconds; i++ {
		done := m.Tick()
		s := m.Snapshot()
		if s.RemainingSeconds < 0 {
			t.Fatalf("tick %d: remaining = %d", i, s.RemainingSeconds)
		}
		if s.IsActive != (s.RemainingSeconds > 0) {
			t.Fatalf("tick %d: active = %v with remaining %d", i, s.IsActive, s.RemainingSeconds)
		}
		if done != (i == DurationSeconds) {
			t.Fatalf("tick %d: expired = %v", i, done)
		}
	}
	if s := m.Snapshot(); s.IsActive {
		t.Fatalf("after %d ticks still active", DurationSeconds)
	}
	if len(expired) != 1 || expired[0].ModuleCode != "CS101" || expired[0].IsActive {
		t.Fatalf("expire hook calls = %#v, want one inactive CS101 session", expired)
	}
	if m.Tick() {
		t.Fatalf("Tick on idle machine reported expiry")
	}
}

func TestMachine_NoTickAfterStop(t *testing.T) {
	m := NewMachine(newManualClock())
	m.SetExpireHook(func(Session) { t.Fatalf("expire hook called after stop") })
	if _, err := m.Start("CS101", "A"); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	m.Stop()
	if m.Tick() {
		t.Fatalf("Tick after Stop reported expiry")
	}
	if s := m.Snapshot(); s.RemainingSeconds != 0 {
		t.Fatalf("remaining after stop = %d, want 0", s.RemainingSeconds)
	}
}

func TestMachine_RunDrivesTicks(t *testing.T) {
	clock := newManualClock()
	m := NewMachine(clock)
	if _, err := m.Start("CS101", "A"); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		m.Run(ctx)
		close(done)
	}()
	<-clock.ready

	for i := 0; i < 3; i++ {
		clock.ticker.ch <- clock.now
	}
	cancel()
	<-done

	if got := m.Snapshot().RemainingSeconds; got != DurationSeconds-3 {
		t.Fatalf("remaining = %d, want %d", got, DurationSeconds-3)
	}
	select {
	case <-clock.ticker.stopped:
	default:
		t.Fatalf("ticker not stopped after Run returned")
	}
}

func TestNewCode_Distinct(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		code, err := NewCode()
		if err != nil {
			t.Fatalf("NewCode returned error: %v", err)
		}
		if !codePattern.MatchString(code) {
			t.Fatalf("NewCode = %q, want pattern %s", code, codePattern)
		}
		seen[code] = true
	}
	if len(seen) < 199 {
		t.Fatalf("only %d distinct codes out of 200", len(seen))
	}
}
