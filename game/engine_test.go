package game

import (
	"sync"
	"time"
)

// mockCast captures broadcast events for assertions.
type mockCast struct {
	mu     sync.Mutex
	events []string
}

func (m *mockCast) record(event string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
}

func (m *mockCast) ToRoom(roomID, event string, payload any)     { m.record(event) }
func (m *mockCast) ToPlayer(playerID, event string, payload any) { m.record(event) }
func (m *mockCast) Fanout(roomID, event string, view func(playerID string) any) {
	m.record(event)
}
func (m *mockCast) Closed(roomID string) { m.record("closed") }

func (m *mockCast) has(event string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.events {
		if e == event {
			return true
		}
	}
	return false
}

// mockLedger records reconciliations instead of touching a database.
type mockLedger struct {
	mu      sync.Mutex
	entries []ReconcileEntry
	matches int
}

func (m *mockLedger) Reconcile(e ReconcileEntry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, e)
}

func (m *mockLedger) RecordMatch(roomID, gameType, winner string, scores map[string]int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matches++
}

// newTestRegistry freezes all timers so rounds never advance behind a
// test's back.
func newTestRegistry() (*Registry, *mockCast, *mockLedger) {
	rules := DefaultRules()
	rules.TeardownDelay = time.Hour
	rules.NextRoundDelay = time.Hour
	rules.CPUThinkMin = time.Hour
	rules.CPUThinkMax = time.Hour
	cast := &mockCast{}
	ledger := &mockLedger{}
	return NewRegistry(rules, cast, ledger), cast, ledger
}

func seat(name string) *Player {
	return &Player{ID: "id-" + name, Name: name}
}

func moneySeat(name string, buyIn int64) *Player {
	p := seat(name)
	p.Score = buyIn
	p.InitialScore = buyIn
	return p
}
