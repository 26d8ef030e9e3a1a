package syncer

import (
	"sync"
	"time"
)

// State is the process-wide synchronization status. It reflects the
// aggregate state of the last operation and the queue, not any single
// session.
type State string

const (
	StateIdle     State = "idle"
	StateSyncing  State = "syncing"
	StateSynced   State = "synced"
	StateOffline  State = "offline"
	StateError    State = "error"
	StateConflict State = "conflict"
)

// Info carries operation context alongside a state transition.
type Info struct {
	PendingCount int
	ConflictIDs  []string
	Message      string
}

// Update is what subscribers receive on every state transition.
type Update struct {
	Status   State
	LastSync time.Time
	Info
}

// Machine holds the single sync status value and its subscriber list.
// It is injectable state, not a package-level global, so independent
// instances never cross-contaminate.
type Machine struct {
	mu       sync.Mutex
	state    State
	lastSync time.Time
	nextID   int
	subs     map[int]func(Update)
	now      func() time.Time
}

// NewMachine creates a Machine in the idle state.
func NewMachine() *Machine {
	return &Machine{
		state: StateIdle,
		subs:  make(map[int]func(Update)),
		now:   time.Now,
	}
}

// Set transitions to the given state and synchronously notifies all
// current subscribers. lastSync advances if and only if the new state is
// synced. Notification is fire-and-forget: subscribers added afterward do
// not receive missed updates.
func (m *Machine) Set(state State, info Info) {
	m.mu.Lock()
	m.state = state
	if state == StateSynced {
		m.lastSync = m.now().UTC()
	}
	update := Update{Status: state, LastSync: m.lastSync, Info: info}
	subs := make([]func(Update), 0, len(m.subs))
	for _, fn := range m.subs {
		subs = append(subs, fn)
	}
	m.mu.Unlock()

	for _, fn := range subs {
		fn(update)
	}
}

// Status returns the current state.
func (m *Machine) Status() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// LastSync returns the time of the most recent successful sync, zero if
// none has happened this process lifetime.
func (m *Machine) LastSync() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastSync
}

// Subscribe registers fn for future updates and returns an unsubscribe
// function. There is no replay buffer.
func (m *Machine) Subscribe(fn func(Update)) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextID
	m.nextID++
	m.subs[id] = fn
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.subs, id)
	}
}
