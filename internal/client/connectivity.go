package client

import (
	"sync"
	"time"
)

// Transition is an observable connectivity change.
type Transition struct {
	Online bool
	At     time.Time
}

// Monitor holds the binary online/offline flag for one client instance.
// The host environment feeds it network-state changes through SetOnline;
// it is injected rather than global so independent clients stay isolated.
type Monitor struct {
	mu        sync.Mutex
	online    bool
	listeners []func(Transition)
	now       func() time.Time
}

// NewMonitor starts online.
func NewMonitor() *Monitor {
	return &Monitor{
		online: true,
		now:    time.Now,
	}
}

func (m *Monitor) Online() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.online
}

// OnTransition registers fn to be called on every state change.
func (m *Monitor) OnTransition(fn func(Transition)) {
	m.mu.Lock()
	m.listeners = append(m.listeners, fn)
	m.mu.Unlock()
}

// SetOnline updates the flag; listeners run synchronously on actual
// transitions only.
func (m *Monitor) SetOnline(online bool) {
	m.mu.Lock()
	if m.online == online {
		m.mu.Unlock()
		return
	}
	m.online = online
	t := Transition{Online: online, At: m.now()}
	listeners := make([]func(Transition), len(m.listeners))
	copy(listeners, m.listeners)
	m.mu.Unlock()

	for _, fn := range listeners {
		fn(t)
	}
}
