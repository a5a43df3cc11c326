package client

import (
	"sync"
	"time"
)

// How long the reconnect confirmation stays visible.
const confirmationDuration = 3 * time.Second

// Banner models the user-visible side of connectivity transitions: a
// persistent notice while offline, and a transient "connection restored"
// confirmation that dismisses itself after three seconds.
type Banner struct {
	mu                  sync.Mutex
	offlineVisible      bool
	confirmationVisible bool
	timer               *time.Timer
}

// NewBanner attaches to the monitor's transitions.
func NewBanner(m *Monitor) *Banner {
	b := &Banner{}
	m.OnTransition(b.handle)
	return b
}

func (b *Banner) handle(t Transition) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}

	if !t.Online {
		b.offlineVisible = true
		b.confirmationVisible = false
		return
	}

	b.offlineVisible = false
	b.confirmationVisible = true
	b.timer = time.AfterFunc(confirmationDuration, func() {
		b.mu.Lock()
		b.confirmationVisible = false
		b.timer = nil
		b.mu.Unlock()
	})
}

func (b *Banner) OfflineVisible() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.offlineVisible
}

func (b *Banner) ConfirmationVisible() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.confirmationVisible
}

// Close cancels any pending dismissal timer.
func (b *Banner) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
}
