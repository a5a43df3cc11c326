package client

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Default refresh intervals for the two polled views.
const (
	DashboardPollInterval = 30 * time.Second
	SensorPollInterval    = 10 * time.Second
)

// Poller runs fn at a fixed interval until stopped. The tick function runs
// inline in the loop goroutine, so at most one call is in flight and ticks
// that arrive while a call is still running are dropped. Owners must call
// Stop on teardown to avoid orphaned network activity.
type Poller struct {
	name     string
	interval time.Duration
	fn       func(ctx context.Context) error

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewPoller(name string, interval time.Duration, fn func(ctx context.Context) error) *Poller {
	return &Poller{
		name:     name,
		interval: interval,
		fn:       fn,
	}
}

// Start launches the loop with an immediate first tick. Starting an
// already running poller is a no-op.
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.done = make(chan struct{})

	go p.loop(ctx, p.done)
}

func (p *Poller) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.tick(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.tick(ctx)
		}
	}
}

func (p *Poller) tick(ctx context.Context) {
	if err := p.fn(ctx); err != nil && ctx.Err() == nil {
		slog.Warn("poll failed", "poller", p.name, "error", err)
	}
}

// Stop cancels the loop and waits for it to exit.
func (p *Poller) Stop() {
	p.mu.Lock()
	cancel, done := p.cancel, p.done
	p.cancel, p.done = nil, nil
	p.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}
