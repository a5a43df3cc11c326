package alerting

import (
	"context"
	"log/slog"

	"github.com/abarman/water-health-watch/internal/models"
	"github.com/abarman/water-health-watch/internal/worker"
)

// Dispatcher moves created alerts off the request path: the engine submits,
// the pool delivers to the broadcaster.
type Dispatcher struct {
	pool        *worker.Pool
	broadcaster *Broadcaster
}

func NewDispatcher(numWorkers, bufferSize int, b *Broadcaster) *Dispatcher {
	d := &Dispatcher{broadcaster: b}
	d.pool = worker.NewPool(numWorkers, bufferSize, d.deliver)
	return d
}

func (d *Dispatcher) deliver(ctx context.Context, a *models.Alert) error {
	if d.broadcaster != nil {
		d.broadcaster.Broadcast(a)
	}
	slog.Info("alert dispatched", "id", a.ID, "type", a.Type, "severity", a.Severity, "location", a.Location)
	return nil
}

func (d *Dispatcher) Start(ctx context.Context) {
	d.pool.Start(ctx)
}

func (d *Dispatcher) Submit(a *models.Alert) {
	d.pool.Submit(a)
}

func (d *Dispatcher) Stop() {
	d.pool.Stop()
}
