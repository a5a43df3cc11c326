package worker

import (
	"context"
	"sync"

	"github.com/abarman/water-health-watch/internal/models"
)

// DispatchFunc delivers one alert to downstream consumers.
type DispatchFunc func(ctx context.Context, alert *models.Alert) error

// Pool fans created alerts out to a fixed number of dispatch workers so
// alert delivery never blocks the request that derived the alert.
type Pool struct {
	numWorkers int
	alerts     chan *models.Alert
	dispatch   DispatchFunc
	wg         sync.WaitGroup
}

func NewPool(numWorkers int, bufferSize int, dispatch DispatchFunc) *Pool {
	return &Pool{
		numWorkers: numWorkers,
		alerts:     make(chan *models.Alert, bufferSize),
		dispatch:   dispatch,
	}
}

func (p *Pool) Start(ctx context.Context) {
	for i := 1; i <= p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker(ctx)
	}
}

func (p *Pool) worker(ctx context.Context) {
	defer p.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case alert, ok := <-p.alerts:
			if !ok {
				return
			}
			p.dispatch(ctx, alert)
		}
	}
}

// Submit queues an alert for dispatch. Blocks if the buffer is full.
func (p *Pool) Submit(alert *models.Alert) {
	p.alerts <- alert
}

func (p *Pool) Stop() {
	close(p.alerts)
	p.wg.Wait()
}
