package worker

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/abarman/water-health-watch/internal/models"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestPool_StartStop(t *testing.T) {
	var dispatched atomic.Int64
	dispatch := func(ctx context.Context, alert *models.Alert) error {
		dispatched.Add(1)
		return nil
	}

	pool := NewPool(2, 10, dispatch)

	ctx, cancel := context.WithCancel(context.Background())
	pool.Start(ctx)

	for i := 0; i < 5; i++ {
		pool.Submit(&models.Alert{ID: fmt.Sprintf("a%d", i)})
	}

	time.Sleep(50 * time.Millisecond)

	cancel()
	pool.Stop()

	if dispatched.Load() != 5 {
		t.Errorf("expected 5 alerts dispatched, got %d", dispatched.Load())
	}
}

func TestPool_ConcurrentSubmit(t *testing.T) {
	var dispatched atomic.Int64
	dispatch := func(ctx context.Context, alert *models.Alert) error {
		dispatched.Add(1)
		return nil
	}

	pool := NewPool(4, 100, dispatch)

	ctx, cancel := context.WithCancel(context.Background())
	pool.Start(ctx)

	for i := 0; i < 100; i++ {
		go func(n int) {
			pool.Submit(&models.Alert{ID: fmt.Sprintf("c%d", n)})
		}(i)
	}

	time.Sleep(100 * time.Millisecond)

	cancel()
	pool.Stop()

	if dispatched.Load() != 100 {
		t.Errorf("expected 100 alerts dispatched, got %d", dispatched.Load())
	}
}

func TestPool_GracefulShutdown(t *testing.T) {
	var dispatched atomic.Int64
	dispatch := func(ctx context.Context, alert *models.Alert) error {
		time.Sleep(10 * time.Millisecond) // Simulate delivery work
		dispatched.Add(1)
		return nil
	}

	pool := NewPool(2, 50, dispatch)

	ctx, cancel := context.WithCancel(context.Background())
	pool.Start(ctx)

	for i := 0; i < 20; i++ {
		pool.Submit(&models.Alert{ID: fmt.Sprintf("g%d", i)})
	}

	cancel()

	done := make(chan struct{})
	go func() {
		pool.Stop()
		close(done)
	}()

	select {
	case <-done:
		// Good
	case <-time.After(5 * time.Second):
		t.Fatal("pool.Stop() timed out")
	}

	t.Logf("dispatched %d alerts before shutdown", dispatched.Load())
}
