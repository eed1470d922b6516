package player

import (
	"context"
	"errors"
	"sync"
)

// Loop is a handle to an animation running in its own goroutine
type Loop struct {
	cancel context.CancelFunc
	done   chan struct{}

	mu  sync.Mutex
	err error
}

// Start runs fn in a new goroutine with a cancellable child of ctx. The
// returned handle stops it deterministically.
//
//	loop := player.Start(ctx, func(ctx context.Context) error {
//	    return client.RainbowCycle(ctx, 10*time.Millisecond)
//	})
//	defer loop.Stop()
func Start(ctx context.Context, fn func(ctx context.Context) error) *Loop {
	ctx, cancel := context.WithCancel(ctx)
	l := &Loop{
		cancel: cancel,
		done:   make(chan struct{}),
	}

	go func() {
		defer close(l.done)
		defer cancel()
		err := fn(ctx)
		l.mu.Lock()
		l.err = err
		l.mu.Unlock()
	}()

	return l
}

// Stop cancels the loop and waits for it to return. Cancellation takes
// effect at the next delay or write boundary. A context.Canceled result is
// not reported as an error.
func (l *Loop) Stop() error {
	l.cancel()
	return l.Wait()
}

// Wait blocks until the loop returns
func (l *Loop) Wait() error {
	<-l.done
	err := l.Err()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// Done is closed when the loop has returned
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

// Err returns the loop's result once Done is closed, nil before
func (l *Loop) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}
