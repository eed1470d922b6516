package player

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/muurk/opcplay/internal/pixel"
)

func TestLoop_Stop(t *testing.T) {
	c, sink := newTestClient(t)

	loop := Start(context.Background(), func(ctx context.Context) error {
		return c.RainbowCycle(ctx, 2*time.Millisecond)
	})

	time.Sleep(30 * time.Millisecond)
	if err := loop.Stop(); err != nil {
		t.Fatalf("Stop() error = %v, want nil for cancellation", err)
	}

	select {
	case <-loop.Done():
	default:
		t.Fatal("Done should be closed after Stop")
	}
	if !errors.Is(loop.Err(), context.Canceled) {
		t.Errorf("Err() = %v, want Canceled", loop.Err())
	}

	// nothing is written after Stop returns
	sink.mu.Lock()
	n := len(sink.msgs)
	sink.mu.Unlock()
	if n < 2 {
		t.Fatalf("wrote %d messages, want the loop to have run", n)
	}
	time.Sleep(10 * time.Millisecond)
	sink.mu.Lock()
	after := len(sink.msgs)
	sink.mu.Unlock()
	if after != n {
		t.Errorf("%d messages written after Stop", after-n)
	}

	// every message is complete
	for _, msg := range sink.messages(t) {
		if msg.Command == 0x00 {
			if _, err := msg.Pixels(pixel.GRB); err != nil {
				t.Fatal(err)
			}
		}
	}
}

func TestLoop_Error(t *testing.T) {
	boom := errors.New("boom")
	loop := Start(context.Background(), func(ctx context.Context) error {
		return boom
	})

	if err := loop.Wait(); !errors.Is(err, boom) {
		t.Errorf("Wait() error = %v, want boom", err)
	}
	if err := loop.Stop(); !errors.Is(err, boom) {
		t.Errorf("Stop() error = %v, want boom", err)
	}
}

func TestLoop_ParentCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	loop := Start(ctx, func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})

	cancel()
	select {
	case <-loop.Done():
	case <-time.After(time.Second):
		t.Fatal("loop did not observe parent cancellation")
	}
}

func TestRing(t *testing.T) {
	seed := []pixel.Pixel{pixel.Red, pixel.Green, pixel.Blue}
	r := newRing(seed)

	if got := r.frame(); !equalPixels(got, seed) {
		t.Errorf("initial frame = %v", got)
	}

	r.rotate()
	if got := r.frame(); !equalPixels(got, []pixel.Pixel{pixel.Green, pixel.Blue, pixel.Red}) {
		t.Errorf("after one rotation = %v", got)
	}

	r.rotate()
	r.rotate()
	if got := r.frame(); !equalPixels(got, seed) {
		t.Errorf("after full cycle = %v", got)
	}

	seed[0] = pixel.Dark
	if r.frame()[0] != pixel.Red {
		t.Error("ring must not alias the seed slice")
	}

	empty := newRing(nil)
	empty.rotate()
	if len(empty.frame()) != 0 {
		t.Error("empty ring should stay empty")
	}
}
