package main

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/kstaniek/go-ubx-gateway/internal/ubx"
)

// fakeErrPort always returns a synthetic error to trigger backoff.
type fakeErrPort struct{}

func (f *fakeErrPort) Read(p []byte) (int, error)  { return 0, io.ErrNoProgress }
func (f *fakeErrPort) Write(p []byte) (int, error) { return len(p), nil }
func (f *fakeErrPort) Close() error                { return nil }

func TestRxLoopBackoffProgression(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	var seen []time.Duration
	sleepFn = func(d time.Duration) {
		mu.Lock()
		if len(seen) < 6 {
			seen = append(seen, d)
			if len(seen) == 6 {
				cancel()
			}
		}
		mu.Unlock()
	}
	defer func() { sleepFn = time.Sleep }()

	cfg := validTestConfig()
	var wg sync.WaitGroup
	runRxLoop(ctx, cfg, &fakeErrPort{}, slog.Default(), &wg)
	wg.Wait()

	if len(seen) < 3 {
		t.Fatalf("expected at least 3 backoff samples, got %d", len(seen))
	}
	prev := rxBackoffMin / 4
	for i, d := range seen {
		if d < prev {
			t.Fatalf("backoff decreased at %d: prev=%v cur=%v", i, prev, d)
		}
		if d > rxBackoffMax {
			t.Fatalf("backoff exceeded max at %d: %v > %v", i, d, rxBackoffMax)
		}
		prev = d
	}
	if seen[0] != rxBackoffMin {
		t.Fatalf("expected first backoff %v got %v", rxBackoffMin, seen[0])
	}
}

// scriptedPort replays a fixed sequence of bytes once, then blocks until
// closed, exercising the happy decode path end to end through runRxLoop.
type scriptedPort struct {
	data   []byte
	sent   bool
	closed chan struct{}
}

func (p *scriptedPort) Read(b []byte) (int, error) {
	if !p.sent {
		p.sent = true
		n := copy(b, p.data)
		return n, nil
	}
	<-p.closed
	return 0, io.EOF
}
func (p *scriptedPort) Write(b []byte) (int, error) { return len(b), nil }
func (p *scriptedPort) Close() error {
	select {
	case <-p.closed:
	default:
		close(p.closed)
	}
	return nil
}

func TestRxLoopDecodesFrame(t *testing.T) {
	// UBX-ACK-ACK acknowledging CFG-NAV5 (0x06, 0x24).
	w := ubx.NewMemWriter(16)
	_ = ubx.BuildFrame(w, 0x05, 0x01, []byte{0x06, 0x24})
	frame := w.Bytes()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	port := &scriptedPort{data: frame, closed: make(chan struct{})}
	cfg := validTestConfig()
	var wg sync.WaitGroup
	runRxLoop(ctx, cfg, port, slog.Default(), &wg)
	time.Sleep(20 * time.Millisecond)
	cancel()
	_ = port.Close()
	wg.Wait()
}
