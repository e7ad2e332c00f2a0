package main

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/kstaniek/go-ubx-gateway/internal/metrics"
)

// blockingPort simulates a very slow serial port to force TX queue overflow.
type blockingPort struct{ block chan struct{} }

func (p *blockingPort) Read(b []byte) (int, error) {
	time.Sleep(5 * time.Millisecond)
	return 0, io.EOF
}
func (p *blockingPort) Write(b []byte) (int, error) { <-p.block; return len(b), nil }
func (p *blockingPort) Close() error                { close(p.block); return nil }

func TestTxQueueOverflow(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	bp := &blockingPort{block: make(chan struct{})}
	beforeErrs := metrics.Snap().Errors

	q := newTxQueue(ctx, bp, 4)
	defer func() { _ = bp.Close(); q.Close() }()

	var overflowErr error
	for i := 0; i < 8; i++ {
		if err := q.Send([]byte{byte(i)}); err != nil && overflowErr == nil {
			overflowErr = err
		}
	}
	if overflowErr == nil {
		t.Fatalf("expected at least one overflow error")
	}
	if !errors.Is(overflowErr, ErrTxOverflow) {
		t.Fatalf("expected ErrTxOverflow, got %v", overflowErr)
	}
	afterErrs := metrics.Snap().Errors
	if afterErrs == beforeErrs {
		t.Fatalf("expected error metric increment on overflow")
	}
}

func TestTxQueueCloseThenSend(t *testing.T) {
	bp := &blockingPort{block: make(chan struct{})}
	q := newTxQueue(context.Background(), bp, 4)
	q.Close()
	if err := q.Send([]byte{1}); !errors.Is(err, ErrTxClosed) {
		t.Fatalf("expected ErrTxClosed, got %v", err)
	}
}
