package main

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/kstaniek/go-ubx-gateway/internal/metrics"
)

// ErrTxOverflow is returned by txQueue.Send when the outbound buffer is full.
var ErrTxOverflow = errors.New("ubx gateway: tx queue overflow")

// ErrTxClosed is returned by txQueue.Send after Close.
var ErrTxClosed = errors.New("ubx gateway: tx queue closed")

// txQueue funnels every outbound frame write through one goroutine so a
// slow or wedged serial device cannot block producers (e.g. the CFG-NAV5
// poller).
type txQueue struct {
	mu     sync.Mutex
	ch     chan []byte
	cancel context.CancelFunc
	wg     sync.WaitGroup
	write  func([]byte) (int, error)
	closed atomic.Bool
}

// newTxQueue starts the funnel goroutine, writing queued frames to port.
func newTxQueue(parent context.Context, port Port, buf int) *txQueue {
	ctx, cancel := context.WithCancel(parent)
	q := &txQueue{
		ch:     make(chan []byte, buf),
		cancel: cancel,
		write:  port.Write,
	}
	q.wg.Add(1)
	go q.loop(ctx)
	return q
}

func (q *txQueue) loop(ctx context.Context) {
	defer q.wg.Done()
	for {
		select {
		case frame, ok := <-q.ch:
			if !ok {
				return
			}
			if _, err := q.write(frame); err != nil {
				metrics.IncError(metrics.ErrSerialWrite)
				continue
			}
			metrics.IncSerialTx()
		case <-ctx.Done():
			return
		}
	}
}

// Send enqueues a fully-built UBX frame for asynchronous write, or returns
// ErrTxOverflow if the buffer is full.
func (q *txQueue) Send(frame []byte) error {
	if q.closed.Load() {
		return ErrTxClosed
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed.Load() {
		return ErrTxClosed
	}
	select {
	case q.ch <- frame:
		return nil
	default:
		metrics.IncError(metrics.ErrTxOverflow)
		return ErrTxOverflow
	}
}

// Close stops the worker and waits for it to drain in-flight state.
func (q *txQueue) Close() {
	if q.closed.Swap(true) {
		return
	}
	q.cancel()
	q.mu.Lock()
	close(q.ch)
	q.mu.Unlock()
	q.wg.Wait()
}
