package main

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/kstaniek/go-ubx-gateway/internal/ubx"
)

// cfgClass / cfgNav5ID mirror the UBX-CFG-NAV5 identifiers in
// internal/ubx/packets_cfg.go; a receiver "poll" is simply that (class, id)
// framed with a zero-length payload, per u-blox's convention for polling
// the current value of a configuration message.
const (
	cfgClass  = 0x06
	cfgNav5ID = 0x24
)

func pollCfgNav5Frame() []byte {
	w := ubx.NewMemWriter(8)
	_ = ubx.BuildFrame(w, cfgClass, cfgNav5ID, nil)
	return w.Bytes()
}

// startCfgNav5Poller periodically enqueues a UBX-CFG-NAV5 poll request on
// q, demonstrating the builder side of the core against a live link.
func startCfgNav5Poller(ctx context.Context, interval time.Duration, q *txQueue, l *slog.Logger, wg *sync.WaitGroup) {
	if interval <= 0 {
		return
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-t.C:
				if err := q.Send(pollCfgNav5Frame()); err != nil {
					l.Warn("cfg_nav5_poll_dropped", "error", err)
				}
			case <-ctx.Done():
				return
			}
		}
	}()
}
