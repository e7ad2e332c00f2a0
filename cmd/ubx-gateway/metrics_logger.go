package main

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/kstaniek/go-ubx-gateway/internal/metrics"
)

func startMetricsLogger(ctx context.Context, interval time.Duration, l *slog.Logger, wg *sync.WaitGroup) {
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
				snap := metrics.Snap()
				l.Info("metrics_snapshot",
					"decoded", snap.Decoded,
					"unknown", snap.Unknown,
					"checksum_errors", snap.ChecksumErr,
					"validation_errors", snap.ValidationErr,
					"out_of_memory", snap.OutOfMemory,
					"rtcm", snap.RTCM,
					"builder_overflow", snap.BuilderOF,
					"serial_rx_bytes", snap.SerialRx,
					"serial_tx_frames", snap.SerialTx,
					"errors", snap.Errors,
				)
			case <-ctx.Done():
				return
			}
		}
	}()
}
