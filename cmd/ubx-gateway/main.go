// Command ubx-gateway is a thin demo binary exercising internal/ubx against
// a real serial link: open the port, feed raw bytes to the parser, log
// decoded packets, and expose Prometheus counters. It exists to give the
// surrounding stack (serial I/O, mDNS, metrics) a concrete home around the
// parsing core in internal/ubx.
package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"

	"github.com/kstaniek/go-ubx-gateway/internal/metrics"
)

const txQueueSize = 256

func main() {
	cfg, showVersion := parseFlags()
	if showVersion {
		fmt.Printf("ubx-gateway %s (commit %s, built %s)\n", version, commit, date)
		return
	}
	if cfg == nil {
		os.Exit(1)
	}
	l := setupLogger(cfg.logFormat, cfg.logLevel)
	l.Info("build_info", "version", version, "commit", commit, "date", date, "proto_version", cfg.protoVersion)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	var wg sync.WaitGroup
	startMetricsLogger(ctx, cfg.logMetricsEvery, l, &wg)

	sp, err := openSerialPort(cfg.serialDev, cfg.baud, cfg.serialReadTO)
	if err != nil {
		metrics.IncError(metrics.ErrSerialOpen)
		l.Error("serial_open_error", "error", err, "device", cfg.serialDev)
		return
	}
	l.Info("serial_open", "device", cfg.serialDev, "baud", cfg.baud, "buffer_mode", cfg.bufferMode)

	runRxLoop(ctx, cfg, sp, l, &wg)

	q := newTxQueue(ctx, sp, txQueueSize)
	startCfgNav5Poller(ctx, cfg.pollCfgNav5Every, q, l, &wg)

	var metricsPort int
	if cfg.metricsAddr != "" {
		metrics.InitBuildInfo(version, commit, date)
		srvHTTP := metrics.StartHTTP(cfg.metricsAddr)
		defer func() { _ = srvHTTP.Shutdown(context.Background()) }()
		metricsPort = portFromAddr(cfg.metricsAddr)
	}

	if cfg.mdnsEnable {
		cleanupMDNS, err := startMDNS(ctx, cfg, metricsPort)
		if err != nil {
			metrics.IncError(metrics.ErrMDNS)
			l.Warn("mdns_start_failed", "error", err)
		} else {
			l.Info("mdns_started", "service", mdnsServiceType, "name", cfg.mdnsName, "port", metricsPort)
			defer cleanupMDNS()
		}
	}

	metrics.SetReadinessFunc(func() bool { return ctx.Err() == nil })

	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	s := <-sigCh
	l.Info("shutdown_signal", "signal", s.String())
	cancel()
	q.Close()
	_ = sp.Close()
	wg.Wait()
}

// portFromAddr extracts the numeric port from a "host:port" or ":port"
// listen address, returning 0 if it cannot be parsed.
func portFromAddr(addr string) int {
	if _, p, err := net.SplitHostPort(addr); err == nil {
		if pn, err := strconv.Atoi(p); err == nil {
			return pn
		}
	}
	if i := strings.LastIndex(addr, ":"); i >= 0 {
		if pn, err := strconv.Atoi(addr[i+1:]); err == nil {
			return pn
		}
	}
	return 0
}
