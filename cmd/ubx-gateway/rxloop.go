package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/kstaniek/go-ubx-gateway/internal/metrics"
	"github.com/kstaniek/go-ubx-gateway/internal/ubx"
)

const (
	serialReadBufSize = 4096 // per Read() buffer
	rxBackoffMin      = 20 * time.Millisecond
	rxBackoffMax      = 500 * time.Millisecond
)

// sleepFn allows tests to intercept backoff sleeps.
var sleepFn = time.Sleep

// newByteStore builds the residual ByteStore backing the parser, per
// --buffer-mode: growable (heap, never rejects) or fixed (caller region,
// counts overflow).
func newByteStore(cfg *appConfig) ubx.ByteStore {
	if cfg.bufferMode == "fixed" {
		return ubx.NewFixedBuffer(make([]byte, cfg.fixedBufSize))
	}
	return ubx.NewGrowableBuffer()
}

// runRxLoop reads raw bytes from sp and feeds them to a UBX (or adaptive
// UBX+RTCM) parser, logging decoded packets and recording metrics per
// frame. It classifies read errors and backs off exponentially, driven by
// ubx.Parser.Feed's pull-based iterator rather than a push callback.
func runRxLoop(ctx context.Context, cfg *appConfig, sp Port, l *slog.Logger, wg *sync.WaitGroup) {
	protoVer, _ := protoVersionFromFlag(cfg.protoVersion)
	store := newByteStore(cfg)

	wg.Add(1)
	go func() {
		defer wg.Done()
		defer l.Info("serial_rx_end")

		var (
			parser   *ubx.Parser
			adaptive *ubx.AdaptiveParser
		)
		if cfg.adaptiveRTCM {
			adaptive = ubx.NewAdaptiveParser(store, protoVer)
		} else {
			parser = ubx.NewParser(store, protoVer)
		}

		buf := make([]byte, serialReadBufSize)
		backoff := rxBackoffMin
		for {
			select {
			case <-ctx.Done():
				return
			default:
			}
			n, err := sp.Read(buf)
			if n > 0 {
				metrics.AddSerialRx(n)
				if cfg.adaptiveRTCM {
					drainAdaptive(adaptive, buf[:n], l)
				} else {
					drainUbx(parser, buf[:n], l)
				}
				backoff = rxBackoffMin
			}
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				var perr *os.PathError
				if errors.As(err, &perr) {
					return // device removed or fatal
				}
				if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
					continue // transient, serial ReadTimeout firing with nothing available
				}
				metrics.IncError(metrics.ErrSerialRead)
				l.Warn("serial_read_error", "error", err, "backoff", backoff)
				sleepFn(backoff)
				backoff *= 2
				if backoff > rxBackoffMax {
					backoff = rxBackoffMax
				}
			}
		}
	}()
}

func drainUbx(p *ubx.Parser, chunk []byte, l *slog.Logger) {
	it := p.Feed(chunk)
	defer it.Close()
	for {
		pkt, err := it.Next()
		if pkt == nil && err == nil {
			return
		}
		if err != nil {
			logParseError(l, err)
			continue
		}
		logPacket(l, pkt)
	}
}

func drainAdaptive(p *ubx.AdaptiveParser, chunk []byte, l *slog.Logger) {
	it := p.Feed(chunk)
	defer it.Close()
	for {
		any, err := it.Next()
		if any == nil && err == nil {
			return
		}
		if err != nil {
			logParseError(l, err)
			continue
		}
		switch v := any.(type) {
		case ubx.UbxPacket:
			logPacket(l, v.Packet)
		case *ubx.RTCMFrame:
			metrics.IncRTCM()
			l.Debug("rtcm_frame", "bytes", len(v.Data))
		}
	}
}

func logParseError(l *slog.Logger, err error) {
	switch e := err.(type) {
	case *ubx.InvalidChecksum:
		metrics.IncChecksumError()
		l.Warn("invalid_checksum", "expect", e.Expect, "got", e.Got)
	case *ubx.InvalidPacketLen:
		metrics.IncValidationError(e.Packet)
		l.Warn("invalid_packet_len", "packet", e.Packet, "expect", e.Expect, "got", e.Got)
	case *ubx.InvalidField:
		metrics.IncValidationError(e.Packet)
		l.Warn("invalid_field", "packet", e.Packet, "field", e.Field)
	case *ubx.OutOfMemory:
		metrics.IncOutOfMemory()
		l.Warn("out_of_memory", "required_size", e.RequiredSize)
	default:
		l.Warn("parse_error", "error", err)
	}
}

func logPacket(l *slog.Logger, pkt ubx.Packet) {
	if u, ok := pkt.(*ubx.Unknown); ok {
		metrics.IncUnknown()
		l.Debug("unknown_frame", "class", u.Class(), "msg_id", u.MsgID(), "payload_len", len(u.Payload))
		return
	}
	metrics.IncDecoded(pkt.Class(), pkt.MsgID())
	switch v := pkt.(type) {
	case *ubx.NavPosECEFRef:
		l.Debug("nav_pos_ecef", "itow", v.ITOW(), "x_m", v.ECEFXMeters(), "y_m", v.ECEFYMeters(), "z_m", v.ECEFZMeters())
	case *ubx.NavPVTRef:
		l.Debug("nav_pvt", "itow", v.ITOW(), "fix", v.FixType().String(), "num_sv", v.NumSatellites())
	case *ubx.NavStatusRef:
		l.Debug("nav_status", "itow", v.ITOW(), "fix", v.FixType().String())
	case *ubx.AckAckRef:
		l.Debug("ack_ack", "cls_id", v.ClsID(), "msg_id", v.AckedMsgID())
	case *ubx.AckNakRef:
		l.Debug("ack_nak", "cls_id", v.ClsID(), "msg_id", v.AckedMsgID())
	case *ubx.MonVerRef:
		l.Debug("mon_ver", "sw_version", v.SoftwareVersion(), "hw_version", v.HardwareVersion())
	case *ubx.EsfMeasRef:
		l.Debug("esf_meas", "itow", v.ITOW(), "num_meas", v.Flags().NumMeas())
	default:
		l.Debug("frame_decoded", "class", pkt.Class(), "msg_id", pkt.MsgID())
	}
}
