// Package metrics exposes Prometheus counters/gauges for the UBX gateway.
package metrics

import (
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/kstaniek/go-ubx-gateway/internal/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Prometheus counters
var (
	FramesDecoded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ubx_frames_decoded_total",
		Help: "Total UBX frames successfully decoded, by class/id.",
	}, []string{"class_id"})
	UnknownFrames = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ubx_unknown_frames_total",
		Help: "Total frames with a well-formed envelope but no known (class, id) schema.",
	})
	ChecksumErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ubx_checksum_errors_total",
		Help: "Total frames rejected for checksum mismatch.",
	})
	ValidationErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ubx_validation_errors_total",
		Help: "Total frames rejected at the validator stage, by packet name.",
	}, []string{"packet"})
	OutOfMemoryDrops = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ubx_out_of_memory_drops_total",
		Help: "Total in-flight frames abandoned due to fixed-buffer overflow.",
	})
	RTCMFrames = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ubx_rtcm_frames_total",
		Help: "Total RTCM3 frames framed by the adaptive parser.",
	})
	BuilderOverflow = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ubx_builder_not_enough_memory_total",
		Help: "Total builder emissions rejected because the writer refused a chunk.",
	})
	SerialRxBytes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ubx_serial_rx_bytes_total",
		Help: "Total raw bytes read from the serial link.",
	})
	SerialTxFrames = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ubx_serial_tx_frames_total",
		Help: "Total UBX frames written to the serial link.",
	})
	BuildInfo = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "build_info",
		Help: "Build metadata (value is always 1).",
	}, []string{"version", "commit", "date"})
	Errors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "errors_total",
		Help: "Error counters by subsystem.",
	}, []string{"where"})

	readinessMu sync.RWMutex
	readinessFn func() bool
)

// Error label constants (stable label values to bound cardinality)
const (
	ErrSerialRead  = "serial_read"
	ErrSerialWrite = "serial_write"
	ErrSerialOpen  = "serial_open"
	ErrTxOverflow  = "serial_tx_overflow"
	ErrMDNS        = "mdns"
)

// StartHTTP serves Prometheus metrics at /metrics on a fresh mux.
func StartHTTP(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		if IsReady() {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ready\n"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("not ready\n"))
	})

	srv := &http.Server{
		Addr:    addr,
		Handler: mux,
	}
	go func() {
		logging.L().Info("metrics_listen", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.L().Error("metrics_http_error", "error", err)
		}
	}()
	return srv
}

// Local mirrored counters for easy logging (avoid Prometheus scraping in-process)
var (
	localDecoded   uint64
	localUnknown   uint64
	localChecksum  uint64
	localValidate  uint64
	localOOM       uint64
	localRTCM      uint64
	localBuilderOF uint64
	localSerialRx  uint64
	localSerialTx  uint64
	localErrors    uint64
)

// Snapshot is a cheap copy of local counters.
type Snapshot struct {
	Decoded       uint64
	Unknown       uint64
	ChecksumErr   uint64
	ValidationErr uint64
	OutOfMemory   uint64
	RTCM          uint64
	BuilderOF     uint64
	SerialRx      uint64
	SerialTx      uint64
	Errors        uint64
}

func Snap() Snapshot {
	return Snapshot{
		Decoded:       atomic.LoadUint64(&localDecoded),
		Unknown:       atomic.LoadUint64(&localUnknown),
		ChecksumErr:   atomic.LoadUint64(&localChecksum),
		ValidationErr: atomic.LoadUint64(&localValidate),
		OutOfMemory:   atomic.LoadUint64(&localOOM),
		RTCM:          atomic.LoadUint64(&localRTCM),
		BuilderOF:     atomic.LoadUint64(&localBuilderOF),
		SerialRx:      atomic.LoadUint64(&localSerialRx),
		SerialTx:      atomic.LoadUint64(&localSerialTx),
		Errors:        atomic.LoadUint64(&localErrors),
	}
}

// IncDecoded records a successfully decoded frame for (class, id).
func IncDecoded(class, id byte) {
	FramesDecoded.WithLabelValues(fmt.Sprintf("0x%02x/0x%02x", class, id)).Inc()
	atomic.AddUint64(&localDecoded, 1)
}

func IncUnknown() {
	UnknownFrames.Inc()
	atomic.AddUint64(&localUnknown, 1)
}

func IncChecksumError() {
	ChecksumErrors.Inc()
	atomic.AddUint64(&localChecksum, 1)
}

func IncValidationError(packet string) {
	ValidationErrors.WithLabelValues(packet).Inc()
	atomic.AddUint64(&localValidate, 1)
}

func IncOutOfMemory() {
	OutOfMemoryDrops.Inc()
	atomic.AddUint64(&localOOM, 1)
}

func IncRTCM() {
	RTCMFrames.Inc()
	atomic.AddUint64(&localRTCM, 1)
}

func IncBuilderOverflow() {
	BuilderOverflow.Inc()
	atomic.AddUint64(&localBuilderOF, 1)
}

func AddSerialRx(n int) {
	SerialRxBytes.Add(float64(n))
	atomic.AddUint64(&localSerialRx, uint64(n))
}

func IncSerialTx() {
	SerialTxFrames.Inc()
	atomic.AddUint64(&localSerialTx, 1)
}

func IncError(label string) {
	Errors.WithLabelValues(label).Inc()
	atomic.AddUint64(&localErrors, 1)
}

// InitBuildInfo sets the build info gauge (should be called once at startup).
func InitBuildInfo(version, commit, date string) {
	BuildInfo.WithLabelValues(version, commit, date).Set(1)
	for _, lbl := range []string{ErrSerialRead, ErrSerialWrite, ErrSerialOpen, ErrTxOverflow, ErrMDNS} {
		Errors.WithLabelValues(lbl).Add(0)
	}
}

// SetReadinessFunc registers a function used by /ready and IsReady.
func SetReadinessFunc(fn func() bool) { readinessMu.Lock(); readinessFn = fn; readinessMu.Unlock() }

// IsReady invokes the registered readiness function if present.
func IsReady() bool {
	readinessMu.RLock()
	fn := readinessFn
	readinessMu.RUnlock()
	if fn == nil {
		return true
	}
	return fn()
}

// Ready is a concise alias used at call sites.
func Ready() bool { return IsReady() }
