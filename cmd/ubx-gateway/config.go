package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type appConfig struct {
	serialDev    string
	baud         int
	serialReadTO time.Duration
	logFormat    string
	logLevel     string
	metricsAddr  string

	logMetricsEvery time.Duration

	protoVersion string // one of "14", "17", "23", "27", "31", "33"
	bufferMode   string // "growable" | "fixed"
	fixedBufSize int
	adaptiveRTCM bool

	mdnsEnable bool
	mdnsName   string

	pollCfgNav5Every time.Duration
}

func parseFlags() (*appConfig, bool) {
	cfg := &appConfig{}
	serialDev := flag.String("serial", "/dev/ttyACM0", "Serial device path")
	baud := flag.Int("baud", 9600, "Serial baud rate")
	serialReadTO := flag.Duration("serial-read-timeout", 50*time.Millisecond, "Serial read timeout")
	logFormat := flag.String("log-format", "text", "Log format: text|json")
	logLevel := flag.String("log-level", "info", "Log level: debug|info|warn|error")
	metricsAddr := flag.String("metrics-addr", "", "Metrics HTTP listen address (e.g., :9100); empty disables")
	logMetricsEvery := flag.Duration("log-metrics-interval", 0, "If >0, periodically log metrics counters (for non-Prometheus setups)")
	protoVersion := flag.String("proto-version", "27", "u-blox protocol version: 14|17|23|27|31|33")
	bufferMode := flag.String("buffer-mode", "growable", "Parser residual buffer: growable|fixed")
	fixedBufSize := flag.Int("fixed-buffer-size", 4096, "Fixed residual buffer size in bytes (when --buffer-mode=fixed)")
	adaptiveRTCM := flag.Bool("adaptive-rtcm", false, "Interleave RTCM3 framing with UBX on the same stream")
	mdnsEnable := flag.Bool("mdns-enable", false, "Enable mDNS/Avahi advertisement")
	mdnsName := flag.String("mdns-name", "", "mDNS instance name (default ubx-gateway-<hostname>)")
	pollCfgNav5Every := flag.Duration("poll-cfg-nav5-interval", 0, "If >0, periodically request UBX-CFG-NAV5 from the receiver")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	setFlags := map[string]struct{}{}
	flag.Visit(func(f *flag.Flag) { setFlags[f.Name] = struct{}{} })

	cfg.serialDev = *serialDev
	cfg.baud = *baud
	cfg.serialReadTO = *serialReadTO
	cfg.logFormat = *logFormat
	cfg.logLevel = *logLevel
	cfg.metricsAddr = *metricsAddr
	cfg.logMetricsEvery = *logMetricsEvery
	cfg.protoVersion = *protoVersion
	cfg.bufferMode = *bufferMode
	cfg.fixedBufSize = *fixedBufSize
	cfg.adaptiveRTCM = *adaptiveRTCM
	cfg.mdnsEnable = *mdnsEnable
	cfg.mdnsName = *mdnsName
	cfg.pollCfgNav5Every = *pollCfgNav5Every

	if err := applyEnvOverrides(cfg, setFlags); err != nil {
		fmt.Printf("environment override error: %v\n", err)
		return nil, *showVersion
	}
	if err := cfg.validate(); err != nil {
		fmt.Printf("configuration error: %v\n", err)
		return nil, *showVersion
	}
	return cfg, *showVersion
}

// validate performs basic semantic validation of the parsed configuration.
// It does not attempt to open devices or listeners - only checks values/ranges.
func (c *appConfig) validate() error {
	if c == nil {
		return errors.New("nil config")
	}
	switch c.logFormat {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log-format: %s", c.logFormat)
	}
	switch c.logLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log-level: %s", c.logLevel)
	}
	if _, err := protoVersionFromFlag(c.protoVersion); err != nil {
		return err
	}
	switch c.bufferMode {
	case "growable", "fixed":
	default:
		return fmt.Errorf("invalid buffer-mode: %s", c.bufferMode)
	}
	if c.bufferMode == "fixed" && c.fixedBufSize <= 0 {
		return fmt.Errorf("fixed-buffer-size must be > 0 (got %d)", c.fixedBufSize)
	}
	if c.baud <= 0 {
		return fmt.Errorf("baud must be > 0 (got %d)", c.baud)
	}
	if c.serialReadTO <= 0 {
		return fmt.Errorf("serial-read-timeout must be > 0")
	}
	if c.pollCfgNav5Every < 0 {
		return fmt.Errorf("poll-cfg-nav5-interval must be >= 0")
	}
	return nil
}

// applyEnvOverrides maps UBX_GATEWAY_* environment variables to config
// fields unless a corresponding flag was explicitly set. Boolean & numeric
// parsing is lax: empty values ignored. Duration accepts Go's
// time.ParseDuration format. Flags always win over environment.
func applyEnvOverrides(c *appConfig, set map[string]struct{}) error {
	var firstErr error
	get := func(k string) (string, bool) { v, ok := os.LookupEnv(k); return strings.TrimSpace(v), ok }

	if _, ok := set["serial"]; !ok {
		if v, ok := get("UBX_GATEWAY_SERIAL"); ok && v != "" {
			c.serialDev = v
		}
	}
	if _, ok := set["baud"]; !ok {
		if v, ok := get("UBX_GATEWAY_BAUD"); ok && v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				c.baud = n
			} else if err != nil && firstErr == nil {
				firstErr = fmt.Errorf("invalid UBX_GATEWAY_BAUD: %w", err)
			}
		}
	}
	if _, ok := set["serial-read-timeout"]; !ok {
		if v, ok := get("UBX_GATEWAY_SERIAL_READ_TIMEOUT"); ok && v != "" {
			if d, err := time.ParseDuration(v); err == nil && d > 0 {
				c.serialReadTO = d
			} else if err != nil && firstErr == nil {
				firstErr = fmt.Errorf("invalid UBX_GATEWAY_SERIAL_READ_TIMEOUT: %w", err)
			}
		}
	}
	if _, ok := set["log-format"]; !ok {
		if v, ok := get("UBX_GATEWAY_LOG_FORMAT"); ok && v != "" {
			c.logFormat = v
		}
	}
	if _, ok := set["log-level"]; !ok {
		if v, ok := get("UBX_GATEWAY_LOG_LEVEL"); ok && v != "" {
			c.logLevel = v
		}
	}
	if _, ok := set["metrics-addr"]; !ok {
		if v, ok := get("UBX_GATEWAY_METRICS"); ok {
			c.metricsAddr = v
		}
	}
	if _, ok := set["proto-version"]; !ok {
		if v, ok := get("UBX_GATEWAY_PROTO_VERSION"); ok && v != "" {
			c.protoVersion = v
		}
	}
	if _, ok := set["buffer-mode"]; !ok {
		if v, ok := get("UBX_GATEWAY_BUFFER_MODE"); ok && v != "" {
			c.bufferMode = v
		}
	}
	if _, ok := set["fixed-buffer-size"]; !ok {
		if v, ok := get("UBX_GATEWAY_FIXED_BUFFER_SIZE"); ok && v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				c.fixedBufSize = n
			} else if err != nil && firstErr == nil {
				firstErr = fmt.Errorf("invalid UBX_GATEWAY_FIXED_BUFFER_SIZE: %w", err)
			}
		}
	}
	if _, ok := set["adaptive-rtcm"]; !ok {
		if v, ok := get("UBX_GATEWAY_ADAPTIVE_RTCM"); ok && v != "" {
			switch strings.ToLower(v) {
			case "1", "true", "yes", "on":
				c.adaptiveRTCM = true
			case "0", "false", "no", "off":
				c.adaptiveRTCM = false
			}
		}
	}
	if _, ok := set["mdns-enable"]; !ok {
		if v, ok := get("UBX_GATEWAY_MDNS_ENABLE"); ok && v != "" {
			switch strings.ToLower(v) {
			case "1", "true", "yes", "on":
				c.mdnsEnable = true
			case "0", "false", "no", "off":
				c.mdnsEnable = false
			}
		}
	}
	if _, ok := set["mdns-name"]; !ok {
		if v, ok := get("UBX_GATEWAY_MDNS_NAME"); ok && v != "" {
			c.mdnsName = v
		}
	}
	if _, ok := set["log-metrics-interval"]; !ok {
		if v, ok := get("UBX_GATEWAY_LOG_METRICS_INTERVAL"); ok && v != "" {
			if d, err := time.ParseDuration(v); err == nil && d >= 0 {
				c.logMetricsEvery = d
			} else if err != nil && firstErr == nil {
				firstErr = fmt.Errorf("invalid UBX_GATEWAY_LOG_METRICS_INTERVAL: %w", err)
			}
		}
	}
	if _, ok := set["poll-cfg-nav5-interval"]; !ok {
		if v, ok := get("UBX_GATEWAY_POLL_CFG_NAV5_INTERVAL"); ok && v != "" {
			if d, err := time.ParseDuration(v); err == nil && d >= 0 {
				c.pollCfgNav5Every = d
			} else if err != nil && firstErr == nil {
				firstErr = fmt.Errorf("invalid UBX_GATEWAY_POLL_CFG_NAV5_INTERVAL: %w", err)
			}
		}
	}
	return firstErr
}
