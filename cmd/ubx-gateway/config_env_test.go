package main

import (
	"os"
	"testing"
	"time"
)

func TestApplyEnvOverrides_Basic(t *testing.T) {
	base := validTestConfig()

	os.Setenv("UBX_GATEWAY_BAUD", "115200")
	os.Setenv("UBX_GATEWAY_MDNS_ENABLE", "true")
	os.Setenv("UBX_GATEWAY_SERIAL_READ_TIMEOUT", "100ms")
	os.Setenv("UBX_GATEWAY_LOG_METRICS_INTERVAL", "5s")
	os.Setenv("UBX_GATEWAY_PROTO_VERSION", "23")
	t.Cleanup(func() {
		os.Unsetenv("UBX_GATEWAY_BAUD")
		os.Unsetenv("UBX_GATEWAY_MDNS_ENABLE")
		os.Unsetenv("UBX_GATEWAY_SERIAL_READ_TIMEOUT")
		os.Unsetenv("UBX_GATEWAY_LOG_METRICS_INTERVAL")
		os.Unsetenv("UBX_GATEWAY_PROTO_VERSION")
	})
	if err := applyEnvOverrides(base, map[string]struct{}{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if base.baud != 115200 {
		t.Fatalf("expected baud override, got %d", base.baud)
	}
	if !base.mdnsEnable {
		t.Fatalf("expected mdnsEnable true")
	}
	if base.serialReadTO != 100*time.Millisecond {
		t.Fatalf("expected serialReadTO 100ms got %v", base.serialReadTO)
	}
	if base.logMetricsEvery != 5*time.Second {
		t.Fatalf("expected logMetricsEvery 5s got %v", base.logMetricsEvery)
	}
	if base.protoVersion != "23" {
		t.Fatalf("expected protoVersion 23 got %s", base.protoVersion)
	}
}

func TestApplyEnvOverrides_FlagPrecedence(t *testing.T) {
	base := &appConfig{baud: 9600}
	os.Setenv("UBX_GATEWAY_BAUD", "115200")
	t.Cleanup(func() { os.Unsetenv("UBX_GATEWAY_BAUD") })
	if err := applyEnvOverrides(base, map[string]struct{}{"baud": {}}); err != nil {
		t.Fatalf("err: %v", err)
	}
	if base.baud != 9600 {
		t.Fatalf("expected baud unchanged 9600 got %d", base.baud)
	}
}

func TestApplyEnvOverrides_BadInt(t *testing.T) {
	base := &appConfig{fixedBufSize: 4096}
	os.Setenv("UBX_GATEWAY_FIXED_BUFFER_SIZE", "notint")
	t.Cleanup(func() { os.Unsetenv("UBX_GATEWAY_FIXED_BUFFER_SIZE") })
	if err := applyEnvOverrides(base, map[string]struct{}{}); err == nil {
		t.Fatalf("expected error for bad integer")
	}
}
