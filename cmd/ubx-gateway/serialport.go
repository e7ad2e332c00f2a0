package main

import (
	"time"

	"github.com/tarm/serial"
)

// Port abstracts tarm/serial for testability.
type Port interface {
	Read(p []byte) (int, error)
	Write(p []byte) (int, error)
	Close() error
}

// openSerialPort is a hook for tests (overridden in unit tests).
var openSerialPort = openPort

func openPort(name string, baud int, readTimeout time.Duration) (Port, error) {
	if err := exclusiveOpenGuard(name); err != nil {
		return nil, err
	}
	cfg := &serial.Config{Name: name, Baud: baud, ReadTimeout: readTimeout}
	return serial.OpenPort(cfg)
}
