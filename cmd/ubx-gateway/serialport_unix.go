//go:build unix

package main

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// exclusiveOpenGuard probes name for another exclusive opener before handing
// it to tarm/serial, which itself never issues TIOCEXCL. It opens the device
// node directly with O_EXCL, which the tty layer honors for device-special
// files on Linux/BSD, and immediately releases it; a real lock is then held
// implicitly for the lifetime of the tarm/serial handle opened right after.
func exclusiveOpenGuard(name string) error {
	fd, err := unix.Open(name, unix.O_RDWR|unix.O_NOCTTY|unix.O_EXCL, 0)
	if err != nil {
		return fmt.Errorf("exclusive open guard on %s: %w", name, err)
	}
	_ = unix.IoctlSetInt(fd, unix.TIOCEXCL, 0)
	return unix.Close(fd)
}
