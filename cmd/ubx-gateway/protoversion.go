package main

import (
	"fmt"

	"github.com/kstaniek/go-ubx-gateway/internal/ubx"
)

// protoVersionFromFlag maps the --proto-version string to the
// construction-time ubx.ProtocolVersion selector.
func protoVersionFromFlag(s string) (ubx.ProtocolVersion, error) {
	switch s {
	case "14":
		return ubx.Proto14, nil
	case "17":
		return ubx.Proto17, nil
	case "23":
		return ubx.Proto23, nil
	case "27":
		return ubx.Proto27, nil
	case "31":
		return ubx.Proto31, nil
	case "33":
		return ubx.Proto33, nil
	default:
		return 0, fmt.Errorf("invalid proto-version: %s (want one of 14|17|23|27|31|33)", s)
	}
}
