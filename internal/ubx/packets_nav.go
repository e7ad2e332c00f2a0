package ubx

import (
	"encoding/binary"
	"fmt"
)

// UBX-NAV-POSECEF, UBX-NAV-PVT and UBX-NAV-STATUS: the three navigation
// output messages exercising the scaled-field and bitflag/enum machinery.

const (
	navClass        = 0x01
	navPosECEFID    = 0x01
	navStatusID     = 0x03
	navPVTID        = 0x07
	navPosECEFLen   = 20
	navStatusLen    = 16
	navPVTProto14Len = 84
)

// --- NAV-POSECEF ---

// NavPosECEFRef is a borrowed view over a UBX-NAV-POSECEF payload.
type NavPosECEFRef struct{ payload []byte }

func (r *NavPosECEFRef) Class() byte { return navClass }
func (r *NavPosECEFRef) MsgID() byte { return navPosECEFID }

func (r *NavPosECEFRef) ITOW() uint32 {
	return binary.LittleEndian.Uint32(r.payload[0:4])
}
func (r *NavPosECEFRef) ECEFXMeters() float64 {
	return scaleReadI32(int32(binary.LittleEndian.Uint32(r.payload[4:8])), 1e-2)
}
func (r *NavPosECEFRef) ECEFYMeters() float64 {
	return scaleReadI32(int32(binary.LittleEndian.Uint32(r.payload[8:12])), 1e-2)
}
func (r *NavPosECEFRef) ECEFZMeters() float64 {
	return scaleReadI32(int32(binary.LittleEndian.Uint32(r.payload[12:16])), 1e-2)
}
func (r *NavPosECEFRef) PAccMeters() float64 {
	return scaleReadU32(binary.LittleEndian.Uint32(r.payload[16:20]), 1e-2)
}

func (r *NavPosECEFRef) Owned() *NavPosECEFOwned {
	return &NavPosECEFOwned{
		ITOW:        r.ITOW(),
		ECEFXMeters: r.ECEFXMeters(),
		ECEFYMeters: r.ECEFYMeters(),
		ECEFZMeters: r.ECEFZMeters(),
		PAccMeters:  r.PAccMeters(),
	}
}

// NavPosECEFOwned is a detached copy of UBX-NAV-POSECEF.
type NavPosECEFOwned struct {
	ITOW                                    uint32
	ECEFXMeters, ECEFYMeters, ECEFZMeters   float64
	PAccMeters                               float64
}

func (o *NavPosECEFOwned) Class() byte { return navClass }
func (o *NavPosECEFOwned) MsgID() byte { return navPosECEFID }

func decodeNavPosECEF(payload []byte) (Packet, error) {
	if len(payload) != navPosECEFLen {
		return nil, &InvalidPacketLen{Packet: "NavPosECEF", Expect: navPosECEFLen, Got: len(payload)}
	}
	return &NavPosECEFRef{payload: payload}, nil
}

func decodeNavPosECEFOwned(payload []byte) (Packet, error) {
	p, err := decodeNavPosECEF(payload)
	if err != nil {
		return nil, err
	}
	return p.(*NavPosECEFRef).Owned(), nil
}

// BuildNavPosECEF serializes a UBX-NAV-POSECEF frame, rounding each scaled
// field to the nearest representable raw centimeter value.
func BuildNavPosECEF(itow uint32, x, y, z, pAcc float64) []byte {
	payload := make([]byte, navPosECEFLen)
	binary.LittleEndian.PutUint32(payload[0:4], itow)
	binary.LittleEndian.PutUint32(payload[4:8], uint32(scaleWriteI32(x, 1e-2)))
	binary.LittleEndian.PutUint32(payload[8:12], uint32(scaleWriteI32(y, 1e-2)))
	binary.LittleEndian.PutUint32(payload[12:16], uint32(scaleWriteI32(z, 1e-2)))
	binary.LittleEndian.PutUint32(payload[16:20], scaleWriteU32(pAcc, 1e-2))
	w := NewMemWriter(30)
	_ = BuildFrame(w, navClass, navPosECEFID, payload)
	return w.Bytes()
}

// --- NAV-STATUS ---

// GnssFixType is the receiver's fix type. Unnamed raw values are
// preserved rather than rejected (the "reserved" discipline: conversion
// from the raw byte is total, and an unnamed value round-trips through
// String as
// "Reserved(N)"), since every known protocol revision has only ever added
// fix types, never removed or repurposed one.
type GnssFixType byte

const (
	GnssFixTypeNoFix                GnssFixType = 0
	GnssFixTypeDeadReckoningOnly     GnssFixType = 1
	GnssFixType2D                    GnssFixType = 2
	GnssFixType3D                    GnssFixType = 3
	GnssFixTypeGNSSPlusDeadReckoning GnssFixType = 4
	GnssFixTypeTimeOnly              GnssFixType = 5
)

func (f GnssFixType) String() string {
	switch f {
	case GnssFixTypeNoFix:
		return "NoFix"
	case GnssFixTypeDeadReckoningOnly:
		return "DeadReckoningOnly"
	case GnssFixType2D:
		return "2D"
	case GnssFixType3D:
		return "3D"
	case GnssFixTypeGNSSPlusDeadReckoning:
		return "GNSSPlusDeadReckoning"
	case GnssFixTypeTimeOnly:
		return "TimeOnly"
	default:
		return fmt.Sprintf("Reserved(%d)", byte(f))
	}
}

// NavStatusFlags is the UBX-NAV-STATUS flags bitmask. Unspecified bits are
// preserved on round-trip (rest_reserved discipline), matching the
// original bitflags annotation.
type NavStatusFlags byte

const (
	NavStatusGPSFixOK NavStatusFlags = 1 << 0
	NavStatusDiffSoln NavStatusFlags = 1 << 1
	NavStatusWKNSet   NavStatusFlags = 1 << 2
	NavStatusTOWSet   NavStatusFlags = 1 << 3
)

func (f NavStatusFlags) Has(bit NavStatusFlags) bool { return f&bit != 0 }

// FixStatusInfo exposes the UBX-NAV-STATUS fixStat byte's sub-fields
// directly, without an enum discipline — it is a bitfield of independent
// flags and a 2-bit status code, not a closed set of whole-byte values.
type FixStatusInfo byte

func (f FixStatusInfo) HasPrPrrCorrection() bool { return f&1 == 1 }

// MapMatchingStatus is the 2-bit map-matching sub-field of FixStatusInfo.
type MapMatchingStatus byte

const (
	MapMatchingNone  MapMatchingStatus = 0
	MapMatchingValid MapMatchingStatus = 1
	MapMatchingUsed  MapMatchingStatus = 2
	MapMatchingDR    MapMatchingStatus = 3
)

func (f FixStatusInfo) MapMatching() MapMatchingStatus {
	return MapMatchingStatus((f >> 6) & 3)
}

// NavStatusFlags2 reports tracking-engine status. Rest-reserved discipline:
// conversion from the raw byte is total, unnamed values round-trip as
// "Reserved(N)".
type NavStatusFlags2 byte

const (
	NavStatusFlags2Acquisition            NavStatusFlags2 = 0
	NavStatusFlags2Tracking                NavStatusFlags2 = 1
	NavStatusFlags2PowerOptimizedTracking  NavStatusFlags2 = 2
	NavStatusFlags2Inactive                NavStatusFlags2 = 3
)

func (f NavStatusFlags2) String() string {
	switch f {
	case NavStatusFlags2Acquisition:
		return "Acquisition"
	case NavStatusFlags2Tracking:
		return "Tracking"
	case NavStatusFlags2PowerOptimizedTracking:
		return "PowerOptimizedTracking"
	case NavStatusFlags2Inactive:
		return "Inactive"
	default:
		return fmt.Sprintf("Reserved(%d)", byte(f))
	}
}

// NavStatusRef is a borrowed view over a UBX-NAV-STATUS payload.
type NavStatusRef struct{ payload []byte }

func (r *NavStatusRef) Class() byte { return navClass }
func (r *NavStatusRef) MsgID() byte { return navStatusID }

func (r *NavStatusRef) ITOW() uint32 { return binary.LittleEndian.Uint32(r.payload[0:4]) }
func (r *NavStatusRef) FixType() GnssFixType        { return GnssFixType(r.payload[4]) }
func (r *NavStatusRef) Flags() NavStatusFlags       { return NavStatusFlags(r.payload[5]) }
func (r *NavStatusRef) FixStat() FixStatusInfo       { return FixStatusInfo(r.payload[6]) }
func (r *NavStatusRef) Flags2() NavStatusFlags2     { return NavStatusFlags2(r.payload[7]) }
func (r *NavStatusRef) TimeToFirstFixMs() uint32 {
	return binary.LittleEndian.Uint32(r.payload[8:12])
}
func (r *NavStatusRef) UptimeMs() uint32 {
	return binary.LittleEndian.Uint32(r.payload[12:16])
}

func (r *NavStatusRef) Owned() *NavStatusOwned {
	return &NavStatusOwned{
		ITOW:             r.ITOW(),
		FixType:          r.FixType(),
		Flags:            r.Flags(),
		FixStat:          r.FixStat(),
		Flags2:           r.Flags2(),
		TimeToFirstFixMs: r.TimeToFirstFixMs(),
		UptimeMs:         r.UptimeMs(),
	}
}

// NavStatusOwned is a detached copy of UBX-NAV-STATUS.
type NavStatusOwned struct {
	ITOW             uint32
	FixType          GnssFixType
	Flags            NavStatusFlags
	FixStat          FixStatusInfo
	Flags2           NavStatusFlags2
	TimeToFirstFixMs uint32
	UptimeMs         uint32
}

func (o *NavStatusOwned) Class() byte { return navClass }
func (o *NavStatusOwned) MsgID() byte { return navStatusID }

func decodeNavStatus(payload []byte) (Packet, error) {
	if len(payload) != navStatusLen {
		return nil, &InvalidPacketLen{Packet: "NavStatus", Expect: navStatusLen, Got: len(payload)}
	}
	return &NavStatusRef{payload: payload}, nil
}

func decodeNavStatusOwned(payload []byte) (Packet, error) {
	p, err := decodeNavStatus(payload)
	if err != nil {
		return nil, err
	}
	return p.(*NavStatusRef).Owned(), nil
}

// --- NAV-PVT (proto14 layout: 84-byte payload) ---

// NavPvtValidFlags reports which of the UTC-time fields are valid.
type NavPvtValidFlags byte

const (
	NavPvtValidDate        NavPvtValidFlags = 1 << 0
	NavPvtValidTime        NavPvtValidFlags = 1 << 1
	NavPvtFullyResolved    NavPvtValidFlags = 1 << 2
	NavPvtValidMag         NavPvtValidFlags = 1 << 3
)

func (f NavPvtValidFlags) Has(bit NavPvtValidFlags) bool { return f&bit != 0 }

// NavPvtFlags reports the fix status flags of UBX-NAV-PVT.
type NavPvtFlags byte

const (
	NavPvtGPSFixOK      NavPvtFlags = 1 << 0
	NavPvtDiffSoln      NavPvtFlags = 1 << 1
	NavPvtHeadVehValid  NavPvtFlags = 1 << 5
)

func (f NavPvtFlags) Has(bit NavPvtFlags) bool { return f&bit != 0 }

// NavPVTRef is a borrowed view over a UBX-NAV-PVT (proto14) payload.
type NavPVTRef struct{ payload []byte }

func (r *NavPVTRef) Class() byte { return navClass }
func (r *NavPVTRef) MsgID() byte { return navPVTID }

func (r *NavPVTRef) ITOW() uint32 { return binary.LittleEndian.Uint32(r.payload[0:4]) }
func (r *NavPVTRef) Year() uint16 { return binary.LittleEndian.Uint16(r.payload[4:6]) }
func (r *NavPVTRef) Month() uint8 { return r.payload[6] }
func (r *NavPVTRef) Day() uint8   { return r.payload[7] }
func (r *NavPVTRef) Hour() uint8  { return r.payload[8] }
func (r *NavPVTRef) Min() uint8   { return r.payload[9] }
func (r *NavPVTRef) Sec() uint8   { return r.payload[10] }
func (r *NavPVTRef) Valid() NavPvtValidFlags { return NavPvtValidFlags(r.payload[11]) }
func (r *NavPVTRef) TimeAccuracyNs() uint32  { return binary.LittleEndian.Uint32(r.payload[12:16]) }
func (r *NavPVTRef) Nanosec() int32 {
	return int32(binary.LittleEndian.Uint32(r.payload[16:20]))
}
func (r *NavPVTRef) FixType() GnssFixType   { return GnssFixType(r.payload[20]) }
func (r *NavPVTRef) Flags() NavPvtFlags     { return NavPvtFlags(r.payload[21]) }
func (r *NavPVTRef) NumSatellites() uint8   { return r.payload[23] }
func (r *NavPVTRef) LongitudeDeg() float64 {
	return scaleReadI32(int32(binary.LittleEndian.Uint32(r.payload[24:28])), 1e-7)
}
func (r *NavPVTRef) LatitudeDeg() float64 {
	return scaleReadI32(int32(binary.LittleEndian.Uint32(r.payload[28:32])), 1e-7)
}
func (r *NavPVTRef) HeightAboveEllipsoidMeters() float64 {
	return scaleReadI32(int32(binary.LittleEndian.Uint32(r.payload[32:36])), 1e-3)
}
func (r *NavPVTRef) HeightMSLMeters() float64 {
	return scaleReadI32(int32(binary.LittleEndian.Uint32(r.payload[36:40])), 1e-3)
}
func (r *NavPVTRef) HorizontalAccuracyMeters() float64 {
	return scaleReadU32(binary.LittleEndian.Uint32(r.payload[40:44]), 1e-3)
}
func (r *NavPVTRef) VerticalAccuracyMeters() float64 {
	return scaleReadU32(binary.LittleEndian.Uint32(r.payload[44:48]), 1e-3)
}
func (r *NavPVTRef) GroundSpeed2DMetersPerSec() float64 {
	return scaleReadU32(binary.LittleEndian.Uint32(r.payload[60:64]), 1e-3)
}
func (r *NavPVTRef) HeadingMotionDeg() float64 {
	return scaleReadI32(int32(binary.LittleEndian.Uint32(r.payload[64:68])), 1e-5)
}
func (r *NavPVTRef) SpeedAccuracyMetersPerSec() float64 {
	return scaleReadU32(binary.LittleEndian.Uint32(r.payload[68:72]), 1e-3)
}
func (r *NavPVTRef) HeadingAccuracyDeg() float64 {
	return scaleReadU32(binary.LittleEndian.Uint32(r.payload[72:76]), 1e-5)
}
func (r *NavPVTRef) PDOP() float64 {
	return float64(scaleReadU16(binary.LittleEndian.Uint16(r.payload[76:78]), 1e-2))
}

func (r *NavPVTRef) Owned() *NavPVTOwned {
	return &NavPVTOwned{
		ITOW: r.ITOW(), Year: r.Year(), Month: r.Month(), Day: r.Day(),
		Hour: r.Hour(), Min: r.Min(), Sec: r.Sec(), Valid: r.Valid(),
		TimeAccuracyNs: r.TimeAccuracyNs(), Nanosec: r.Nanosec(),
		FixType: r.FixType(), Flags: r.Flags(), NumSatellites: r.NumSatellites(),
		LongitudeDeg: r.LongitudeDeg(), LatitudeDeg: r.LatitudeDeg(),
		HeightAboveEllipsoidMeters: r.HeightAboveEllipsoidMeters(),
		HeightMSLMeters:            r.HeightMSLMeters(),
		HorizontalAccuracyMeters:   r.HorizontalAccuracyMeters(),
		VerticalAccuracyMeters:     r.VerticalAccuracyMeters(),
		GroundSpeed2DMetersPerSec:  r.GroundSpeed2DMetersPerSec(),
		HeadingMotionDeg:           r.HeadingMotionDeg(),
		SpeedAccuracyMetersPerSec:  r.SpeedAccuracyMetersPerSec(),
		HeadingAccuracyDeg:         r.HeadingAccuracyDeg(),
		PDOP:                       r.PDOP(),
	}
}

// NavPVTOwned is a detached copy of UBX-NAV-PVT.
type NavPVTOwned struct {
	ITOW                       uint32
	Year                       uint16
	Month, Day, Hour, Min, Sec uint8
	Valid                      NavPvtValidFlags
	TimeAccuracyNs             uint32
	Nanosec                    int32
	FixType                    GnssFixType
	Flags                      NavPvtFlags
	NumSatellites              uint8
	LongitudeDeg, LatitudeDeg  float64
	HeightAboveEllipsoidMeters float64
	HeightMSLMeters            float64
	HorizontalAccuracyMeters   float64
	VerticalAccuracyMeters     float64
	GroundSpeed2DMetersPerSec  float64
	HeadingMotionDeg           float64
	SpeedAccuracyMetersPerSec  float64
	HeadingAccuracyDeg         float64
	PDOP                       float64
}

func (o *NavPVTOwned) Class() byte { return navClass }
func (o *NavPVTOwned) MsgID() byte { return navPVTID }

func decodeNavPVT(payload []byte) (Packet, error) {
	if len(payload) != navPVTProto14Len {
		return nil, &InvalidPacketLen{Packet: "NavPVT", Expect: navPVTProto14Len, Got: len(payload)}
	}
	return &NavPVTRef{payload: payload}, nil
}

func decodeNavPVTOwned(payload []byte) (Packet, error) {
	p, err := decodeNavPVT(payload)
	if err != nil {
		return nil, err
	}
	return p.(*NavPVTRef).Owned(), nil
}

func init() {
	register(navClass, navPosECEFID, "NavPosECEF", AllVersions, decodeNavPosECEF, decodeNavPosECEFOwned)
	register(navClass, navStatusID, "NavStatus", AllVersions, decodeNavStatus, decodeNavStatusOwned)
	register(navClass, navPVTID, "NavPVT", Since(Proto14), decodeNavPVT, decodeNavPVTOwned)
}
