package ubx

import (
	"encoding/binary"
	"fmt"
)

// UBX-CFG-NAV5 and UBX-CFG-RATE: configuration messages (decoded and built)
// exercising both enum disciplines side by side.

const (
	cfgClass     = 0x06
	cfgNav5ID    = 0x24
	cfgRateID    = 0x08
	cfgNav5Len   = 36
	cfgRateLen   = 6
)

// CfgNav5Params is the UBX-CFG-NAV5 "mask" bitfield selecting which of the
// message's other parameters the receiver should apply. Rest-reserved:
// unnamed bits round-trip unchanged.
type CfgNav5Params uint16

const (
	CfgNav5Dyn             CfgNav5Params = 0x0001
	CfgNav5MinEl           CfgNav5Params = 0x0002
	CfgNav5PosFixMode      CfgNav5Params = 0x0004
	CfgNav5DrLim           CfgNav5Params = 0x0008
	CfgNav5PosMaskApply    CfgNav5Params = 0x0010
	CfgNav5TimeMask        CfgNav5Params = 0x0020
	CfgNav5StaticHoldMask  CfgNav5Params = 0x0040
	CfgNav5DGPSMask        CfgNav5Params = 0x0080
	CfgNav5CNOThreshold    CfgNav5Params = 0x0100
	CfgNav5UTC             CfgNav5Params = 0x0400
)

func (f CfgNav5Params) Has(bit CfgNav5Params) bool { return f&bit != 0 }

// NavDynamicModel selects the receiver's dynamic platform model.
// Rest-error discipline (mirroring the original's #[ubx(from_unchecked,
// rest_error)]): FromRaw rejects values the protocol does not define,
// while FromUnchecked and IsValid let a caller choose to tolerate or probe
// for them — newer firmware adds platform models newer client code may
// not recognize.
type NavDynamicModel uint8

const (
	NavDynamicModelPortable                         NavDynamicModel = 0
	NavDynamicModelStationary                        NavDynamicModel = 2
	NavDynamicModelPedestrian                        NavDynamicModel = 3
	NavDynamicModelAutomotive                        NavDynamicModel = 4
	NavDynamicModelSea                               NavDynamicModel = 5
	NavDynamicModelAirborneWithLess1gAcceleration    NavDynamicModel = 6
	NavDynamicModelAirborneWithLess2gAcceleration    NavDynamicModel = 7
	NavDynamicModelAirborneWithLess4gAcceleration    NavDynamicModel = 8
	NavDynamicModelWristWornWatch                    NavDynamicModel = 9
	NavDynamicModelBike                              NavDynamicModel = 10
	NavDynamicModelMower                             NavDynamicModel = 11
	NavDynamicModelEScooter                          NavDynamicModel = 12
	NavDynamicModelRail                              NavDynamicModel = 13
)

// IsValidNavDynamicModel reports whether raw names a defined model.
func IsValidNavDynamicModel(raw uint8) bool {
	switch NavDynamicModel(raw) {
	case NavDynamicModelPortable, NavDynamicModelStationary, NavDynamicModelPedestrian,
		NavDynamicModelAutomotive, NavDynamicModelSea, NavDynamicModelAirborneWithLess1gAcceleration,
		NavDynamicModelAirborneWithLess2gAcceleration, NavDynamicModelAirborneWithLess4gAcceleration,
		NavDynamicModelWristWornWatch, NavDynamicModelBike, NavDynamicModelMower,
		NavDynamicModelEScooter, NavDynamicModelRail:
		return true
	default:
		return false
	}
}

// NavDynamicModelFromRaw decodes raw, failing if it names an undefined model.
func NavDynamicModelFromRaw(raw uint8) (NavDynamicModel, error) {
	if !IsValidNavDynamicModel(raw) {
		return 0, &InvalidField{Packet: "CfgNav5", Field: "dynModel"}
	}
	return NavDynamicModel(raw), nil
}

// NavDynamicModelFromUnchecked decodes raw without validation, for callers
// that want to forward an unrecognized-but-well-formed value untouched.
func NavDynamicModelFromUnchecked(raw uint8) NavDynamicModel { return NavDynamicModel(raw) }

// NavFixMode selects which fix dimensionalities the engine may report.
// Rest-error discipline, same rationale as NavDynamicModel.
type NavFixMode uint8

const (
	NavFixModeOnly2D   NavFixMode = 1
	NavFixModeOnly3D   NavFixMode = 2
	NavFixModeAuto2D3D NavFixMode = 3
)

func IsValidNavFixMode(raw uint8) bool {
	switch NavFixMode(raw) {
	case NavFixModeOnly2D, NavFixModeOnly3D, NavFixModeAuto2D3D:
		return true
	default:
		return false
	}
}

func NavFixModeFromRaw(raw uint8) (NavFixMode, error) {
	if !IsValidNavFixMode(raw) {
		return 0, &InvalidField{Packet: "CfgNav5", Field: "fixMode"}
	}
	return NavFixMode(raw), nil
}

func NavFixModeFromUnchecked(raw uint8) NavFixMode { return NavFixMode(raw) }

// CfgNav5Ref is a borrowed view over a UBX-CFG-NAV5 payload.
type CfgNav5Ref struct{ payload []byte }

func (r *CfgNav5Ref) Class() byte { return cfgClass }
func (r *CfgNav5Ref) MsgID() byte { return cfgNav5ID }

func (r *CfgNav5Ref) Mask() CfgNav5Params {
	return CfgNav5Params(binary.LittleEndian.Uint16(r.payload[0:2]))
}

// DynModel decodes the dynModel field, failing per the rest-error
// discipline if the receiver reported a model this package does not know.
func (r *CfgNav5Ref) DynModel() (NavDynamicModel, error) { return NavDynamicModelFromRaw(r.payload[2]) }
func (r *CfgNav5Ref) FixMode() (NavFixMode, error)       { return NavFixModeFromRaw(r.payload[3]) }

func (r *CfgNav5Ref) FixedAltMeters() float64 {
	return scaleReadI32(int32(binary.LittleEndian.Uint32(r.payload[4:8])), 0.01)
}
func (r *CfgNav5Ref) FixedAltVarMeters2() float64 {
	return scaleReadU32(binary.LittleEndian.Uint32(r.payload[8:12]), 0.0001)
}
func (r *CfgNav5Ref) MinElevDegrees() int8 { return int8(r.payload[12]) }
func (r *CfgNav5Ref) PDOP() float32        { return scaleReadU16(binary.LittleEndian.Uint16(r.payload[14:16]), 0.1) }
func (r *CfgNav5Ref) TDOP() float32        { return scaleReadU16(binary.LittleEndian.Uint16(r.payload[16:18]), 0.1) }
func (r *CfgNav5Ref) PAccMeters() uint16   { return binary.LittleEndian.Uint16(r.payload[18:20]) }
func (r *CfgNav5Ref) TAcc() uint16         { return binary.LittleEndian.Uint16(r.payload[20:22]) }
func (r *CfgNav5Ref) StaticHoldThreshMetersPerSec() float32 {
	return scaleReadU8(r.payload[22], 0.01)
}
func (r *CfgNav5Ref) DGPSTimeoutSeconds() uint8     { return r.payload[23] }
func (r *CfgNav5Ref) CNOThreshNumSVs() uint8        { return r.payload[24] }
func (r *CfgNav5Ref) CNOThreshDBHz() uint8          { return r.payload[25] }
func (r *CfgNav5Ref) StaticHoldMaxDist() uint16     { return binary.LittleEndian.Uint16(r.payload[28:30]) }
func (r *CfgNav5Ref) UTCStandard() uint8            { return r.payload[30] }

func decodeCfgNav5(payload []byte) (Packet, error) {
	if len(payload) != cfgNav5Len {
		return nil, &InvalidPacketLen{Packet: "CfgNav5", Expect: cfgNav5Len, Got: len(payload)}
	}
	if !IsValidNavDynamicModel(payload[2]) {
		return nil, &InvalidField{Packet: "CfgNav5", Field: "dynModel"}
	}
	if !IsValidNavFixMode(payload[3]) {
		return nil, &InvalidField{Packet: "CfgNav5", Field: "fixMode"}
	}
	return &CfgNav5Ref{payload: payload}, nil
}

func decodeCfgNav5Owned(payload []byte) (Packet, error) {
	_, err := decodeCfgNav5(payload)
	if err != nil {
		return nil, err
	}
	cp := make([]byte, len(payload))
	copy(cp, payload)
	return &CfgNav5Ref{payload: cp}, nil
}

// CfgNav5Builder incrementally constructs a UBX-CFG-NAV5 payload for
// transmission. Fields default to zero / Portable / Auto2D3D until set.
type CfgNav5Builder struct {
	mask                       CfgNav5Params
	dynModel                   NavDynamicModel
	fixMode                    NavFixMode
	fixedAltMeters             float64
	fixedAltVarMeters2         float64
	minElevDegrees             int8
	pdop, tdop                 float32
	pAcc, tAcc                 uint16
	staticHoldThreshMetersPerSec float32
	dgpsTimeoutSeconds         uint8
	cnoThreshNumSVs            uint8
	cnoThreshDBHz              uint8
	staticHoldMaxDist          uint16
	utcStandard                uint8
}

// NewCfgNav5Builder returns a builder with the same defaults as the
// receiver's power-on configuration (Portable / Auto2D3D).
func NewCfgNav5Builder() *CfgNav5Builder {
	return &CfgNav5Builder{dynModel: NavDynamicModelPortable, fixMode: NavFixModeAuto2D3D}
}

func (b *CfgNav5Builder) WithMask(m CfgNav5Params) *CfgNav5Builder { b.mask = m; return b }
func (b *CfgNav5Builder) WithDynModel(m NavDynamicModel) *CfgNav5Builder { b.dynModel = m; return b }
func (b *CfgNav5Builder) WithFixMode(m NavFixMode) *CfgNav5Builder { b.fixMode = m; return b }
func (b *CfgNav5Builder) WithFixedAlt(meters, varMeters2 float64) *CfgNav5Builder {
	b.fixedAltMeters, b.fixedAltVarMeters2 = meters, varMeters2
	return b
}

// Build serializes the configured fields into a full UBX-CFG-NAV5 frame.
func (b *CfgNav5Builder) Build() []byte {
	payload := make([]byte, cfgNav5Len)
	binary.LittleEndian.PutUint16(payload[0:2], uint16(b.mask))
	payload[2] = uint8(b.dynModel)
	payload[3] = uint8(b.fixMode)
	binary.LittleEndian.PutUint32(payload[4:8], uint32(scaleWriteI32(b.fixedAltMeters, 0.01)))
	binary.LittleEndian.PutUint32(payload[8:12], scaleWriteU32(b.fixedAltVarMeters2, 0.0001))
	payload[12] = byte(b.minElevDegrees)
	binary.LittleEndian.PutUint16(payload[14:16], scaleWriteU16(b.pdop, 0.1))
	binary.LittleEndian.PutUint16(payload[16:18], scaleWriteU16(b.tdop, 0.1))
	binary.LittleEndian.PutUint16(payload[18:20], b.pAcc)
	binary.LittleEndian.PutUint16(payload[20:22], b.tAcc)
	payload[22] = scaleWriteU8(b.staticHoldThreshMetersPerSec, 0.01)
	payload[23] = b.dgpsTimeoutSeconds
	payload[24] = b.cnoThreshNumSVs
	payload[25] = b.cnoThreshDBHz
	binary.LittleEndian.PutUint16(payload[28:30], b.staticHoldMaxDist)
	payload[30] = b.utcStandard

	w := NewMemWriter(cfgNav5Len + 8)
	_ = BuildFrame(w, cfgClass, cfgNav5ID, payload)
	return w.Bytes()
}

// AlignmentToReferenceTime selects the time base UBX-CFG-RATE's navigation
// epochs are aligned to. Rest-error discipline: an out-of-range value is
// almost certainly a caller mistake, not a newer firmware feature, since
// this field's domain has been stable across every protocol revision.
type AlignmentToReferenceTime uint16

const (
	AlignUTC AlignmentToReferenceTime = 0
	AlignGPS AlignmentToReferenceTime = 1
	AlignGLO AlignmentToReferenceTime = 2
	AlignBDS AlignmentToReferenceTime = 3
	AlignGAL AlignmentToReferenceTime = 4
)

func (a AlignmentToReferenceTime) String() string {
	switch a {
	case AlignUTC:
		return "UTC"
	case AlignGPS:
		return "GPS"
	case AlignGLO:
		return "GLONASS"
	case AlignBDS:
		return "BeiDou"
	case AlignGAL:
		return "Galileo"
	default:
		return fmt.Sprintf("AlignmentToReferenceTime(%d)", uint16(a))
	}
}

// CfgRateRef is a borrowed view over a UBX-CFG-RATE payload.
type CfgRateRef struct{ payload []byte }

func (r *CfgRateRef) Class() byte { return cfgClass }
func (r *CfgRateRef) MsgID() byte { return cfgRateID }

func (r *CfgRateRef) MeasureRateMs() uint16 { return binary.LittleEndian.Uint16(r.payload[0:2]) }
func (r *CfgRateRef) NavRate() uint16       { return binary.LittleEndian.Uint16(r.payload[2:4]) }
func (r *CfgRateRef) TimeRef() AlignmentToReferenceTime {
	return AlignmentToReferenceTime(binary.LittleEndian.Uint16(r.payload[4:6]))
}

func decodeCfgRate(payload []byte) (Packet, error) {
	if len(payload) != cfgRateLen {
		return nil, &InvalidPacketLen{Packet: "CfgRate", Expect: cfgRateLen, Got: len(payload)}
	}
	if AlignmentToReferenceTime(binary.LittleEndian.Uint16(payload[4:6])) > AlignGAL {
		return nil, &InvalidField{Packet: "CfgRate", Field: "timeRef"}
	}
	return &CfgRateRef{payload: payload}, nil
}

func decodeCfgRateOwned(payload []byte) (Packet, error) {
	_, err := decodeCfgRate(payload)
	if err != nil {
		return nil, err
	}
	cp := make([]byte, len(payload))
	copy(cp, payload)
	return &CfgRateRef{payload: cp}, nil
}

// BuildCfgRate serializes a UBX-CFG-RATE frame.
func BuildCfgRate(measureRateMs, navRate uint16, timeRef AlignmentToReferenceTime) []byte {
	payload := make([]byte, cfgRateLen)
	binary.LittleEndian.PutUint16(payload[0:2], measureRateMs)
	binary.LittleEndian.PutUint16(payload[2:4], navRate)
	binary.LittleEndian.PutUint16(payload[4:6], uint16(timeRef))
	w := NewMemWriter(cfgRateLen + 8)
	_ = BuildFrame(w, cfgClass, cfgRateID, payload)
	return w.Bytes()
}

func init() {
	register(cfgClass, cfgNav5ID, "CfgNav5", AllVersions, decodeCfgNav5, decodeCfgNav5Owned)
	register(cfgClass, cfgRateID, "CfgRate", AllVersions, decodeCfgRate, decodeCfgRateOwned)
}
