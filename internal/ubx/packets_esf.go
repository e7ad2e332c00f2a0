package ubx

import (
	"encoding/binary"
	"fmt"
)

// UBX-ESF-MEAS: external sensor fusion measurement report, exercising a
// repeated group whose element count comes from a bitfield (flags.numMeas)
// and a trailing optional field gated by another bit of that same
// bitfield (flags.calibTagValid) — the payload tail boundary is only
// observable once the flags field has been decoded.

const (
	esfClass    = 0x10
	esfMeasID   = 0x02
	esfMeasMinLen = 8 // itow(4) + flags(2) + id(2)
)

// EsfSensorType identifies the kind of sensor a single EsfMeasData entry
// reports. Rest-reserved discipline: u-blox has added sensor types across
// firmware revisions without removing any, so an unrecognized raw value is
// preserved rather than rejected.
type EsfSensorType uint8

const (
	EsfSensorNone                  EsfSensorType = 0
	EsfSensorFrontLeftWheelTicks   EsfSensorType = 5
	EsfSensorFrontRightWheelTicks  EsfSensorType = 6
	EsfSensorRearLeftWheelTicks    EsfSensorType = 7
	EsfSensorRearRightWheelTicks   EsfSensorType = 8
	EsfSensorSpeedTick             EsfSensorType = 9
	EsfSensorGyroTemp              EsfSensorType = 10
	EsfSensorGyroZ                 EsfSensorType = 11
	EsfSensorAccX                  EsfSensorType = 13
	EsfSensorAccY                  EsfSensorType = 14
	EsfSensorAccZ                  EsfSensorType = 15
	EsfSensorGyroX                 EsfSensorType = 16
	EsfSensorGyroY                 EsfSensorType = 17
	EsfSensorSpeed                 EsfSensorType = 18
)

func (t EsfSensorType) String() string {
	switch t {
	case EsfSensorFrontLeftWheelTicks:
		return "FrontLeftWheelTicks"
	case EsfSensorFrontRightWheelTicks:
		return "FrontRightWheelTicks"
	case EsfSensorRearLeftWheelTicks:
		return "RearLeftWheelTicks"
	case EsfSensorRearRightWheelTicks:
		return "RearRightWheelTicks"
	case EsfSensorSpeedTick:
		return "SpeedTick"
	case EsfSensorGyroTemp:
		return "GyroTemp"
	case EsfSensorGyroX:
		return "GyroX"
	case EsfSensorGyroY:
		return "GyroY"
	case EsfSensorGyroZ:
		return "GyroZ"
	case EsfSensorAccX:
		return "AccX"
	case EsfSensorAccY:
		return "AccY"
	case EsfSensorAccZ:
		return "AccZ"
	case EsfSensorSpeed:
		return "Speed"
	default:
		return fmt.Sprintf("Reserved(%d)", uint8(t))
	}
}

// EsfMeasFlags is the UBX-ESF-MEAS flags bitfield. It both carries plain
// flag bits and packs the two integers (numMeas, and implicitly the
// repeated-group length) that the rest of the payload's layout depends on.
type EsfMeasFlags uint16

func (f EsfMeasFlags) TimeMarkSent() uint8  { return uint8(f & 0x2) }
func (f EsfMeasFlags) TimeMarkEdge() bool   { return (f>>2)&1 != 0 }
func (f EsfMeasFlags) CalibTagValid() bool  { return (f>>3)&1 != 0 }
func (f EsfMeasFlags) NumMeas() uint8       { return uint8((f >> 11) & 0x1f) }

// EsfMeasData is one decoded entry of the repeated data group.
type EsfMeasData struct {
	DataType  EsfSensorType
	DataField int32
}

// Direction reports the sign convention of DataField.
func (d EsfMeasData) Direction() int8 {
	if d.DataField < 0 {
		return -1
	}
	return 1
}

const esfMeasDataDirectionBit = 23

func decodeEsfMeasDataEntry(raw uint32) EsfMeasData {
	dataField := int32(raw & 0x7fffff)
	backward := (raw>>esfMeasDataDirectionBit)&1 == 1
	if backward {
		dataField ^= 0x800000
		dataField = -dataField
	}
	return EsfMeasData{DataType: EsfSensorType((raw >> 24) & 0x3f), DataField: dataField}
}

// EsfMeasRef is a borrowed view over a UBX-ESF-MEAS payload.
type EsfMeasRef struct{ payload []byte }

func (r *EsfMeasRef) Class() byte { return esfClass }
func (r *EsfMeasRef) MsgID() byte { return esfMeasID }

func (r *EsfMeasRef) ITOW() uint32 { return binary.LittleEndian.Uint32(r.payload[0:4]) }
func (r *EsfMeasRef) Flags() EsfMeasFlags {
	return EsfMeasFlags(binary.LittleEndian.Uint16(r.payload[4:6]))
}
func (r *EsfMeasRef) ID() uint16 { return binary.LittleEndian.Uint16(r.payload[6:8]) }

func (r *EsfMeasRef) dataLen() int { return int(r.Flags().NumMeas()) * 4 }

func (r *EsfMeasRef) calibTagLen() int {
	if r.Flags().CalibTagValid() {
		return 4
	}
	return 0
}

// Data returns the repeated sensor-measurement group. Its element count is
// entirely determined by Flags().NumMeas() — there is no independent
// length prefix for this group.
func (r *EsfMeasRef) Data() []EsfMeasData {
	raw := r.payload[8 : 8+r.dataLen()]
	out := make([]EsfMeasData, 0, len(raw)/4)
	for i := 0; i+4 <= len(raw); i += 4 {
		out = append(out, decodeEsfMeasDataEntry(binary.LittleEndian.Uint32(raw[i:i+4])))
	}
	return out
}

// CalibTag returns the optional trailing calibration timestamp. Its
// presence is gated entirely by Flags().CalibTagValid() — decoding this
// field is only meaningful, and only possible, once Flags has already
// been decoded.
func (r *EsfMeasRef) CalibTag() (uint32, bool) {
	if !r.Flags().CalibTagValid() {
		return 0, false
	}
	off := 8 + r.dataLen()
	return binary.LittleEndian.Uint32(r.payload[off : off+4]), true
}

func (r *EsfMeasRef) Owned() *EsfMeasOwned {
	calibTag, hasCalibTag := r.CalibTag()
	return &EsfMeasOwned{
		ITOW: r.ITOW(), Flags: r.Flags(), ID: r.ID(),
		Data: r.Data(), CalibTag: calibTag, HasCalibTag: hasCalibTag,
	}
}

// EsfMeasOwned is a detached copy of UBX-ESF-MEAS.
type EsfMeasOwned struct {
	ITOW        uint32
	Flags       EsfMeasFlags
	ID          uint16
	Data        []EsfMeasData
	CalibTag    uint32
	HasCalibTag bool
}

func (o *EsfMeasOwned) Class() byte { return esfClass }
func (o *EsfMeasOwned) MsgID() byte { return esfMeasID }

func decodeEsfMeas(payload []byte) (Packet, error) {
	if len(payload) < esfMeasMinLen {
		return nil, &InvalidPacketLen{Packet: "EsfMeas", Expect: esfMeasMinLen, Got: len(payload)}
	}
	flags := EsfMeasFlags(binary.LittleEndian.Uint16(payload[4:6]))
	want := esfMeasMinLen + int(flags.NumMeas())*4
	if flags.CalibTagValid() {
		want += 4
	}
	if len(payload) != want {
		return nil, &InvalidPacketLen{Packet: "EsfMeas", Expect: want, Got: len(payload)}
	}
	return &EsfMeasRef{payload: payload}, nil
}

func decodeEsfMeasOwned(payload []byte) (Packet, error) {
	p, err := decodeEsfMeas(payload)
	if err != nil {
		return nil, err
	}
	return p.(*EsfMeasRef).Owned(), nil
}

func init() {
	register(esfClass, esfMeasID, "EsfMeas", Since(Proto23), decodeEsfMeas, decodeEsfMeasOwned)
}
