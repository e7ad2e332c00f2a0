package ubx

import "unicode/utf8"

// UBX-MON-VER: receiver/software version report, exercising the
// variable-length repeated-group discipline, validated by re-walking the
// tail of the payload.

const (
	monClass      = 0x0a
	monVerID      = 0x04
	monVerMinLen  = 40 // softwareVersion(30) + hardwareVersion(10)
	monVerExtSize = 30
	monVerMaxLen  = 1240
)

// MonVerRef is a borrowed view over a UBX-MON-VER payload.
type MonVerRef struct{ payload []byte }

func (r *MonVerRef) Class() byte { return monClass }
func (r *MonVerRef) MsgID() byte { return monVerID }

func cstrUnchecked(b []byte) string {
	if i := indexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b)
}

func isCstrValid(b []byte) bool {
	i := indexByte(b, 0)
	if i < 0 {
		return false
	}
	return isValidUTF8(b[:i])
}

func indexByte(b []byte, c byte) int {
	for i, x := range b {
		if x == c {
			return i
		}
	}
	return -1
}

func isValidUTF8(b []byte) bool { return utf8.Valid(b) }

// SoftwareVersion returns the null-terminated software version string, up
// to its first NUL. It does no validation of its own; a MonVerRef obtained
// through MatchPacket has already had the field checked by decodeMonVer.
func (r *MonVerRef) SoftwareVersion() string { return cstrUnchecked(r.payload[0:30]) }
func (r *MonVerRef) HardwareVersion() string { return cstrUnchecked(r.payload[30:40]) }

// Extension returns the trailing, repeated 30-byte extension strings.
func (r *MonVerRef) Extension() []string {
	ext := r.payload[40:]
	n := len(ext) / monVerExtSize
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, cstrUnchecked(ext[i*monVerExtSize:(i+1)*monVerExtSize]))
	}
	return out
}

func (r *MonVerRef) Owned() *MonVerOwned {
	return &MonVerOwned{
		SoftwareVersion: r.SoftwareVersion(),
		HardwareVersion: r.HardwareVersion(),
		Extension:       r.Extension(),
	}
}

// MonVerOwned is a detached copy of UBX-MON-VER.
type MonVerOwned struct {
	SoftwareVersion string
	HardwareVersion string
	Extension       []string
}

func (o *MonVerOwned) Class() byte { return monClass }
func (o *MonVerOwned) MsgID() byte { return monVerID }

// isExtensionValid re-walks the trailing extension area: it must divide
// evenly into 30-byte chunks, and every chunk must itself be a valid
// NUL-terminated C string. This whole-group re-walk, rather than trusting
// the declared payload length alone, is the variable-length-group
// validation rule.
func isExtensionValid(ext []byte) bool {
	if len(ext)%monVerExtSize != 0 {
		return false
	}
	for i := 0; i < len(ext); i += monVerExtSize {
		if !isCstrValid(ext[i : i+monVerExtSize]) {
			return false
		}
	}
	return true
}

func decodeMonVer(payload []byte) (Packet, error) {
	if len(payload) < monVerMinLen || len(payload) > monVerMaxLen {
		return nil, &InvalidPacketLen{Packet: "MonVer", Expect: monVerMinLen, Got: len(payload)}
	}
	if !isCstrValid(payload[0:30]) {
		return nil, &InvalidField{Packet: "MonVer", Field: "softwareVersion"}
	}
	if !isCstrValid(payload[30:40]) {
		return nil, &InvalidField{Packet: "MonVer", Field: "hardwareVersion"}
	}
	if !isExtensionValid(payload[40:]) {
		return nil, &InvalidField{Packet: "MonVer", Field: "extension"}
	}
	return &MonVerRef{payload: payload}, nil
}

func decodeMonVerOwned(payload []byte) (Packet, error) {
	p, err := decodeMonVer(payload)
	if err != nil {
		return nil, err
	}
	return p.(*MonVerRef).Owned(), nil
}

func init() {
	register(monClass, monVerID, "MonVer", AllVersions, decodeMonVer, decodeMonVerOwned)
}
