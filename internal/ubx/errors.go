package ubx

import "fmt"

// InvalidChecksum is yielded by the frame delimiter when a frame's trailing
// two bytes do not match the Fletcher-8 checksum computed over its
// [CLASS..PAYLOAD_END) range. Only the sync pair has been drained; parsing
// resumes at the next byte after it.
type InvalidChecksum struct {
	Expect uint16
	Got    uint16
}

func (e *InvalidChecksum) Error() string {
	return fmt.Sprintf("ubx: invalid checksum: expect %#04x, got %#04x", e.Expect, e.Got)
}

// InvalidPacketLen is yielded by a packet validator when a fixed-length
// packet's payload does not match exactly, or a max-length packet's payload
// exceeds the declared maximum.
type InvalidPacketLen struct {
	Packet string
	Expect int
	Got    int
}

func (e *InvalidPacketLen) Error() string {
	return fmt.Sprintf("ubx: invalid packet length for %s: expect %d, got %d", e.Packet, e.Expect, e.Got)
}

// InvalidField is yielded by a packet validator when a field's IsValid
// predicate rejects the byte pattern found at its offset.
type InvalidField struct {
	Packet string
	Field  string
}

func (e *InvalidField) Error() string {
	return fmt.Sprintf("ubx: invalid field %s of packet %s", e.Field, e.Packet)
}

// OutOfMemory is yielded when a fixed-capacity buffer could not hold an
// in-flight frame; the frame is abandoned and parsing resumes after the sync
// pair.
type OutOfMemory struct {
	RequiredSize int
}

func (e *OutOfMemory) Error() string {
	return fmt.Sprintf("ubx: out of memory: required %d bytes", e.RequiredSize)
}

// NotEnoughMemory is returned by builder emission when the destination
// FrameWriter refuses to accept a chunk of bytes.
type NotEnoughMemory struct {
	Cause error
}

func (e *NotEnoughMemory) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("ubx: not enough memory: %v", e.Cause)
	}
	return "ubx: not enough memory"
}

func (e *NotEnoughMemory) Unwrap() error { return e.Cause }
