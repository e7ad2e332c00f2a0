package ubx

import "encoding/binary"

const (
	Sync1 byte = 0xb5
	Sync2 byte = 0x62
)

// MaxPayloadLen bounds PAYLOAD length. 1240 covers the largest packet in
// this repo's corpus (MON-VER) and matches the largest payload size seen
// in practice on u-blox receivers.
const MaxPayloadLen = 1240

// FrameWriter is the emission-side destination for a built frame: a
// destination that can refuse a chunk (returning an error, surfaced to the
// builder as NotEnoughMemory) instead of blocking or growing without bound.
type FrameWriter interface {
	Write(p []byte) (int, error)
}

// MemWriter is a FrameWriter over an in-memory byte region. NewMemWriter
// behaves like a growable slice (never refuses); NewFixedMemWriter behaves
// like a fixed-capacity region (refuses once its backing region is full).
type MemWriter struct {
	buf   []byte
	fixed bool
}

// NewMemWriter returns a growable MemWriter with optional capacity hint.
func NewMemWriter(sizeHint int) *MemWriter {
	return &MemWriter{buf: make([]byte, 0, sizeHint)}
}

// NewFixedMemWriter returns a MemWriter backed by region; once region is
// full, Write refuses further bytes with NotEnoughMemory.
func NewFixedMemWriter(region []byte) *MemWriter {
	return &MemWriter{buf: region[:0], fixed: true}
}

func (m *MemWriter) Write(p []byte) (int, error) {
	if m.fixed && len(m.buf)+len(p) > cap(m.buf) {
		return 0, &NotEnoughMemory{}
	}
	m.buf = append(m.buf, p...)
	return len(p), nil
}

// Bytes returns the bytes written so far.
func (m *MemWriter) Bytes() []byte { return m.buf }

// lengthOffset is the byte offset of the little-endian LEN field within an
// emitted frame: SYNC1, SYNC2, CLASS, ID, then LEN.
const lengthOffset = 4

// WriteFrameHeader writes SYNC1, SYNC2, CLASS, ID, and a zero-valued LEN
// placeholder to w, returning a ChecksumAccum seeded with CLASS and ID,
// since the checksum range starts there. The caller patches the LEN
// placeholder once the payload length is known, via PatchLength.
func WriteFrameHeader(w *MemWriter, class, msgID byte) (ck *ChecksumAccum, err error) {
	ck = &ChecksumAccum{}
	if _, err = w.Write([]byte{Sync1, Sync2, class, msgID, 0, 0}); err != nil {
		return ck, err
	}
	ck.Update([]byte{class, msgID})
	return ck, nil
}

// PatchLength overwrites the LEN placeholder in-place with the actual
// payload byte count and folds the length bytes into ck, matching the
// checksum range [CLASS..PAYLOAD_END).
func PatchLength(w *MemWriter, payloadLen int, ck *ChecksumAccum) {
	var lenBytes [2]byte
	binary.LittleEndian.PutUint16(lenBytes[:], uint16(payloadLen))
	copy(w.buf[lengthOffset:lengthOffset+2], lenBytes[:])
	ck.Update(lenBytes[:])
}

// AppendChecksum appends the two final checksum bytes held in ck,
// completing the frame. It does not fold any bytes into ck itself: the
// caller must already have folded the payload into ck.
func AppendChecksum(w *MemWriter, ck *ChecksumAccum) error {
	ckA, ckB := ck.Sum()
	_, err := w.Write([]byte{ckA, ckB})
	return err
}

// BuildFrame is the common case: given class, id and an already-serialized
// payload, produce the full on-wire frame bytes. Callers needing precise
// control over streaming large repeated groups use
// WriteFrameHeader/PatchLength/AppendChecksum directly.
func BuildFrame(w *MemWriter, class, msgID byte, payload []byte) error {
	ck, err := WriteFrameHeader(w, class, msgID)
	if err != nil {
		return err
	}
	if _, err := w.Write(payload); err != nil {
		return err
	}
	PatchLength(w, len(payload), ck)
	ck.Update(payload)
	return AppendChecksum(w, ck)
}
