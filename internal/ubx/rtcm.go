package ubx

// RtcmSync is the RTCM3 frame preamble byte.
const RtcmSync byte = 0xd3

// rtcmLengthMask isolates the 10-bit payload length from the two
// big-endian bytes following RtcmSync (the top 6 bits are reserved/zero).
const rtcmLengthMask = 0x03ff

// RTCMFrame is a framing-only view of an RTCM3 message: the CRC-24Q
// trailer is located and carried along but never validated, since this
// repo only needs to delimit RTCM traffic sharing a stream with UBX, not
// decode it — the frame bytes are kept as-is for forwarding to a real
// RTCM decoder.
type RTCMFrame struct {
	// Data holds the full on-wire frame: sync byte, 2-byte length header,
	// payload, and 3-byte CRC-24Q trailer.
	Data []byte
}

// AnyPacket is implemented by every value an AdaptiveIter can yield: a
// decoded UBX Packet or a delimited RTCMFrame.
type AnyPacket interface {
	anyPacket()
}

// UbxPacket adapts a UBX Packet to satisfy AnyPacket.
type UbxPacket struct {
	Packet
}

func (UbxPacket) anyPacket()  {}
func (*RTCMFrame) anyPacket() {}

// AdaptiveParser co-delimits UBX and RTCM3 frames sharing one byte
// stream, switching discipline on whichever sync byte appears first.
type AdaptiveParser struct {
	store   ByteStore
	version ProtocolVersion
}

// NewAdaptiveParser constructs an AdaptiveParser over store.
func NewAdaptiveParser(store ByteStore, version ProtocolVersion) *AdaptiveParser {
	return &AdaptiveParser{store: store, version: version}
}

// Feed begins an adaptive iteration pass, analogous to Parser.Feed.
func (p *AdaptiveParser) Feed(fresh []byte) *AdaptiveIter {
	return &AdaptiveIter{parser: p, db: NewDualBuffer(p.store, fresh)}
}

// AdaptiveIter yields successive UBX or RTCM frames from one Feed call.
type AdaptiveIter struct {
	parser *AdaptiveParser
	db     *DualBuffer
	closed bool
}

// nextSyncKind identifies which sync byte, if either, appears first in the
// buffered bytes.
type nextSyncKind int

const (
	syncNone nextSyncKind = iota
	syncUbx
	syncRtcm
)

func (it *AdaptiveIter) findSync() (nextSyncKind, int) {
	n := it.db.Len()
	for i := 0; i < n; i++ {
		switch it.db.At(i) {
		case Sync1:
			return syncUbx, i
		case RtcmSync:
			return syncRtcm, i
		}
	}
	return syncNone, 0
}

// Next returns the next delimited frame. Semantics mirror Iter.Next: a
// (nil, nil) result means the caller should stop and wait for more data
// (the remainder has already been committed), and a non-nil error
// accompanied by a nil packet is a resynchronization event after which
// Next may be called again.
func (it *AdaptiveIter) Next() (AnyPacket, error) {
	if it.closed {
		return nil, nil
	}
	for it.db.Len() > 0 {
		kind, pos := it.findSync()
		switch kind {
		case syncNone:
			it.db.Drain(it.db.Len())
			return it.commit()
		case syncUbx:
			it.db.Drain(pos)
			pkt, err, done := it.nextUbx()
			if done {
				return it.commit()
			}
			if err != nil {
				return nil, err
			}
			if pkt != nil {
				return UbxPacket{pkt}, nil
			}
			continue
		case syncRtcm:
			it.db.Drain(pos)
			return it.nextRtcm()
		}
	}
	return it.commit()
}

func (it *AdaptiveIter) nextUbx() (pkt Packet, err error, needMore bool) {
	if it.db.Len() < 2 {
		return nil, nil, true
	}
	if it.db.At(1) != Sync2 {
		it.db.Drain(1)
		return nil, nil, false
	}
	if it.db.Len() < 6 {
		return nil, nil, true
	}
	class := it.db.At(2)
	msgID := it.db.At(3)
	payloadLen := int(it.db.At(4)) | int(it.db.At(5))<<8
	if payloadLen > MaxPayloadLen {
		it.db.Drain(2)
		return nil, nil, false
	}
	if !it.db.CanDrainAndTake(6, payloadLen+2) {
		if it.db.PotentialLostBytes() > 0 {
			it.db.Drain(2)
			return nil, &OutOfMemory{RequiredSize: payloadLen + 2}, false
		}
		return nil, nil, true
	}

	trailerA := it.db.At(6 + payloadLen)
	trailerB := it.db.At(6 + payloadLen + 1)

	var ck ChecksumAccum
	ck.Update([]byte{class, msgID, byte(payloadLen), byte(payloadLen >> 8)})
	p1, p2 := it.db.PeekRaw(6, 6+payloadLen)
	ck.Update(p1)
	ck.Update(p2)
	ckA, ckB := ck.Sum()
	if ckA != trailerA || ckB != trailerB {
		it.db.Drain(2)
		return nil, &InvalidChecksum{
			Expect: uint16(trailerA) | uint16(trailerB)<<8,
			Got:    uint16(ckA) | uint16(ckB)<<8,
		}, false
	}

	it.db.Drain(6)
	payload, takeErr := it.db.Take(payloadLen)
	if takeErr != nil {
		return nil, takeErr, false
	}
	it.db.Drain(2)

	p, decErr := MatchPacket(it.parser.version, class, msgID, payload)
	if decErr != nil {
		return nil, decErr, false
	}
	return p, nil, false
}

func (it *AdaptiveIter) nextRtcm() (AnyPacket, error) {
	if it.db.Len() < 3 {
		return it.commit()
	}
	payloadLen := (int(it.db.At(1))<<8 | int(it.db.At(2))) & rtcmLengthMask
	total := payloadLen + 6 // sync(1) + length header(2) + payload + CRC-24Q(3)

	if !it.db.CanDrainAndTake(0, total) {
		if it.db.PotentialLostBytes() > 0 {
			it.db.Drain(2)
			return nil, &OutOfMemory{RequiredSize: payloadLen + 3}
		}
		return it.commit()
	}

	frame, err := it.db.Take(total)
	if err != nil {
		return nil, err
	}
	return &RTCMFrame{Data: frame}, nil
}

func (it *AdaptiveIter) commit() (AnyPacket, error) {
	rest := it.db.UnconsumedFresh()
	it.parser.store.Drain(it.db.Commit())
	it.parser.store.Extend(rest)
	it.closed = true
	return nil, nil
}

// Close commits any unconsumed bytes back to the parser's residual store
// without requiring the caller to drain Next to exhaustion first.
func (it *AdaptiveIter) Close() {
	if it.closed {
		return
	}
	it.commit()
}
