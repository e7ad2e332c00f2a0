package ubx

import "encoding/binary"

// Parser is a streaming UBX frame delimiter: feed it arbitrary byte chunks
// as they arrive off a serial link or socket and it yields whole,
// checksum-verified frames, carrying any partial frame across calls. It is
// a buffer-owning decoder exposing a callback-free, pull-based iterator
// rather than a push callback.
type Parser struct {
	store   ByteStore
	version ProtocolVersion
}

// NewParser constructs a Parser over store (the residual-byte backing
// store carried between Feed calls) for the given protocol version.
func NewParser(store ByteStore, version ProtocolVersion) *Parser {
	return &Parser{store: store, version: version}
}

// Feed begins an iteration pass over store's residual bytes followed by
// fresh. The returned Iter must be drained to completion (Next until it
// returns a nil Packet and nil error) or explicitly Close'd, since Go has
// no destructor to do this automatically.
func (p *Parser) Feed(fresh []byte) *Iter {
	return &Iter{parser: p, db: NewDualBuffer(p.store, fresh)}
}

// Iter yields successive frames from one Feed call's worth of bytes.
type Iter struct {
	parser *Parser
	db     *DualBuffer
	closed bool
}

// Next returns the next decoded Packet. A (nil, nil) result means the
// buffered bytes so far don't contain another complete frame; Next has
// already committed the remainder back to the parser's residual store, and
// the caller should stop calling Next for this Feed and wait for more data.
// A non-nil error accompanied by a nil Packet is either a resynchronization
// event (InvalidChecksum or OutOfMemory) or a validator error
// (InvalidPacketLen, InvalidField) for a frame that has already been fully
// consumed; in both cases the delimiter has already skipped past the
// offending bytes, and Next may be called again. An oversize length is
// resynchronized silently (drain 2, keep scanning) and never surfaced here;
// InvalidPacketLen is reserved for a registered packet's own validator.
func (it *Iter) Next() (Packet, error) {
	if it.closed {
		return nil, nil
	}
	for {
		if it.db.Len() < 1 {
			return it.commit()
		}
		if it.db.At(0) != Sync1 {
			it.db.Drain(1)
			continue
		}
		if it.db.Len() < 2 {
			return it.commit()
		}
		if it.db.At(1) != Sync2 {
			it.db.Drain(1)
			continue
		}
		if it.db.Len() < 6 {
			return it.commit()
		}
		class := it.db.At(2)
		msgID := it.db.At(3)
		payloadLen := int(it.db.At(4)) | int(it.db.At(5))<<8
		if payloadLen > MaxPayloadLen {
			it.db.Drain(2)
			continue
		}
		if !it.db.CanDrainAndTake(6, payloadLen+2) {
			if it.db.PotentialLostBytes() > 0 {
				it.db.Drain(2)
				return nil, &OutOfMemory{RequiredSize: payloadLen + 2}
			}
			return it.commit()
		}

		trailerA := it.db.At(6 + payloadLen)
		trailerB := it.db.At(6 + payloadLen + 1)

		var ck ChecksumAccum
		ck.Update([]byte{class, msgID})
		var lenBytes [2]byte
		binary.LittleEndian.PutUint16(lenBytes[:], uint16(payloadLen))
		ck.Update(lenBytes[:])
		p1, p2 := it.db.PeekRaw(6, 6+payloadLen)
		ck.Update(p1)
		ck.Update(p2)
		ckA, ckB := ck.Sum()

		if ckA != trailerA || ckB != trailerB {
			it.db.Drain(2)
			return nil, &InvalidChecksum{
				Expect: uint16(trailerA) | uint16(trailerB)<<8,
				Got:    uint16(ckA) | uint16(ckB)<<8,
			}
		}

		it.db.Drain(6)
		payload, err := it.db.Take(payloadLen)
		if err != nil {
			return nil, err
		}
		it.db.Drain(2)

		pkt, err := MatchPacket(it.parser.version, class, msgID, payload)
		if err != nil {
			return nil, err
		}
		return pkt, nil
	}
}

// commit folds the unconsumed tail of this Feed call back into the
// parser's residual store and marks the iterator exhausted.
func (it *Iter) commit() (Packet, error) {
	rest := it.db.UnconsumedFresh()
	it.parser.store.Drain(it.db.Commit())
	it.parser.store.Extend(rest)
	it.closed = true
	return nil, nil
}

// Close commits any unconsumed bytes back to the parser's residual store
// without requiring the caller to drain Next to exhaustion first. Calling
// Next or Close again afterward is a no-op.
func (it *Iter) Close() {
	if it.closed {
		return
	}
	it.commit()
}
