package ubx

// UBX-ACK-ACK and UBX-ACK-NAK: the receiver's acknowledgement of a
// previously sent configuration or command message, each a 2-byte payload
// naming the class/id being acknowledged.

const (
	ackNakClass = 0x05
	ackNakID    = 0x00
	ackAckClass = 0x05
	ackAckID    = 0x01
)

// AckAckRef is a borrowed view over a UBX-ACK-ACK payload.
type AckAckRef struct{ payload []byte }

func (r *AckAckRef) Class() byte { return ackAckClass }
func (r *AckAckRef) MsgID() byte { return ackAckID }

// ClsID is the class of the message being acknowledged.
func (r *AckAckRef) ClsID() byte { return r.payload[0] }

// AckedMsgID is the id of the message being acknowledged.
func (r *AckAckRef) AckedMsgID() byte { return r.payload[1] }

// Owned returns a detached copy.
func (r *AckAckRef) Owned() *AckAckOwned {
	return &AckAckOwned{ClsID: r.ClsID(), AckedMsgID: r.AckedMsgID()}
}

// AckAckOwned is a detached copy of UBX-ACK-ACK.
type AckAckOwned struct {
	ClsID      byte
	AckedMsgID byte
}

func (o *AckAckOwned) Class() byte { return ackAckClass }
func (o *AckAckOwned) MsgID() byte { return ackAckID }

// BuildAckAck serializes a UBX-ACK-ACK frame acknowledging (clsID, msgID).
func BuildAckAck(clsID, msgID byte) []byte {
	w := NewMemWriter(10)
	_ = BuildFrame(w, ackAckClass, ackAckID, []byte{clsID, msgID})
	return w.Bytes()
}

func validateAckLen(name string, payload []byte) error {
	if len(payload) != 2 {
		return &InvalidPacketLen{Packet: name, Expect: 2, Got: len(payload)}
	}
	return nil
}

func decodeAckAck(payload []byte) (Packet, error) {
	if err := validateAckLen("AckAck", payload); err != nil {
		return nil, err
	}
	return &AckAckRef{payload: payload}, nil
}

func decodeAckAckOwned(payload []byte) (Packet, error) {
	p, err := decodeAckAck(payload)
	if err != nil {
		return nil, err
	}
	return p.(*AckAckRef).Owned(), nil
}

// AckNakRef is a borrowed view over a UBX-ACK-NAK payload.
type AckNakRef struct{ payload []byte }

func (r *AckNakRef) Class() byte      { return ackNakClass }
func (r *AckNakRef) MsgID() byte      { return ackNakID }
func (r *AckNakRef) ClsID() byte      { return r.payload[0] }
func (r *AckNakRef) AckedMsgID() byte { return r.payload[1] }

func (r *AckNakRef) Owned() *AckNakOwned {
	return &AckNakOwned{ClsID: r.ClsID(), AckedMsgID: r.AckedMsgID()}
}

// AckNakOwned is a detached copy of UBX-ACK-NAK.
type AckNakOwned struct {
	ClsID      byte
	AckedMsgID byte
}

func (o *AckNakOwned) Class() byte { return ackNakClass }
func (o *AckNakOwned) MsgID() byte { return ackNakID }

func decodeAckNak(payload []byte) (Packet, error) {
	if err := validateAckLen("AckNak", payload); err != nil {
		return nil, err
	}
	return &AckNakRef{payload: payload}, nil
}

func decodeAckNakOwned(payload []byte) (Packet, error) {
	p, err := decodeAckNak(payload)
	if err != nil {
		return nil, err
	}
	return p.(*AckNakRef).Owned(), nil
}

func init() {
	register(ackAckClass, ackAckID, "AckAck", AllVersions, decodeAckAck, decodeAckAckOwned)
	register(ackNakClass, ackNakID, "AckNak", AllVersions, decodeAckNak, decodeAckNakOwned)
}
