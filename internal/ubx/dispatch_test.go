package ubx

import "testing"

func TestMatchPacket_UnknownFallback(t *testing.T) {
	pkt, err := MatchPacket(Proto27, 0x99, 0x01, []byte{1, 2, 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	u, ok := pkt.(*Unknown)
	if !ok {
		t.Fatalf("got %T, want *Unknown", pkt)
	}
	if u.Class() != 0x99 || u.MsgID() != 0x01 {
		t.Fatalf("unexpected class/id: %#x/%#x", u.Class(), u.MsgID())
	}
}

func TestMatchPacket_VersionGating(t *testing.T) {
	// EsfMeas is registered Since(Proto23); Proto14 should fall back to Unknown.
	pkt, err := MatchPacket(Proto14, esfClass, esfMeasID, buildEsfMeasPayload(1, []uint32{1}, nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := pkt.(*Unknown); !ok {
		t.Fatalf("got %T, want *Unknown for an out-of-version packet", pkt)
	}

	pkt, err = MatchPacket(Proto27, esfClass, esfMeasID, buildEsfMeasPayload(1, []uint32{1}, nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := pkt.(*EsfMeasRef); !ok {
		t.Fatalf("got %T, want *EsfMeasRef for an in-version packet", pkt)
	}
}

func TestMatchPacketOwned_DetachesPayload(t *testing.T) {
	payload := []byte{0x06, 0x01}
	pkt, err := MatchPacketOwned(Proto27, ackAckClass, ackAckID, payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ack, ok := pkt.(*AckAckOwned)
	if !ok {
		t.Fatalf("got %T, want *AckAckOwned", pkt)
	}
	payload[0] = 0xff
	if ack.ClsID != 0x06 {
		t.Fatalf("owned packet aliased the mutated payload: ClsID=%#x", ack.ClsID)
	}
}
