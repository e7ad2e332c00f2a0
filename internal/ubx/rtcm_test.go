package ubx

import "testing"

func buildRTCMFrame(payload []byte) []byte {
	frame := make([]byte, 0, 6+len(payload))
	frame = append(frame, RtcmSync)
	lenHdr := uint16(len(payload)) & rtcmLengthMask
	frame = append(frame, byte(lenHdr>>8), byte(lenHdr))
	frame = append(frame, payload...)
	frame = append(frame, 0, 0, 0) // CRC-24Q, unvalidated
	return frame
}

func TestAdaptiveParser_CoFramesUbxAndRtcm(t *testing.T) {
	ubxFrame := buildTestFrame(ackAckClass, ackAckID, []byte{0x06, 0x01})
	rtcmFrame := buildRTCMFrame([]byte{0x11, 0x22, 0x33})

	stream := append(append([]byte{}, rtcmFrame...), ubxFrame...)

	store := NewGrowableBuffer()
	p := NewAdaptiveParser(store, Proto27)
	it := p.Feed(stream)

	var got []AnyPacket
	for {
		pkt, err := it.Next()
		if pkt == nil && err == nil {
			break
		}
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		got = append(got, pkt)
	}

	if len(got) != 2 {
		t.Fatalf("decoded %d frames, want 2", len(got))
	}
	rtcm, ok := got[0].(*RTCMFrame)
	if !ok {
		t.Fatalf("got[0] = %T, want *RTCMFrame", got[0])
	}
	if len(rtcm.Data) != len(rtcmFrame) {
		t.Fatalf("RTCMFrame.Data has %d bytes, want %d", len(rtcm.Data), len(rtcmFrame))
	}
	ubx, ok := got[1].(UbxPacket)
	if !ok {
		t.Fatalf("got[1] = %T, want UbxPacket", got[1])
	}
	if _, ok := ubx.Packet.(*AckAckRef); !ok {
		t.Fatalf("got[1].Packet = %T, want *AckAckRef", ubx.Packet)
	}
}

func TestAdaptiveParser_PartialRtcmWaitsForMoreData(t *testing.T) {
	rtcmFrame := buildRTCMFrame([]byte{0x01, 0x02, 0x03, 0x04})
	store := NewGrowableBuffer()
	p := NewAdaptiveParser(store, Proto27)

	it := p.Feed(rtcmFrame[:5])
	pkt, err := it.Next()
	if pkt != nil || err != nil {
		t.Fatalf("expected no frame from a partial RTCM message, got (%v, %v)", pkt, err)
	}

	it2 := p.Feed(rtcmFrame[5:])
	pkt, err = it2.Next()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := pkt.(*RTCMFrame); !ok {
		t.Fatalf("got %T, want *RTCMFrame", pkt)
	}
}
