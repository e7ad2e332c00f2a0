package ubx

import (
	"encoding/binary"
	"testing"
)

func buildEsfMeasPayload(itow uint32, entries []uint32, calibTag *uint32) []byte {
	flags := uint16(len(entries)&0x1f) << 11
	if calibTag != nil {
		flags |= 1 << 3
	}
	payload := make([]byte, 8+len(entries)*4)
	binary.LittleEndian.PutUint32(payload[0:4], itow)
	binary.LittleEndian.PutUint16(payload[4:6], flags)
	binary.LittleEndian.PutUint16(payload[6:8], 0x1234)
	for i, e := range entries {
		binary.LittleEndian.PutUint32(payload[8+i*4:12+i*4], e)
	}
	if calibTag != nil {
		tail := make([]byte, 4)
		binary.LittleEndian.PutUint32(tail, *calibTag)
		payload = append(payload, tail...)
	}
	return payload
}

func TestEsfMeas_RepeatedGroupAndCalibTag(t *testing.T) {
	tag := uint32(99)
	entries := []uint32{
		(uint32(EsfSensorGyroX) << 24) | 100,
		(uint32(EsfSensorAccX) << 24) | 200,
	}
	payload := buildEsfMeasPayload(555, entries, &tag)

	pkt, err := decodeEsfMeas(payload)
	if err != nil {
		t.Fatalf("decodeEsfMeas: %v", err)
	}
	meas := pkt.(*EsfMeasRef)

	if meas.ITOW() != 555 {
		t.Fatalf("ITOW = %d", meas.ITOW())
	}
	data := meas.Data()
	if len(data) != 2 {
		t.Fatalf("Data() has %d entries, want 2", len(data))
	}
	if data[0].DataType != EsfSensorGyroX || data[0].DataField != 100 {
		t.Fatalf("data[0] = %+v", data[0])
	}
	if data[1].DataType != EsfSensorAccX || data[1].DataField != 200 {
		t.Fatalf("data[1] = %+v", data[1])
	}

	got, ok := meas.CalibTag()
	if !ok || got != tag {
		t.Fatalf("CalibTag() = (%d, %v), want (%d, true)", got, ok, tag)
	}
}

func TestEsfMeas_NoCalibTagWhenFlagUnset(t *testing.T) {
	payload := buildEsfMeasPayload(1, []uint32{42}, nil)
	pkt, err := decodeEsfMeas(payload)
	if err != nil {
		t.Fatalf("decodeEsfMeas: %v", err)
	}
	meas := pkt.(*EsfMeasRef)
	if _, ok := meas.CalibTag(); ok {
		t.Fatal("expected CalibTag to report absent when calibTagValid is unset")
	}
}

func TestEsfMeas_NegativeDataFieldDecoding(t *testing.T) {
	// direction bit set (bit 23) plus a small magnitude: decodes as negative.
	raw := uint32(1<<esfMeasDataDirectionBit) | 5
	d := decodeEsfMeasDataEntry(raw)
	if d.DataField >= 0 {
		t.Fatalf("DataField = %d, want negative", d.DataField)
	}
	if d.Direction() != -1 {
		t.Fatalf("Direction() = %d, want -1", d.Direction())
	}
}

func TestEsfMeas_RejectsLengthMismatchingNumMeas(t *testing.T) {
	payload := buildEsfMeasPayload(1, []uint32{1, 2, 3}, nil)
	payload = payload[:len(payload)-4] // claim 3 entries but supply 2
	if _, err := decodeEsfMeas(payload); err == nil {
		t.Fatal("expected InvalidPacketLen when numMeas does not match payload size")
	}
}
