package ubx

import "testing"

// Fixture bytes reused from the ublox-rs mon_ver_rom_interpret test (a real
// ROM-only receiver's UBX-MON-VER payload).
func monVerROMPayload() []byte {
	return []byte{
		82, 79, 77, 32, 67, 79, 82, 69, 32, 51, 46, 48, 49, 32, 40, 49, 48, 55, 56, 56, 56, 41,
		0, 0, 0, 0, 0, 0, 0, 0, 48, 48, 48, 56, 48, 48, 48, 48, 0, 0, 70, 87, 86, 69, 82, 61,
		83, 80, 71, 32, 51, 46, 48, 49, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 80, 82,
		79, 84, 86, 69, 82, 61, 49, 56, 46, 48, 48, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
		0, 0, 0, 71, 80, 83, 59, 71, 76, 79, 59, 71, 65, 76, 59, 66, 68, 83, 0, 0, 0, 0, 0, 0,
		0, 0, 0, 0, 0, 0, 0, 0, 0, 83, 66, 65, 83, 59, 73, 77, 69, 83, 59, 81, 90, 83, 83, 0,
		0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	}
}

func TestMonVer_ROMFixture(t *testing.T) {
	payload := monVerROMPayload()
	pkt, err := decodeMonVer(payload)
	if err != nil {
		t.Fatalf("decodeMonVer: %v", err)
	}
	ver := pkt.(*MonVerRef)

	if got := ver.SoftwareVersion(); got != "ROM CORE 3.01 (107888)" {
		t.Fatalf("SoftwareVersion = %q", got)
	}
	if got := ver.HardwareVersion(); got != "00080000" {
		t.Fatalf("HardwareVersion = %q", got)
	}
	want := []string{"FWVER=SPG 3.01", "PROTVER=18.00", "GPS;GLO;GAL;BDS", "SBAS;IMES;QZSS"}
	ext := ver.Extension()
	if len(ext) != len(want) {
		t.Fatalf("Extension() has %d entries, want %d: %v", len(ext), len(want), ext)
	}
	for i := range want {
		if ext[i] != want[i] {
			t.Fatalf("Extension()[%d] = %q, want %q", i, ext[i], want[i])
		}
	}
}

func TestMonVer_RejectsTruncatedExtensionGroup(t *testing.T) {
	payload := monVerROMPayload()
	payload = payload[:len(payload)-1] // break the 30-byte chunking invariant
	if _, err := decodeMonVer(payload); err == nil {
		t.Fatal("expected an error for a non-multiple-of-30 extension area")
	}
}
