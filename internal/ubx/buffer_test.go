package ubx

import "testing"

func TestGrowableBuffer_ExtendDrainAt(t *testing.T) {
	g := NewGrowableBuffer()
	g.Extend([]byte{1, 2, 3, 4, 5})
	if g.Len() != 5 {
		t.Fatalf("Len() = %d, want 5", g.Len())
	}
	g.Drain(2)
	if g.Len() != 3 || g.At(0) != 3 {
		t.Fatalf("after Drain(2): Len()=%d At(0)=%d", g.Len(), g.At(0))
	}
	if g.Overflow() != 0 {
		t.Fatalf("GrowableBuffer should never overflow, got %d", g.Overflow())
	}
}

func TestFixedBuffer_OverflowsWhenFull(t *testing.T) {
	region := make([]byte, 4)
	f := NewFixedBuffer(region)
	n := f.Extend([]byte{1, 2, 3, 4, 5, 6})
	if n != 4 {
		t.Fatalf("Extend accepted %d bytes, want 4", n)
	}
	if f.Overflow() != 2 {
		t.Fatalf("Overflow() = %d, want 2", f.Overflow())
	}
	f.Drain(4)
	if f.Overflow() != 0 {
		t.Fatalf("Overflow() should reset once the store empties, got %d", f.Overflow())
	}
}

func TestDualBuffer_TakeAcrossBoundary(t *testing.T) {
	residual := NewGrowableBuffer()
	residual.Extend([]byte{0xaa, 0xbb, 0xcc})
	fresh := []byte{0xdd, 0xee, 0xff}

	db := NewDualBuffer(residual, fresh)
	if db.Len() != 6 {
		t.Fatalf("Len() = %d, want 6", db.Len())
	}
	got, err := db.Take(4) // straddles residual/fresh boundary
	if err != nil {
		t.Fatalf("Take: %v", err)
	}
	want := []byte{0xaa, 0xbb, 0xcc, 0xdd}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Take(4) = % x, want % x", got, want)
		}
	}
	if db.Len() != 2 {
		t.Fatalf("Len() after Take(4) = %d, want 2", db.Len())
	}
}

func TestDualBuffer_CommitAndUnconsumedFresh(t *testing.T) {
	residual := NewGrowableBuffer()
	residual.Extend([]byte{1, 2})
	fresh := []byte{3, 4, 5}

	db := NewDualBuffer(residual, fresh)
	db.Drain(3) // consumes both residual bytes and one fresh byte

	if c := db.Commit(); c != 2 {
		t.Fatalf("Commit() = %d, want 2", c)
	}
	rest := db.UnconsumedFresh()
	if len(rest) != 2 || rest[0] != 4 || rest[1] != 5 {
		t.Fatalf("UnconsumedFresh() = % x, want [4 5]", rest)
	}
}
