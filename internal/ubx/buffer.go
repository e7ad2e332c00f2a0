package ubx

// ByteStore is the buffered-byte-store capability set the parser needs:
// append bytes, drain a consumed prefix, and read at an index. Two
// realizations are provided — GrowableBuffer (heap-backed, accepts any
// length that fits available memory) and FixedBuffer (caller-provided
// region, rejects what does not fit and counts the rejection).
type ByteStore interface {
	Len() int
	Cap() int
	// Extend appends as much of b as the store can accept and returns the
	// number of bytes actually accepted.
	Extend(b []byte) int
	// Drain removes n bytes from the front. n must not exceed Len().
	Drain(n int)
	// At returns the byte at logical offset i. i must be < Len().
	At(i int) byte
	// Slice returns a contiguous view of [lo, hi) without copying. Both
	// realizations here are backed by a flat (non-circular) region, so this
	// is always possible; it is what lets DualBuffer avoid copying when a
	// Take falls entirely on one side of the residual/fresh boundary.
	Slice(lo, hi int) []byte
	// Overflow reports how many bytes have been rejected by Extend since
	// the store was created or last reset to zero. A non-zero overflow
	// counter signals that a frame currently in flight has lost bytes and
	// must be abandoned.
	Overflow() int
}

// compactThreshold and compactRatio gate buffer reclamation: below
// compactThreshold bytes we never bother reclaiming, and above it we only
// reclaim when unread data is a small fraction of backing capacity
// (otherwise we would be copying on almost every Drain).
const (
	compactThreshold = 1024
	compactRatio     = 4
)

// GrowableBuffer is a ByteStore backed by a resizable Go slice. It never
// rejects bytes (Overflow is always 0); memory use is bounded only by what
// the residual prefix plus the largest frame in flight requires, thanks to
// periodic compaction of the drained prefix.
type GrowableBuffer struct {
	buf []byte
}

// NewGrowableBuffer returns an empty GrowableBuffer.
func NewGrowableBuffer() *GrowableBuffer { return &GrowableBuffer{} }

func (g *GrowableBuffer) Len() int { return len(g.buf) }
func (g *GrowableBuffer) Cap() int { return cap(g.buf) }

func (g *GrowableBuffer) Extend(b []byte) int {
	g.buf = append(g.buf, b...)
	g.compact()
	return len(b)
}

func (g *GrowableBuffer) Drain(n int) {
	if n <= 0 {
		return
	}
	if n >= len(g.buf) {
		g.buf = g.buf[:0]
		return
	}
	g.buf = g.buf[n:]
}

func (g *GrowableBuffer) At(i int) byte { return g.buf[i] }

func (g *GrowableBuffer) Slice(lo, hi int) []byte { return g.buf[lo:hi] }

func (g *GrowableBuffer) Overflow() int { return 0 }

// compact reclaims the capacity consumed by an already-drained prefix once
// the buffer has grown large and unread data has shrunk to a small
// fraction of it — avoiding unbounded growth from a long run of garbage
// interleaved with small valid frames, while not copying on every call.
func (g *GrowableBuffer) compact() {
	if len(g.buf) < compactThreshold {
		return
	}
	if cap(g.buf) > 0 && len(g.buf)*compactRatio < cap(g.buf) {
		clone := make([]byte, len(g.buf))
		copy(clone, g.buf)
		g.buf = clone
	}
}

// FixedBuffer is a ByteStore backed by a caller-provided slice. It accepts
// only as many bytes as currently fit; the remainder is counted as
// overflow. Suitable for embedded targets that must not allocate on the
// heap.
type FixedBuffer struct {
	region   []byte
	len      int
	overflow int
}

// NewFixedBuffer wraps region as a zero-length fixed-capacity store.
func NewFixedBuffer(region []byte) *FixedBuffer {
	return &FixedBuffer{region: region}
}

func (f *FixedBuffer) Len() int { return f.len }
func (f *FixedBuffer) Cap() int { return len(f.region) }

func (f *FixedBuffer) Extend(b []byte) int {
	room := len(f.region) - f.len
	n := len(b)
	if n > room {
		f.overflow += n - room
		n = room
	}
	copy(f.region[f.len:f.len+n], b[:n])
	f.len += n
	return n
}

func (f *FixedBuffer) Drain(n int) {
	if n <= 0 {
		return
	}
	if n >= f.len {
		f.len = 0
		f.overflow = 0
		return
	}
	copy(f.region, f.region[n:f.len])
	f.len -= n
}

func (f *FixedBuffer) At(i int) byte { return f.region[i] }

func (f *FixedBuffer) Slice(lo, hi int) []byte { return f.region[lo:hi] }

func (f *FixedBuffer) Overflow() int { return f.overflow }
