package ubx

// DualBuffer gives the parser a single logical view over two regions: the
// residual bytes left over from a previous Feed, and the bytes freshly
// passed to the current Feed call. Indexing reads across the boundary
// transparently; Take only copies when the requested window straddles it.
// residual ++ fresh forms one logical sequence, and head is the count of
// bytes logically consumed from the front of that sequence so far.
type DualBuffer struct {
	residual ByteStore
	fresh    []byte
	head     int
}

// NewDualBuffer constructs a view over residual (already-buffered bytes)
// and fresh (bytes supplied to this Feed call).
func NewDualBuffer(residual ByteStore, fresh []byte) *DualBuffer {
	return &DualBuffer{residual: residual, fresh: fresh}
}

// Len returns the number of unconsumed bytes remaining in the logical view.
func (d *DualBuffer) Len() int {
	total := d.residual.Len() + len(d.fresh)
	if d.head >= total {
		return 0
	}
	return total - d.head
}

func (d *DualBuffer) residualAvail() int {
	if d.head >= d.residual.Len() {
		return 0
	}
	return d.residual.Len() - d.head
}

func (d *DualBuffer) freshOffset() int {
	if d.head <= d.residual.Len() {
		return 0
	}
	return d.head - d.residual.Len()
}

// At returns the byte at logical offset i (0 is the next unconsumed byte).
func (d *DualBuffer) At(i int) byte {
	idx := d.head + i
	if idx < d.residual.Len() {
		return d.residual.At(idx)
	}
	return d.fresh[idx-d.residual.Len()]
}

// PeekRaw returns the bytes in logical range [lo, hi) as zero, one, or two
// contiguous pieces, without copying or advancing head.
func (d *DualBuffer) PeekRaw(lo, hi int) ([]byte, []byte) {
	if hi <= lo {
		return nil, nil
	}
	absLo, absHi := d.head+lo, d.head+hi
	resLen := d.residual.Len()
	switch {
	case absHi <= resLen:
		return d.residual.Slice(absLo, absHi), nil
	case absLo >= resLen:
		return d.fresh[absLo-resLen : absHi-resLen], nil
	default:
		return d.residual.Slice(absLo, resLen), d.fresh[0 : absHi-resLen]
	}
}

// CanDrainAndTake reports whether at least drain+take bytes remain.
func (d *DualBuffer) CanDrainAndTake(drain, take int) bool {
	return d.Len() >= drain+take
}

// Drain advances the logical head by n without materializing anything.
func (d *DualBuffer) Drain(n int) { d.head += n }

// Take returns a contiguous slice of the next n bytes and advances head by
// n. It borrows directly from residual or fresh when the window falls
// entirely on one side of the boundary; it copies only when the window
// straddles both.
func (d *DualBuffer) Take(n int) ([]byte, error) {
	if n > d.Len() {
		return nil, &OutOfMemory{RequiredSize: n}
	}
	resAvail := d.residualAvail()
	var out []byte
	switch {
	case resAvail == 0:
		fo := d.freshOffset()
		out = d.fresh[fo : fo+n]
	case n <= resAvail:
		out = d.residual.Slice(d.head, d.head+n)
	default:
		out = make([]byte, n)
		copy(out, d.residual.Slice(d.head, d.head+resAvail))
		copy(out[resAvail:], d.fresh[0:n-resAvail])
	}
	d.head += n
	return out, nil
}

// PotentialLostBytes mirrors the residual store's overflow counter: a
// non-zero value means the fixed-capacity backing store has already
// rejected bytes that belonged to the frame currently being assembled.
func (d *DualBuffer) PotentialLostBytes() int { return d.residual.Overflow() }

// Commit returns how many bytes of the *original* residual store have been
// logically consumed (capped at the residual's length) — the amount the
// caller should Drain from the residual store once the iteration ends, so
// that unconsumed fresh bytes become the new residual on the next Feed.
func (d *DualBuffer) Commit() int {
	if d.head > d.residual.Len() {
		return d.residual.Len()
	}
	return d.head
}

// UnconsumedFresh returns the portion of fresh that was never folded into
// residual, i.e. what the caller must append to residual after draining
// Commit() bytes from it. It measures against the residual's current
// length, so it must be called before that drain.
func (d *DualBuffer) UnconsumedFresh() []byte {
	fo := d.freshOffset()
	if fo >= len(d.fresh) {
		return nil
	}
	return d.fresh[fo:]
}
