package ubx

// Checksum computes the UBX 8-bit Fletcher checksum over b.
//
// The computation range supplied by callers is always [CLASS..PAYLOAD_END),
// i.e. class, id, the two length bytes, and the payload — never the sync
// bytes or the checksum bytes themselves.
func Checksum(b []byte) (ckA, ckB byte) {
	var a, b2 byte
	for _, x := range b {
		a += x
		b2 += a
	}
	return a, b2
}

// ChecksumAccum accumulates a Fletcher-8 checksum incrementally across
// multiple calls to Update, so a builder can compute it while emitting a
// frame instead of buffering the whole payload first.
type ChecksumAccum struct {
	ckA, ckB byte
}

// Update folds additional bytes into the running checksum.
func (c *ChecksumAccum) Update(b []byte) {
	a, b2 := c.ckA, c.ckB
	for _, x := range b {
		a += x
		b2 += a
	}
	c.ckA, c.ckB = a, b2
}

// Sum returns the final two checksum bytes.
func (c *ChecksumAccum) Sum() (ckA, ckB byte) { return c.ckA, c.ckB }
