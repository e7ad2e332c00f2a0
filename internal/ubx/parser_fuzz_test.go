package ubx

import "testing"

// FuzzParserFeed ensures arbitrary byte streams never panic the delimiter,
// whatever garbage, partial frames, or malformed lengths they contain.
func FuzzParserFeed(f *testing.F) {
	f.Add(buildTestFrame(navClass, navPosECEFID, navPosECEFPayload(1, 2, 3, 4, 5)))
	f.Add([]byte{Sync1, Sync2, 0xff, 0xff, 0xff, 0xff})
	f.Add([]byte{Sync1})
	f.Add([]byte{})

	f.Fuzz(func(t *testing.T, data []byte) {
		p := NewParser(NewGrowableBuffer(), Proto27)
		it := p.Feed(data)
		for i := 0; i < 10000; i++ {
			pkt, err := it.Next()
			if pkt == nil && err == nil {
				break
			}
		}
	})
}
