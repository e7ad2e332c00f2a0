package ubx

import "math"

// Numeric scaling is read as `scaled = raw * scale` and written as
// `raw = round(scaled / scale)`, rounding to nearest and saturating to the
// raw type's representable range on overflow.

func scaleReadI32(raw int32, scale float64) float64 { return float64(raw) * scale }
func scaleReadU32(raw uint32, scale float64) float64 { return float64(raw) * scale }
func scaleReadI16(raw int16, scale float64) float32 { return float32(float64(raw) * scale) }
func scaleReadU16(raw uint16, scale float64) float32 { return float32(float64(raw) * scale) }
func scaleReadU8(raw uint8, scale float64) float32  { return float32(float64(raw) * scale) }

func scaleWriteI32(v float64, scale float64) int32 {
	x := math.Round(v / scale)
	if x > math.MaxInt32 {
		return math.MaxInt32
	}
	if x < math.MinInt32 {
		return math.MinInt32
	}
	return int32(x)
}

func scaleWriteU32(v float64, scale float64) uint32 {
	x := math.Round(v / scale)
	if x > math.MaxUint32 {
		return math.MaxUint32
	}
	if x < 0 {
		return 0
	}
	return uint32(x)
}

func scaleWriteU16(v float32, scale float64) uint16 {
	x := math.Round(float64(v) / scale)
	if x > math.MaxUint16 {
		return math.MaxUint16
	}
	if x < 0 {
		return 0
	}
	return uint16(x)
}

func scaleWriteU8(v float32, scale float64) uint8 {
	x := math.Round(float64(v) / scale)
	if x > math.MaxUint8 {
		return math.MaxUint8
	}
	if x < 0 {
		return 0
	}
	return uint8(x)
}
