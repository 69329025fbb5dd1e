package rustysynth

type numeric interface {
	int32 | float64
}

func clamp[T numeric](v, min, max T) T {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func putPCM(b []byte, left, right uint16) {
	b[0] = byte(left)
	b[1] = byte(left >> 8)
	b[2] = byte(right)
	b[3] = byte(right >> 8)
}
