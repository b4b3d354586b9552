package pcm

// BytesPerFrame is the on-wire size of one stereo frame as 16-bit LE PCM,
// the format the output device consumes.
const BytesPerFrame = 4

// EncodeLE16 converts frames to interleaved signed 16-bit little-endian PCM,
// appending to dst. Samples are clamped to [-1, 1] before scaling; positive
// full scale maps to 32767 to avoid overflow.
func EncodeLE16(dst []byte, frames [][2]float64) []byte {
	for _, f := range frames {
		l := sampleToInt16(f[0])
		r := sampleToInt16(f[1])
		dst = append(dst,
			byte(l), byte(uint16(l)>>8),
			byte(r), byte(uint16(r)>>8),
		)
	}
	return dst
}

func sampleToInt16(x float64) int16 {
	if x > 1 {
		x = 1
	} else if x < -1 {
		x = -1
	}
	return int16(x * 32767.0)
}
