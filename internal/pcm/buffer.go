// Package pcm holds the decoded-audio buffer type shared between the file
// source (which fills buffers) and the playback node (which drains them).
// Samples use the same representation as beep streamers: interleaved stereo
// float64 pairs in [-1, 1].
package pcm

// Buffer is a fixed-capacity container of decoded stereo frames, reused
// across fill/submit cycles. A Buffer is owned by exactly one component at a
// time: the player fills it, submits it to the node, and must not touch it
// again until the node reports completion.
type Buffer struct {
	samples [][2]float64
	n       int // valid frames
}

// NewBuffer allocates a buffer holding up to capFrames frames.
func NewBuffer(capFrames int) *Buffer {
	if capFrames <= 0 {
		capFrames = 1
	}
	return &Buffer{samples: make([][2]float64, capFrames)}
}

// Cap returns the frame capacity.
func (b *Buffer) Cap() int { return len(b.samples) }

// Len returns the number of valid frames.
func (b *Buffer) Len() int { return b.n }

// SetLen marks the first n frames as valid. n is clamped to [0, Cap].
func (b *Buffer) SetLen(n int) {
	if n < 0 {
		n = 0
	}
	if n > len(b.samples) {
		n = len(b.samples)
	}
	b.n = n
}

// Samples returns the full backing slice. Callers fill it and then SetLen.
func (b *Buffer) Samples() [][2]float64 { return b.samples }

// Frames returns only the valid frames.
func (b *Buffer) Frames() [][2]float64 { return b.samples[:b.n] }
