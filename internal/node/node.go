// Package node abstracts the hardware-backed playback output. A node accepts
// pre-filled buffers, renders them in FIFO submission order, and invokes a
// completion callback per buffer once rendered. Callbacks arrive on the
// node's own render goroutine; callers must do their own serialization and
// must not call back into the node while holding the lock their completion
// handler takes.
package node

import (
	"errors"
	"time"

	"github.com/llehouerou/pulse/internal/pcm"
)

// ErrRateMismatch is returned by Start when the output device is already
// running at a different sample rate. The caller can resample its source to
// SampleRate and retry.
var ErrRateMismatch = errors.New("node: output already running at a different sample rate")

// Time is an opaque render-clock timestamp: frames consumed by the output
// since the node was created. Subtract two values and Translate the
// difference to get elapsed track time.
type Time int64

// Node is a playback output.
//
// Submit queues a buffer for rendering; onComplete fires exactly once, after
// the buffer has been fully consumed, in submission order. Halt force-stops
// rendering and completes everything still queued (used when the audio
// device is taken away); Stop does the same as part of an orderly teardown.
type Node interface {
	Start(sampleRate int) error
	Play()
	Pause()
	Halt()
	Stop()
	Submit(buf *pcm.Buffer, onComplete func())
	RenderTime() Time
	Translate(t Time) time.Duration
	SampleRate() int
	Running() bool
}
