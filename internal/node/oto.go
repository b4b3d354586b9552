package node

import (
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/llehouerou/pulse/internal/pcm"
)

// The oto context can only be created once per process, so it is shared by
// every Oto node and pinned to the sample rate of the first Start.
var (
	otoMu   sync.Mutex
	otoCtx  *oto.Context
	otoRate int
)

// Oto is a Node rendering through the system audio device via oto. Submitted
// buffers are drained by an io.Reader the device pulls from; a buffer's
// completion fires on the device's read goroutine once its last byte has
// been handed to the device.
type Oto struct {
	mu      sync.Mutex
	player  *oto.Player
	rdr     *renderReader
	rate    int
	started bool
}

var _ Node = (*Oto)(nil)

// NewOto creates an unstarted node.
func NewOto() *Oto {
	return &Oto{rdr: newRenderReader()}
}

// Start brings the output device up at sampleRate. Returns ErrRateMismatch
// if the device is already pinned to a different rate.
func (n *Oto) Start(sampleRate int) error {
	otoMu.Lock()
	if otoCtx == nil {
		ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
			SampleRate:   sampleRate,
			ChannelCount: 2,
			Format:       oto.FormatSignedInt16LE,
		})
		if err != nil {
			otoMu.Unlock()
			return err
		}
		<-ready
		otoCtx = ctx
		otoRate = sampleRate
	}
	rate := otoRate
	otoMu.Unlock()

	if rate != sampleRate {
		return ErrRateMismatch
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	n.rate = rate
	if n.player == nil {
		n.player = otoCtx.NewPlayer(n.rdr)
	}
	n.started = true
	return nil
}

// Play begins (or resumes) pulling from the submitted buffers.
func (n *Oto) Play() {
	n.mu.Lock()
	p := n.player
	n.mu.Unlock()
	if p != nil {
		p.Play()
	}
}

// Pause suspends rendering; queued buffers stay queued.
func (n *Oto) Pause() {
	n.mu.Lock()
	p := n.player
	n.mu.Unlock()
	if p != nil {
		p.Pause()
	}
}

// Halt force-stops rendering and completes everything still queued. The
// device is assumed unusable; nothing is rendered from the flushed buffers.
func (n *Oto) Halt() {
	n.Pause()
	n.rdr.flush()
}

// Stop halts rendering as part of an orderly teardown. Queued buffers are
// completed so the caller's in-flight accounting drains to zero.
func (n *Oto) Stop() {
	n.mu.Lock()
	p := n.player
	n.started = false
	n.mu.Unlock()
	if p != nil {
		p.Pause()
	}
	n.rdr.flush()
}

// Submit queues buf for rendering.
func (n *Oto) Submit(buf *pcm.Buffer, onComplete func()) {
	n.rdr.enqueue(buf, onComplete)
}

// RenderTime returns frames consumed by the device so far.
func (n *Oto) RenderTime() Time { return n.rdr.renderTime() }

// Translate converts a render-clock difference to track time.
func (n *Oto) Translate(t Time) time.Duration {
	n.mu.Lock()
	rate := n.rate
	n.mu.Unlock()
	if rate == 0 {
		return 0
	}
	return time.Duration(int64(t) * int64(time.Second) / int64(rate))
}

// SampleRate returns the device rate, or 0 before the first Start.
func (n *Oto) SampleRate() int {
	otoMu.Lock()
	defer otoMu.Unlock()
	return otoRate
}

// Running reports whether Start has succeeded and Stop has not been called.
func (n *Oto) Running() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.started
}
