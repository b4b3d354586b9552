package player

import (
	"github.com/llehouerou/pulse/internal/pcm"
)

// The buffer pipeline keeps maxInFlight buffers continuously filled and
// submitted so the node never starves, without ever over-submitting: a
// buffer is only resubmitted from inside its own completion path, so the
// same buffer object is never in flight twice.

// initBuffersLocked allocates (once) and primes the pipeline, returning how
// many buffers were submitted. Zero means the source yielded nothing at the
// current cursor.
func (p *Player) initBuffersLocked() int {
	if p.buffers == nil {
		p.buffers = make([]*pcm.Buffer, p.maxInFlight)
		for i := range p.buffers {
			p.buffers[i] = pcm.NewBuffer(p.bufferFrames)
		}
	}

	submitted := 0
	for _, buf := range p.buffers {
		if !p.fillAndSubmitLocked(buf) {
			break
		}
		submitted++
	}
	return submitted
}

// fillAndSubmitLocked reads the next chunk from the source into buf and
// submits it to the node. A zero-frame read means end of track and returns
// false without touching the in-flight count; this is the only EOF signal
// the pipeline has. Read errors are logged and treated as a short read.
func (p *Player) fillAndSubmitLocked(buf *pcm.Buffer) bool {
	n, err := p.src.ReadNext(buf)
	if err != nil {
		p.log.Warn("buffer read failed, treating as end of stream", "err", err)
	}
	if n == 0 {
		return false
	}

	p.inflight++
	p.node.Submit(buf, func() { p.onBufferComplete(buf) })
	return true
}

// onBufferComplete is the node's completion callback. It arrives on the
// node's render goroutine and is serialized through the player lock. While
// playing it keeps the pipeline full by refilling the completed buffer; when
// the refill yields nothing and this was the last buffer in flight, the
// track is exhausted and the player stops with a completion event. Outside
// Playing it only drains the in-flight accounting; a stop that races with
// a completion simply prevents resubmission.
func (p *Player) onBufferComplete(buf *pcm.Buffer) {
	p.mu.Lock()
	p.inflight--

	finished := false
	completed := false
	if p.state == Playing {
		if p.fillAndSubmitLocked(buf) {
			p.mu.Unlock()
			return
		}
		if p.inflight == 0 {
			// Last buffer rendered and the source is exhausted.
			completed = p.progressLocked() >= 1.0
			finished = true
			p.state = Stopped
			p.interrupted = false
			p.seekFrame = seekHead
		}
	}
	if p.inflight == 0 {
		p.closeDrainedLocked()
	}
	p.mu.Unlock()

	if finished {
		p.notify(func(d Delegate) { d.PlaybackStopped(completed) })
	}
}

// closeDrainedLocked signals waiters that no buffers remain in flight.
// Closing an already-closed channel panics, so check first (same pattern as
// the drain signal in Stop).
func (p *Player) closeDrainedLocked() {
	if p.drained == nil {
		return
	}
	select {
	case <-p.drained:
		// Already closed
	default:
		close(p.drained)
	}
}
