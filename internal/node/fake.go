package node

import (
	"sync"
	"time"

	"github.com/llehouerou/pulse/internal/pcm"
)

// Fake is a test double for Node. Buffers accumulate in FIFO order and are
// completed under test control via CompleteNext/CompleteAll, which fires the
// completion callback the way the real device would, outside any Fake lock,
// so the callback is free to resubmit.
type Fake struct {
	mu       sync.Mutex
	rate     int
	started  bool
	playing  bool
	startErr error
	queue    []renderEntry
	rendered int64 // frames
	submits  int
	halts    int
	stops    int
}

var _ Node = (*Fake)(nil)

// NewFake creates an unstarted fake node.
func NewFake() *Fake {
	return &Fake{}
}

func (f *Fake) Start(sampleRate int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.startErr != nil {
		return f.startErr
	}
	if f.started && f.rate != sampleRate {
		return ErrRateMismatch
	}
	f.rate = sampleRate
	f.started = true
	return nil
}

func (f *Fake) Play() {
	f.mu.Lock()
	f.playing = true
	f.mu.Unlock()
}

func (f *Fake) Pause() {
	f.mu.Lock()
	f.playing = false
	f.mu.Unlock()
}

// Halt completes everything queued without rendering it.
func (f *Fake) Halt() {
	f.mu.Lock()
	f.playing = false
	f.halts++
	f.mu.Unlock()
	f.drain()
}

func (f *Fake) Stop() {
	f.mu.Lock()
	f.playing = false
	f.started = false
	f.stops++
	f.mu.Unlock()
	f.drain()
}

func (f *Fake) Submit(buf *pcm.Buffer, onComplete func()) {
	f.mu.Lock()
	f.queue = append(f.queue, renderEntry{buf: buf, done: onComplete})
	f.submits++
	f.mu.Unlock()
}

func (f *Fake) RenderTime() Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return Time(f.rendered)
}

func (f *Fake) Translate(t Time) time.Duration {
	f.mu.Lock()
	rate := f.rate
	f.mu.Unlock()
	if rate == 0 {
		return 0
	}
	return time.Duration(int64(t) * int64(time.Second) / int64(rate))
}

func (f *Fake) SampleRate() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rate
}

func (f *Fake) Running() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.started
}

func (f *Fake) drain() {
	for {
		f.mu.Lock()
		if len(f.queue) == 0 {
			f.mu.Unlock()
			return
		}
		e := f.queue[0]
		f.queue = f.queue[1:]
		f.mu.Unlock()
		if e.done != nil {
			e.done()
		}
	}
}

// Test helpers

// CompleteNext renders the oldest queued buffer and fires its completion.
// Returns false when nothing is queued.
func (f *Fake) CompleteNext() bool {
	f.mu.Lock()
	if len(f.queue) == 0 {
		f.mu.Unlock()
		return false
	}
	e := f.queue[0]
	f.queue = f.queue[1:]
	f.rendered += int64(e.buf.Len())
	f.mu.Unlock()
	if e.done != nil {
		e.done()
	}
	return true
}

// CompleteAll renders queued buffers until the queue stays empty, including
// buffers resubmitted from inside completion callbacks.
func (f *Fake) CompleteAll() {
	for f.CompleteNext() {
	}
}

// AdvanceFrames moves the render clock without touching the queue.
func (f *Fake) AdvanceFrames(n int64) {
	f.mu.Lock()
	f.rendered += n
	f.mu.Unlock()
}

// SetStartError makes Start fail with err.
func (f *Fake) SetStartError(err error) {
	f.mu.Lock()
	f.startErr = err
	f.mu.Unlock()
}

// Queued returns the number of buffers waiting to render.
func (f *Fake) Queued() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queue)
}

// Submits returns the total number of Submit calls.
func (f *Fake) Submits() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.submits
}

// Halts returns the number of Halt calls.
func (f *Fake) Halts() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.halts
}

// Playing reports whether the node is rendering.
func (f *Fake) Playing() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.playing
}
