package node

import (
	"sync"

	"github.com/llehouerou/pulse/internal/pcm"
)

type renderEntry struct {
	buf  *pcm.Buffer
	done func()
}

// renderReader is the io.Reader the output device pulls PCM bytes from. It
// drains submitted buffers in FIFO order, encoding stereo float frames to
// 16-bit LE on the way out, and fires each buffer's completion callback once
// its last byte has been delivered. Callbacks run outside the reader's lock
// so a callback may re-enter enqueue.
type renderReader struct {
	mu      sync.Mutex
	queue   []renderEntry
	head    *renderEntry
	pending []byte // encoded bytes of head not yet delivered
	scratch []byte
	bytes   int64 // total bytes delivered
}

func newRenderReader() *renderReader {
	return &renderReader{}
}

func (r *renderReader) enqueue(buf *pcm.Buffer, done func()) {
	r.mu.Lock()
	r.queue = append(r.queue, renderEntry{buf: buf, done: done})
	r.mu.Unlock()
}

// Read implements io.Reader for the output device. Returning (0, nil) when
// no buffers are queued makes the device render silence and poll again.
func (r *renderReader) Read(p []byte) (int, error) {
	var completed []func()

	r.mu.Lock()
	n := 0
	for n < len(p) {
		if len(r.pending) == 0 {
			if r.head != nil {
				completed = append(completed, r.head.done)
				r.head = nil
			}
			if len(r.queue) == 0 {
				break
			}
			e := r.queue[0]
			r.queue = r.queue[1:]
			r.scratch = pcm.EncodeLE16(r.scratch[:0], e.buf.Frames())
			r.pending = r.scratch
			r.head = &e
		}
		c := copy(p[n:], r.pending)
		r.pending = r.pending[c:]
		n += c
	}
	// Head fully delivered in this read: complete it now rather than on the
	// next poll, so the final buffer of a track does not linger.
	if r.head != nil && len(r.pending) == 0 {
		completed = append(completed, r.head.done)
		r.head = nil
	}
	r.bytes += int64(n)
	r.mu.Unlock()

	for _, done := range completed {
		if done != nil {
			done()
		}
	}
	return n, nil
}

// flush completes every queued buffer without rendering it.
func (r *renderReader) flush() {
	r.mu.Lock()
	var completed []func()
	if r.head != nil {
		completed = append(completed, r.head.done)
		r.head = nil
	}
	for _, e := range r.queue {
		completed = append(completed, e.done)
	}
	r.queue = nil
	r.pending = nil
	r.mu.Unlock()

	for _, done := range completed {
		if done != nil {
			done()
		}
	}
}

func (r *renderReader) renderTime() Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Time(r.bytes / pcm.BytesPerFrame)
}
