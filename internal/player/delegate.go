package player

import "sync"

// Delegate receives playback lifecycle callbacks. Callbacks are delivered
// at-most-once per transition, in transition order, always from the player's
// single dispatch goroutine and never from the audio render goroutine, so a
// delegate is free to call back into the player.
type Delegate interface {
	PlaybackStarted()
	PlaybackPaused()
	// PlaybackStopped fires on user stop and on track exhaustion; completed
	// reports whether the track played through to the end.
	PlaybackStopped(completed bool)
}

const notifyBufferSize = 16

// notifier serializes delegate callbacks onto one goroutine.
type notifier struct {
	mu     sync.Mutex
	ch     chan func()
	done   chan struct{}
	closed bool
}

func newNotifier() *notifier {
	n := &notifier{
		ch:   make(chan func(), notifyBufferSize),
		done: make(chan struct{}),
	}
	go n.loop()
	return n
}

func (n *notifier) loop() {
	defer close(n.done)
	for fn := range n.ch {
		fn()
	}
}

func (n *notifier) post(fn func()) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		return
	}
	n.ch <- fn
}

func (n *notifier) close() {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return
	}
	n.closed = true
	close(n.ch)
	n.mu.Unlock()
	<-n.done
}
