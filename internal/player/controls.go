package player

import (
	"errors"
	"fmt"
	"time"

	"github.com/llehouerou/pulse/internal/node"
)

// resampler is implemented by sources that can re-rate themselves to match
// an output device pinned to a different sample rate.
type resampler interface {
	Resample(rate int)
}

// Play starts or resumes playback.
//
// From Paused it only resumes the node; buffers are still queued, nothing
// is re-initialized. From Stopped it performs a full start: bring the node
// up, resolve any pending seek into a source cursor position, prime the
// buffer pipeline and begin rendering. The delegate is notified once on
// success.
func (p *Player) Play() error {
	p.mu.Lock()

	switch p.state {
	case Playing:
		p.mu.Unlock()
		return nil

	case Paused:
		p.state = Playing
		p.interrupted = false
		p.mu.Unlock()
		p.node.Play()
		p.notify(func(d Delegate) { d.PlaybackStarted() })
		return nil
	}

	// Stopped: full start.
	if p.src == nil {
		p.mu.Unlock()
		return ErrNoTrack
	}

	if err := p.startNodeLocked(); err != nil {
		p.mu.Unlock()
		p.log.Warn("output start failed", "err", err)
		return err
	}

	// Resolve the pending seek into the source cursor.
	start := 0
	if p.seekFrame != seekHead {
		start = p.seekFrame
		p.seekFrame = seekHead
	}
	if err := p.src.Seek(start); err != nil {
		p.mu.Unlock()
		return fmt.Errorf("seek to frame %d: %w", start, err)
	}

	p.startOffset = framesToDuration(start, p.trackRate)
	p.renderBase = p.node.RenderTime()
	p.drained = make(chan struct{})
	p.state = Playing
	p.interrupted = false

	if p.initBuffersLocked() == 0 {
		// Nothing to render: the pending seek was at or past end of file.
		// Complete immediately instead of idling forever.
		completed := p.progressLocked() >= 1.0
		p.state = Stopped
		p.closeDrainedLocked()
		p.mu.Unlock()
		p.notify(func(d Delegate) { d.PlaybackStarted() })
		p.notify(func(d Delegate) { d.PlaybackStopped(completed) })
		return nil
	}
	p.mu.Unlock()

	p.node.Play()
	p.notify(func(d Delegate) { d.PlaybackStarted() })
	return nil
}

// startNodeLocked brings the output up at the track rate, falling back to
// resampling the source when the device is already pinned elsewhere.
func (p *Player) startNodeLocked() error {
	err := p.node.Start(p.trackRate)
	if err == nil {
		return nil
	}
	if !errors.Is(err, node.ErrRateMismatch) {
		return err
	}

	rs, ok := p.src.(resampler)
	if !ok {
		return err
	}
	rate := p.node.SampleRate()
	rs.Resample(rate)
	p.trackFrames = p.src.FrameLength()
	p.trackRate = p.src.SampleRate()
	p.log.Info("resampling track to output rate", "rate", rate)
	return p.node.Start(p.trackRate)
}

// Pause pauses playback, capturing the position the paused-state queries
// will serve (the node exposes no render time while not rendering).
func (p *Player) Pause() {
	p.mu.Lock()
	if p.state != Playing {
		p.mu.Unlock()
		return
	}
	p.pausedAt = p.positionLocked()
	p.state = Paused
	p.mu.Unlock()

	p.node.Pause()
	p.notify(func(d Delegate) { d.PlaybackPaused() })
}

// Stop halts playback and blocks until every in-flight buffer has
// completed, bounded by the configured drain timeout. The delegate receives
// PlaybackStopped with completed true only when the track played through.
func (p *Player) Stop() {
	p.mu.Lock()
	if p.state == Stopped {
		p.mu.Unlock()
		return
	}
	completed := p.progressLocked() >= 1.0
	p.state = Stopped
	p.interrupted = false
	p.seekFrame = seekHead
	drained := p.drained
	p.mu.Unlock()

	// Halting the node completes everything still queued; those callbacks
	// drain the in-flight count and close the drain signal. The wait is
	// bounded so a stuck render thread cannot hang the caller.
	p.node.Stop()
	if drained != nil {
		select {
		case <-drained:
		case <-time.After(p.stopTimeout):
			p.log.Error("stop: in-flight buffers did not drain, forcing teardown",
				"timeout", p.stopTimeout)
		}
	}

	p.notify(func(d Delegate) { d.PlaybackStopped(completed) })
}

// Toggle pauses if playing, otherwise plays. Returns whether the player is
// playing afterwards.
func (p *Player) Toggle() bool {
	if p.IsPlaying() {
		p.Pause()
		return false
	}
	if err := p.Play(); err != nil {
		return false
	}
	return p.IsPlaying()
}
