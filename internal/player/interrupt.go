package player

import (
	"github.com/llehouerou/pulse/internal/session"
)

// Attach subscribes the player to a session monitor. The loop runs until
// the monitor's event stream is closed.
func (p *Player) Attach(mon session.Monitor) {
	go p.sessionLoop(mon)
}

func (p *Player) sessionLoop(mon session.Monitor) {
	for ev := range mon.Events() {
		switch ev.Kind {
		case session.Began:
			p.handleInterruptionBegan()
		case session.Ended:
			p.handleInterruptionEnded()
		case session.MediaServicesLost, session.MediaServicesReset:
			// No recovery path yet; the next user-driven play rebuilds the
			// pipeline from scratch anyway.
			p.log.Info("media services event", "kind", ev.Kind.String())
		}
	}
}

// handleInterruptionBegan captures the current render position as a pending
// seek, halts the node (the hardware cannot be assumed usable during the
// interruption, so queued buffers are flushed rather than rendered) and
// records that the stop was session-caused.
func (p *Player) handleInterruptionBegan() {
	p.mu.Lock()
	if p.state != Playing {
		p.mu.Unlock()
		return
	}
	p.seekFrame = durationToFrames(p.positionLocked(), p.trackRate)
	p.state = Stopped
	p.interrupted = true
	p.mu.Unlock()

	p.node.Halt()
	p.notify(func(d Delegate) { d.PlaybackPaused() })
}

// handleInterruptionEnded restarts playback if the interruption flag is
// set; the normal start path resumes from the captured seek position.
func (p *Player) handleInterruptionEnded() {
	p.mu.Lock()
	resume := p.interrupted
	p.interrupted = false
	p.mu.Unlock()

	if !resume {
		return
	}
	if err := p.Play(); err != nil {
		p.log.Warn("resume after interruption failed", "err", err)
	}
}
