package player

import "time"

// TrackLength returns the loaded track's duration, zero if none.
func (p *Player) TrackLength() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return framesToDuration(p.trackFrames, p.trackRate)
}

// Position returns the current track position.
func (p *Player) Position() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.positionLocked()
}

// positionLocked composes the track position from whichever clock is live:
// the node render clock while playing, the captured position while paused,
// the pending seek while stopped.
func (p *Player) positionLocked() time.Duration {
	switch {
	case p.state == Playing:
		pos := p.startOffset + p.node.Translate(p.node.RenderTime()-p.renderBase)
		if l := framesToDuration(p.trackFrames, p.trackRate); pos > l {
			pos = l
		}
		return pos
	case p.state == Paused:
		return p.pausedAt
	case p.seekFrame != seekHead:
		return framesToDuration(p.seekFrame, p.trackRate)
	default:
		return 0
	}
}

// SetPosition schedules playback from pos. If playback is active it is
// stopped first and, if it was playing, restarted from the new position.
// Positions past the end of the track are tolerated; the next start simply
// finds nothing to render.
func (p *Player) SetPosition(pos time.Duration) {
	p.mu.Lock()
	wasPlaying := p.state == Playing
	active := p.state != Stopped
	rate := p.trackRate
	p.mu.Unlock()

	if active {
		p.Stop()
	}

	p.mu.Lock()
	p.seekFrame = durationToFrames(pos, rate)
	p.pausedAt = 0
	p.mu.Unlock()

	if wasPlaying {
		_ = p.Play()
	}
}

// Progress returns the position as a fraction of the track length, always
// within [0, 1] while a track is loaded.
func (p *Player) Progress() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.progressLocked()
}

func (p *Player) progressLocked() float64 {
	if p.trackFrames == 0 {
		return 0
	}
	length := framesToDuration(p.trackFrames, p.trackRate)
	f := float64(p.positionLocked()) / float64(length)
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

// SetProgress seeks to the given fraction of the track length.
func (p *Player) SetProgress(f float64) {
	p.mu.Lock()
	length := framesToDuration(p.trackFrames, p.trackRate)
	p.mu.Unlock()
	if f < 0 {
		f = 0
	}
	p.SetPosition(time.Duration(f * float64(length)))
}

func framesToDuration(frames, rate int) time.Duration {
	if rate == 0 {
		return 0
	}
	return time.Duration(int64(frames) * int64(time.Second) / int64(rate))
}

func durationToFrames(d time.Duration, rate int) int {
	if d < 0 {
		return 0
	}
	return int(int64(d) * int64(rate) / int64(time.Second))
}
