// internal/player/mock.go
package player

import (
	"time"

	"github.com/llehouerou/pulse/internal/session"
)

// Mock is a test double for Player.
type Mock struct {
	state      State
	position   time.Duration
	length     time.Duration
	trackErr   error
	playErr    error
	trackCalls []string
	seekCalls  []time.Duration
	delegate   Delegate
}

// NewMock creates a new mock player for testing.
func NewMock() *Mock {
	return &Mock{state: Stopped}
}

func (m *Mock) SetTrack(path string) error {
	m.trackCalls = append(m.trackCalls, path)
	return m.trackErr
}

func (m *Mock) Play() error {
	if m.playErr != nil {
		return m.playErr
	}
	m.state = Playing
	return nil
}

func (m *Mock) Pause() {
	if m.state == Playing {
		m.state = Paused
	}
}

func (m *Mock) Stop() { m.state = Stopped }

func (m *Mock) Toggle() bool {
	switch m.state {
	case Playing:
		m.Pause()
		return false
	default:
		return m.Play() == nil
	}
}

func (m *Mock) State() State { return m.state }

func (m *Mock) IsPlaying() bool { return m.state == Playing }

func (m *Mock) IsPaused() bool { return m.state == Paused }

func (m *Mock) TrackLength() time.Duration { return m.length }

func (m *Mock) Position() time.Duration { return m.position }

func (m *Mock) SetPosition(pos time.Duration) {
	m.seekCalls = append(m.seekCalls, pos)
	m.position = pos
}

func (m *Mock) Progress() float64 {
	if m.length == 0 {
		return 0
	}
	return float64(m.position) / float64(m.length)
}

func (m *Mock) SetProgress(f float64) {
	m.SetPosition(time.Duration(f * float64(m.length)))
}

func (m *Mock) SetDelegate(d Delegate) { m.delegate = d }

func (m *Mock) Attach(_ session.Monitor) {}

func (m *Mock) Close() error { return nil }

// Test helpers

func (m *Mock) SetState(s State) { m.state = s }

func (m *Mock) SetPlayError(err error) { m.playErr = err }

func (m *Mock) SetTrackError(err error) { m.trackErr = err }

func (m *Mock) SetTrackLength(d time.Duration) { m.length = d }

func (m *Mock) SetCurrentPosition(d time.Duration) { m.position = d }

func (m *Mock) TrackCalls() []string { return m.trackCalls }

func (m *Mock) SeekCalls() []time.Duration { return m.seekCalls }

// SimulateStopped invokes the delegate as if playback finished.
func (m *Mock) SimulateStopped(completed bool) {
	m.state = Stopped
	if m.delegate != nil {
		m.delegate.PlaybackStopped(completed)
	}
}

// Verify Mock implements Interface at compile time.
var _ Interface = (*Mock)(nil)
