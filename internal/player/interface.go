// internal/player/interface.go
package player

import (
	"time"

	"github.com/llehouerou/pulse/internal/session"
)

// Interface defines the player contract for dependency injection and testing.
type Interface interface {
	SetTrack(path string) error
	Play() error
	Pause()
	Stop()
	Toggle() bool
	State() State
	IsPlaying() bool
	IsPaused() bool
	TrackLength() time.Duration
	Position() time.Duration
	SetPosition(pos time.Duration)
	Progress() float64
	SetProgress(f float64)
	SetDelegate(d Delegate)
	Attach(mon session.Monitor)
	Close() error
}

// Verify Player implements Interface at compile time.
var _ Interface = (*Player)(nil)
