// Package session delivers audio-session lifecycle events: asynchronous
// interruptions (another process taking the audio device) and media-services
// loss/reset. The player subscribes to a Monitor and reacts by capturing its
// position, pausing, and resuming when the interruption ends.
package session

// Kind identifies a session event.
type Kind int

const (
	// Began: the audio device has been taken away; playback must pause.
	Began Kind = iota
	// Ended: the audio device is available again; playback may resume.
	Ended
	// MediaServicesLost: the audio subsystem went away entirely.
	MediaServicesLost
	// MediaServicesReset: the audio subsystem restarted.
	MediaServicesReset
)

// String returns the event kind name.
func (k Kind) String() string {
	switch k {
	case Began:
		return "Began"
	case Ended:
		return "Ended"
	case MediaServicesLost:
		return "MediaServicesLost"
	case MediaServicesReset:
		return "MediaServicesReset"
	default:
		return "Unknown"
	}
}

// Event is a session notification. It carries no payload beyond its kind.
type Event struct {
	Kind Kind
}

// Monitor is a source of session events. Events is closed by Close.
type Monitor interface {
	Events() <-chan Event
	Close() error
}
