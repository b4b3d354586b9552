// Package player is the streaming playback engine: it pulls decoded audio
// out of a source in fixed-size buffers, keeps a bounded number of them in
// flight at the output node, and mediates every state transition (play,
// pause, stop, seek, session interruption) through one lock.
package player

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/llehouerou/pulse/internal/config"
	"github.com/llehouerou/pulse/internal/node"
	"github.com/llehouerou/pulse/internal/pcm"
	"github.com/llehouerou/pulse/internal/source"
)

// ErrNoTrack is returned by Play when no track has been loaded.
var ErrNoTrack = errors.New("player: no track loaded")

// seekHead is the sentinel for "no pending seek, start at frame 0".
const seekHead = -1

// Player is the playback engine. All shared state (the buffer pipeline, the
// in-flight counter, the seek position, the running state) is serialized
// through one mutex; node completion callbacks funnel through the same mutex
// before touching anything.
type Player struct {
	mu sync.Mutex

	node node.Node
	src  source.Source

	trackFrames int
	trackRate   int

	state       State
	interrupted bool

	inflight int
	drained  chan struct{} // closed when in-flight drains to zero outside Playing

	seekFrame   int           // pending seek in frames, seekHead = none
	startOffset time.Duration // track time consumed as seek at last start
	renderBase  node.Time     // node render clock at last start
	pausedAt    time.Duration // position captured at pause

	buffers      []*pcm.Buffer
	maxInFlight  int
	bufferFrames int
	stopTimeout  time.Duration

	delegate Delegate
	notifier *notifier
	log      *slog.Logger
}

// Option configures a Player.
type Option func(*Player)

// WithDelegate sets the lifecycle delegate.
func WithDelegate(d Delegate) Option {
	return func(p *Player) { p.delegate = d }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Player) { p.log = l }
}

// WithEngineConfig applies pipeline tunables from configuration.
func WithEngineConfig(cfg config.EngineConfig) Option {
	return func(p *Player) {
		if cfg.MaxBuffersInFlight > 0 {
			p.maxInFlight = cfg.MaxBuffersInFlight
		}
		if cfg.BufferFrames > 0 {
			p.bufferFrames = cfg.BufferFrames
		}
		if cfg.StopTimeoutMs > 0 {
			p.stopTimeout = time.Duration(cfg.StopTimeoutMs) * time.Millisecond
		}
	}
}

// New creates a player rendering through n.
func New(n node.Node, opts ...Option) *Player {
	def := config.Default().Engine
	p := &Player{
		node:         n,
		state:        Stopped,
		seekFrame:    seekHead,
		maxInFlight:  def.MaxBuffersInFlight,
		bufferFrames: def.BufferFrames,
		stopTimeout:  time.Duration(def.StopTimeoutMs) * time.Millisecond,
		notifier:     newNotifier(),
		log:          slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// SetTrack loads the audio file at path as the current track. On failure the
// previously loaded track, position and state are left untouched.
func (p *Player) SetTrack(path string) error {
	src, err := source.Open(path)
	if err != nil {
		return err
	}
	p.SetSource(src)
	return nil
}

// SetSource replaces the current track with an already-open source, stopping
// any active playback first. The player takes ownership of src.
func (p *Player) SetSource(src source.Source) {
	p.Stop()

	p.mu.Lock()
	if p.src != nil {
		p.src.Close()
	}
	p.src = src
	p.trackFrames = src.FrameLength()
	p.trackRate = src.SampleRate()
	p.seekFrame = seekHead
	p.pausedAt = 0
	p.mu.Unlock()
}

// SetDelegate replaces the lifecycle delegate.
func (p *Player) SetDelegate(d Delegate) {
	p.mu.Lock()
	p.delegate = d
	p.mu.Unlock()
}

// State returns the current playback state.
func (p *Player) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// IsPlaying reports whether the player is actively rendering.
func (p *Player) IsPlaying() bool { return p.State() == Playing }

// IsPaused reports whether playback is paused.
func (p *Player) IsPaused() bool { return p.State() == Paused }

// Interrupted reports whether the player was stopped by a session
// interruption and will resume when it ends.
func (p *Player) Interrupted() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.interrupted
}

// Close stops playback and releases the source and the dispatch goroutine.
func (p *Player) Close() error {
	p.Stop()

	p.mu.Lock()
	src := p.src
	p.src = nil
	p.mu.Unlock()

	var err error
	if src != nil {
		err = src.Close()
	}
	p.notifier.close()
	return err
}

// notify posts a delegate callback onto the dispatch goroutine.
func (p *Player) notify(fn func(Delegate)) {
	p.mu.Lock()
	d := p.delegate
	p.mu.Unlock()
	if d == nil {
		return
	}
	p.notifier.post(func() { fn(d) })
}
