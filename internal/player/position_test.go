package player

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/llehouerou/pulse/internal/config"
	"github.com/llehouerou/pulse/internal/node"
	"github.com/llehouerou/pulse/internal/source"
)

// framesDur is the duration of n frames at the test rate.
func framesDur(n int) time.Duration {
	return framesToDuration(n, testRate)
}

func TestPosition_ZeroWhenStopped(t *testing.T) {
	p, _, _, _ := newTestPlayer(t, 441000)
	if got := p.Position(); got != 0 {
		t.Errorf("Position() = %v, want 0", got)
	}
}

func TestPosition_TracksRenderClockWhilePlaying(t *testing.T) {
	p, fake, _, _ := newTestPlayer(t, 441000)

	require.NoError(t, p.Play())
	if got := p.Position(); got != 0 {
		t.Errorf("Position() = %v at start, want 0", got)
	}

	fake.CompleteNext() // renders 1000 frames
	fake.CompleteNext() // renders 1000 more

	if got := p.Position(); got != framesDur(2000) {
		t.Errorf("Position() = %v, want %v", got, framesDur(2000))
	}
}

func TestPosition_ServedFromCaptureWhilePaused(t *testing.T) {
	p, fake, _, _ := newTestPlayer(t, 441000)

	require.NoError(t, p.Play())
	fake.CompleteNext()
	fake.CompleteNext()
	fake.CompleteNext()

	p.Pause()
	want := framesDur(3000)
	if got := p.Position(); got != want {
		t.Errorf("Position() while paused = %v, want %v", got, want)
	}

	// The render clock moving (e.g. trailing device reads) must not affect
	// the paused position.
	fake.AdvanceFrames(5000)
	if got := p.Position(); got != want {
		t.Errorf("Position() after clock drift = %v, want %v", got, want)
	}
}

func TestPauseResume_ContinuesFromPausedPosition(t *testing.T) {
	p, fake, src, _ := newTestPlayer(t, 441000)

	require.NoError(t, p.Play())
	fake.CompleteNext()
	fake.CompleteNext()

	p.Pause()
	require.True(t, p.IsPaused())

	require.NoError(t, p.Play())
	require.True(t, p.IsPlaying())

	// Resume must not re-read from frame 0: the only source seek is the one
	// from the initial start.
	require.Equal(t, []int{0}, src.SeekCalls())

	// Position continues from where it paused.
	if got := p.Position(); got < framesDur(2000) {
		t.Errorf("Position() after resume = %v, want >= %v", got, framesDur(2000))
	}
}

func TestSetPosition_WhileStopped(t *testing.T) {
	p, _, src, _ := newTestPlayer(t, 441000)

	p.SetPosition(5 * time.Second)
	got := p.Position()
	require.InDelta(t, (5 * time.Second).Seconds(), got.Seconds(), 0.001)

	require.NoError(t, p.Play())
	// The pending seek resolved into the source cursor.
	require.Len(t, src.SeekCalls(), 1)
	require.InDelta(t, 5*testRate, src.SeekCalls()[0], 2)
}

func TestSetPosition_WhilePlaying_Resumes(t *testing.T) {
	p, fake, src, d := newTestPlayer(t, 441000)

	require.NoError(t, p.Play())
	fake.CompleteNext()

	p.SetPosition(5 * time.Second)

	require.True(t, p.IsPlaying(), "playback must resume after reposition")
	seeks := src.SeekCalls()
	require.Len(t, seeks, 2)
	require.InDelta(t, 5*testRate, seeks[1], 2)

	// Position reads now reflect the new offset, not the pre-seek one.
	got := p.Position()
	require.GreaterOrEqual(t, got.Seconds(), 4.99)

	// The reposition goes through a stop/start cycle, visible to the
	// delegate as stopped(false) then started again.
	waitDelegate(t, d, func(started, _ int, stopped []bool) bool {
		return started == 2 && len(stopped) == 1 && !stopped[0]
	})
}

func TestSetPosition_WhilePaused_StaysStopped(t *testing.T) {
	p, fake, _, _ := newTestPlayer(t, 441000)

	require.NoError(t, p.Play())
	fake.CompleteNext()
	p.Pause()

	p.SetPosition(2 * time.Second)

	require.False(t, p.IsPlaying(), "paused playback must not resume on reposition")
	require.InDelta(t, 2.0, p.Position().Seconds(), 0.001)
}

func TestSetPosition_BeyondEndTolerated(t *testing.T) {
	p, _, _, d := newTestPlayer(t, 44100) // 1 second

	p.SetPosition(10 * time.Second)
	require.NoError(t, p.Play())

	// Nothing to render: the player completes immediately.
	require.Equal(t, Stopped, p.State())
	waitDelegate(t, d, func(started, _ int, stopped []bool) bool {
		return started == 1 && len(stopped) == 1 && stopped[0]
	})
}

func TestProgress_InRange(t *testing.T) {
	p, fake, _, _ := newTestPlayer(t, 4000)

	require.Equal(t, 0.0, p.Progress())

	require.NoError(t, p.Play())
	fake.CompleteNext()
	got := p.Progress()
	if got < 0 || got > 1 {
		t.Errorf("Progress() = %v, want within [0,1]", got)
	}

	fake.CompleteAll()
	require.Equal(t, Stopped, p.State())
	got = p.Progress()
	if got < 0 || got > 1 {
		t.Errorf("Progress() after end = %v, want within [0,1]", got)
	}
}

func TestProgress_RoundTrip(t *testing.T) {
	p, _, _, _ := newTestPlayer(t, 441000) // 10 seconds

	p.SetProgress(0.5)
	require.InDelta(t, 5.0, p.Position().Seconds(), 0.01)
	require.InDelta(t, 0.5, p.Progress(), 0.001)
}

func TestFullScenario_PauseAtThreeSecondsThenPlayThrough(t *testing.T) {
	// 10-second track at 44.1kHz with one-second buffers.
	fake := node.NewFake()
	src := source.NewMock(10*testRate, testRate)
	d := &recordingDelegate{}
	p := New(fake,
		WithDelegate(d),
		WithEngineConfig(config.EngineConfig{
			MaxBuffersInFlight: 4,
			BufferFrames:       testRate,
			StopTimeoutMs:      1000,
		}),
	)
	p.SetSource(src)
	t.Cleanup(func() { _ = p.Close() })

	require.NoError(t, p.Play())

	// Render 3 seconds, then pause.
	for range 3 {
		fake.CompleteNext()
	}
	p.Pause()
	require.InDelta(t, 3.0, p.Position().Seconds(), 0.05)

	// Resume and play through.
	require.NoError(t, p.Play())
	fake.CompleteAll()

	require.Equal(t, Stopped, p.State())
	require.Equal(t, src.FrameLength(), src.Position())
	waitDelegate(t, d, func(started, paused int, stopped []bool) bool {
		return started == 2 && paused == 1 && len(stopped) == 1 && stopped[0]
	})
}
