package source

import (
	"math"

	"github.com/llehouerou/pulse/internal/pcm"
)

// Mock is a test double for Source backed by a synthesized sine signal.
type Mock struct {
	frames int
	rate   int
	pos    int

	readErr   error // returned by the next ReadNext, then cleared
	maxRead   int   // cap frames per ReadNext (0 = no cap), to force short reads
	seekCalls []int
	readCalls int
	closed    bool
}

// NewMock creates a mock source of the given length and sample rate.
func NewMock(frames, rate int) *Mock {
	return &Mock{frames: frames, rate: rate}
}

func (m *Mock) FrameLength() int { return m.frames }

func (m *Mock) SampleRate() int { return m.rate }

func (m *Mock) Position() int { return m.pos }

// Seek moves the cursor, clamping to the track bounds.
func (m *Mock) Seek(frame int) error {
	m.seekCalls = append(m.seekCalls, frame)
	if frame < 0 {
		frame = 0
	}
	if frame > m.frames {
		frame = m.frames
	}
	m.pos = frame
	return nil
}

// ReadNext fills buf with a 440Hz tone from the cursor.
func (m *Mock) ReadNext(buf *pcm.Buffer) (int, error) {
	m.readCalls++
	if m.readErr != nil {
		err := m.readErr
		m.readErr = nil
		buf.SetLen(0)
		return 0, err
	}

	n := buf.Cap()
	if m.maxRead > 0 && n > m.maxRead {
		n = m.maxRead
	}
	if rem := m.frames - m.pos; n > rem {
		n = rem
	}
	if n < 0 {
		n = 0
	}

	samples := buf.Samples()
	for i := range n {
		v := math.Sin(2 * math.Pi * 440 * float64(m.pos+i) / float64(m.rate))
		samples[i][0] = v
		samples[i][1] = v
	}
	m.pos += n
	buf.SetLen(n)
	return n, nil
}

func (m *Mock) Close() error {
	m.closed = true
	return nil
}

// Test helpers

// SetReadError makes the next ReadNext fail with err.
func (m *Mock) SetReadError(err error) { m.readErr = err }

// SetMaxRead caps the number of frames returned per ReadNext.
func (m *Mock) SetMaxRead(n int) { m.maxRead = n }

// SeekCalls returns the frames passed to Seek, in order.
func (m *Mock) SeekCalls() []int { return m.seekCalls }

// ReadCalls returns the number of ReadNext invocations.
func (m *Mock) ReadCalls() int { return m.readCalls }

// Closed reports whether Close was called.
func (m *Mock) Closed() bool { return m.closed }

// Verify Mock implements Source at compile time.
var _ Source = (*Mock)(nil)
