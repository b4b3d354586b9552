// Package source opens audio files and exposes them as a sequential,
// frame-addressable stream of decoded stereo frames. It is the read side of
// the playback engine: the player pulls fixed-size chunks out of a Source and
// hands them to the output node.
package source

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"

	"github.com/llehouerou/pulse/internal/pcm"
)

// Supported file extensions.
const (
	extMP3  = ".mp3"
	extFLAC = ".flac"
	extWAV  = ".wav"
	extOGG  = ".ogg"
)

// ErrUnsupportedFormat is returned by Open for unknown file extensions.
var ErrUnsupportedFormat = errors.New("source: unsupported format")

// Source is a sequential reader of decoded audio with an internal cursor.
//
// FrameLength and SampleRate are fixed for the lifetime of the source.
// ReadNext fills the buffer from the cursor and advances it; zero frames
// read means the cursor is at end of file. Seek moves the cursor; positions
// past the end are clamped rather than rejected, so a permissive caller can
// schedule a seek beyond the track and simply read nothing.
type Source interface {
	FrameLength() int
	SampleRate() int
	Position() int
	Seek(frame int) error
	ReadNext(buf *pcm.Buffer) (int, error)
	Close() error
}

// Open opens path and returns a Source decoding it, dispatching on the file
// extension. The file stays open until Close.
func Open(path string) (Source, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case extMP3, extFLAC, extWAV, extOGG:
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	var stream beep.StreamSeekCloser
	var format beep.Format

	switch ext {
	case extMP3:
		stream, format, err = decodeMP3(f)
	case extFLAC:
		// Skip an ID3v2 tag if present; some taggers prepend one and the
		// FLAC decoder does not handle it.
		if err := skipID3v2(f); err != nil {
			f.Close()
			return nil, err
		}
		stream, format, err = flac.Decode(f)
	case extWAV:
		stream, format, err = wav.Decode(f)
	case extOGG:
		stream, format, err = vorbis.Decode(f)
	}
	if err != nil {
		f.Close()
		return nil, err
	}

	return &File{stream: stream, format: format, file: f}, nil
}

// File is a Source backed by a decoded audio file.
type File struct {
	stream beep.StreamSeekCloser
	format beep.Format
	file   *os.File

	// Non-nil when the output device runs at a different rate than the
	// file; reads go through the resampler, and frame counts are reported
	// in output-rate frames.
	resampled beep.Streamer
	outRate   int
}

var _ Source = (*File)(nil)

// Resample routes reads through a beep resampler so the source yields frames
// at rate instead of the file's native rate. FrameLength, Position and Seek
// all operate in output-rate frames afterwards.
func (s *File) Resample(rate int) {
	if rate <= 0 || rate == int(s.format.SampleRate) {
		return
	}
	s.outRate = rate
	s.resampled = beep.Resample(4, s.format.SampleRate, beep.SampleRate(rate), s.stream)
}

func (s *File) rate() int {
	if s.outRate != 0 {
		return s.outRate
	}
	return int(s.format.SampleRate)
}

// scale converts a native-rate frame count to output-rate frames.
func (s *File) scale(frames int) int {
	if s.outRate == 0 {
		return frames
	}
	return int(int64(frames) * int64(s.outRate) / int64(s.format.SampleRate))
}

// unscale converts an output-rate frame count to native-rate frames.
func (s *File) unscale(frames int) int {
	if s.outRate == 0 {
		return frames
	}
	return int(int64(frames) * int64(s.format.SampleRate) / int64(s.outRate))
}

// FrameLength returns the total track length in frames.
func (s *File) FrameLength() int { return s.scale(s.stream.Len()) }

// SampleRate returns the rate the source yields frames at.
func (s *File) SampleRate() int { return s.rate() }

// Position returns the current cursor in frames.
func (s *File) Position() int { return s.scale(s.stream.Position()) }

// Seek moves the cursor to frame. Out-of-range positions are clamped.
func (s *File) Seek(frame int) error {
	native := s.unscale(frame)
	if native < 0 {
		native = 0
	}
	if l := s.stream.Len(); native > l {
		native = l
	}
	return s.stream.Seek(native)
}

// ReadNext fills buf from the cursor and advances it. It keeps pulling until
// the buffer is full or the stream is exhausted, so a short read from the
// decoder does not surface as a spurious end of track.
func (s *File) ReadNext(buf *pcm.Buffer) (int, error) {
	streamer := beep.Streamer(s.stream)
	if s.resampled != nil {
		streamer = s.resampled
	}

	samples := buf.Samples()
	total := 0
	for total < len(samples) {
		n, ok := streamer.Stream(samples[total:])
		total += n
		if !ok {
			break
		}
		if n == 0 {
			break
		}
	}
	buf.SetLen(total)
	if err := streamer.Err(); err != nil {
		return total, err
	}
	return total, nil
}

// Close closes the decoder and the underlying file.
func (s *File) Close() error {
	serr := s.stream.Close()
	ferr := s.file.Close()
	if serr != nil {
		return serr
	}
	return ferr
}
