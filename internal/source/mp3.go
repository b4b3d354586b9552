package source

import (
	"encoding/binary"
	"errors"
	"io"

	"github.com/gopxl/beep/v2"
	mp3 "github.com/hajimehoshi/go-mp3"
)

// mp3Stream wraps hajimehoshi/go-mp3 to implement beep.StreamSeekCloser.
// The decoder exposes the decoded stream as bytes (stereo 16-bit LE, four
// bytes per frame) with byte-addressed seeking, which maps 1:1 onto frame
// positions.
type mp3Stream struct {
	decoder *mp3.Decoder
	closer  io.Closer
	err     error
	pos     int    // frames consumed
	readBuf []byte // reusable buffer for reading
}

const mp3BytesPerFrame = 4

func decodeMP3(rc io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error) {
	decoder, err := mp3.NewDecoder(rc)
	if err != nil {
		return nil, beep.Format{}, err
	}

	sampleRate := decoder.SampleRate()
	if sampleRate == 0 {
		return nil, beep.Format{}, errors.New("mp3: invalid sample rate")
	}

	format := beep.Format{
		SampleRate:  beep.SampleRate(sampleRate),
		NumChannels: 2, // go-mp3 always outputs stereo
		Precision:   2, // 16-bit
	}

	d := &mp3Stream{
		decoder: decoder,
		closer:  rc,
		readBuf: make([]byte, 8192),
	}

	return d, format, nil
}

// Stream reads audio samples into the provided buffer.
func (d *mp3Stream) Stream(samples [][2]float64) (n int, ok bool) {
	if d.err != nil {
		return 0, false
	}

	bytesNeeded := len(samples) * mp3BytesPerFrame
	if len(d.readBuf) < bytesNeeded {
		d.readBuf = make([]byte, bytesNeeded)
	}

	bytesRead, err := io.ReadFull(d.decoder, d.readBuf[:bytesNeeded])
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		d.err = err
		return 0, false
	}

	framesRead := bytesRead / mp3BytesPerFrame
	if framesRead == 0 {
		return 0, false
	}

	for i := 0; i < framesRead && i < len(samples); i++ {
		offset := i * mp3BytesPerFrame
		left := int16(binary.LittleEndian.Uint16(d.readBuf[offset:]))
		right := int16(binary.LittleEndian.Uint16(d.readBuf[offset+2:]))
		samples[i][0] = float64(left) / 32768.0
		samples[i][1] = float64(right) / 32768.0
		n++
	}

	d.pos += n
	return n, true
}

// Err returns any error that occurred during streaming.
func (d *mp3Stream) Err() error { return d.err }

// Len returns the total number of frames in the stream.
func (d *mp3Stream) Len() int {
	length := d.decoder.Length()
	if length < 0 {
		return 0
	}
	return int(length / mp3BytesPerFrame)
}

// Position returns the current frame position.
func (d *mp3Stream) Position() int { return d.pos }

// Seek seeks to the given frame position, clamping to the stream bounds.
func (d *mp3Stream) Seek(p int) error {
	if p < 0 {
		p = 0
	}
	if l := d.Len(); p > l {
		p = l
	}

	_, err := d.decoder.Seek(int64(p)*mp3BytesPerFrame, io.SeekStart)
	if err != nil {
		return err
	}
	d.pos = p
	d.err = nil
	return nil
}

// Close closes the underlying file.
func (d *mp3Stream) Close() error { return d.closer.Close() }
