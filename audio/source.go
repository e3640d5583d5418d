package audio

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/wav"
)

// resampleQuality is the beep interpolation quality used for rate conversion
const resampleQuality = 4

// Source is a decoded track in the Output format
type Source struct {
	io.Reader
	stream beep.StreamSeekCloser
}

// Close releases the decoder and its file
func (s *Source) Close() error {
	return s.stream.Close()
}

// OpenSource decodes an mp3 or wav file into 16-bit stereo PCM at the Output
// sample rate. Mono files are played on both channels.
func OpenSource(path string) (*Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	var (
		stream beep.StreamSeekCloser
		format beep.Format
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		stream, format, err = mp3.Decode(f)
	case ".wav":
		stream, format, err = wav.Decode(f)
	default:
		err = fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}

	var s beep.Streamer = stream
	target := beep.SampleRate(Output.SampleRate)
	if format.SampleRate != target {
		s = beep.Resample(resampleQuality, format.SampleRate, target, s)
	}

	out := beep.Format{SampleRate: target, NumChannels: Output.Channels, Precision: Output.BitDepth / 8}
	return &Source{Reader: newStreamReader(s, out), stream: stream}, nil
}

// streamReader encodes a beep stream as interleaved signed PCM for oto
type streamReader struct {
	streamer beep.Streamer
	format   beep.Format
	samples  [][2]float64
}

func newStreamReader(s beep.Streamer, format beep.Format) *streamReader {
	return &streamReader{streamer: s, format: format}
}

func (r *streamReader) Read(p []byte) (int, error) {
	frames := len(p) / r.format.Width()
	if frames == 0 {
		return 0, nil
	}
	if cap(r.samples) < frames {
		r.samples = make([][2]float64, frames)
	}

	n, ok := r.streamer.Stream(r.samples[:frames])
	if !ok {
		if err := r.streamer.Err(); err != nil {
			return 0, err
		}
		return 0, io.EOF
	}

	off := 0
	for _, sample := range r.samples[:n] {
		off += r.format.EncodeSigned(p[off:], sample)
	}
	return off, nil
}
