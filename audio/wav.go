package audio

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const wavPCMFormat = 1

// ErrInvalidWAV is returned for files without a valid RIFF/WAVE header
var ErrInvalidWAV = errors.New("invalid wav file")

// WriteWAV writes 16-bit little-endian PCM chunks to path as a WAV file.
// The file is written to a temporary name and renamed into place, so path
// never holds a partial recording.
func WriteWAV(path string, format Format, chunks [][]byte) error {
	if format.BitDepth != 16 {
		return fmt.Errorf("%w: %d-bit wav", ErrUnsupportedFormat, format.BitDepth)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create wav: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	enc := wav.NewEncoder(tmp, format.SampleRate, format.BitDepth, format.Channels, wavPCMFormat)
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: format.Channels, SampleRate: format.SampleRate},
		SourceBitDepth: format.BitDepth,
	}
	if len(chunks) == 0 {
		// the encoder emits its header on the first write, even an empty one
		chunks = [][]byte{nil}
	}
	for _, chunk := range chunks {
		buf.Data = decodeS16LE(chunk, buf.Data[:0])
		if err := enc.Write(buf); err != nil {
			tmp.Close()
			return fmt.Errorf("write wav samples: %w", err)
		}
	}
	if err := enc.Close(); err != nil {
		tmp.Close()
		return fmt.Errorf("finalize wav: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close wav: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("move wav into place: %w", err)
	}
	return nil
}

// WAVDuration returns the play time of the PCM data in a WAV file
func WAVDuration(path string) (time.Duration, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	d := wav.NewDecoder(f)
	if !d.IsValidFile() {
		return 0, ErrInvalidWAV
	}
	if err := d.FwdToPCM(); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidWAV, err)
	}
	format := Format{SampleRate: int(d.SampleRate), Channels: int(d.NumChans), BitDepth: int(d.BitDepth)}
	return format.Duration(int64(d.PCMSize)), nil
}

func decodeS16LE(data []byte, dst []int) []int {
	for i := 0; i+1 < len(data); i += 2 {
		dst = append(dst, int(int16(uint16(data[i])|uint16(data[i+1])<<8)))
	}
	return dst
}
