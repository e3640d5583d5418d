package audio

import (
	"errors"
	"time"
)

var (
	// ErrNoAudio is returned by device constructors in builds without audio support
	ErrNoAudio = errors.New("audio support not compiled in")
	// ErrStreamClosed is returned when reading from a closed capture stream
	ErrStreamClosed = errors.New("capture stream closed")
	// ErrUnsupportedFormat is returned for files that cannot be decoded
	ErrUnsupportedFormat = errors.New("unsupported audio format")
)

// CaptureStream is an open microphone input delivering fixed-size chunks on demand
type CaptureStream interface {
	// ReadChunk blocks until frames frames are available and returns them
	ReadChunk(frames int) ([]byte, error)
	// Flush discards audio delivered but not yet read
	Flush()
	Close() error
}

// CaptureDevice opens capture streams
type CaptureDevice interface {
	Open(format Format) (CaptureStream, error)
}

// Sink is the playback side of the audio backend. One track is loaded at a time.
type Sink interface {
	Load(path string) error
	Play() error
	Pause()
	Resume()
	Stop()
	SetVolume(volume float64)
	IsActive() bool
	Position() time.Duration
	// Finished reports the end of the loaded track. It returns true at most
	// once per loaded track.
	Finished() bool
}

// ClampVolume limits volume to [0, 1]
func ClampVolume(volume float64) float64 {
	if volume < 0 {
		return 0
	} else if volume > 1 {
		return 1
	}
	return volume
}
