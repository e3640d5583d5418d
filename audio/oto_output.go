//go:build !noaudio

package audio

import (
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ebitengine/oto/v3"
)

// OtoOutput plays decoded tracks through the default output device
type OtoOutput struct {
	mu         sync.Mutex
	otoContext *oto.Context
	otoPlayer  *oto.Player
	source     *Source
	counter    *countingReader
	volume     float64
	paused     bool
	reported   bool
}

// NewOtoOutput creates an output; the device is opened on first Load
func NewOtoOutput(initialVolume float64) *OtoOutput {
	return &OtoOutput{volume: ClampVolume(initialVolume)}
}

func (o *OtoOutput) initAudio() error {
	op := &oto.NewContextOptions{
		SampleRate:   Output.SampleRate,
		ChannelCount: Output.Channels,
		Format:       oto.FormatSignedInt16LE,
	}

	var ready chan struct{}
	var err error
	o.otoContext, ready, err = oto.NewContext(op)
	if err != nil {
		return fmt.Errorf("failed to create oto context: %w", err)
	}

	<-ready
	return nil
}

// Load stops the current track and prepares path for playback
func (o *OtoOutput) Load(path string) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.closeLocked()

	// oto allows a single context per process
	if o.otoContext == nil {
		if err := o.initAudio(); err != nil {
			return fmt.Errorf("failed to init audio: %w", err)
		}
	}

	src, err := OpenSource(path)
	if err != nil {
		return err
	}

	o.source = src
	o.counter = &countingReader{reader: src}
	o.otoPlayer = o.otoContext.NewPlayer(o.counter)
	o.otoPlayer.SetVolume(o.volume)
	o.paused = false
	o.reported = false
	return nil
}

func (o *OtoOutput) Play() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.otoPlayer == nil {
		return fmt.Errorf("no track loaded")
	}
	o.otoPlayer.Play()
	o.paused = false
	return nil
}

func (o *OtoOutput) Pause() {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.otoPlayer != nil && o.otoPlayer.IsPlaying() {
		o.otoPlayer.Pause()
		o.paused = true
	}
}

func (o *OtoOutput) Resume() {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.otoPlayer != nil && o.paused {
		o.otoPlayer.Play()
		o.paused = false
	}
}

func (o *OtoOutput) Stop() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.closeLocked()
}

func (o *OtoOutput) closeLocked() {
	if o.otoPlayer != nil {
		o.otoPlayer.Pause()
		o.otoPlayer.Close()
		o.otoPlayer = nil
	}
	if o.source != nil {
		o.source.Close()
		o.source = nil
	}
	o.counter = nil
	o.paused = false
}

// SetVolume applies immediately and carries over to later tracks
func (o *OtoOutput) SetVolume(volume float64) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.volume = ClampVolume(volume)
	if o.otoPlayer != nil {
		o.otoPlayer.SetVolume(o.volume)
	}
}

func (o *OtoOutput) IsActive() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.otoPlayer != nil && o.otoPlayer.IsPlaying()
}

// Position returns how much of the track has reached the device
func (o *OtoOutput) Position() time.Duration {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.otoPlayer == nil {
		return 0
	}
	played := o.counter.n.Load() - int64(o.otoPlayer.BufferedSize())
	if played < 0 {
		played = 0
	}
	return Output.Duration(played)
}

func (o *OtoOutput) Finished() bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.otoPlayer == nil || o.paused || o.reported {
		return false
	}
	if o.counter.eof.Load() && !o.otoPlayer.IsPlaying() {
		o.reported = true
		return true
	}
	return false
}

// countingReader tracks how many bytes oto has pulled from the source.
// It is read from oto's goroutine.
type countingReader struct {
	reader io.Reader
	n      atomic.Int64
	eof    atomic.Bool
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.reader.Read(p)
	c.n.Add(int64(n))
	if err == io.EOF {
		c.eof.Store(true)
	}
	return n, err
}
