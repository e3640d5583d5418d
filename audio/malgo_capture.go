//go:build !noaudio

package audio

import (
	"fmt"
	"sync"

	"github.com/gen2brain/malgo"
)

// maxPendingChunks bounds the audio held between reads; older audio is dropped
const maxPendingChunks = 4

// MalgoCapture opens microphone streams on the default capture device
type MalgoCapture struct{}

func NewMalgoCapture() *MalgoCapture {
	return &MalgoCapture{}
}

func (c *MalgoCapture) Open(format Format) (CaptureStream, error) {
	if format.BitDepth != 16 {
		return nil, fmt.Errorf("%w: %d-bit capture", ErrUnsupportedFormat, format.BitDepth)
	}

	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to init capture context: %w", err)
	}

	cfg := malgo.DefaultDeviceConfig(malgo.Capture)
	cfg.Capture.Format = malgo.FormatS16
	cfg.Capture.Channels = uint32(format.Channels)
	cfg.SampleRate = uint32(format.SampleRate)

	s := newMalgoStream(format.FrameBytes())
	s.ctx = ctx

	dev, err := malgo.InitDevice(ctx.Context, cfg, malgo.DeviceCallbacks{Data: s.onData})
	if err != nil {
		ctx.Uninit()
		ctx.Free()
		return nil, fmt.Errorf("failed to open capture device: %w", err)
	}
	s.device = dev

	if err := dev.Start(); err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to start capture device: %w", err)
	}
	return s, nil
}

type malgoStream struct {
	ctx        *malgo.AllocatedContext
	device     *malgo.Device
	frameBytes int

	mu      sync.Mutex
	cond    *sync.Cond
	pending []byte
	limit   int
	closed  bool
}

func newMalgoStream(frameBytes int) *malgoStream {
	s := &malgoStream{frameBytes: frameBytes}
	s.cond = sync.NewCond(&s.mu)
	return s
}

// onData runs on the device thread
func (s *malgoStream) onData(_, input []byte, _ uint32) {
	s.mu.Lock()
	s.pending = append(s.pending, input...)
	if s.limit > 0 && len(s.pending) > s.limit {
		drop := (len(s.pending) - s.limit) / s.frameBytes * s.frameBytes
		s.pending = append(s.pending[:0], s.pending[drop:]...)
	}
	s.mu.Unlock()
	s.cond.Broadcast()
}

func (s *malgoStream) ReadChunk(frames int) ([]byte, error) {
	want := frames * s.frameBytes

	s.mu.Lock()
	defer s.mu.Unlock()

	s.limit = want * maxPendingChunks
	for len(s.pending) < want && !s.closed {
		s.cond.Wait()
	}
	if s.closed {
		return nil, ErrStreamClosed
	}

	chunk := make([]byte, want)
	copy(chunk, s.pending)
	s.pending = append(s.pending[:0], s.pending[want:]...)
	return chunk, nil
}

func (s *malgoStream) Flush() {
	s.mu.Lock()
	s.pending = s.pending[:0]
	s.mu.Unlock()
}

func (s *malgoStream) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()
	s.cond.Broadcast()

	if s.device != nil {
		s.device.Uninit()
	}
	if s.ctx == nil {
		return nil
	}
	if err := s.ctx.Uninit(); err != nil {
		s.ctx.Free()
		return fmt.Errorf("failed to release capture context: %w", err)
	}
	s.ctx.Free()
	return nil
}
