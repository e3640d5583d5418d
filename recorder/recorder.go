// Package recorder implements the voice recorder state machine.
//
// The recorder owns only semantic state: the capture stream, the recorded
// chunks and elapsed-time accounting. It never schedules work itself; the
// caller drives Capture on every capture tick and reads Elapsed once per
// display tick.
package recorder

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"tapedeck/audio"
	"tapedeck/model"
)

// ErrInvalidTransition is returned when an action is not valid in the current state
var ErrInvalidTransition = errors.New("invalid recorder transition")

// Recorder is the recording state machine
type Recorder struct {
	device audio.CaptureDevice
	format audio.Format
	logger *zap.Logger
	clock  func() time.Time

	state   model.RecorderState
	stream  audio.CaptureStream
	buffers [][]byte
	size    int
	session string

	startedAt   time.Time
	pausedAt    time.Time
	stoppedAt   time.Time
	pausedTotal time.Duration

	listeners []func(model.Event)
}

// Option configures a Recorder
type Option func(*Recorder)

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(r *Recorder) { r.logger = logger }
}

// WithClock replaces time.Now
func WithClock(clock func() time.Time) Option {
	return func(r *Recorder) { r.clock = clock }
}

// WithFormat overrides the capture format
func WithFormat(format audio.Format) Option {
	return func(r *Recorder) { r.format = format }
}

// New creates an idle recorder capturing from device
func New(device audio.CaptureDevice, opts ...Option) *Recorder {
	r := &Recorder{
		device: device,
		format: audio.Recording,
		logger: zap.NewNop(),
		clock:  time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Subscribe registers fn to be called after every change
func (r *Recorder) Subscribe(fn func(model.Event)) {
	r.listeners = append(r.listeners, fn)
}

func (r *Recorder) emit(e model.Event) {
	e.Recorder = r.state
	for _, fn := range r.listeners {
		fn(e)
	}
}

func (r *Recorder) setState(s model.RecorderState) {
	r.logger.Debug("recorder state", zap.Stringer("from", r.state), zap.Stringer("to", s), zap.String("session", r.session))
	r.state = s
	r.emit(model.Event{Kind: model.EventStateChanged})
}

func (r *Recorder) State() model.RecorderState { return r.state }

// Capturing reports whether the capture loop should keep running
func (r *Recorder) Capturing() bool { return r.state == model.RecorderRecording }

// Session returns the id of the current or last recording session
func (r *Recorder) Session() string { return r.session }

// Chunks returns the number of chunks recorded
func (r *Recorder) Chunks() int { return len(r.buffers) }

// Recorded returns the play time of the captured audio
func (r *Recorder) Recorded() time.Duration {
	return r.format.Duration(int64(r.size))
}

// Start opens a capture stream and begins a new recording, discarding any
// previous one. Valid from Idle or Stopped.
func (r *Recorder) Start() error {
	if r.state.Active() {
		return fmt.Errorf("%w: start while %s", ErrInvalidTransition, r.state)
	}

	stream, err := r.device.Open(r.format)
	if err != nil {
		r.logger.Error("open capture stream", zap.Error(err))
		return fmt.Errorf("open capture stream: %w", err)
	}

	r.stream = stream
	r.buffers = nil
	r.size = 0
	r.session = uuid.NewString()
	r.startedAt = r.clock()
	r.pausedAt = time.Time{}
	r.stoppedAt = time.Time{}
	r.pausedTotal = 0

	r.logger.Info("recording started", zap.String("session", r.session))
	r.setState(model.RecorderRecording)
	return nil
}

// Pause freezes capture and elapsed time
func (r *Recorder) Pause() error {
	if r.state != model.RecorderRecording {
		return fmt.Errorf("%w: pause while %s", ErrInvalidTransition, r.state)
	}
	r.pausedAt = r.clock()
	r.setState(model.RecorderPaused)
	return nil
}

// Resume continues a paused recording
func (r *Recorder) Resume() error {
	if r.state != model.RecorderPaused {
		return fmt.Errorf("%w: resume while %s", ErrInvalidTransition, r.state)
	}
	r.pausedTotal += r.clock().Sub(r.pausedAt)
	r.pausedAt = time.Time{}
	// audio the device delivered while paused is not part of the take
	r.stream.Flush()
	r.setState(model.RecorderRecording)
	return nil
}

// TogglePause pauses a running recording or resumes a paused one
func (r *Recorder) TogglePause() error {
	if r.state == model.RecorderPaused {
		return r.Resume()
	}
	return r.Pause()
}

// Stop closes the capture stream. Recorded audio is kept for Save.
func (r *Recorder) Stop() error {
	if !r.state.Active() {
		return fmt.Errorf("%w: stop while %s", ErrInvalidTransition, r.state)
	}
	return r.finish(nil)
}

// finish ends the session; cause is the capture fault that ended it, if any
func (r *Recorder) finish(cause error) error {
	now := r.clock()
	if r.state == model.RecorderPaused {
		r.pausedTotal += now.Sub(r.pausedAt)
		r.pausedAt = time.Time{}
	}
	r.stoppedAt = now

	closeErr := r.stream.Close()
	r.stream = nil

	r.logger.Info("recording stopped",
		zap.String("session", r.session),
		zap.Int("chunks", len(r.buffers)),
		zap.Duration("recorded", r.Recorded()),
		zap.NamedError("cause", cause),
	)
	r.setState(model.RecorderStopped)

	if closeErr != nil {
		return fmt.Errorf("close capture stream: %w", closeErr)
	}
	return nil
}

// Capture reads one chunk from the stream while recording. It does nothing
// in any other state. A read failure ends the recording.
func (r *Recorder) Capture() error {
	if r.state != model.RecorderRecording {
		return nil
	}

	chunk, err := r.stream.ReadChunk(audio.ChunkFrames)
	if err != nil {
		r.logger.Error("capture read failed", zap.String("session", r.session), zap.Error(err))
		return errors.Join(fmt.Errorf("read capture stream: %w", err), r.finish(err))
	}

	r.buffers = append(r.buffers, chunk)
	r.size += len(chunk)
	r.emit(model.Event{Kind: model.EventBufferAppended, Count: len(r.buffers)})
	return nil
}

// Save writes the recorded audio to path as a WAV file. An empty path means
// the save dialog was cancelled and is a no-op. The recording is kept, so it
// can be saved again.
func (r *Recorder) Save(path string) error {
	if path == "" {
		return nil
	}
	if r.state != model.RecorderStopped {
		return fmt.Errorf("%w: save while %s", ErrInvalidTransition, r.state)
	}

	if err := audio.WriteWAV(path, r.format, r.buffers); err != nil {
		r.logger.Error("save recording", zap.String("path", path), zap.Error(err))
		return err
	}

	r.logger.Info("recording saved", zap.String("session", r.session), zap.String("path", path))
	r.emit(model.Event{Kind: model.EventSaved, Path: path})
	return nil
}

// Elapsed returns wall-clock time since Start minus time spent paused.
// It does not advance while paused or after Stop.
func (r *Recorder) Elapsed() time.Duration {
	var end time.Time
	switch r.state {
	case model.RecorderRecording:
		end = r.clock()
	case model.RecorderPaused:
		end = r.pausedAt
	case model.RecorderStopped:
		end = r.stoppedAt
	default:
		return 0
	}

	d := end.Sub(r.startedAt) - r.pausedTotal
	if d < 0 {
		return 0
	}
	return d
}

// FormatClock renders d as MM:SS
func FormatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int(d / time.Second)
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}
