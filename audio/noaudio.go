//go:build noaudio

package audio

import "time"

// OtoOutput is unavailable in noaudio builds
type OtoOutput struct{}

func NewOtoOutput(initialVolume float64) *OtoOutput { return &OtoOutput{} }

func (o *OtoOutput) Load(path string) error { return ErrNoAudio }
func (o *OtoOutput) Play() error { return ErrNoAudio }
func (o *OtoOutput) Pause() {}
func (o *OtoOutput) Resume() {}
func (o *OtoOutput) Stop() {}
func (o *OtoOutput) SetVolume(volume float64) {}
func (o *OtoOutput) IsActive() bool { return false }
func (o *OtoOutput) Position() time.Duration { return 0 }
func (o *OtoOutput) Finished() bool { return false }

// MalgoCapture is unavailable in noaudio builds
type MalgoCapture struct{}

func NewMalgoCapture() *MalgoCapture { return &MalgoCapture{} }

func (c *MalgoCapture) Open(format Format) (CaptureStream, error) { return nil, ErrNoAudio }
