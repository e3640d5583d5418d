package audio

import "time"

// Format describes a linear PCM stream
type Format struct {
	SampleRate int
	Channels   int
	BitDepth   int
}

// Recording is the fixed capture format: mono, 16-bit, 44.1 kHz.
var Recording = Format{SampleRate: 44100, Channels: 1, BitDepth: 16}

// Output is the format every decoded track is converted to before playback.
var Output = Format{SampleRate: 44100, Channels: 2, BitDepth: 16}

// ChunkFrames is the number of frames read from a capture stream per tick.
const ChunkFrames = 1024

// FrameBytes returns the size of one frame in bytes
func (f Format) FrameBytes() int {
	return f.Channels * f.BitDepth / 8
}

// BytesPerSecond returns the data rate of the format
func (f Format) BytesPerSecond() int {
	return f.SampleRate * f.FrameBytes()
}

// Duration converts a byte count in this format to play time
func (f Format) Duration(n int64) time.Duration {
	bps := int64(f.BytesPerSecond())
	if bps == 0 {
		return 0
	}
	return time.Duration(n) * time.Second / time.Duration(bps)
}
