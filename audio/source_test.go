package audio

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/gopxl/beep/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pcm16 decodes interleaved little-endian 16-bit samples
func pcm16(t *testing.T, data []byte) []int {
	t.Helper()
	require.Zero(t, len(data)%2)
	return decodeS16LE(data, nil)
}

func TestStreamReaderEncodesStereo(t *testing.T) {
	format := beep.Format{SampleRate: 44100, NumChannels: 2, Precision: 2}
	out, err := io.ReadAll(newStreamReader(beep.Silence(3), format))
	require.NoError(t, err)
	assert.Equal(t, make([]byte, 3*Output.FrameBytes()), out)
}

func TestOpenSourceMonoWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "voice.wav")
	require.NoError(t, WriteWAV(path, Recording, [][]byte{s16(1000, -2000, 16000, -32000)}))

	src, err := OpenSource(path)
	require.NoError(t, err)
	defer src.Close()

	out, err := io.ReadAll(src)
	require.NoError(t, err)

	// mono is duplicated onto both channels, within one step of quantization
	want := []int{1000, 1000, -2000, -2000, 16000, 16000, -32000, -32000}
	got := pcm16(t, out)
	require.Len(t, got, len(want))
	for i := range want {
		assert.InDelta(t, want[i], got[i], 1, "sample %d", i)
	}
}

func TestOpenSourceResamplesWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "low.wav")
	low := Format{SampleRate: 22050, Channels: 1, BitDepth: 16}
	require.NoError(t, WriteWAV(path, low, [][]byte{make([]byte, low.BytesPerSecond())}))

	src, err := OpenSource(path)
	require.NoError(t, err)
	defer src.Close()

	out, err := io.ReadAll(src)
	require.NoError(t, err)
	// one second of audio stays one second long, give or take the interpolation tail
	assert.Zero(t, len(out)%Output.FrameBytes())
	assert.InDelta(t, Output.BytesPerSecond(), len(out), float64(64*Output.FrameBytes()))
}

func TestOpenSourceUnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o644))

	_, err := OpenSource(path)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestOpenSourceMissingFile(t *testing.T) {
	_, err := OpenSource(filepath.Join(t.TempDir(), "gone.mp3"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestClampVolume(t *testing.T) {
	assert.Equal(t, 0.0, ClampVolume(-0.5))
	assert.Equal(t, 0.0, ClampVolume(0))
	assert.Equal(t, 0.3, ClampVolume(0.3))
	assert.Equal(t, 1.0, ClampVolume(1))
	assert.Equal(t, 1.0, ClampVolume(1.7))
}
