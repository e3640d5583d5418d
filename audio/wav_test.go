package audio

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func s16(samples ...int16) []byte {
	out := make([]byte, 0, len(samples)*2)
	for _, s := range samples {
		out = append(out, byte(s), byte(uint16(s)>>8))
	}
	return out
}

func TestWriteWAVRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "take.wav")
	chunks := [][]byte{s16(1, -1, 300), s16(-32768, 32767)}

	require.NoError(t, WriteWAV(path, Recording, chunks))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	d := wav.NewDecoder(f)
	buf, err := d.FullPCMBuffer()
	require.NoError(t, err)

	assert.Equal(t, uint32(44100), d.SampleRate)
	assert.Equal(t, uint16(1), d.NumChans)
	assert.Equal(t, uint16(16), d.BitDepth)
	assert.Equal(t, []int{1, -1, 300, -32768, 32767}, buf.Data)
}

func TestWriteWAVLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WriteWAV(filepath.Join(dir, "a.wav"), Recording, [][]byte{s16(5)}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "a.wav", entries[0].Name())
}

func TestWriteWAVIsDeterministic(t *testing.T) {
	dir := t.TempDir()
	chunks := [][]byte{s16(10, 20, 30), s16(40)}
	first := filepath.Join(dir, "first.wav")
	second := filepath.Join(dir, "second.wav")

	require.NoError(t, WriteWAV(first, Recording, chunks))
	require.NoError(t, WriteWAV(second, Recording, chunks))

	a, err := os.ReadFile(first)
	require.NoError(t, err)
	b, err := os.ReadFile(second)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestWriteWAVRejectsOtherBitDepths(t *testing.T) {
	err := WriteWAV(filepath.Join(t.TempDir(), "x.wav"), Format{SampleRate: 8000, Channels: 1, BitDepth: 8}, nil)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestWAVDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "second.wav")
	// one second of mono silence
	require.NoError(t, WriteWAV(path, Recording, [][]byte{make([]byte, Recording.BytesPerSecond())}))

	d, err := WAVDuration(path)
	require.NoError(t, err)
	assert.Equal(t, time.Second, d)
}

func TestWriteWAVEmptyTake(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.wav")
	require.NoError(t, WriteWAV(path, Recording, nil))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, int64(44), info.Size())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	d := wav.NewDecoder(f)
	require.True(t, d.IsValidFile())
	require.NoError(t, d.FwdToPCM())
	assert.Equal(t, uint32(44100), d.SampleRate)
	assert.Equal(t, uint16(1), d.NumChans)
	assert.Equal(t, uint16(16), d.BitDepth)
	assert.Zero(t, d.PCMSize)

	dur, err := WAVDuration(path)
	require.NoError(t, err)
	assert.Zero(t, dur)
}

func TestWAVDurationInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bogus.wav")
	require.NoError(t, os.WriteFile(path, []byte("not a wav"), 0o644))

	_, err := WAVDuration(path)
	assert.ErrorIs(t, err, ErrInvalidWAV)
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, time.Second, Output.Duration(int64(Output.BytesPerSecond())))
	assert.Equal(t, 500*time.Millisecond, Recording.Duration(int64(Recording.BytesPerSecond()/2)))
	assert.Equal(t, time.Duration(0), Format{}.Duration(100))
}
