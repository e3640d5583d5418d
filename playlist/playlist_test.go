package playlist

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tapedeck/audio"
)

func touch(t *testing.T, dir, name string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
}

func TestScanFiltersAndOrders(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.wav", "a.mp3", "notes.txt", "cover.jpg", "c.MP3"} {
		touch(t, dir, name)
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.mp3"), 0o755))
	touch(t, filepath.Join(dir, "nested.mp3"), "deep.mp3")

	tracks, err := Scan(dir)
	require.NoError(t, err)

	var names []string
	for _, tr := range tracks {
		names = append(names, tr.Name)
		assert.Equal(t, filepath.Join(dir, tr.Name), tr.Path)
	}
	assert.Equal(t, []string{"a.mp3", "b.wav", "c.MP3"}, names)
}

func TestScanEmptyFolder(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "readme.md")

	tracks, err := Scan(dir)
	assert.ErrorIs(t, err, ErrNoTracks)
	assert.Empty(t, tracks)
}

func TestScanMissingFolder(t *testing.T) {
	_, err := Scan(filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.NotErrorIs(t, err, ErrNoTracks)
}

func TestIsAudio(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"song.mp3", true},
		{"song.wav", true},
		{"SONG.WAV", true},
		{"song.flac", false},
		{"mp3", false},
		{"song.mp3.txt", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsAudio(tt.name))
		})
	}
}

func TestProbeWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone.wav")
	require.NoError(t, audio.WriteWAV(path, audio.Recording, [][]byte{make([]byte, audio.Recording.BytesPerSecond()*2)}))

	info, err := Probe(path)
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, info.Duration)
	assert.Empty(t, info.Title)
}

func TestProbeBrokenMP3(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.mp3")
	require.NoError(t, os.WriteFile(path, []byte("not really an mp3"), 0o644))

	info, err := Probe(path)
	// garbage yields no frames rather than a hard failure
	if err == nil {
		assert.Equal(t, time.Duration(0), info.Duration)
	}
	assert.Empty(t, info.Title)
}
