package tui

import (
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tapedeck/audio"
	"tapedeck/config"
	"tapedeck/model"
	"tapedeck/recorder"
)

type silentStream struct{ closed bool }

func (s *silentStream) ReadChunk(frames int) ([]byte, error) {
	if s.closed {
		return nil, audio.ErrStreamClosed
	}
	return make([]byte, frames*audio.Recording.FrameBytes()), nil
}

func (s *silentStream) Flush() {}

func (s *silentStream) Close() error {
	s.closed = true
	return nil
}

type silentDevice struct{}

func (silentDevice) Open(audio.Format) (audio.CaptureStream, error) {
	return &silentStream{}, nil
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newTestRecorderModel(t *testing.T) (RecorderModel, *recorder.Recorder) {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.RecordingsDir = t.TempDir()
	rec := recorder.New(silentDevice{})
	return NewRecorderModel(rec, cfg, nil), rec
}

func sendRecorder(t *testing.T, m RecorderModel, msg tea.Msg) (RecorderModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	rm, ok := next.(RecorderModel)
	require.True(t, ok)
	return rm, cmd
}

func TestRecorderModel_RecordPauseStopSave(t *testing.T) {
	m, rec := newTestRecorderModel(t)
	assert.Equal(t, statusReady, m.shared.status)
	assert.Equal(t, "00:00", m.shared.clock)

	m, cmd := sendRecorder(t, m, runes("r"))
	assert.NotNil(t, cmd)
	assert.Equal(t, model.RecorderRecording, rec.State())
	assert.Equal(t, statusRecording, m.shared.status)
	assert.True(t, m.shared.capture.Running())
	assert.True(t, m.shared.display.Running())

	m, cmd = sendRecorder(t, m, m.shared.capture.Tick())
	assert.NotNil(t, cmd, "capture keeps polling while recording")
	assert.Equal(t, 1, rec.Chunks())

	m, _ = sendRecorder(t, m, runes("p"))
	assert.Equal(t, model.RecorderPaused, rec.State())
	assert.Equal(t, statusPaused, m.shared.status)
	assert.False(t, m.shared.capture.Running())
	assert.Contains(t, m.View(), "Resume")

	// a tick scheduled before the pause is ignored
	m, _ = sendRecorder(t, m, m.shared.capture.Tick())
	assert.Equal(t, 1, rec.Chunks())

	m, cmd = sendRecorder(t, m, runes("p"))
	assert.NotNil(t, cmd)
	assert.Equal(t, model.RecorderRecording, rec.State())
	assert.True(t, m.shared.capture.Running())

	m, _ = sendRecorder(t, m, m.shared.capture.Tick())
	assert.Equal(t, 2, rec.Chunks())

	m, _ = sendRecorder(t, m, runes("s"))
	assert.Equal(t, model.RecorderStopped, rec.State())
	assert.Equal(t, statusStopped, m.shared.status)
	assert.False(t, m.shared.capture.Running())
	assert.False(t, m.shared.display.Running())

	m, _ = sendRecorder(t, m, runes("w"))
	require.True(t, m.prompt.active)
	assert.Equal(t, filepath.Join(m.shared.saveDir, defaultRecordingName), m.prompt.input.Value())

	m, _ = sendRecorder(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, m.prompt.active)
	require.True(t, m.box.visible())
	assert.Equal(t, "Recording saved successfully!", m.box.text)
	assert.Equal(t, statusReady, m.shared.status)
	assert.Equal(t, "00:00", m.shared.clock)

	info, err := os.Stat(filepath.Join(m.shared.saveDir, defaultRecordingName))
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(44))

	m, _ = sendRecorder(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, m.box.visible())
}

func TestRecorderModel_IgnoresKeysInWrongState(t *testing.T) {
	m, rec := newTestRecorderModel(t)

	for _, k := range []string{"s", "p", "w"} {
		var cmd tea.Cmd
		m, cmd = sendRecorder(t, m, runes(k))
		assert.Nil(t, cmd, k)
		assert.Equal(t, model.RecorderIdle, rec.State(), k)
		assert.False(t, m.prompt.active, k)
	}

	m, _ = sendRecorder(t, m, runes("r"))
	m, cmd := sendRecorder(t, m, runes("r"))
	assert.Nil(t, cmd, "record while recording")
	assert.Equal(t, model.RecorderRecording, rec.State())

	m, _ = sendRecorder(t, m, runes("w"))
	assert.False(t, m.prompt.active, "save is only offered once stopped")
}

func TestRecorderModel_CancelledSaveKeepsRecording(t *testing.T) {
	m, rec := newTestRecorderModel(t)
	m, _ = sendRecorder(t, m, runes("r"))
	m, _ = sendRecorder(t, m, m.shared.capture.Tick())
	m, _ = sendRecorder(t, m, runes("s"))
	m, _ = sendRecorder(t, m, runes("w"))
	require.True(t, m.prompt.active)

	m, _ = sendRecorder(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.prompt.active)
	assert.False(t, m.box.visible())
	assert.Equal(t, 1, rec.Chunks())
	assert.Equal(t, statusStopped, m.shared.status)

	_, err := os.Stat(filepath.Join(m.shared.saveDir, defaultRecordingName))
	assert.True(t, os.IsNotExist(err))
}

func TestRecorderModel_SaveAppendsExtension(t *testing.T) {
	m, _ := newTestRecorderModel(t)
	m, _ = sendRecorder(t, m, runes("r"))
	m, _ = sendRecorder(t, m, m.shared.capture.Tick())
	m, _ = sendRecorder(t, m, runes("s"))

	target := filepath.Join(t.TempDir(), "take1")
	m.save(target)

	_, err := os.Stat(target + ".wav")
	require.NoError(t, err)
	assert.Equal(t, filepath.Dir(target), m.shared.saveDir)
}

func TestRecorderModel_QuitStopsRecording(t *testing.T) {
	m, rec := newTestRecorderModel(t)
	m, _ = sendRecorder(t, m, runes("r"))

	m, cmd := sendRecorder(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
	assert.Equal(t, model.RecorderStopped, rec.State())
	assert.False(t, m.shared.capture.Running())
}
