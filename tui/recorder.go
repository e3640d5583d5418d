package tui

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"tapedeck/config"
	"tapedeck/model"
	"tapedeck/poll"
	"tapedeck/recorder"
)

const (
	statusReady     = "Press Record to start"
	statusRecording = "Recording..."
	statusPaused    = "Recording Paused"
	statusStopped   = "Recording Stopped"

	defaultRecordingName = "recording.wav"
)

// RecorderKeyMap defines the recorder shortcuts
type RecorderKeyMap struct {
	Record key.Binding
	Stop   key.Binding
	Pause  key.Binding
	Save   key.Binding
	Quit   key.Binding
}

func (k RecorderKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Record, k.Stop, k.Pause, k.Save, k.Quit}
}

func (k RecorderKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

var DefaultRecorderKeyMap = RecorderKeyMap{
	Record: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "record")),
	Stop:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "stop")),
	Pause:  key.NewBinding(key.WithKeys("p", " "), key.WithHelp("p", "pause/resume")),
	Save:   key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "save")),
	Quit:   key.NewBinding(key.WithKeys("ctrl+c", "esc", "q"), key.WithHelp("esc", "quit")),
}

// recorderShared is the presentation state, updated from recorder events
type recorderShared struct {
	rec     *recorder.Recorder
	capture *poll.Task
	display *poll.Task
	logger  *zap.Logger

	status  string
	clock   string
	err     error
	saveDir string
}

func (s *recorderShared) onEvent(e model.Event) {
	if e.Kind != model.EventStateChanged {
		return
	}
	switch e.Recorder {
	case model.RecorderRecording:
		s.status = statusRecording
		s.clock = recorder.FormatClock(s.rec.Elapsed())
	case model.RecorderPaused:
		s.status = statusPaused
	case model.RecorderStopped:
		s.status = statusStopped
		s.clock = recorder.FormatClock(s.rec.Elapsed())
	}
}

// RecorderModel is the voice recorder window
type RecorderModel struct {
	shared *recorderShared
	keys   RecorderKeyMap
	help   help.Model
	prompt prompt
	box    messageBox
	width  int
}

// NewRecorderModel wires rec to a capture loop and a once-per-second display timer
func NewRecorderModel(rec *recorder.Recorder, cfg config.Config, logger *zap.Logger) RecorderModel {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &recorderShared{
		rec:     rec,
		logger:  logger,
		status:  statusReady,
		clock:   recorder.FormatClock(0),
		saveDir: cfg.RecordingsDir,
	}

	s.capture = poll.New(cfg.CaptureInterval, func() bool {
		if err := rec.Capture(); err != nil {
			s.err = err
			s.display.Stop()
			return false
		}
		return rec.Capturing()
	})
	s.display = poll.New(time.Second, func() bool {
		if rec.State() == model.RecorderRecording {
			s.clock = recorder.FormatClock(rec.Elapsed())
		}
		return rec.State().Active()
	})
	rec.Subscribe(s.onEvent)

	return RecorderModel{
		shared: s,
		keys:   DefaultRecorderKeyMap,
		help:   help.New(),
		prompt: newPrompt(),
	}
}

func (m RecorderModel) Init() tea.Cmd {
	return nil
}

func (m RecorderModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case poll.TickMsg:
		return m, tea.Batch(m.shared.capture.Update(msg), m.shared.display.Update(msg))

	case tea.KeyMsg:
		if m.prompt.active {
			path, done, cmd := m.prompt.update(msg)
			if done {
				m.save(path)
			}
			return m, cmd
		}
		if m.box.visible() {
			if dismissKey(msg) {
				m.box.dismiss()
			}
			return m, nil
		}
		m.shared.err = nil
		return m.handleKeys(msg)
	}
	return m, nil
}

func (m RecorderModel) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := m.shared
	switch {
	case key.Matches(msg, m.keys.Record):
		if s.rec.State().Active() {
			return m, nil
		}
		if err := s.rec.Start(); err != nil {
			s.err = err
			return m, nil
		}
		return m, tea.Batch(s.capture.Start(), s.display.Start())

	case key.Matches(msg, m.keys.Stop):
		if !s.rec.State().Active() {
			return m, nil
		}
		s.capture.Stop()
		s.display.Stop()
		if err := s.rec.Stop(); err != nil {
			s.err = err
		}
		return m, nil

	case key.Matches(msg, m.keys.Pause):
		if !s.rec.State().Active() {
			return m, nil
		}
		if err := s.rec.TogglePause(); err != nil {
			s.err = err
			return m, nil
		}
		if s.rec.Capturing() {
			return m, s.capture.Start()
		}
		s.capture.Stop()
		return m, nil

	case key.Matches(msg, m.keys.Save):
		if s.rec.State() != model.RecorderStopped {
			return m, nil
		}
		cmd := m.prompt.open("Save recording as", filepath.Join(s.saveDir, defaultRecordingName))
		return m, cmd

	case key.Matches(msg, m.keys.Quit):
		s.capture.Stop()
		s.display.Stop()
		if s.rec.State().Active() {
			s.rec.Stop()
		}
		return m, tea.Quit
	}
	return m, nil
}

// save writes the recording to path; an empty path means the dialog was cancelled
func (m *RecorderModel) save(path string) {
	s := m.shared
	if path == "" {
		return
	}
	if filepath.Ext(path) == "" {
		path += ".wav"
	}
	if err := s.rec.Save(path); err != nil {
		s.err = err
		return
	}
	s.saveDir = filepath.Dir(path)
	s.status = statusReady
	s.clock = recorder.FormatClock(0)
	m.box.show("Voice Recorder", "Recording saved successfully!", false)
}

func (m RecorderModel) View() string {
	if m.prompt.active {
		return m.prompt.view()
	}
	if m.box.visible() {
		return m.box.view()
	}

	s := m.shared
	state := s.rec.State()

	var b strings.Builder
	b.WriteString(titleStyle.Render("🎙 Voice Recorder") + "\n\n")
	b.WriteString(statusStyle.Render(s.status) + "\n")
	b.WriteString(clockStyle.Render(s.clock) + "\n\n")

	pauseLabel := "Pause"
	if state == model.RecorderPaused {
		pauseLabel = "Resume"
	}
	buttons := []string{
		button("Record", !state.Active()),
		button("Stop", state.Active()),
		button(pauseLabel, state.Active()),
		button("Save", state == model.RecorderStopped),
	}
	b.WriteString(strings.Join(buttons, "  ") + "\n\n")

	if s.err != nil {
		b.WriteString(errorStyle.Render(fmt.Sprintf("✗ %v", s.err)) + "\n")
	}
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

// RunRecorder runs the recorder window until the user quits
func RunRecorder(rec *recorder.Recorder, cfg config.Config, logger *zap.Logger) error {
	m := NewRecorderModel(rec, cfg, logger)
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()

	if rec.State().Active() {
		rec.Stop()
	}
	return err
}
