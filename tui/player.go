package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"tapedeck/config"
	"tapedeck/model"
	"tapedeck/player"
	"tapedeck/playlist"
	"tapedeck/poll"
	"tapedeck/recorder"
)

const volumeStep = 0.05

// PlayerKeyMap defines the music player shortcuts
type PlayerKeyMap struct {
	Up         key.Binding
	Down       key.Binding
	Play       key.Binding
	Pause      key.Binding
	Stop       key.Binding
	Open       key.Binding
	VolumeUp   key.Binding
	VolumeDown key.Binding
	Help       key.Binding
	Quit       key.Binding
}

func (k PlayerKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Play, k.Pause, k.Stop, k.Open, k.Help, k.Quit}
}

func (k PlayerKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Play},
		{k.Pause, k.Stop, k.Open},
		{k.VolumeUp, k.VolumeDown},
		{k.Help, k.Quit},
	}
}

var DefaultPlayerKeyMap = PlayerKeyMap{
	Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Play:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "play")),
	Pause:      key.NewBinding(key.WithKeys(" ", "p"), key.WithHelp("space", "pause")),
	Stop:       key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "stop")),
	Open:       key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open folder")),
	VolumeUp:   key.NewBinding(key.WithKeys("+", "=", "right"), key.WithHelp("+", "volume up")),
	VolumeDown: key.NewBinding(key.WithKeys("-", "left"), key.WithHelp("-", "volume down")),
	Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit:       key.NewBinding(key.WithKeys("ctrl+c", "esc", "q"), key.WithHelp("esc", "quit")),
}

// loadFolderMsg asks the model to load a folder into the playlist
type loadFolderMsg struct {
	dir string
}

type playerShared struct {
	player *player.Player
	ticker *poll.Task
	logger *zap.Logger

	cursor int
	err    error
}

// PlayerModel is the music player window
type PlayerModel struct {
	shared     *playerShared
	keys       PlayerKeyMap
	help       help.Model
	bar        progress.Model
	prompt     prompt
	box        messageBox
	musicDir   string
	configPath string
	width      int
	height     int
}

// NewPlayerModel builds the player window. The playlist is loaded from
// cfg.MusicDir on start; configPath is where the chosen folder is remembered.
func NewPlayerModel(p *player.Player, cfg config.Config, configPath string, logger *zap.Logger) PlayerModel {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &playerShared{player: p, logger: logger}
	s.ticker = poll.New(cfg.ProgressInterval, func() bool {
		ok, err := p.Poll()
		if err != nil {
			s.err = err
		}
		return ok
	})
	p.Subscribe(func(e model.Event) {
		switch e.Kind {
		case model.EventTrackStarted:
			s.cursor = e.Index
		case model.EventPlaylistLoaded:
			s.cursor = 0
		}
	})

	return PlayerModel{
		shared:     s,
		keys:       DefaultPlayerKeyMap,
		help:       help.New(),
		bar:        progress.New(progress.WithDefaultGradient(), progress.WithWidth(40), progress.WithoutPercentage()),
		prompt:     newPrompt(),
		musicDir:   cfg.MusicDir,
		configPath: configPath,
	}
}

func (m PlayerModel) Init() tea.Cmd {
	if m.musicDir == "" {
		return nil
	}
	dir := m.musicDir
	return func() tea.Msg { return loadFolderMsg{dir: dir} }
}

func (m PlayerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case poll.TickMsg:
		return m, m.shared.ticker.Update(msg)

	case loadFolderMsg:
		m.loadFolder(msg.dir)
		return m, nil

	case tea.KeyMsg:
		if m.prompt.active {
			dir, done, cmd := m.prompt.update(msg)
			if done && dir != "" {
				m.loadFolder(dir)
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

func (m PlayerModel) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := m.shared
	count := len(s.player.Tracks())

	switch {
	case key.Matches(msg, m.keys.Up):
		if s.cursor > 0 {
			s.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if s.cursor < count-1 {
			s.cursor++
		}

	case key.Matches(msg, m.keys.Play):
		target := s.cursor
		if s.player.State() == model.PlayerPaused && target != s.player.Index() {
			// a different track was picked while paused; start it fresh
			s.player.Stop()
		}
		cmd := m.play(target)
		return m, cmd

	case key.Matches(msg, m.keys.Pause):
		switch s.player.State() {
		case model.PlayerPlaying:
			// a track that drained between ticks cannot be paused; the
			// ticker must keep running to advance past it
			if err := s.player.Pause(); err != nil {
				if !errors.Is(err, player.ErrNotPlaying) {
					s.err = err
				}
				return m, nil
			}
			s.ticker.Stop()
		case model.PlayerPaused:
			cmd := m.play(-1)
			return m, cmd
		}

	case key.Matches(msg, m.keys.Stop):
		s.ticker.Stop()
		s.player.Stop()

	case key.Matches(msg, m.keys.Open):
		cmd := m.prompt.open("Select music folder", m.musicDir)
		return m, cmd

	case key.Matches(msg, m.keys.VolumeUp):
		s.player.SetVolume(s.player.Volume() + volumeStep)

	case key.Matches(msg, m.keys.VolumeDown):
		s.player.SetVolume(s.player.Volume() - volumeStep)

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.Quit):
		s.ticker.Stop()
		return m, tea.Quit
	}
	return m, nil
}

// play starts or resumes playback and the progress ticker
func (m *PlayerModel) play(selected int) tea.Cmd {
	s := m.shared
	if err := s.player.Play(selected); err != nil {
		if errors.Is(err, player.ErrEmptyPlaylist) {
			m.box.show("No Folder Selected", "Please select a folder with music files.", true)
			return nil
		}
		s.err = err
		return nil
	}
	return s.ticker.Start()
}

func (m *PlayerModel) loadFolder(dir string) {
	s := m.shared
	n, err := s.player.LoadFolder(dir)
	switch {
	case errors.Is(err, playlist.ErrNoTracks):
		m.box.show("No Songs Found", "No mp3 or wav files found in the selected folder.", true)
	case err != nil:
		s.err = err
		return
	default:
		m.box.show("Folder Loaded", fmt.Sprintf("Loaded %d songs.", n), false)
	}

	m.musicDir = dir
	if m.configPath == "" {
		return
	}
	if err := config.SaveMusicDir(m.configPath, dir); err != nil {
		s.logger.Warn("save music dir", zap.String("path", m.configPath), zap.Error(err))
	}
}

func (m PlayerModel) View() string {
	if m.prompt.active {
		return m.prompt.view()
	}
	if m.box.visible() {
		return m.box.view()
	}

	s := m.shared
	var b strings.Builder

	b.WriteString(titleStyle.Render("♫ Music Player") + "  ")
	b.WriteString(statusStyle.Render(m.musicDir) + "\n\n")

	b.WriteString(m.renderTrackList())
	b.WriteString("\n")
	b.WriteString(m.renderNowPlaying())
	b.WriteString("\n")

	pos, total := s.player.Progress()
	percent := 0.0
	if total > 0 {
		percent = float64(pos) / float64(total)
	}
	b.WriteString(m.bar.ViewAs(percent) + "  ")
	b.WriteString(statusStyle.Render(formatProgress(pos, total)) + "\n")
	b.WriteString(volumeStyle.Render(fmt.Sprintf("Volume: %d%%", int(s.player.Volume()*100+0.5))) + "\n\n")

	if s.err != nil {
		b.WriteString(errorStyle.Render(fmt.Sprintf("✗ %v", s.err)) + "\n")
	}
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m PlayerModel) renderNowPlaying() string {
	s := m.shared
	track, info, ok := s.player.Current()
	state := s.player.State()
	if !ok || state == model.PlayerIdle || state == model.PlayerStopped {
		return statusStyle.Render("■ Stopped") + "\n"
	}

	icon := "▶"
	if state == model.PlayerPaused {
		icon = "⏸"
	}
	line := fmt.Sprintf("%s %s", icon, track.DisplayName(info))
	return trackPlayingStyle.Render(line) + "\n"
}

func (m PlayerModel) renderTrackList() string {
	s := m.shared
	tracks := s.player.Tracks()
	if len(tracks) == 0 {
		return statusStyle.Render("  No songs loaded. Press o to open a folder.") + "\n"
	}

	maxVisible := 12
	if m.height > 0 {
		maxVisible = m.height - 12
		if maxVisible < 5 {
			maxVisible = 5
		}
	}
	if maxVisible > len(tracks) {
		maxVisible = len(tracks)
	}

	startIdx := 0
	if s.cursor >= maxVisible {
		startIdx = s.cursor - maxVisible + 1
	}
	endIdx := startIdx + maxVisible
	if endIdx > len(tracks) {
		endIdx = len(tracks)
		startIdx = endIdx - maxVisible
		if startIdx < 0 {
			startIdx = 0
		}
	}

	var lines []string
	if startIdx > 0 {
		lines = append(lines, statusStyle.Render("  ↑ more"))
	}

	playing := -1
	if st := s.player.State(); st == model.PlayerPlaying || st == model.PlayerPaused {
		playing = s.player.Index()
	}
	for i := startIdx; i < endIdx; i++ {
		isSelected := i == s.cursor
		isPlaying := i == playing

		prefix := "  "
		if isPlaying {
			prefix = "▶ "
		}
		text := prefix + tracks[i].Name

		var styled string
		switch {
		case isSelected && isPlaying:
			styled = trackSelectedPlayingStyle.Render(text)
		case isSelected:
			styled = trackSelectedStyle.Render(text)
		case isPlaying:
			styled = trackPlayingStyle.Render(text)
		default:
			styled = trackItemStyle.Render(text)
		}
		lines = append(lines, styled)
	}

	if endIdx < len(tracks) {
		lines = append(lines, statusStyle.Render("  ↓ more"))
	}
	return strings.Join(lines, "\n") + "\n"
}

// formatProgress renders "MM:SS / MM:SS"
func formatProgress(pos, total time.Duration) string {
	return recorder.FormatClock(pos) + " / " + recorder.FormatClock(total)
}

// RunPlayer runs the player window until the user quits
func RunPlayer(p *player.Player, cfg config.Config, configPath string, logger *zap.Logger) error {
	m := NewPlayerModel(p, cfg, configPath, logger)
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()

	p.Stop()
	return err
}
