// Package player implements the music player state machine: a folder
// playlist, transport controls, volume, progress and automatic advance to
// the next track.
package player

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"tapedeck/audio"
	"tapedeck/model"
	"tapedeck/playlist"
)

var (
	// ErrEmptyPlaylist is returned by Play when no folder with music has been loaded
	ErrEmptyPlaylist = errors.New("please select a folder with music files")
	// ErrNotPlaying is returned by Pause when nothing is playing
	ErrNotPlaying = errors.New("nothing is playing")
)

// IsWarning reports whether err is a recoverable condition that should be
// shown to the user rather than treated as a fault.
func IsWarning(err error) bool {
	return errors.Is(err, ErrEmptyPlaylist) || errors.Is(err, playlist.ErrNoTracks)
}

// ProbeFunc returns metadata of a track; its duration is the progress scale
type ProbeFunc func(path string) (model.TrackInfo, error)

// Player is the playback state machine
type Player struct {
	sink   audio.Sink
	probe  ProbeFunc
	logger *zap.Logger

	tracks   []model.Track
	index    int // playlist position of current; -1 after a reload during playback
	current  model.Track
	loaded   bool
	state    model.PlayerState
	volume   float64
	info     model.TrackInfo
	position time.Duration

	listeners []func(model.Event)
}

// Option configures a Player
type Option func(*Player)

func WithLogger(logger *zap.Logger) Option {
	return func(p *Player) { p.logger = logger }
}

func WithProbe(probe ProbeFunc) Option {
	return func(p *Player) { p.probe = probe }
}

// WithVolume sets the initial volume, clamped to [0, 1]
func WithVolume(volume float64) Option {
	return func(p *Player) { p.volume = audio.ClampVolume(volume) }
}

// New creates an idle player with an empty playlist
func New(sink audio.Sink, opts ...Option) *Player {
	p := &Player{
		sink:   sink,
		probe:  playlist.Probe,
		logger: zap.NewNop(),
		volume: 0.5,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.sink.SetVolume(p.volume)
	return p
}

// Subscribe registers fn to be called after every change
func (p *Player) Subscribe(fn func(model.Event)) {
	p.listeners = append(p.listeners, fn)
}

func (p *Player) emit(e model.Event) {
	e.Player = p.state
	for _, fn := range p.listeners {
		fn(e)
	}
}

func (p *Player) setState(s model.PlayerState) {
	if s == p.state {
		return
	}
	p.logger.Debug("player state", zap.Stringer("from", p.state), zap.Stringer("to", s))
	p.state = s
	p.emit(model.Event{Kind: model.EventStateChanged})
}

func (p *Player) State() model.PlayerState { return p.state }
func (p *Player) Volume() float64 { return p.volume }
func (p *Player) Index() int { return p.index }

// Tracks returns a copy of the playlist
func (p *Player) Tracks() []model.Track {
	out := make([]model.Track, len(p.tracks))
	copy(out, p.tracks)
	return out
}

// Current returns the track loaded for playback, which need not belong to
// the current playlist.
func (p *Player) Current() (model.Track, model.TrackInfo, bool) {
	if !p.loaded {
		return model.Track{}, model.TrackInfo{}, false
	}
	return p.current, p.info, true
}

// Progress returns the last published position and the current track length
func (p *Player) Progress() (position, total time.Duration) {
	return p.position, p.info.Duration
}

// LoadFolder replaces the playlist with the audio files in dir. A folder
// without matching files leaves an empty playlist and returns
// playlist.ErrNoTracks. Playback of the current track is not interrupted;
// the next auto-advance continues with the first track of the new playlist.
func (p *Player) LoadFolder(dir string) (int, error) {
	tracks, err := playlist.Scan(dir)
	if err != nil && !errors.Is(err, playlist.ErrNoTracks) {
		p.logger.Error("scan folder", zap.String("path", dir), zap.Error(err))
		return 0, err
	}

	p.tracks = tracks
	p.index = 0
	if p.state == model.PlayerPlaying || p.state == model.PlayerPaused {
		p.index = -1
	}
	p.logger.Info("playlist loaded", zap.String("path", dir), zap.Int("tracks", len(tracks)))
	p.emit(model.Event{Kind: model.EventPlaylistLoaded, Count: len(tracks), Path: dir})
	return len(tracks), err
}

// Play resumes a paused track in place. Otherwise it starts the track at
// selected, or at the current index when selected is negative.
func (p *Player) Play(selected int) error {
	if p.state == model.PlayerPaused {
		p.sink.Resume()
		p.setState(model.PlayerPlaying)
		return nil
	}

	if len(p.tracks) == 0 {
		return ErrEmptyPlaylist
	}

	if selected >= 0 {
		p.index = selected
	}
	return p.playCurrent()
}

func (p *Player) playCurrent() error {
	if p.index < 0 || p.index >= len(p.tracks) {
		p.index = 0
	}
	track := p.tracks[p.index]

	if err := p.sink.Load(track.Path); err != nil {
		p.logger.Error("load track", zap.String("track", track.Path), zap.Error(err))
		p.halt()
		return fmt.Errorf("load %s: %w", track.Name, err)
	}

	info, err := p.probe(track.Path)
	if err != nil {
		// playback still works; the progress bar just has no scale
		p.logger.Warn("probe track", zap.String("track", track.Path), zap.Error(err))
	}
	p.info = info

	if err := p.sink.Play(); err != nil {
		p.logger.Error("play track", zap.String("track", track.Path), zap.Error(err))
		p.halt()
		return fmt.Errorf("play %s: %w", track.Name, err)
	}

	p.current = track
	p.loaded = true
	p.position = 0
	p.logger.Info("track started", zap.Int("index", p.index), zap.String("track", track.Path))
	p.setState(model.PlayerPlaying)
	p.emit(model.Event{Kind: model.EventTrackStarted, Index: p.index, Path: track.Path})
	return nil
}

// Pause halts the playing track, keeping its position
func (p *Player) Pause() error {
	if p.state != model.PlayerPlaying || !p.sink.IsActive() {
		return ErrNotPlaying
	}
	p.sink.Pause()
	p.setState(model.PlayerPaused)
	return nil
}

// Stop halts playback unconditionally and clears the progress indicator
func (p *Player) Stop() {
	p.sink.Stop()
	p.halt()
}

func (p *Player) halt() {
	p.loaded = false
	p.position = 0
	if p.state != model.PlayerIdle {
		p.setState(model.PlayerStopped)
	}
	p.emit(model.Event{Kind: model.EventProgress})
}

// SetVolume applies volume immediately, whatever the transport state.
// Values outside [0, 1] are clamped; the applied value is returned.
func (p *Player) SetVolume(volume float64) float64 {
	p.volume = audio.ClampVolume(volume)
	p.sink.SetVolume(p.volume)
	p.emit(model.Event{Kind: model.EventVolumeChanged})
	return p.volume
}

// Poll runs one tick of the playback loop. On track completion it advances
// to the next track, wrapping to the first after the last. Otherwise it
// publishes the playback position. It returns false once playback is no
// longer active, and the caller should stop polling.
func (p *Player) Poll() (bool, error) {
	if p.state != model.PlayerPlaying {
		return false, nil
	}

	if p.sink.Finished() {
		if len(p.tracks) == 0 {
			p.Stop()
			return false, nil
		}
		p.index = (p.index + 1) % len(p.tracks)
		p.logger.Debug("auto advance", zap.Int("index", p.index))
		if err := p.playCurrent(); err != nil {
			return false, err
		}
		return true, nil
	}

	if !p.sink.IsActive() {
		return false, nil
	}

	p.position = p.sink.Position()
	if p.info.Duration > 0 && p.position > p.info.Duration {
		p.position = p.info.Duration
	}
	p.emit(model.Event{Kind: model.EventProgress})
	return true, nil
}
