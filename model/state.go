package model

// RecorderState is the state of the voice recorder
type RecorderState int

const (
	RecorderIdle RecorderState = iota
	RecorderRecording
	RecorderPaused
	RecorderStopped
)

func (s RecorderState) String() string {
	switch s {
	case RecorderIdle:
		return "idle"
	case RecorderRecording:
		return "recording"
	case RecorderPaused:
		return "paused"
	case RecorderStopped:
		return "stopped"
	}
	return "unknown"
}

// Active reports whether a capture session is open (recording or paused)
func (s RecorderState) Active() bool {
	return s == RecorderRecording || s == RecorderPaused
}

// PlayerState is the state of the music player
type PlayerState int

const (
	PlayerIdle PlayerState = iota
	PlayerPlaying
	PlayerPaused
	PlayerStopped
)

func (s PlayerState) String() string {
	switch s {
	case PlayerIdle:
		return "idle"
	case PlayerPlaying:
		return "playing"
	case PlayerPaused:
		return "paused"
	case PlayerStopped:
		return "stopped"
	}
	return "unknown"
}

// EventKind identifies what changed in a state machine
type EventKind int

const (
	EventStateChanged EventKind = iota
	EventBufferAppended
	EventSaved
	EventPlaylistLoaded
	EventTrackStarted
	EventProgress
	EventVolumeChanged
)

// Event is published by the recorder and player to their subscribers.
// Only the fields relevant to Kind are set.
type Event struct {
	Kind     EventKind
	Recorder RecorderState
	Player   PlayerState
	Index    int
	Count    int
	Path     string
}
