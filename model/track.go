package model

import (
	"path/filepath"
	"time"
)

// Track is one playlist entry
type Track struct {
	Path string
	Name string // basename shown in the track list
}

// NewTrack builds a track from a file path
func NewTrack(path string) Track {
	return Track{Path: path, Name: filepath.Base(path)}
}

// TrackInfo is probed metadata used for display and the progress scale
type TrackInfo struct {
	Duration time.Duration
	Title    string
	Artist   string
}

// DisplayName returns the tag title when present, otherwise the file name
func (t Track) DisplayName(info TrackInfo) string {
	if info.Title == "" {
		return t.Name
	}
	if info.Artist == "" {
		return info.Title
	}
	return info.Artist + " - " + info.Title
}
