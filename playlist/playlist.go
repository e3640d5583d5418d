// Package playlist builds playlists from a music folder and probes track metadata.
package playlist

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"tapedeck/model"
)

// Extensions are the recognised audio file extensions
var Extensions = []string{".mp3", ".wav"}

// ErrNoTracks means a folder held no file with a recognised extension
var ErrNoTracks = errors.New("no mp3 or wav files found in the selected folder")

// IsAudio reports whether name ends in a recognised extension (case-insensitive)
func IsAudio(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Scan lists the audio files directly inside dir in directory-listing order.
// Subdirectories are not descended into.
func Scan(dir string) ([]model.Track, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read folder %s: %w", dir, err)
	}

	var tracks []model.Track
	for _, e := range entries {
		if e.IsDir() || !IsAudio(e.Name()) {
			continue
		}
		tracks = append(tracks, model.NewTrack(filepath.Join(dir, e.Name())))
	}

	if len(tracks) == 0 {
		return nil, ErrNoTracks
	}
	return tracks, nil
}
