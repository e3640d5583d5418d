package playlist

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dhowden/tag"
	"github.com/tcolgate/mp3"

	"tapedeck/audio"
	"tapedeck/model"
)

// Probe reads tags and total duration of an audio file. Missing tags are not
// an error; a file whose duration cannot be determined is.
func Probe(path string) (model.TrackInfo, error) {
	var info model.TrackInfo
	info.Title, info.Artist = readTags(path)

	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		info.Duration, err = mp3Duration(path)
	case ".wav":
		info.Duration, err = audio.WAVDuration(path)
	default:
		err = audio.ErrUnsupportedFormat
	}
	return info, err
}

func readTags(path string) (title, artist string) {
	f, err := os.Open(path)
	if err != nil {
		return "", ""
	}
	defer f.Close()

	meta, err := tag.ReadFrom(f)
	if err != nil {
		return "", ""
	}
	return strings.TrimSpace(meta.Title()), strings.TrimSpace(meta.Artist())
}

func mp3Duration(path string) (time.Duration, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	decoder := mp3.NewDecoder(f)
	var frame mp3.Frame
	var skipped int
	var total time.Duration

	for {
		err := decoder.Decode(&frame, &skipped)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return 0, err
		}
		total += frame.Duration()
	}
	return total, nil
}
