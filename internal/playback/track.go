package playback

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/llehouerou/rwave/internal/library"
)

// Track represents a track in the tracklist.
// This is a copy of the data, not a reference to library.Track.
type Track struct {
	ID          int64
	Path        string
	Title       string
	Artist      string
	Album       string
	TrackNumber int
	Duration    time.Duration
}

func trackFromLibrary(t library.Track) Track {
	return Track{
		ID:          t.ID,
		Path:        t.Path,
		Title:       t.Name,
		Artist:      t.Artist,
		Album:       t.Album,
		TrackNumber: t.TrackNumber,
		Duration:    t.Duration,
	}
}

// looseTrack describes a file played by path that is not in the library.
func looseTrack(path string) Track {
	base := filepath.Base(path)
	return Track{
		Path:   path,
		Title:  strings.TrimSuffix(base, filepath.Ext(base)),
		Artist: library.UnknownArtist,
		Album:  library.UnknownAlbum,
	}
}
