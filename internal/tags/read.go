package tags

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dhowden/tag"
)

// Read reads tag metadata from a music file. Missing tags are not an
// error: the title falls back to the file name and artist/album to
// UnknownArtist/UnknownAlbum.
func Read(path string) (*Tag, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	ext := strings.ToLower(filepath.Ext(path))
	m, err := tag.ReadFrom(f)
	if err != nil {
		switch {
		case ext == ExtMP3:
			// dhowden/tag has issues with some UTF-16 encoded ID3 tags
			return readMP3WithID3v2Fallback(path)
		case ext == ExtWAV, errors.Is(err, tag.ErrNoTagsFound):
			t := &Tag{Path: path}
			t.fillDefaults()
			return t, nil
		}
		return nil, err
	}

	track, totalTracks := m.Track()
	disc, _ := m.Disc()

	t := &Tag{
		Path:        path,
		Title:       m.Title(),
		Artist:      m.Artist(),
		AlbumArtist: m.AlbumArtist(),
		Album:       m.Album(),
		Genre:       m.Genre(),
		Date:        yearToDate(m.Year()),
		TrackNumber: track,
		TotalTracks: totalTracks,
		DiscNumber:  disc,
	}
	if ext == ExtMP3 && t.Date == "" {
		t.Date = readMP3Date(path)
	}
	t.fillDefaults()
	return t, nil
}

// ReadWithAudio reads both tag metadata and audio stream properties.
func ReadWithAudio(path string) (*FileInfo, error) {
	t, err := Read(path)
	if err != nil {
		// If tag reading fails, create basic info from filename
		t = &Tag{Path: path}
		t.fillDefaults()
	}

	audio, err := ReadAudioInfo(path)
	if err != nil {
		return nil, err
	}

	return &FileInfo{
		Tag:       *t,
		AudioInfo: *audio,
	}, nil
}

// yearToDate converts a year integer to a date string.
// Returns empty string for year 0.
func yearToDate(year int) string {
	if year == 0 {
		return ""
	}
	return strconv.Itoa(year)
}
