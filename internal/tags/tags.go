// Package tags reads tag metadata and audio stream properties from the
// music files the player can decode.
package tags

import (
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// File extensions supported by the tags package.
const (
	ExtMP3  = ".mp3"
	ExtFLAC = ".flac"
	ExtWAV  = ".wav"
	ExtOGG  = ".ogg"
)

// id3Magic is the magic bytes for ID3v2 header detection.
const id3Magic = "ID3"

// Defaults used when a file carries no artist or album.
const (
	UnknownArtist = "Unknown Artist"
	UnknownAlbum  = "Unknown Album"
)

// Tag contains the metadata the library stores for a track.
type Tag struct {
	Path        string
	Title       string
	Artist      string
	AlbumArtist string
	Album       string
	Genre       string
	TrackNumber int
	TotalTracks int
	DiscNumber  int
	Date        string // YYYY-MM-DD or YYYY
}

// Year derives the year from the Date field.
// Returns 0 if Date is empty or cannot be parsed.
func (t *Tag) Year() int {
	if t.Date == "" {
		return 0
	}
	year := t.Date
	if len(year) > 4 {
		year = year[:4]
	}
	y, _ := strconv.Atoi(year)
	return y
}

// fillDefaults applies the fallbacks for missing fields.
func (t *Tag) fillDefaults() {
	if strings.TrimSpace(t.Title) == "" {
		t.Title = titleFromPath(t.Path)
	}
	if strings.TrimSpace(t.Artist) == "" {
		t.Artist = UnknownArtist
	}
	if strings.TrimSpace(t.AlbumArtist) == "" {
		t.AlbumArtist = t.Artist
	}
	if strings.TrimSpace(t.Album) == "" {
		t.Album = UnknownAlbum
	}
}

func titleFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// AudioInfo contains audio stream properties (not tags).
type AudioInfo struct {
	Duration   time.Duration
	Format     string // MP3, FLAC, WAV, VORBIS
	SampleRate int
	BitDepth   int
}

// FileInfo combines Tag and AudioInfo for a complete file description.
type FileInfo struct {
	Tag
	AudioInfo
}

// IsMusicFile returns true if the path has a supported music file extension.
func IsMusicFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ExtMP3, ExtFLAC, ExtWAV, ExtOGG:
		return true
	}
	return false
}

// parseTrackNumber parses a track number string like "5" or "5/10".
func parseTrackNumber(s string) (num, total int) {
	if s == "" {
		return 0, 0
	}
	parts := strings.SplitN(s, "/", 2)
	num, _ = strconv.Atoi(strings.TrimSpace(parts[0]))
	if len(parts) == 2 {
		total, _ = strconv.Atoi(strings.TrimSpace(parts[1]))
	}
	return num, total
}
