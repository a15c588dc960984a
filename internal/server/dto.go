package server

import (
	"time"

	"github.com/samber/lo"

	"github.com/llehouerou/rwave/internal/library"
	"github.com/llehouerou/rwave/internal/playback"
)

// Durations and positions cross the wire in whole seconds, like player
// events.

type trackJSON struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Path        string `json:"path"`
	ArtistID    int64  `json:"artistId,omitempty"`
	Artist      string `json:"artist"`
	AlbumID     int64  `json:"albumId,omitempty"`
	Album       string `json:"album"`
	TrackNumber int    `json:"trackNumber,omitempty"`
	Year        int    `json:"year,omitempty"`
	Duration    int64  `json:"duration"`
}

func toTrackJSON(t library.Track) trackJSON {
	return trackJSON{
		ID:          t.ID,
		Name:        t.Name,
		Path:        t.Path,
		ArtistID:    t.ArtistID,
		Artist:      t.Artist,
		AlbumID:     t.AlbumID,
		Album:       t.Album,
		TrackNumber: t.TrackNumber,
		Year:        t.Year,
		Duration:    seconds(t.Duration),
	}
}

func toTracksJSON(tracks []library.Track) []trackJSON {
	return lo.Map(tracks, func(t library.Track, _ int) trackJSON { return toTrackJSON(t) })
}

type trackRequest struct {
	Name        string `json:"name"`
	Path        string `json:"path"`
	Artist      string `json:"artist"`
	Album       string `json:"album"`
	TrackNumber int    `json:"trackNumber"`
	Year        int    `json:"year"`
	Duration    int64  `json:"duration"`
}

func (r trackRequest) input() library.TrackInput {
	return library.TrackInput{
		Name:        r.Name,
		Path:        r.Path,
		Artist:      r.Artist,
		Album:       r.Album,
		TrackNumber: r.TrackNumber,
		Year:        r.Year,
		Duration:    time.Duration(r.Duration) * time.Second,
	}
}

type artistJSON struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type albumJSON struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	ArtistID int64  `json:"artistId"`
	Artist   string `json:"artist"`
}

type playlistJSON struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	TrackCount int    `json:"trackCount"`
	Protected  bool   `json:"protected"`
}

func toPlaylistJSON(p library.Playlist) playlistJSON {
	return playlistJSON{ID: p.ID, Name: p.Name, TrackCount: p.TrackCount, Protected: p.Protected()}
}

type nameRequest struct {
	Name string `json:"name"`
}

type idResponse struct {
	ID int64 `json:"id"`
}

type statusJSON struct {
	State    string             `json:"state"`
	Position int64              `json:"position"`
	Duration int64              `json:"duration"`
	Index    int                `json:"index"`
	Track    *playbackTrackJSON `json:"track,omitempty"`
}

type playbackTrackJSON struct {
	ID       int64  `json:"id,omitempty"`
	Path     string `json:"path"`
	Title    string `json:"title"`
	Artist   string `json:"artist"`
	Album    string `json:"album"`
	Duration int64  `json:"duration"`
}

func toStatusJSON(st playback.Status) statusJSON {
	out := statusJSON{
		State:    st.State.String(),
		Position: seconds(st.Position),
		Duration: seconds(st.Duration),
		Index:    st.Index,
	}
	if t := st.Track; t != nil {
		out.Track = &playbackTrackJSON{
			ID:       t.ID,
			Path:     t.Path,
			Title:    t.Title,
			Artist:   t.Artist,
			Album:    t.Album,
			Duration: seconds(t.Duration),
		}
	}
	return out
}

func seconds(d time.Duration) int64 {
	return int64(max(d, 0) / time.Second)
}
