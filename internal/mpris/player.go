//go:build linux

package mpris

import (
	"context"
	"fmt"
	"hash/fnv"
	"net/url"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/quarckster/go-mpris-server/pkg/types"

	"github.com/llehouerou/rwave/internal/playback"
)

// commandTimeout bounds how long a D-Bus call waits on the player.
const commandTimeout = 5 * time.Second

// rootAdapter implements OrgMprisMediaPlayer2Adapter.
type rootAdapter struct{}

func (r *rootAdapter) Raise() error {
	return nil // Not supported
}

func (r *rootAdapter) Quit() error {
	return nil // Not supported - the server manages its own lifecycle
}

func (r *rootAdapter) CanQuit() (bool, error) {
	return false, nil
}

func (r *rootAdapter) CanRaise() (bool, error) {
	return false, nil
}

func (r *rootAdapter) HasTrackList() (bool, error) {
	return false, nil
}

func (r *rootAdapter) Identity() (string, error) {
	return "rwave", nil
}

//nolint:revive // Method name required by interface.
func (r *rootAdapter) SupportedUriSchemes() ([]string, error) {
	return []string{"file"}, nil
}

func (r *rootAdapter) SupportedMimeTypes() ([]string, error) {
	return []string{"audio/mpeg", "audio/flac", "audio/wav", "audio/ogg"}, nil
}

// playerAdapter implements OrgMprisMediaPlayer2PlayerAdapter.
type playerAdapter struct {
	service playback.Service
}

func (p *playerAdapter) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), commandTimeout)
}

func (p *playerAdapter) Next() error {
	ctx, cancel := p.ctx()
	defer cancel()
	return p.service.Next(ctx)
}

func (p *playerAdapter) Previous() error {
	ctx, cancel := p.ctx()
	defer cancel()
	return p.service.Previous(ctx)
}

func (p *playerAdapter) Pause() error {
	ctx, cancel := p.ctx()
	defer cancel()
	return p.service.Pause(ctx)
}

func (p *playerAdapter) PlayPause() error {
	ctx, cancel := p.ctx()
	defer cancel()
	return p.service.Toggle(ctx)
}

// Stop pauses; the player has no separate stopped phase once a track is
// loaded.
func (p *playerAdapter) Stop() error {
	return p.Pause()
}

func (p *playerAdapter) Play() error {
	ctx, cancel := p.ctx()
	defer cancel()
	return p.service.Play(ctx)
}

// Seek moves relative to the current position. Seeking past the end skips
// to the next track, seeking before the start goes to 0.
func (p *playerAdapter) Seek(offset types.Microseconds) error {
	st := p.service.Status()
	if st.Track == nil {
		return nil
	}
	target := max(st.Position+time.Duration(offset)*time.Microsecond, 0)
	if st.Duration > 0 && target > st.Duration {
		return p.Next()
	}
	ctx, cancel := p.ctx()
	defer cancel()
	return p.service.Seek(ctx, target)
}

// SetPosition seeks only if trackID still names the current track.
func (p *playerAdapter) SetPosition(trackID string, position types.Microseconds) error {
	track := p.service.CurrentTrack()
	if track == nil || trackID != formatTrackID(track) {
		return nil
	}
	ctx, cancel := p.ctx()
	defer cancel()
	return p.service.Seek(ctx, time.Duration(position)*time.Microsecond)
}

//nolint:revive // Method name required by interface.
func (p *playerAdapter) OpenUri(uri string) error {
	u, err := url.Parse(uri)
	if err != nil {
		return err
	}
	if u.Scheme != "file" {
		return fmt.Errorf("unsupported uri scheme %q", u.Scheme)
	}
	ctx, cancel := p.ctx()
	defer cancel()
	return p.service.Load(ctx, u.Path)
}

func (p *playerAdapter) PlaybackStatus() (types.PlaybackStatus, error) {
	switch p.service.State() {
	case playback.StatePlaying:
		return types.PlaybackStatusPlaying, nil
	case playback.StatePaused:
		return types.PlaybackStatusPaused, nil
	case playback.StateStopped:
		return types.PlaybackStatusStopped, nil
	}
	return types.PlaybackStatusStopped, nil
}

func (p *playerAdapter) Rate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) SetRate(_ float64) error {
	return nil // Not supported
}

func (p *playerAdapter) Metadata() (types.Metadata, error) {
	track := p.service.CurrentTrack()
	if track == nil {
		return types.Metadata{}, nil
	}

	meta := types.Metadata{
		TrackId:     dbus.ObjectPath(formatTrackID(track)),
		Length:      types.Microseconds(track.Duration.Microseconds()),
		Title:       track.Title,
		Artist:      []string{track.Artist},
		Album:       track.Album,
		TrackNumber: track.TrackNumber,
	}

	if artPath := FindAlbumArt(track.Path); artPath != "" {
		meta.ArtUrl = "file://" + artPath
	}

	return meta, nil
}

func (p *playerAdapter) Volume() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) SetVolume(_ float64) error {
	return nil // Not supported
}

func (p *playerAdapter) Position() (int64, error) {
	return p.service.Status().Position.Microseconds(), nil
}

func (p *playerAdapter) MinimumRate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) MaximumRate() (float64, error) {
	return 1.0, nil
}

// The tracklist wraps around, so any loaded tracklist has a next and a
// previous track.
func (p *playerAdapter) CanGoNext() (bool, error) {
	return p.service.Index() >= 0, nil
}

func (p *playerAdapter) CanGoPrevious() (bool, error) {
	return p.service.Index() >= 0, nil
}

func (p *playerAdapter) CanPlay() (bool, error) {
	return p.service.CurrentTrack() != nil, nil
}

func (p *playerAdapter) CanPause() (bool, error) {
	return p.service.CurrentTrack() != nil, nil
}

func (p *playerAdapter) CanSeek() (bool, error) {
	return p.service.CurrentTrack() != nil, nil
}

func (p *playerAdapter) CanControl() (bool, error) {
	return true, nil
}

// formatTrackID builds the MPRIS object path of a track: library tracks by
// id, loose files by a hash of their path.
func formatTrackID(t *playback.Track) string {
	if t.ID > 0 {
		return fmt.Sprintf("/org/mpris/MediaPlayer2/Track/%d", t.ID)
	}
	h := fnv.New64a()
	h.Write([]byte(t.Path))
	return fmt.Sprintf("/org/mpris/MediaPlayer2/Track/f%x", h.Sum64())
}
