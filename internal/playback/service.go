// Package playback puts a tracklist on top of the player: it resolves
// library tracks to files, moves through a playlist and keeps the last
// observed playback status for transports that need to read it.
package playback

import (
	"context"
	"errors"
	"time"

	"github.com/llehouerou/rwave/internal/library"
	"github.com/llehouerou/rwave/internal/player"
)

var (
	ErrEmptyTracklist  = errors.New("tracklist is empty")
	ErrIndexOutOfRange = errors.New("tracklist index out of range")
)

// Player is the part of *player.Player the service drives.
type Player interface {
	Load(ctx context.Context, path string) error
	Play(ctx context.Context) error
	Pause(ctx context.Context) error
	Seek(ctx context.Context, position time.Duration) error
	Subscribe(sink player.Sink) player.SubscriberID
	Unsubscribe(id player.SubscriberID) bool
}

// Library is the part of *library.Store the service reads.
type Library interface {
	GetTrack(ctx context.Context, id int64) (*library.Track, error)
	GetTrackByPath(ctx context.Context, path string) (*library.Track, error)
	PlaylistTracks(ctx context.Context, playlistID int64) ([]library.Track, error)
}

// Service defines the playback service contract.
type Service interface {
	// Tracklist control; each loads a track and starts playing it.
	Load(ctx context.Context, path string) error
	PlayTrack(ctx context.Context, id int64) error
	PlayPlaylist(ctx context.Context, playlistID int64, index int) error
	Next(ctx context.Context) error
	Previous(ctx context.Context) error

	// Transport control
	Play(ctx context.Context) error
	Pause(ctx context.Context) error
	Toggle(ctx context.Context) error
	Seek(ctx context.Context, position time.Duration) error

	// State queries
	State() State
	Status() Status
	CurrentTrack() *Track
	Tracklist() []Track
	Index() int

	// Player event subscriptions, passed through to the player registry.
	Subscribe(sink player.Sink) player.SubscriberID
	Unsubscribe(id player.SubscriberID) bool

	// Watch returns a subscription to service-level events.
	Watch() *Subscription
	// Unwatch closes sub and stops delivering to it. It returns false if
	// sub was not watching.
	Unwatch(sub *Subscription) bool

	// Lifecycle
	Close() error
}
