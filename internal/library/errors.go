package library

import (
	"errors"
	"fmt"
)

// ErrNotFound is wrapped by every missing-row error below.
var ErrNotFound = errors.New("not found")

var (
	ErrArtistNotFound   = fmt.Errorf("artist %w", ErrNotFound)
	ErrAlbumNotFound    = fmt.Errorf("album %w", ErrNotFound)
	ErrTrackNotFound    = fmt.Errorf("track %w", ErrNotFound)
	ErrPlaylistNotFound = fmt.Errorf("playlist %w", ErrNotFound)
)

var (
	ErrAlreadyInPlaylist = errors.New("track already in playlist")
	ErrNotInPlaylist     = errors.New("track not in playlist")
	ErrProtectedPlaylist = errors.New("playlist cannot be modified")
	ErrInUse             = errors.New("still referenced by tracks or albums")
	ErrEmptyName         = errors.New("name must not be empty")
	ErrDuplicatePath     = errors.New("a track with this path already exists")
	ErrEmptyPath         = errors.New("track path must not be empty")
)
