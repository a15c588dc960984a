// Package errmsg provides consistent error formatting for user-facing messages.
package errmsg

import "fmt"

// Op represents an operation that can fail.
type Op string

const (
	// Library operations
	OpLibraryScan Op = "scan library"
	OpLibraryOpen Op = "open library"

	// Track operations
	OpTrackList   Op = "list tracks"
	OpTrackLoad   Op = "load track"
	OpTrackCreate Op = "add track"
	OpTrackUpdate Op = "update track"
	OpTrackDelete Op = "delete track"

	// Artist and album operations
	OpArtistList Op = "list artists"
	OpAlbumList  Op = "list albums"

	// Import operations
	OpImportFile Op = "import file"

	// Playlist operations
	OpPlaylistList     Op = "list playlists"
	OpPlaylistCreate   Op = "create playlist"
	OpPlaylistRename   Op = "rename playlist"
	OpPlaylistDelete   Op = "delete playlist"
	OpPlaylistTracks   Op = "list playlist tracks"
	OpPlaylistAddTrack Op = "add track to playlist"
	OpPlaylistRemove   Op = "remove track from playlist"

	// Playback operations
	OpPlaybackLoad     Op = "load track for playback"
	OpPlaybackStart    Op = "start playback"
	OpPlaybackPause    Op = "pause playback"
	OpPlaybackSeek     Op = "seek"
	OpPlaybackNext     Op = "skip to next track"
	OpPlaybackPrevious Op = "skip to previous track"

	// Request handling
	OpDecodeRequest Op = "decode request"

	// Initialization
	OpInitialize Op = "initialize application"
	OpOpenDevice Op = "open audio device"
)

// Format creates a user-friendly error message.
func Format(op Op, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Failed to %s: %v", op, err)
}

// FormatWith creates an error message with additional context.
func FormatWith(op Op, context string, err error) string {
	if err == nil {
		return ""
	}
	if context == "" {
		return Format(op, err)
	}
	return fmt.Sprintf("Failed to %s '%s': %v", op, context, err)
}
