package playback

import "time"

// StateChange is emitted when the observed playback state changes.
type StateChange struct {
	Previous State
	Current  State
}

// TrackChange is emitted when a track was successfully loaded, whether
// by PlayTrack, PlayPlaylist, Load or Next/Previous. A failed load emits
// nothing.
type TrackChange struct {
	Previous      *Track
	Current       *Track
	PreviousIndex int
	Index         int
}

// PositionChange is emitted when a seek occurs.
type PositionChange struct {
	Position time.Duration
}
