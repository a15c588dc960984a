package playback

import "time"

// State represents the playback state as last observed from player events.
type State int

const (
	StateStopped State = iota
	StatePlaying
	StatePaused
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateStopped:
		return "Stopped"
	case StatePlaying:
		return "Playing"
	case StatePaused:
		return "Paused"
	default:
		return "Unknown"
	}
}

// IsActive returns true if playback is active (playing or paused).
func (s State) IsActive() bool {
	return s == StatePlaying || s == StatePaused
}

// Status is a snapshot of what the service knows about playback. Position
// and Duration are only as fresh as the last position update.
type Status struct {
	State    State
	Position time.Duration
	Duration time.Duration
	Track    *Track
	Index    int
}
