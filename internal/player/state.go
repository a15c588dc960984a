// internal/player/state.go
package player

// State is the transport phase held by the playback worker.
//
// The state machine has three states with the following transitions:
//
//	┌──────────┐      load       ┌──────────┐
//	│   Idle   │ ───────────────▶│  Playing │◀──┐
//	└──────────┘                 └──────────┘   │ load
//	                               │      ▲     │
//	                         pause │      │ play│
//	                               ▼      │     │
//	                             ┌──────────┐   │
//	                             │  Paused  │───┘
//	                             └──────────┘
//
// Valid transitions:
//   - Idle    → Playing (via Load)
//   - Playing → Paused  (via Pause)
//   - Paused  → Playing (via Play)
//   - Playing → Playing (via Load, replacing the source)
//   - Paused  → Playing (via Load, replacing the source)
//
// Terminate leaves the machine entirely; the worker exits.
//
// No-op transitions (no event emitted):
//   - Idle   → Idle   (Play, Pause)
//   - Paused → Paused (Pause)
//
// Play from Playing is accepted and re-emits Playing.
type State int

const (
	StateIdle State = iota
	StatePlaying
	StatePaused
)

// String returns the state name for debugging.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StatePlaying:
		return "Playing"
	case StatePaused:
		return "Paused"
	default:
		return "Unknown"
	}
}

// IsLoaded returns true if a source is loaded (Playing or Paused).
func (s State) IsLoaded() bool {
	return s == StatePlaying || s == StatePaused
}

// CanPause returns true if the state allows pausing.
func (s State) CanPause() bool {
	return s == StatePlaying
}

// CanResume returns true if the state allows Play to resume output.
func (s State) CanResume() bool {
	return s.IsLoaded()
}
