package playback

import "time"

const eventBufferSize = 16

// Subscription carries service-level events. Unlike player sinks it
// includes track changes, which the player knows nothing about. A
// subscriber that falls behind by more than eventBufferSize events on a
// channel loses the newest ones.
type Subscription struct {
	StateChanged    <-chan StateChange
	TrackChanged    <-chan TrackChange
	PositionChanged <-chan PositionChange
	Done            <-chan struct{}

	state    chan StateChange
	track    chan TrackChange
	position chan PositionChange
	done     chan struct{}
}

func newSubscription() *Subscription {
	s := &Subscription{
		state:    make(chan StateChange, eventBufferSize),
		track:    make(chan TrackChange, eventBufferSize),
		position: make(chan PositionChange, eventBufferSize),
		done:     make(chan struct{}),
	}
	s.StateChanged, s.TrackChanged, s.PositionChanged, s.Done = s.state, s.track, s.position, s.done
	return s
}

// close is called once, by the service.
func (s *Subscription) close() { close(s.done) }

func (s *Subscription) sendState(e StateChange) { offer(s.state, e) }

func (s *Subscription) sendTrack(e TrackChange) { offer(s.track, e) }

func (s *Subscription) sendPosition(pos time.Duration) {
	offer(s.position, PositionChange{Position: pos})
}

func offer[T any](ch chan<- T, v T) {
	select {
	case ch <- v:
	default:
	}
}
