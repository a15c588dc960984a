package playback

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/llehouerou/rwave/internal/library"
	"github.com/llehouerou/rwave/internal/player"
)

// Verify serviceImpl implements Service and player.Sink at compile time.
var (
	_ Service     = (*serviceImpl)(nil)
	_ player.Sink = (*serviceImpl)(nil)
)

type serviceImpl struct {
	player  Player
	library Library
	log     *zap.Logger
	sinkID  player.SubscriberID

	// navMu serializes tracklist changes, including the Load they wait on.
	navMu     sync.Mutex
	tracklist []Track
	index     int

	mu       sync.RWMutex
	state    State
	position time.Duration
	duration time.Duration
	current  *Track
	curIndex int

	subs   []*Subscription
	subsMu sync.RWMutex

	closeOnce sync.Once
}

// New creates a playback service and subscribes it to p's events.
func New(p Player, lib Library, log *zap.Logger) Service {
	if log == nil {
		log = zap.NewNop()
	}
	s := &serviceImpl{
		player:  p,
		library: lib,
		log:     log.Named("playback"),
		index:   -1,
	}
	s.curIndex = -1
	s.sinkID = p.Subscribe(s)
	return s
}

// Send implements player.Sink. It runs on the broadcaster goroutine and
// never blocks.
func (s *serviceImpl) Send(ev player.Event) error {
	s.mu.Lock()
	prev := s.state
	switch ev.Kind {
	case player.EventPlaying:
		s.state = StatePlaying
	case player.EventPaused:
		s.state = StatePaused
	case player.EventPositionUpdate:
		s.position, s.duration = ev.Position, ev.Duration
	case player.EventSeeked:
		s.position = ev.Position
	}
	cur := s.state
	s.mu.Unlock()

	if prev != cur {
		s.notify(func(sub *Subscription) { sub.sendState(StateChange{Previous: prev, Current: cur}) })
	}
	if ev.Kind == player.EventSeeked {
		s.notify(func(sub *Subscription) { sub.sendPosition(ev.Position) })
	}
	return nil
}

// Load plays the file at path. A file known to the library plays with its
// library metadata; anything else gets a tracklist of its own.
func (s *serviceImpl) Load(ctx context.Context, path string) error {
	track := looseTrack(path)
	t, err := s.library.GetTrackByPath(ctx, path)
	switch {
	case err == nil:
		track = trackFromLibrary(*t)
	case errors.Is(err, library.ErrNotFound):
	default:
		return err
	}

	s.navMu.Lock()
	defer s.navMu.Unlock()
	return s.loadLocked(ctx, []Track{track}, 0)
}

// PlayTrack plays a library track within the All Tracks playlist, so that
// Next and Previous move through the whole library.
func (s *serviceImpl) PlayTrack(ctx context.Context, id int64) error {
	t, err := s.library.GetTrack(ctx, id)
	if err != nil {
		return err
	}
	all, err := s.library.PlaylistTracks(ctx, library.AllTracksID)
	if err != nil {
		return err
	}

	list := lo.Map(all, func(t library.Track, _ int) Track { return trackFromLibrary(t) })
	index := lo.IndexOf(lo.Map(list, func(t Track, _ int) int64 { return t.ID }), id)
	if index < 0 {
		list, index = []Track{trackFromLibrary(*t)}, 0
	}

	s.navMu.Lock()
	defer s.navMu.Unlock()
	return s.loadLocked(ctx, list, index)
}

// PlayPlaylist replaces the tracklist with the playlist's tracks and plays
// the one at index.
func (s *serviceImpl) PlayPlaylist(ctx context.Context, playlistID int64, index int) error {
	tracks, err := s.library.PlaylistTracks(ctx, playlistID)
	if err != nil {
		return err
	}
	if len(tracks) == 0 {
		return ErrEmptyTracklist
	}
	if index < 0 || index >= len(tracks) {
		return fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, index, len(tracks))
	}

	list := lo.Map(tracks, func(t library.Track, _ int) Track { return trackFromLibrary(t) })
	s.navMu.Lock()
	defer s.navMu.Unlock()
	return s.loadLocked(ctx, list, index)
}

// Next plays the following track, wrapping to the first.
func (s *serviceImpl) Next(ctx context.Context) error {
	return s.step(ctx, 1)
}

// Previous plays the preceding track, wrapping to the last.
func (s *serviceImpl) Previous(ctx context.Context) error {
	return s.step(ctx, -1)
}

func (s *serviceImpl) step(ctx context.Context, delta int) error {
	s.navMu.Lock()
	defer s.navMu.Unlock()
	n := len(s.tracklist)
	if n == 0 {
		return ErrEmptyTracklist
	}
	return s.loadLocked(ctx, s.tracklist, ((s.index+delta)%n+n)%n)
}

// loadLocked loads list[index] and, only on success, makes list the
// tracklist. Callers hold navMu.
func (s *serviceImpl) loadLocked(ctx context.Context, list []Track, index int) error {
	track := list[index]

	// Reset progress before loading: the broadcaster may report the new
	// source before Load returns.
	s.mu.Lock()
	prevPosition, prevDuration := s.position, s.duration
	s.position, s.duration = 0, track.Duration
	s.mu.Unlock()

	if err := s.player.Load(ctx, track.Path); err != nil {
		s.mu.Lock()
		if s.position == 0 && s.duration == track.Duration {
			s.position, s.duration = prevPosition, prevDuration
		}
		s.mu.Unlock()
		s.log.Debug("load failed", zap.String("path", track.Path), zap.Error(err))
		return err
	}

	prevIndex := s.index
	s.tracklist = list
	s.index = index

	s.mu.Lock()
	prev := s.current
	cur := track
	s.current = &cur
	s.curIndex = index
	s.mu.Unlock()

	s.log.Info("now playing",
		zap.String("title", track.Title),
		zap.String("artist", track.Artist),
		zap.Int("index", index),
		zap.Int("tracklist", len(list)),
	)

	s.notify(func(sub *Subscription) {
		c := cur
		sub.sendTrack(TrackChange{Previous: prev, Current: &c, PreviousIndex: prevIndex, Index: index})
	})
	return nil
}

func (s *serviceImpl) Play(ctx context.Context) error {
	return s.player.Play(ctx)
}

func (s *serviceImpl) Pause(ctx context.Context) error {
	return s.player.Pause(ctx)
}

// Toggle pauses when playing and resumes otherwise, going by the last
// observed state.
func (s *serviceImpl) Toggle(ctx context.Context) error {
	if s.State() == StatePlaying {
		return s.player.Pause(ctx)
	}
	return s.player.Play(ctx)
}

func (s *serviceImpl) Seek(ctx context.Context, position time.Duration) error {
	return s.player.Seek(ctx, position)
}

// State returns the last observed playback state.
func (s *serviceImpl) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Status returns a snapshot of the observed playback status.
func (s *serviceImpl) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := Status{
		State:    s.state,
		Position: s.position,
		Duration: s.duration,
		Index:    s.curIndex,
	}
	if s.current != nil {
		t := *s.current
		st.Track = &t
	}
	return st
}

// CurrentTrack returns the current track, or nil if none.
func (s *serviceImpl) CurrentTrack() *Track {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	t := *s.current
	return &t
}

// Tracklist returns a copy of the current tracklist.
func (s *serviceImpl) Tracklist() []Track {
	s.navMu.Lock()
	defer s.navMu.Unlock()
	return append([]Track(nil), s.tracklist...)
}

// Index returns the position of the current track in the tracklist, -1 if
// nothing was loaded.
func (s *serviceImpl) Index() int {
	s.navMu.Lock()
	defer s.navMu.Unlock()
	return s.index
}

func (s *serviceImpl) Subscribe(sink player.Sink) player.SubscriberID {
	return s.player.Subscribe(sink)
}

func (s *serviceImpl) Unsubscribe(id player.SubscriberID) bool {
	return s.player.Unsubscribe(id)
}

// Watch creates a new service event subscription.
func (s *serviceImpl) Watch() *Subscription {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	sub := newSubscription()
	s.subs = append(s.subs, sub)
	return sub
}

func (s *serviceImpl) Unwatch(sub *Subscription) bool {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	i := slices.Index(s.subs, sub)
	if i < 0 {
		return false
	}
	s.subs = slices.Delete(s.subs, i, i+1)
	sub.close()
	return true
}

func (s *serviceImpl) notify(fn func(*Subscription)) {
	s.subsMu.RLock()
	defer s.subsMu.RUnlock()
	for _, sub := range s.subs {
		fn(sub)
	}
}

// Close detaches the service from the player and closes every watch
// subscription. The player itself is left running.
func (s *serviceImpl) Close() error {
	s.closeOnce.Do(func() {
		s.player.Unsubscribe(s.sinkID)

		s.subsMu.Lock()
		for _, sub := range s.subs {
			sub.close()
		}
		s.subs = nil
		s.subsMu.Unlock()
	})
	return nil
}
