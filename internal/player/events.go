package player

import (
	"encoding/json"
	"fmt"
	"time"
)

// EventKind identifies a player event.
type EventKind int

const (
	EventPlaying EventKind = iota
	EventPaused
	EventPositionUpdate
	EventSeeked
)

// String returns the wire name of the event.
func (k EventKind) String() string {
	switch k {
	case EventPlaying:
		return "playing"
	case EventPaused:
		return "paused"
	case EventPositionUpdate:
		return "positionUpdate"
	case EventSeeked:
		return "seeked"
	default:
		return "unknown"
	}
}

// Event is an immutable snapshot broadcast to subscribers.
//
// Position is set for PositionUpdate and Seeked; Duration only for
// PositionUpdate.
type Event struct {
	Kind     EventKind
	Position time.Duration
	Duration time.Duration
}

func Playing() Event { return Event{Kind: EventPlaying} }

func Paused() Event { return Event{Kind: EventPaused} }

func PositionUpdate(position, duration time.Duration) Event {
	return Event{Kind: EventPositionUpdate, Position: position, Duration: duration}
}

func Seeked(position time.Duration) Event {
	return Event{Kind: EventSeeked, Position: position}
}

func (e Event) String() string {
	switch e.Kind {
	case EventPositionUpdate:
		return fmt.Sprintf("%s{%s/%s}", e.Kind, e.Position, e.Duration)
	case EventSeeked:
		return fmt.Sprintf("%s{%s}", e.Kind, e.Position)
	default:
		return e.Kind.String()
	}
}

type positionData struct {
	Position uint64  `json:"position"`
	Duration *uint64 `json:"duration,omitempty"`
}

type wireEvent struct {
	Event string        `json:"event"`
	Data  *positionData `json:"data,omitempty"`
}

// MarshalJSON encodes the event as {"event": name, "data": {...}} with
// positions in whole seconds.
func (e Event) MarshalJSON() ([]byte, error) {
	w := wireEvent{Event: e.Kind.String()}
	switch e.Kind {
	case EventPositionUpdate:
		dur := seconds(e.Duration)
		w.Data = &positionData{Position: seconds(e.Position), Duration: &dur}
	case EventSeeked:
		w.Data = &positionData{Position: seconds(e.Position)}
	case EventPlaying, EventPaused:
	}
	return json.Marshal(w)
}

// UnmarshalJSON decodes the form produced by MarshalJSON.
func (e *Event) UnmarshalJSON(b []byte) error {
	var w wireEvent
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	var ev Event
	switch w.Event {
	case "playing":
		ev.Kind = EventPlaying
	case "paused":
		ev.Kind = EventPaused
	case "positionUpdate":
		ev.Kind = EventPositionUpdate
	case "seeked":
		ev.Kind = EventSeeked
	default:
		return fmt.Errorf("unknown player event %q", w.Event)
	}
	if w.Data != nil {
		ev.Position = time.Duration(w.Data.Position) * time.Second
		if w.Data.Duration != nil {
			ev.Duration = time.Duration(*w.Data.Duration) * time.Second
		}
	}
	*e = ev
	return nil
}

func seconds(d time.Duration) uint64 {
	if d <= 0 {
		return 0
	}
	return uint64(d / time.Second)
}
