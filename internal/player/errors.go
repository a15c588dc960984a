package player

import (
	"errors"
	"fmt"
	"time"
)

// ErrChannelClosed is returned for commands submitted after the worker has
// exited. The Player must be recreated to resume playback.
var ErrChannelClosed = errors.New("player: command channel closed")

// Causes carried by SeekError and DeviceError.
var (
	ErrNoSource    = errors.New("no track loaded")
	ErrNotSeekable = errors.New("source does not support seeking")
	ErrOutOfRange  = errors.New("position out of range")
	ErrDeviceBusy  = errors.New("audio device already in use")
)

// DecodeError reports a file that could not be opened or decoded by Load.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// SeekError reports a rejected or failed Seek. Duration is zero when no
// source was loaded.
type SeekError struct {
	Position time.Duration
	Duration time.Duration
	Err      error
}

func (e *SeekError) Error() string {
	return fmt.Sprintf("seek to %s (duration %s): %v", e.Position, e.Duration, e.Err)
}

func (e *SeekError) Unwrap() error { return e.Err }

// DeviceError reports an output device that could not be opened. It is
// fatal for the Player being constructed.
type DeviceError struct {
	Err error
}

func (e *DeviceError) Error() string {
	return fmt.Sprintf("audio device: %v", e.Err)
}

func (e *DeviceError) Unwrap() error { return e.Err }
