package player

import (
	"sync/atomic"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/speaker"
)

// Output is the audio device the worker plays through. Lock and Unlock
// guard state that the device's playback goroutine reads (pause flag,
// seek position).
type Output interface {
	SampleRate() beep.SampleRate
	Play(s beep.Streamer)
	Clear()
	Lock()
	Unlock()
	Close() error
}

// OutputOpener opens the device. It runs on the worker goroutine so the
// device is owned by the worker from the moment it exists.
type OutputOpener func() (Output, error)

// deviceHeld guards the process-wide speaker: beep keeps a single global
// output, so at most one worker may hold it.
var deviceHeld atomic.Bool

// SpeakerOutput plays through the system audio device using beep's speaker.
type SpeakerOutput struct {
	rate beep.SampleRate
}

// OpenSpeaker initializes the speaker at the given sample rate with a
// buffer of the given length. Tracks with another rate are resampled.
func OpenSpeaker(rate beep.SampleRate, buffer time.Duration) (*SpeakerOutput, error) {
	if !deviceHeld.CompareAndSwap(false, true) {
		return nil, &DeviceError{Err: ErrDeviceBusy}
	}
	if err := speaker.Init(rate, rate.N(buffer)); err != nil {
		deviceHeld.Store(false)
		return nil, &DeviceError{Err: err}
	}
	return &SpeakerOutput{rate: rate}, nil
}

// SpeakerOpener returns an OutputOpener for OpenSpeaker.
func SpeakerOpener(rate beep.SampleRate, buffer time.Duration) OutputOpener {
	return func() (Output, error) {
		return OpenSpeaker(rate, buffer)
	}
}

func (o *SpeakerOutput) SampleRate() beep.SampleRate { return o.rate }

func (o *SpeakerOutput) Play(s beep.Streamer) { speaker.Play(s) }

func (o *SpeakerOutput) Clear() { speaker.Clear() }

func (o *SpeakerOutput) Lock() { speaker.Lock() }

func (o *SpeakerOutput) Unlock() { speaker.Unlock() }

// Close stops playback and releases the device.
func (o *SpeakerOutput) Close() error {
	speaker.Clear()
	speaker.Close()
	deviceHeld.Store(false)
	return nil
}

var _ Output = (*SpeakerOutput)(nil)
