// internal/player/mock.go
package player

import (
	"errors"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
)

// MockOutput is an in-memory Output. Nothing plays until Pull is called,
// which streams samples the way the speaker callback would.
type MockOutput struct {
	mu       sync.Mutex
	rate     beep.SampleRate
	streamer beep.Streamer
	closed   bool
	plays    int
}

// NewMockOutput creates a mock device running at rate.
func NewMockOutput(rate beep.SampleRate) *MockOutput {
	return &MockOutput{rate: rate}
}

// Opener returns an OutputOpener that hands out this mock.
func (m *MockOutput) Opener() OutputOpener {
	return func() (Output, error) { return m, nil }
}

func (m *MockOutput) SampleRate() beep.SampleRate { return m.rate }

func (m *MockOutput) Play(s beep.Streamer) {
	m.mu.Lock()
	m.streamer = s
	m.plays++
	m.mu.Unlock()
}

func (m *MockOutput) Clear() {
	m.mu.Lock()
	m.streamer = nil
	m.mu.Unlock()
}

func (m *MockOutput) Lock()   { m.mu.Lock() }
func (m *MockOutput) Unlock() { m.mu.Unlock() }

func (m *MockOutput) Close() error {
	m.mu.Lock()
	m.closed = true
	m.streamer = nil
	m.mu.Unlock()
	return nil
}

// Pull streams d worth of samples from the current streamer, if any.
func (m *MockOutput) Pull(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.streamer == nil {
		return
	}
	buf := make([][2]float64, m.rate.N(d))
	m.streamer.Stream(buf)
}

// Closed reports whether the worker released the device.
func (m *MockOutput) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// Active reports whether a streamer is attached.
func (m *MockOutput) Active() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.streamer != nil
}

// Plays returns how many times a streamer was started.
func (m *MockOutput) Plays() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.plays
}

// MockTrack describes a file known to MockDecoder.
type MockTrack struct {
	Duration   time.Duration
	SampleRate beep.SampleRate
	Unseekable bool
}

// MockDecoder decodes paths registered with Add into silent sources.
// Unknown paths fail like a missing file.
type MockDecoder struct {
	mu     sync.Mutex
	tracks map[string]MockTrack
	opened []string
}

func NewMockDecoder() *MockDecoder {
	return &MockDecoder{tracks: make(map[string]MockTrack)}
}

// Add registers path with the given track shape.
func (d *MockDecoder) Add(path string, t MockTrack) {
	if t.SampleRate == 0 {
		t.SampleRate = DefaultSampleRate
	}
	d.mu.Lock()
	d.tracks[path] = t
	d.mu.Unlock()
}

var ErrMockNotFound = errors.New("mock: no such file")

func (d *MockDecoder) Decode(path string) (*Source, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	t, ok := d.tracks[path]
	if !ok {
		return nil, ErrMockNotFound
	}
	d.opened = append(d.opened, path)

	length := t.SampleRate.N(t.Duration)
	if t.Unseekable {
		length = 0
	}
	format := beep.Format{SampleRate: t.SampleRate, NumChannels: 2, Precision: 2}
	return NewSource(&silence{length: length, unbounded: t.Unseekable}, format, nil), nil
}

// Opened returns the paths decoded so far, in order.
func (d *MockDecoder) Opened() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.opened...)
}

// silence is a StreamSeekCloser producing zero samples. An unbounded
// stream reports Len 0 and cannot seek, like a live stream.
type silence struct {
	length    int
	pos       int
	unbounded bool
	closed    bool
}

func (s *silence) Stream(samples [][2]float64) (int, bool) {
	if s.closed {
		return 0, false
	}
	n := len(samples)
	if !s.unbounded {
		n = min(n, s.length-s.pos)
		if n <= 0 {
			return 0, false
		}
	}
	clear(samples[:n])
	s.pos += n
	return n, true
}

func (s *silence) Err() error    { return nil }
func (s *silence) Len() int      { return s.length }
func (s *silence) Position() int { return s.pos }

func (s *silence) Seek(p int) error {
	if s.unbounded {
		return errors.New("mock: stream not seekable")
	}
	if p < 0 || p > s.length {
		return errors.New("mock: seek out of range")
	}
	s.pos = p
	return nil
}

func (s *silence) Close() error {
	s.closed = true
	return nil
}

var (
	_ Output  = (*MockOutput)(nil)
	_ Decoder = (*MockDecoder)(nil)
)
