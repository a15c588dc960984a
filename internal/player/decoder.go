package player

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"
)

const (
	extMP3  = ".mp3"
	extFLAC = ".flac"
	extWAV  = ".wav"
	extOGG  = ".ogg"
)

// IsAudioFile reports whether FileDecoder can decode the file at path,
// judging by its extension.
func IsAudioFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case extMP3, extFLAC, extWAV, extOGG:
		return true
	}
	return false
}

// Decoder opens an audio file and returns a decoded source ready to stream.
type Decoder interface {
	Decode(path string) (*Source, error)
}

// Source is a decoded audio stream. The worker owns it; only Position and
// Duration are safe to call from other goroutines.
type Source struct {
	Format beep.Format

	stream   beep.StreamSeekCloser
	closer   io.Closer
	seekable bool
	pos      atomic.Int64 // samples consumed by the output, in source rate
}

// NewSource wraps a decoded stream. closer, if non-nil, is closed along
// with the stream (typically the underlying file).
func NewSource(stream beep.StreamSeekCloser, format beep.Format, closer io.Closer) *Source {
	return &Source{
		Format:   format,
		stream:   stream,
		closer:   closer,
		seekable: stream.Len() > 0,
	}
}

// Duration returns the total length of the source, zero when unknown.
func (s *Source) Duration() time.Duration {
	return s.Format.SampleRate.D(s.stream.Len())
}

// Position returns how far playback has progressed.
func (s *Source) Position() time.Duration {
	return s.Format.SampleRate.D(int(s.pos.Load()))
}

// Seekable reports whether Seek is supported.
func (s *Source) Seekable() bool { return s.seekable }

// Stream implements beep.Streamer, counting samples handed to the device.
func (s *Source) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = s.stream.Stream(samples)
	s.pos.Add(int64(n))
	return n, ok
}

// Err implements beep.Streamer.
func (s *Source) Err() error { return s.stream.Err() }

// seek moves the read position. Callers hold the output lock.
func (s *Source) seek(position time.Duration) error {
	n := s.Format.SampleRate.N(position)
	if err := s.stream.Seek(n); err != nil {
		return err
	}
	s.pos.Store(int64(n))
	return nil
}

// Close releases the stream and the underlying file.
func (s *Source) Close() error {
	err := s.stream.Close()
	if s.closer != nil {
		// The stream may already have closed it.
		_ = s.closer.Close()
	}
	return err
}

// FileDecoder decodes MP3, FLAC, WAV and Ogg Vorbis files from disk.
type FileDecoder struct{}

// Decode opens and decodes the file at path.
func (FileDecoder) Decode(path string) (*Source, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if !IsAudioFile(path) {
		return nil, fmt.Errorf("unsupported format: %s", ext)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	var stream beep.StreamSeekCloser
	var format beep.Format

	switch ext {
	case extMP3:
		stream, format, err = decodeGoMP3(f)
	case extFLAC:
		// Skip ID3v2 tag if present (some taggers add it to FLAC files)
		if err := skipID3v2(f); err != nil {
			f.Close()
			return nil, err
		}
		stream, format, err = flac.Decode(f)
	case extWAV:
		stream, format, err = wav.Decode(f)
	case extOGG:
		stream, format, err = vorbis.Decode(f)
	}
	if err != nil {
		f.Close()
		return nil, err
	}

	return NewSource(stream, format, f), nil
}

// skipID3v2 skips an ID3v2 tag if present at the beginning of the file.
// Some FLAC files have ID3v2 tags prepended, which the FLAC decoder doesn't handle.
func skipID3v2(r io.ReadSeeker) error {
	header := make([]byte, 10)
	n, err := io.ReadFull(r, header)
	if err != nil && n == 0 {
		return err
	}
	if n < 10 || string(header[0:3]) != "ID3" {
		_, err = r.Seek(0, io.SeekStart)
		return err
	}

	// ID3v2 size is a syncsafe integer in bytes 6-9 (7 bits per byte)
	size := int64(header[6])<<21 | int64(header[7])<<14 | int64(header[8])<<7 | int64(header[9])

	_, err = r.Seek(10+size, io.SeekStart)
	return err
}

var (
	_ Decoder       = FileDecoder{}
	_ beep.Streamer = (*Source)(nil)
)
