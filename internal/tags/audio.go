package tags

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	goflac "github.com/go-flac/go-flac"
	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"
	"github.com/llehouerou/go-mp3"
)

// ReadAudioInfo reads audio stream properties (duration, format, sample rate).
// This uses lighter-weight methods than full decoding where possible.
func ReadAudioInfo(path string) (*AudioInfo, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if !IsMusicFile(path) {
		return nil, fmt.Errorf("unsupported format: %s", ext)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	switch ext {
	case ExtMP3:
		return readMP3AudioInfo(f)
	case ExtFLAC:
		return readFLACStreamInfo(path)
	case ExtWAV:
		return readWithBeep(f, "WAV", fromReader(wav.Decode))
	case ExtOGG:
		return readWithBeep(f, "VORBIS", vorbis.Decode)
	}

	return nil, fmt.Errorf("unsupported format: %s", ext)
}

// readMP3AudioInfo extracts audio info from an MP3 file.
func readMP3AudioInfo(f *os.File) (*AudioInfo, error) {
	decoder, err := mp3.NewDecoder(f)
	if err != nil {
		return nil, err
	}

	sampleRate := decoder.SampleRate()
	if sampleRate == 0 {
		return nil, errors.New("mp3: invalid sample rate")
	}

	sampleCount := max(decoder.SampleCount(), 0)

	return &AudioInfo{
		Duration:   samplesToDuration(sampleCount, sampleRate),
		Format:     "MP3",
		SampleRate: sampleRate,
		BitDepth:   16, // MP3 decodes to 16-bit
	}, nil
}

// readFLACStreamInfo extracts audio info from FLAC streaminfo metadata.
func readFLACStreamInfo(path string) (*AudioInfo, error) {
	flacFile, err := goflac.ParseFile(path)
	if err != nil {
		// Files with a prepended ID3v2 tag are only readable by decoding.
		return readFLACWithBeep(path)
	}

	for _, meta := range flacFile.Meta {
		if meta.Type != goflac.StreamInfo || len(meta.Data) < 18 {
			continue
		}
		info := parseStreamInfo(meta.Data)
		return &info, nil
	}

	return readFLACWithBeep(path)
}

// parseStreamInfo decodes a FLAC STREAMINFO block: sample rate (20 bits),
// channels (3), bits per sample (5) and total samples (36) starting at
// byte 10.
func parseStreamInfo(data []byte) AudioInfo {
	sampleRate := int(data[10])<<12 | int(data[11])<<4 | int(data[12])>>4
	bitsPerSample := (int(data[12])&0x01)<<4 | int(data[13])>>4 + 1
	totalSamples := int64(data[13]&0x0F)<<32 | int64(data[14])<<24 | int64(data[15])<<16 |
		int64(data[16])<<8 | int64(data[17])

	return AudioInfo{
		Duration:   samplesToDuration(totalSamples, sampleRate),
		Format:     "FLAC",
		SampleRate: sampleRate,
		BitDepth:   bitsPerSample,
	}
}

// readFLACWithBeep uses beep's FLAC decoder as fallback.
func readFLACWithBeep(path string) (*AudioInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if err := skipID3v2(f); err != nil {
		return nil, err
	}
	return readWithBeep(f, "FLAC", fromReader(flac.Decode))
}

type beepDecodeFunc func(io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error)

// fromReader adapts decoders that take a plain io.Reader.
func fromReader(decode func(io.Reader) (beep.StreamSeekCloser, beep.Format, error)) beepDecodeFunc {
	return func(rc io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error) {
		return decode(rc)
	}
}

// readWithBeep opens the stream with a beep decoder just long enough to
// read its format and length.
func readWithBeep(f *os.File, name string, decode beepDecodeFunc) (*AudioInfo, error) {
	streamer, format, err := decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", strings.ToLower(name), err)
	}
	defer streamer.Close()

	return &AudioInfo{
		Duration:   format.SampleRate.D(streamer.Len()),
		Format:     name,
		SampleRate: int(format.SampleRate),
		BitDepth:   format.Precision * 8,
	}, nil
}

func samplesToDuration(samples int64, sampleRate int) time.Duration {
	if sampleRate <= 0 {
		return 0
	}
	return time.Duration(float64(samples) / float64(sampleRate) * float64(time.Second))
}

// skipID3v2 skips an ID3v2 tag if present at the beginning of the file.
func skipID3v2(r io.ReadSeeker) error {
	header := make([]byte, 10)
	n, err := io.ReadFull(r, header)
	if err != nil && n == 0 {
		return err
	}
	if n < 10 || string(header[0:3]) != id3Magic {
		_, err = r.Seek(0, io.SeekStart)
		return err
	}

	// ID3v2 size is stored as a syncsafe integer in bytes 6-9
	size := int64(header[6])<<21 | int64(header[7])<<14 | int64(header[8])<<7 | int64(header[9])
	_, err = r.Seek(10+size, io.SeekStart)
	return err
}
