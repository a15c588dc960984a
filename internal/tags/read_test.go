package tags

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bogem/id3v2/v2"
	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/wav"
)

// createMinimalMP3 writes a single MPEG1 Layer3 frame (128kbps, 44100Hz,
// stereo) padded to its 417-byte length.
func createMinimalMP3(t *testing.T, path string) {
	t.Helper()
	mp3Frame := make([]byte, 417)
	mp3Frame[0] = 0xff
	mp3Frame[1] = 0xfb
	mp3Frame[2] = 0x90
	mp3Frame[3] = 0x00

	if err := os.WriteFile(path, mp3Frame, 0o600); err != nil {
		t.Fatalf("failed to create test MP3: %v", err)
	}
}

func tagMP3(t *testing.T, path string, set func(*id3v2.Tag)) {
	t.Helper()
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		t.Fatalf("failed to open MP3 for tagging: %v", err)
	}
	defer tag.Close()
	set(tag)
	if err := tag.Save(); err != nil {
		t.Fatalf("failed to save ID3 tags: %v", err)
	}
}

// createTestWAV writes d of 16-bit stereo silence at rate.
func createTestWAV(t *testing.T, path string, rate beep.SampleRate, d time.Duration) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create test WAV: %v", err)
	}
	defer f.Close()

	format := beep.Format{SampleRate: rate, NumChannels: 2, Precision: 2}
	if err := wav.Encode(f, beep.Silence(rate.N(d)), format); err != nil {
		t.Fatalf("failed to encode test WAV: %v", err)
	}
}

func TestRead_MP3(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.mp3")
	createMinimalMP3(t, path)
	tagMP3(t, path, func(tag *id3v2.Tag) {
		tag.SetTitle("Money")
		tag.SetArtist("Pink Floyd")
		tag.SetAlbum("The Dark Side of the Moon")
		tag.SetYear("1973")
		tag.SetGenre("Rock")
		tag.AddTextFrame("TRCK", id3v2.EncodingUTF8, "6/10")
	})

	got, err := Read(path)
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}

	if got.Title != "Money" {
		t.Errorf("Title = %q, want Money", got.Title)
	}
	if got.Artist != "Pink Floyd" {
		t.Errorf("Artist = %q, want Pink Floyd", got.Artist)
	}
	if got.AlbumArtist != "Pink Floyd" {
		t.Errorf("AlbumArtist = %q, want fallback to artist", got.AlbumArtist)
	}
	if got.Album != "The Dark Side of the Moon" {
		t.Errorf("Album = %q", got.Album)
	}
	if got.TrackNumber != 6 || got.TotalTracks != 10 {
		t.Errorf("Track = %d/%d, want 6/10", got.TrackNumber, got.TotalTracks)
	}
	if got.Year() != 1973 {
		t.Errorf("Year() = %d, want 1973", got.Year())
	}
	if got.Path != path {
		t.Errorf("Path = %q, want %q", got.Path, path)
	}
}

func TestReadMP3WithID3v2Fallback(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.mp3")
	createMinimalMP3(t, path)
	tagMP3(t, path, func(tag *id3v2.Tag) {
		tag.SetTitle("Test Title")
		tag.SetArtist("Test Artist")
		tag.AddTextFrame("TPE2", id3v2.EncodingUTF8, "Test Album Artist")
		tag.AddTextFrame("TRCK", id3v2.EncodingUTF8, "3/12")
		tag.AddTextFrame("TPOS", id3v2.EncodingUTF8, "1/2")
	})

	info, err := readMP3WithID3v2Fallback(path)
	if err != nil {
		t.Fatalf("readMP3WithID3v2Fallback failed: %v", err)
	}

	if info.Title != "Test Title" {
		t.Errorf("Title = %q, want %q", info.Title, "Test Title")
	}
	if info.AlbumArtist != "Test Album Artist" {
		t.Errorf("AlbumArtist = %q, want %q", info.AlbumArtist, "Test Album Artist")
	}
	if info.Album != UnknownAlbum {
		t.Errorf("Album = %q, want %q", info.Album, UnknownAlbum)
	}
	if info.TrackNumber != 3 || info.TotalTracks != 12 {
		t.Errorf("Track = %d/%d, want 3/12", info.TrackNumber, info.TotalTracks)
	}
	if info.DiscNumber != 1 {
		t.Errorf("DiscNumber = %d, want 1", info.DiscNumber)
	}
}

func TestRead_UntaggedFallsBackToFilename(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Field Recording.wav")
	createTestWAV(t, path, 44100, 100*time.Millisecond)

	got, err := Read(path)
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}
	if got.Title != "Field Recording" {
		t.Errorf("Title = %q, want %q", got.Title, "Field Recording")
	}
	if got.Artist != UnknownArtist || got.Album != UnknownAlbum {
		t.Errorf("Artist/Album = %q/%q, want defaults", got.Artist, got.Album)
	}
}

func TestRead_NonexistentFile(t *testing.T) {
	if _, err := Read("/nonexistent/file.mp3"); err == nil {
		t.Error("Read() should fail for a missing file")
	}
}

func TestReadAudioInfo_MP3(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.mp3")
	createMinimalMP3(t, path)

	info, err := ReadAudioInfo(path)
	if err != nil {
		t.Fatalf("ReadAudioInfo() error: %v", err)
	}
	if info.Format != "MP3" {
		t.Errorf("Format = %q, want MP3", info.Format)
	}
	if info.SampleRate != 44100 {
		t.Errorf("SampleRate = %d, want 44100", info.SampleRate)
	}
	if info.BitDepth != 16 {
		t.Errorf("BitDepth = %d, want 16", info.BitDepth)
	}
}

func TestReadAudioInfo_WAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone.wav")
	createTestWAV(t, path, 48000, 2*time.Second)

	info, err := ReadAudioInfo(path)
	if err != nil {
		t.Fatalf("ReadAudioInfo() error: %v", err)
	}
	if info.Format != "WAV" {
		t.Errorf("Format = %q, want WAV", info.Format)
	}
	if info.SampleRate != 48000 {
		t.Errorf("SampleRate = %d, want 48000", info.SampleRate)
	}
	if info.BitDepth != 16 {
		t.Errorf("BitDepth = %d, want 16", info.BitDepth)
	}
	if info.Duration != 2*time.Second {
		t.Errorf("Duration = %v, want 2s", info.Duration)
	}
}

func TestReadAudioInfo_Unsupported(t *testing.T) {
	if _, err := ReadAudioInfo("/music/song.m4a"); err == nil {
		t.Error("ReadAudioInfo() should reject unsupported extensions")
	}
}

func TestReadWithAudio(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Interlude.wav")
	createTestWAV(t, path, 44100, time.Second)

	fi, err := ReadWithAudio(path)
	if err != nil {
		t.Fatalf("ReadWithAudio() error: %v", err)
	}
	if fi.Title != "Interlude" {
		t.Errorf("Title = %q, want Interlude", fi.Title)
	}
	if fi.Duration != time.Second {
		t.Errorf("Duration = %v, want 1s", fi.Duration)
	}
}

func TestParseStreamInfo(t *testing.T) {
	// 44100 Hz, 2 channels, 16 bits, 441000 samples (10s)
	data := make([]byte, 34)
	rate := 44100
	data[10] = byte(rate >> 12)
	data[11] = byte(rate >> 4)
	data[12] = byte(rate<<4) | 1<<1 // two channels
	total := int64(441000)
	data[13] = byte((16-1)&0x0F)<<4 | byte(total>>32)&0x0F
	data[14] = byte(total >> 24)
	data[15] = byte(total >> 16)
	data[16] = byte(total >> 8)
	data[17] = byte(total)

	info := parseStreamInfo(data)
	if info.SampleRate != 44100 {
		t.Errorf("SampleRate = %d, want 44100", info.SampleRate)
	}
	if info.BitDepth != 16 {
		t.Errorf("BitDepth = %d, want 16", info.BitDepth)
	}
	if info.Duration != 10*time.Second {
		t.Errorf("Duration = %v, want 10s", info.Duration)
	}
}
