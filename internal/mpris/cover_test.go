//go:build linux

package mpris

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("fake"), 0o600); err != nil {
			t.Fatal(err)
		}
	}
}

func TestFindAlbumArt(t *testing.T) {
	tests := []struct {
		name  string
		files []string
		want  string
	}{
		{"cover file", []string{"track.mp3", "cover.jpg"}, "cover.jpg"},
		{"not found", []string{"track.mp3", "notes.txt"}, ""},
		{"priority", []string{"folder.jpg", "cover.png"}, "cover.png"},
		{"case insensitive", []string{"Folder.JPG"}, "Folder.JPG"},
		{"any image as fallback", []string{"scan-01.jpeg"}, "scan-01.jpeg"},
		{"known name beats fallback", []string{"aaa.png", "front.webp"}, "front.webp"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFiles(t, dir, tt.files...)

			want := ""
			if tt.want != "" {
				want = filepath.Join(dir, tt.want)
			}
			if got := FindAlbumArt(filepath.Join(dir, "track.mp3")); got != want {
				t.Errorf("FindAlbumArt() = %q, want %q", got, want)
			}
		})
	}
}

func TestFindAlbumArt_MissingDir(t *testing.T) {
	if got := FindAlbumArt("/nonexistent/dir/track.mp3"); got != "" {
		t.Errorf("FindAlbumArt() = %q, want empty string", got)
	}
}
