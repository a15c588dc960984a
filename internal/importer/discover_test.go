package importer

import (
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, fsys afero.Fs, files map[string]string) {
	t.Helper()
	for path, content := range files {
		require.NoError(t, afero.WriteFile(fsys, path, []byte(content), 0o644))
	}
}

func TestDiscover(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFiles(t, fsys, map[string]string{
		"/music/b/02 - two.flac":     "flac",
		"/music/b/01 - one.MP3":      "mp3",
		"/music/a/song.ogg":          "ogg",
		"/music/a/cover.jpg":         "jpg",
		"/music/a/notes.txt":         "txt",
		"/music/.trash/deleted.mp3":  "old",
		"/other/live/take.wav":       "wav",
		"/other/live/take.m4a":       "m4a",
		"/elsewhere/not-scanned.mp3": "mp3",
	})
	mtime := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, fsys.Chtimes("/music/a/song.ogg", mtime, mtime))

	files, err := Discover(fsys, []string{"/music", "/other/", "/music/a"})
	require.NoError(t, err)

	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = f.Path
	}
	assert.Equal(t, []string{
		"/music/a/song.ogg",
		"/music/b/01 - one.MP3",
		"/music/b/02 - two.flac",
		"/other/live/take.wav",
	}, paths)

	assert.Equal(t, int64(3), files[0].Size)
	assert.Equal(t, mtime.Unix(), files[0].Mtime)
}

func TestDiscover_MissingRoot(t *testing.T) {
	fsys := afero.NewMemMapFs()
	_, err := Discover(fsys, []string{"/nowhere"})
	assert.Error(t, err)
}

func TestDiscover_Empty(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, fsys.MkdirAll("/music", 0o755))

	files, err := Discover(fsys, []string{"/music"})
	require.NoError(t, err)
	assert.Empty(t, files)
}
