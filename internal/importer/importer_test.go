package importer

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/rwave/internal/db"
	"github.com/llehouerou/rwave/internal/library"
	"github.com/llehouerou/rwave/internal/tags"
)

func setupStore(t *testing.T) *library.Store {
	t.Helper()
	conn, err := db.Open(db.Memory)
	require.NoError(t, err)
	s, err := library.New(context.Background(), conn, nil)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// fakeReader serves tags from a map and counts reads.
type fakeReader struct {
	mu    sync.Mutex
	infos map[string]*tags.FileInfo
	reads map[string]int
}

func newFakeReader(infos map[string]*tags.FileInfo) *fakeReader {
	return &fakeReader{infos: infos, reads: make(map[string]int)}
}

func (r *fakeReader) Read(path string) (*tags.FileInfo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reads[path]++
	info, ok := r.infos[path]
	if !ok {
		return nil, errors.New("unreadable")
	}
	return info, nil
}

func info(title, artist, album string, track int, d time.Duration) *tags.FileInfo {
	return &tags.FileInfo{
		Tag:       tags.Tag{Title: title, Artist: artist, Album: album, TrackNumber: track, Date: "1973"},
		AudioInfo: tags.AudioInfo{Duration: d, Format: "FLAC", SampleRate: 44100},
	}
}

func TestImport(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	reader := newFakeReader(map[string]*tags.FileInfo{
		"/m/1.flac": info("Speak to Me", "Pink Floyd", "DSOTM", 1, 90*time.Second),
		"/m/2.flac": info("Breathe", "Pink Floyd", "DSOTM", 2, 163*time.Second),
	})

	var progress []int
	im := &Importer{Store: store, Read: reader.Read, Progress: func(done, _ int) {
		progress = append(progress, done)
	}}

	files := []File{
		{Path: "/m/1.flac", Size: 1000, Mtime: 10},
		{Path: "/m/2.flac", Size: 2000, Mtime: 10},
		{Path: "/m/broken.flac", Size: 500, Mtime: 10},
	}
	stats, err := im.Import(ctx, files)
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Added)
	assert.Equal(t, 1, stats.Failed)
	assert.Equal(t, int64(3000), stats.Bytes)
	require.Len(t, stats.Failures, 1)
	assert.Equal(t, "/m/broken.flac", stats.Failures[0].Path)
	assert.Equal(t, []int{0, 1, 2, 3}, progress)

	track, err := store.GetTrackByPath(ctx, "/m/2.flac")
	require.NoError(t, err)
	assert.Equal(t, "Breathe", track.Name)
	assert.Equal(t, "Pink Floyd", track.Artist)
	assert.Equal(t, 1973, track.Year)
	assert.Equal(t, 163*time.Second, track.Duration)

	all, err := store.PlaylistTracks(ctx, library.AllTracksID)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestImport_SkipsUnchangedAndUpdatesModified(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	reader := newFakeReader(map[string]*tags.FileInfo{
		"/m/1.flac": info("Time", "Pink Floyd", "DSOTM", 4, time.Minute),
		"/m/2.flac": info("Money", "Pink Floyd", "DSOTM", 6, time.Minute),
	})
	im := &Importer{Store: store, Read: reader.Read}

	files := []File{
		{Path: "/m/1.flac", Size: 10, Mtime: 100},
		{Path: "/m/2.flac", Size: 20, Mtime: 100},
	}
	_, err := im.Import(ctx, files)
	require.NoError(t, err)

	reader.infos["/m/2.flac"] = info("Money (Remastered)", "Pink Floyd", "DSOTM", 6, time.Minute)
	files[1].Mtime = 200

	stats, err := im.Import(ctx, files)
	require.NoError(t, err)
	assert.Equal(t, Stats{Updated: 1, Skipped: 1, Bytes: 20}, stats)
	assert.Equal(t, 1, reader.reads["/m/1.flac"])
	assert.Equal(t, 2, reader.reads["/m/2.flac"])

	track, err := store.GetTrackByPath(ctx, "/m/2.flac")
	require.NoError(t, err)
	assert.Equal(t, "Money (Remastered)", track.Name)
	assert.Equal(t, int64(200), track.Mtime)

	n, err := store.TrackCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestImport_CancelledContext(t *testing.T) {
	store := setupStore(t)
	reader := newFakeReader(map[string]*tags.FileInfo{
		"/m/1.flac": info("A", "B", "C", 1, time.Minute),
	})
	im := &Importer{Store: store, Read: reader.Read}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := im.Import(ctx, []File{{Path: "/m/1.flac", Mtime: 1}})
	assert.ErrorIs(t, err, context.Canceled)
}
