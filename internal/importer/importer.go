// Package importer populates the library from music files on disk.
package importer

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/llehouerou/rwave/internal/library"
	"github.com/llehouerou/rwave/internal/tags"
)

const numWorkers = 8

// Store is the part of the library the importer writes to.
type Store interface {
	GetTrackByPath(ctx context.Context, path string) (*library.Track, error)
	CreateTrack(ctx context.Context, in library.TrackInput) (int64, error)
	UpdateTrack(ctx context.Context, id int64, in library.TrackInput) error
}

// ReadFunc extracts tags and audio properties from a file.
type ReadFunc func(path string) (*tags.FileInfo, error)

// Failure records a file that could not be imported.
type Failure struct {
	Path string
	Err  error
}

// Stats summarizes an import run.
type Stats struct {
	Added    int
	Updated  int
	Skipped  int // unchanged since the last import
	Failed   int
	Bytes    int64 // size of the added and updated files
	Failures []Failure
}

// Importer reads files and creates or updates their library tracks.
type Importer struct {
	Store  Store
	Read   ReadFunc
	Logger *zap.Logger
	// Progress, if set, is called after each file with the number of
	// files handled so far.
	Progress func(done, total int)
}

// New creates an importer reading files with tags.ReadWithAudio.
func New(store Store, log *zap.Logger) *Importer {
	return &Importer{Store: store, Read: tags.ReadWithAudio, Logger: log}
}

// Import imports files into store with the default reader.
func Import(ctx context.Context, store Store, files []File, log *zap.Logger) (Stats, error) {
	return New(store, log).Import(ctx, files)
}

type readResult struct {
	file File
	info *tags.FileInfo
	err  error
}

// Import processes files. Files unchanged since they were last imported
// (same mtime) are skipped without being read. A file that fails is
// recorded in Stats and the run continues. Tags are read in parallel;
// database writes happen on the calling goroutine.
func (im *Importer) Import(ctx context.Context, files []File) (Stats, error) {
	log := im.Logger
	if log == nil {
		log = zap.NewNop()
	}
	read := im.Read
	if read == nil {
		read = tags.ReadWithAudio
	}

	var stats Stats
	existing := make(map[string]*library.Track, len(files))
	var pending []File
	for _, f := range files {
		t, err := im.Store.GetTrackByPath(ctx, f.Path)
		switch {
		case errors.Is(err, library.ErrTrackNotFound):
			pending = append(pending, f)
		case err != nil:
			return stats, err
		case t.Mtime == f.Mtime:
			stats.Skipped++
		default:
			existing[f.Path] = t
			pending = append(pending, f)
		}
	}
	done := stats.Skipped
	im.progress(done, len(files))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	workCh := make(chan File)
	resultCh := make(chan readResult)

	var wg sync.WaitGroup
	for range numWorkers {
		wg.Go(func() {
			for f := range workCh {
				info, err := read(f.Path)
				select {
				case resultCh <- readResult{file: f, info: info, err: err}:
				case <-ctx.Done():
					return
				}
			}
		})
	}

	go func() {
		defer close(workCh)
		for _, f := range pending {
			select {
			case workCh <- f:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	for res := range resultCh {
		done++
		if err := im.apply(ctx, res, existing[res.file.Path], &stats); err != nil {
			stats.Failed++
			stats.Failures = append(stats.Failures, Failure{Path: res.file.Path, Err: err})
			log.Warn("import failed", zap.String("path", res.file.Path), zap.Error(err))
		}
		im.progress(done, len(files))
	}

	if err := ctx.Err(); err != nil {
		return stats, err
	}
	log.Info("import finished",
		zap.Int("added", stats.Added),
		zap.Int("updated", stats.Updated),
		zap.Int("skipped", stats.Skipped),
		zap.Int("failed", stats.Failed),
	)
	return stats, nil
}

func (im *Importer) apply(ctx context.Context, res readResult, prev *library.Track, stats *Stats) error {
	if res.err != nil {
		return res.err
	}
	in := trackInput(res.file, res.info)

	if prev != nil {
		if err := im.Store.UpdateTrack(ctx, prev.ID, in); err != nil {
			return err
		}
		stats.Updated++
	} else {
		if _, err := im.Store.CreateTrack(ctx, in); err != nil {
			return err
		}
		stats.Added++
	}
	stats.Bytes += res.file.Size
	return nil
}

func trackInput(f File, info *tags.FileInfo) library.TrackInput {
	return library.TrackInput{
		Name:        info.Title,
		Path:        f.Path,
		Artist:      info.Artist,
		Album:       info.Album,
		TrackNumber: info.TrackNumber,
		Year:        info.Year(),
		Duration:    info.Duration,
		Mtime:       f.Mtime,
	}
}

func (im *Importer) progress(done, total int) {
	if im.Progress != nil {
		im.Progress(done, total)
	}
}
