// Package server exposes the playback service and the library over HTTP,
// with player events streamed on a WebSocket.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/llehouerou/rwave/internal/library"
	"github.com/llehouerou/rwave/internal/playback"
)

const (
	defaultSinkBuffer = 64
	shutdownTimeout   = 5 * time.Second
)

// Library is the part of *library.Store the routes use.
type Library interface {
	CreateTrack(ctx context.Context, in library.TrackInput) (int64, error)
	GetTrack(ctx context.Context, id int64) (*library.Track, error)
	ListTracks(ctx context.Context) ([]library.Track, error)
	UpdateTrack(ctx context.Context, id int64, in library.TrackInput) error
	DeleteTrack(ctx context.Context, id int64) error

	ListArtists(ctx context.Context) ([]library.Artist, error)
	ListAlbums(ctx context.Context) ([]library.Album, error)

	CreatePlaylist(ctx context.Context, name string) (int64, error)
	GetPlaylist(ctx context.Context, id int64) (*library.Playlist, error)
	ListPlaylists(ctx context.Context) ([]library.Playlist, error)
	RenamePlaylist(ctx context.Context, id int64, name string) error
	DeletePlaylist(ctx context.Context, id int64) error
	PlaylistTracks(ctx context.Context, id int64) ([]library.Track, error)
	AddTrackToPlaylist(ctx context.Context, playlistID, trackID int64) error
	RemoveTrackFromPlaylist(ctx context.Context, playlistID, trackID int64) error
}

// Options configures a Server.
type Options struct {
	// SinkBuffer is the number of events a WebSocket client may fall behind
	// before it is dropped.
	SinkBuffer int
	Logger     *zap.Logger
}

type Server struct {
	log        *zap.Logger
	playback   playback.Service
	library    Library
	sinkBuffer int
	router     *mux.Router

	mu      sync.Mutex
	clients map[*wsClient]struct{}
}

// New builds the router. Nothing listens until ListenAndServe.
func New(svc playback.Service, lib Library, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.SinkBuffer <= 0 {
		opts.SinkBuffer = defaultSinkBuffer
	}
	s := &Server{
		log:        opts.Logger.Named("server"),
		playback:   svc,
		library:    lib,
		sinkBuffer: opts.SinkBuffer,
		clients:    make(map[*wsClient]struct{}),
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.logRequests)

	p := r.PathPrefix("/player").Subrouter()
	p.HandleFunc("/load", s.handleLoad).Methods(http.MethodPost)
	p.HandleFunc("/play", s.handlePlay).Methods(http.MethodPost)
	p.HandleFunc("/pause", s.handlePause).Methods(http.MethodPost)
	p.HandleFunc("/seek", s.handleSeek).Methods(http.MethodPost)
	p.HandleFunc("/next", s.handleNext).Methods(http.MethodPost)
	p.HandleFunc("/previous", s.handlePrevious).Methods(http.MethodPost)
	p.HandleFunc("/status", s.handleStatus).Methods(http.MethodGet)
	p.HandleFunc("/events", s.handleEvents).Methods(http.MethodGet)
	p.HandleFunc("/subscriptions/{id}", s.handleUnsubscribe).Methods(http.MethodDelete)

	r.HandleFunc("/tracks", s.handleListTracks).Methods(http.MethodGet)
	r.HandleFunc("/tracks", s.handleCreateTrack).Methods(http.MethodPost)
	r.HandleFunc("/tracks/{id:[0-9]+}", s.handleGetTrack).Methods(http.MethodGet)
	r.HandleFunc("/tracks/{id:[0-9]+}", s.handleUpdateTrack).Methods(http.MethodPut)
	r.HandleFunc("/tracks/{id:[0-9]+}", s.handleDeleteTrack).Methods(http.MethodDelete)

	r.HandleFunc("/artists", s.handleListArtists).Methods(http.MethodGet)
	r.HandleFunc("/albums", s.handleListAlbums).Methods(http.MethodGet)

	r.HandleFunc("/playlists", s.handleListPlaylists).Methods(http.MethodGet)
	r.HandleFunc("/playlists", s.handleCreatePlaylist).Methods(http.MethodPost)
	r.HandleFunc("/playlists/{id:[0-9]+}", s.handleRenamePlaylist).Methods(http.MethodPut)
	r.HandleFunc("/playlists/{id:[0-9]+}", s.handleDeletePlaylist).Methods(http.MethodDelete)
	r.HandleFunc("/playlists/{id:[0-9]+}/tracks", s.handlePlaylistTracks).Methods(http.MethodGet)
	r.HandleFunc("/playlists/{id:[0-9]+}/tracks/{trackId:[0-9]+}", s.handleAddToPlaylist).Methods(http.MethodPost)
	r.HandleFunc("/playlists/{id:[0-9]+}/tracks/{trackId:[0-9]+}", s.handleRemoveFromPlaylist).Methods(http.MethodDelete)

	return r
}

// Handler returns the HTTP handler serving every route.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// and disconnects WebSocket clients.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is ListenAndServe on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", zap.String("addr", ln.Addr().String()))
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		s.closeClients()
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	s.closeClients()
	if serveErr := <-errCh; serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
		return serveErr
	}
	s.log.Info("server stopped")
	return err
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("elapsed", time.Since(start)),
		)
	})
}
