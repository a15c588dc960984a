package server

import (
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/llehouerou/rwave/internal/errmsg"
	"github.com/llehouerou/rwave/internal/player"
)

// maxSeekSeconds is the largest position, in seconds, a time.Duration
// can hold.
const maxSeekSeconds = math.MaxInt64 / float64(time.Second)

// loadRequest names what to play: a file, a library track, or a position
// in a playlist. Exactly one of them is expected.
type loadRequest struct {
	Path       string `json:"path"`
	TrackID    *int64 `json:"trackId"`
	PlaylistID *int64 `json:"playlistId"`
	Index      int    `json:"index"`
}

func (s *Server) handleLoad(w http.ResponseWriter, r *http.Request) {
	var req loadRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, errmsg.OpDecodeRequest, err)
		return
	}

	ctx := r.Context()
	var err error
	switch {
	case req.Path != "":
		err = s.playback.Load(ctx, req.Path)
	case req.TrackID != nil:
		err = s.playback.PlayTrack(ctx, *req.TrackID)
	case req.PlaylistID != nil:
		err = s.playback.PlayPlaylist(ctx, *req.PlaylistID, req.Index)
	default:
		s.writeError(w, errmsg.OpDecodeRequest, fmt.Errorf("%w: one of path, trackId or playlistId is required", errBadRequest))
		return
	}
	if err != nil {
		s.writeError(w, errmsg.OpPlaybackLoad, err)
		return
	}
	writeJSON(w, http.StatusOK, toStatusJSON(s.playback.Status()))
}

func (s *Server) handlePlay(w http.ResponseWriter, r *http.Request) {
	if err := s.playback.Play(r.Context()); err != nil {
		s.writeError(w, errmsg.OpPlaybackStart, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePause(w http.ResponseWriter, r *http.Request) {
	if err := s.playback.Pause(r.Context()); err != nil {
		s.writeError(w, errmsg.OpPlaybackPause, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type seekRequest struct {
	// Position in seconds; fractions are allowed.
	Position *float64 `json:"position"`
}

func (s *Server) handleSeek(w http.ResponseWriter, r *http.Request) {
	var req seekRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, errmsg.OpDecodeRequest, err)
		return
	}
	if req.Position == nil {
		s.writeError(w, errmsg.OpDecodeRequest, fmt.Errorf("%w: position is required", errBadRequest))
		return
	}
	if math.Abs(*req.Position) > maxSeekSeconds {
		s.writeError(w, errmsg.OpDecodeRequest, fmt.Errorf("%w: position %g is out of range", errBadRequest, *req.Position))
		return
	}
	position := time.Duration(*req.Position * float64(time.Second))
	if err := s.playback.Seek(r.Context(), position); err != nil {
		s.writeError(w, errmsg.OpPlaybackSeek, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleNext(w http.ResponseWriter, r *http.Request) {
	if err := s.playback.Next(r.Context()); err != nil {
		s.writeError(w, errmsg.OpPlaybackNext, err)
		return
	}
	writeJSON(w, http.StatusOK, toStatusJSON(s.playback.Status()))
}

func (s *Server) handlePrevious(w http.ResponseWriter, r *http.Request) {
	if err := s.playback.Previous(r.Context()); err != nil {
		s.writeError(w, errmsg.OpPlaybackPrevious, err)
		return
	}
	writeJSON(w, http.StatusOK, toStatusJSON(s.playback.Status()))
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, toStatusJSON(s.playback.Status()))
}

type unsubscribeResponse struct {
	Removed bool `json:"removed"`
}

func (s *Server) handleUnsubscribe(w http.ResponseWriter, r *http.Request) {
	id := player.SubscriberID(mux.Vars(r)["id"])
	writeJSON(w, http.StatusOK, unsubscribeResponse{Removed: s.playback.Unsubscribe(id)})
}
