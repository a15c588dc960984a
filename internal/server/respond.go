package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/llehouerou/rwave/internal/errmsg"
	"github.com/llehouerou/rwave/internal/library"
	"github.com/llehouerou/rwave/internal/playback"
	"github.com/llehouerou/rwave/internal/player"
)

// errBadRequest marks errors in the request itself.
var errBadRequest = errors.New("bad request")

type errorBody struct {
	Error string `json:"error"`
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	var decErr *player.DecodeError
	var seekErr *player.SeekError
	switch {
	case errors.Is(err, errBadRequest),
		errors.Is(err, library.ErrEmptyName),
		errors.Is(err, library.ErrEmptyPath):
		return http.StatusBadRequest
	case errors.Is(err, library.ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &decErr), errors.As(err, &seekErr),
		errors.Is(err, playback.ErrEmptyTracklist),
		errors.Is(err, playback.ErrIndexOutOfRange):
		return http.StatusUnprocessableEntity
	case errors.Is(err, library.ErrAlreadyInPlaylist),
		errors.Is(err, library.ErrNotInPlaylist),
		errors.Is(err, library.ErrDuplicatePath),
		errors.Is(err, library.ErrInUse),
		errors.Is(err, library.ErrProtectedPlaylist):
		return http.StatusConflict
	case errors.Is(err, player.ErrChannelClosed):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, op errmsg.Op, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.log.Error(string(op), zap.Error(err))
	} else {
		s.log.Debug(string(op), zap.Int("status", status), zap.Error(err))
	}
	writeJSON(w, status, errorBody{Error: errmsg.Format(op, err)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid %s", errBadRequest, name)
	}
	return id, nil
}
