package server

import (
	"net/http"

	"github.com/samber/lo"

	"github.com/llehouerou/rwave/internal/errmsg"
	"github.com/llehouerou/rwave/internal/library"
	"github.com/llehouerou/rwave/internal/search"
)

func (s *Server) handleListTracks(w http.ResponseWriter, r *http.Request) {
	tracks, err := s.library.ListTracks(r.Context())
	if err != nil {
		s.writeError(w, errmsg.OpTrackList, err)
		return
	}
	if q := r.URL.Query().Get("q"); q != "" {
		tracks = search.Filter(tracks, library.Track.SearchText, q)
	}
	writeJSON(w, http.StatusOK, toTracksJSON(tracks))
}

func (s *Server) handleCreateTrack(w http.ResponseWriter, r *http.Request) {
	var req trackRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, errmsg.OpDecodeRequest, err)
		return
	}
	id, err := s.library.CreateTrack(r.Context(), req.input())
	if err != nil {
		s.writeError(w, errmsg.OpTrackCreate, err)
		return
	}
	writeJSON(w, http.StatusCreated, idResponse{ID: id})
}

func (s *Server) handleGetTrack(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, errmsg.OpDecodeRequest, err)
		return
	}
	t, err := s.library.GetTrack(r.Context(), id)
	if err != nil {
		s.writeError(w, errmsg.OpTrackLoad, err)
		return
	}
	writeJSON(w, http.StatusOK, toTrackJSON(*t))
}

func (s *Server) handleUpdateTrack(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, errmsg.OpDecodeRequest, err)
		return
	}
	var req trackRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, errmsg.OpDecodeRequest, err)
		return
	}
	if err := s.library.UpdateTrack(r.Context(), id, req.input()); err != nil {
		s.writeError(w, errmsg.OpTrackUpdate, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteTrack(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, errmsg.OpDecodeRequest, err)
		return
	}
	if err := s.library.DeleteTrack(r.Context(), id); err != nil {
		s.writeError(w, errmsg.OpTrackDelete, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListArtists(w http.ResponseWriter, r *http.Request) {
	artists, err := s.library.ListArtists(r.Context())
	if err != nil {
		s.writeError(w, errmsg.OpArtistList, err)
		return
	}
	writeJSON(w, http.StatusOK, lo.Map(artists, func(a library.Artist, _ int) artistJSON {
		return artistJSON{ID: a.ID, Name: a.Name}
	}))
}

func (s *Server) handleListAlbums(w http.ResponseWriter, r *http.Request) {
	albums, err := s.library.ListAlbums(r.Context())
	if err != nil {
		s.writeError(w, errmsg.OpAlbumList, err)
		return
	}
	writeJSON(w, http.StatusOK, lo.Map(albums, func(a library.Album, _ int) albumJSON {
		return albumJSON{ID: a.ID, Name: a.Name, ArtistID: a.ArtistID, Artist: a.Artist}
	}))
}

func (s *Server) handleListPlaylists(w http.ResponseWriter, r *http.Request) {
	playlists, err := s.library.ListPlaylists(r.Context())
	if err != nil {
		s.writeError(w, errmsg.OpPlaylistList, err)
		return
	}
	writeJSON(w, http.StatusOK, lo.Map(playlists, func(p library.Playlist, _ int) playlistJSON {
		return toPlaylistJSON(p)
	}))
}

func (s *Server) handleCreatePlaylist(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, errmsg.OpDecodeRequest, err)
		return
	}
	id, err := s.library.CreatePlaylist(r.Context(), req.Name)
	if err != nil {
		s.writeError(w, errmsg.OpPlaylistCreate, err)
		return
	}
	writeJSON(w, http.StatusCreated, idResponse{ID: id})
}

func (s *Server) handleRenamePlaylist(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, errmsg.OpDecodeRequest, err)
		return
	}
	var req nameRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, errmsg.OpDecodeRequest, err)
		return
	}
	if err := s.library.RenamePlaylist(r.Context(), id, req.Name); err != nil {
		s.writeError(w, errmsg.OpPlaylistRename, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeletePlaylist(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, errmsg.OpDecodeRequest, err)
		return
	}
	if err := s.library.DeletePlaylist(r.Context(), id); err != nil {
		s.writeError(w, errmsg.OpPlaylistDelete, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePlaylistTracks(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, errmsg.OpDecodeRequest, err)
		return
	}
	tracks, err := s.library.PlaylistTracks(r.Context(), id)
	if err != nil {
		s.writeError(w, errmsg.OpPlaylistTracks, err)
		return
	}
	writeJSON(w, http.StatusOK, toTracksJSON(tracks))
}

func (s *Server) membershipIDs(r *http.Request) (playlistID, trackID int64, err error) {
	if playlistID, err = pathID(r, "id"); err != nil {
		return 0, 0, err
	}
	if trackID, err = pathID(r, "trackId"); err != nil {
		return 0, 0, err
	}
	return playlistID, trackID, nil
}

func (s *Server) handleAddToPlaylist(w http.ResponseWriter, r *http.Request) {
	playlistID, trackID, err := s.membershipIDs(r)
	if err != nil {
		s.writeError(w, errmsg.OpDecodeRequest, err)
		return
	}
	if err := s.library.AddTrackToPlaylist(r.Context(), playlistID, trackID); err != nil {
		s.writeError(w, errmsg.OpPlaylistAddTrack, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRemoveFromPlaylist(w http.ResponseWriter, r *http.Request) {
	playlistID, trackID, err := s.membershipIDs(r)
	if err != nil {
		s.writeError(w, errmsg.OpDecodeRequest, err)
		return
	}
	if err := s.library.RemoveTrackFromPlaylist(r.Context(), playlistID, trackID); err != nil {
		s.writeError(w, errmsg.OpPlaylistRemove, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
