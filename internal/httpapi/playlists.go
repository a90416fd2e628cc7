package httpapi

import (
	"net/http"

	"musix/internal/catalog"
)

func (s *Server) handleCreatePlaylist(w http.ResponseWriter, r *http.Request) {
	var params catalog.PlaylistParams
	if !s.decode(w, r, &params) {
		return
	}
	playlist, err := s.catalog.CreatePlaylist(r.Context(), params)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, playlist)
}

func (s *Server) handleListPlaylists(w http.ResponseWriter, r *http.Request) {
	playlists, err := s.catalog.ListPlaylists(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, playlists)
}

func (s *Server) handleGetPlaylist(w http.ResponseWriter, r *http.Request) {
	playlist, err := s.catalog.GetPlaylist(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, playlist)
}

func (s *Server) handleUpdatePlaylist(w http.ResponseWriter, r *http.Request) {
	var params catalog.PlaylistParams
	if !s.decode(w, r, &params) {
		return
	}
	updated, err := s.catalog.UpdatePlaylist(r.Context(), params.ID, params)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, updatedResponse{UpdatedItems: updated})
}

func (s *Server) handleDeletePlaylist(w http.ResponseWriter, r *http.Request) {
	if err := s.catalog.DeletePlaylist(r.Context(), r.PathValue("id")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
