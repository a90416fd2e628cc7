package httpapi

import (
	"net/http"

	"musix/internal/catalog"
)

func (s *Server) handleCreateAlbum(w http.ResponseWriter, r *http.Request) {
	var params catalog.AlbumParams
	if !s.decode(w, r, &params) {
		return
	}
	album, err := s.catalog.CreateAlbum(r.Context(), params)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, album)
}

func (s *Server) handleListAlbums(w http.ResponseWriter, r *http.Request) {
	albums, err := s.catalog.ListAlbums(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, albums)
}

func (s *Server) handleGetAlbum(w http.ResponseWriter, r *http.Request) {
	album, err := s.catalog.GetAlbum(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, album)
}

func (s *Server) handleUpdateAlbum(w http.ResponseWriter, r *http.Request) {
	var params catalog.AlbumParams
	if !s.decode(w, r, &params) {
		return
	}
	updated, err := s.catalog.UpdateAlbum(r.Context(), params.ID, params)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, updatedResponse{UpdatedItems: updated})
}

func (s *Server) handleDeleteAlbum(w http.ResponseWriter, r *http.Request) {
	if err := s.catalog.DeleteAlbum(r.Context(), r.PathValue("id")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
