package httpapi

import (
	"net/http"

	"musix/internal/catalog"
)

func (s *Server) handleCreateArtist(w http.ResponseWriter, r *http.Request) {
	var params catalog.ArtistParams
	if !s.decode(w, r, &params) {
		return
	}
	artist, err := s.catalog.CreateArtist(r.Context(), params)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, artist)
}

func (s *Server) handleListArtists(w http.ResponseWriter, r *http.Request) {
	artists, err := s.catalog.ListArtists(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, artists)
}

func (s *Server) handleGetArtist(w http.ResponseWriter, r *http.Request) {
	artist, err := s.catalog.GetArtist(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, artist)
}

func (s *Server) handleUpdateArtist(w http.ResponseWriter, r *http.Request) {
	var params catalog.ArtistParams
	if !s.decode(w, r, &params) {
		return
	}
	updated, err := s.catalog.UpdateArtist(r.Context(), params.ID, params)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, updatedResponse{UpdatedItems: updated})
}

func (s *Server) handleDeleteArtist(w http.ResponseWriter, r *http.Request) {
	updated, err := s.catalog.DeleteArtist(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, updatedResponse{UpdatedItems: updated})
}
