package httpapi

import (
	"net/http"

	"musix/internal/catalog"
)

func (s *Server) handleCreateTrack(w http.ResponseWriter, r *http.Request) {
	var params catalog.TrackParams
	if !s.decode(w, r, &params) {
		return
	}
	track, err := s.catalog.CreateTrack(r.Context(), params)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, track)
}

func (s *Server) handleListTracks(w http.ResponseWriter, r *http.Request) {
	tracks, err := s.catalog.ListTracks(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, tracks)
}

func (s *Server) handleGetTrack(w http.ResponseWriter, r *http.Request) {
	track, err := s.catalog.GetTrack(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, track)
}

func (s *Server) handleUpdateTrack(w http.ResponseWriter, r *http.Request) {
	var params catalog.TrackParams
	if !s.decode(w, r, &params) {
		return
	}
	updated, err := s.catalog.UpdateTrack(r.Context(), params.ID, params)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, updatedResponse{UpdatedItems: updated})
}

func (s *Server) handleDeleteTrack(w http.ResponseWriter, r *http.Request) {
	updated, err := s.catalog.DeleteTrack(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, updatedResponse{UpdatedItems: updated})
}
