package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"musix/internal/catalog"
)

// errorResponse is the uniform error body.
type errorResponse struct {
	Error        string `json:"error"`
	ErrorMessage string `json:"errorMessage"`
}

// cascadeResponse reports a cascading update that failed after the primary
// row committed. FinishedUpdatedItems is the partial progress a caller needs
// to decide on a retry.
type cascadeResponse struct {
	Error                string                  `json:"error"`
	ErrorMessage         string                  `json:"errorMessage"`
	TriggerID            string                  `json:"triggerId"`
	FinishedUpdatedItems []catalog.CompletedItem `json:"finishedUpdatedItems"`
}

// updatedResponse is the success body of update and delete operations that
// may have touched dependent rows.
type updatedResponse struct {
	UpdatedItems []catalog.CompletedItem `json:"updatedItems"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.log.Error().Err(err).Msg("encode response")
	}
}

// writeError maps the catalog error taxonomy to status codes. Anything not
// in the taxonomy is a store or encoding failure and surfaces as a 500.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var invalid *catalog.InvalidFieldError
	if errors.As(err, &invalid) {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid_field", ErrorMessage: invalid.Error()})
		return
	}
	var notFound *catalog.NotFoundError
	if errors.As(err, &notFound) {
		s.writeJSON(w, http.StatusNotFound, errorResponse{Error: "not_found", ErrorMessage: notFound.Error()})
		return
	}
	if errors.Is(err, catalog.ErrEmptyCollection) {
		s.writeJSON(w, http.StatusNotFound, errorResponse{Error: "empty_collection", ErrorMessage: err.Error()})
		return
	}
	var conflict *catalog.ConflictError
	if errors.As(err, &conflict) {
		s.writeJSON(w, http.StatusConflict, errorResponse{Error: "name_conflict", ErrorMessage: conflict.Error()})
		return
	}
	var invariant *catalog.InvariantError
	if errors.As(err, &invariant) {
		s.writeJSON(w, http.StatusConflict, errorResponse{Error: "broken_invariant", ErrorMessage: invariant.Error()})
		return
	}
	var cascade *catalog.CascadeError
	if errors.As(err, &cascade) {
		s.writeJSON(w, http.StatusFailedDependency, cascadeResponse{
			Error:                "cascading_update_failed",
			ErrorMessage:         cascade.Error(),
			TriggerID:            cascade.TriggerID,
			FinishedUpdatedItems: cascade.Completed,
		})
		return
	}
	s.log.Error().Err(err).Msg("request failed")
	s.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal", ErrorMessage: err.Error()})
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed_body", ErrorMessage: err.Error()})
		return false
	}
	return true
}
