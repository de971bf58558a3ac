package api

import (
	"net/http"

	"github.com/vytor/lingoflash/internal/logger"
	"github.com/vytor/lingoflash/internal/services"
)

func (s *Server) handleListSets(w http.ResponseWriter, r *http.Request) {
	sets, err := s.SetService.ListSets(r.Context(), userFromContext(r.Context()), queryBool(r, "public"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"sets": sets})
}

func (s *Server) handleCreateSet(w http.ResponseWriter, r *http.Request) {
	var in services.SetInput
	if err := decodeJSON(w, r, &in); err != nil {
		handleError(w, r, err)
		return
	}

	set, err := s.SetService.CreateSet(r.Context(), userFromContext(r.Context()), in)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, set)
}

func (s *Server) handleGetSet(w http.ResponseWriter, r *http.Request) {
	set, err := s.SetService.GetSet(r.Context(), userFromContext(r.Context()), urlID(r))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, set)
}

func (s *Server) handleUpdateSet(w http.ResponseWriter, r *http.Request) {
	var in services.SetInput
	if err := decodeJSON(w, r, &in); err != nil {
		handleError(w, r, err)
		return
	}

	set, err := s.SetService.UpdateSet(r.Context(), userFromContext(r.Context()), urlID(r), in)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, set)
}

func (s *Server) handleDeleteSet(w http.ResponseWriter, r *http.Request) {
	id := urlID(r)
	if err := s.SetService.DeleteSet(r.Context(), userFromContext(r.Context()), id); err != nil {
		handleError(w, r, err)
		return
	}
	logger.FromContext(r.Context()).Info("set deleted: id=%s", id)
	w.WriteHeader(http.StatusNoContent)
}
