package api

import (
	"net/http"

	"github.com/vytor/lingoflash/internal/services"
)

func (s *Server) handleStartPractice(w http.ResponseWriter, r *http.Request) {
	var opts services.PracticeOptions
	if err := decodeJSON(w, r, &opts); err != nil {
		handleError(w, r, err)
		return
	}

	view, err := s.PracticeService.Start(r.Context(), userFromContext(r.Context()), opts)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, view)
}

func (s *Server) handleGetPractice(w http.ResponseWriter, r *http.Request) {
	view, err := s.PracticeService.Get(r.Context(), userFromContext(r.Context()), urlID(r))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, view)
}

func (s *Server) handleFlipPractice(w http.ResponseWriter, r *http.Request) {
	view, err := s.PracticeService.Flip(r.Context(), userFromContext(r.Context()), urlID(r))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, view)
}

func (s *Server) handleRatePractice(w http.ResponseWriter, r *http.Request) {
	rating, err := decodeRating(w, r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	view, err := s.PracticeService.Rate(r.Context(), userFromContext(r.Context()), urlID(r), rating)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, view)
}

func (s *Server) handleSkipPractice(w http.ResponseWriter, r *http.Request) {
	view, err := s.PracticeService.Skip(r.Context(), userFromContext(r.Context()), urlID(r))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, view)
}

func (s *Server) handleEndPractice(w http.ResponseWriter, r *http.Request) {
	if err := s.PracticeService.End(r.Context(), userFromContext(r.Context()), urlID(r)); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
