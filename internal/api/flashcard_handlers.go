package api

import (
	stderrors "errors"
	"net/http"
	"strings"

	"github.com/vytor/lingoflash/internal/errors"
	"github.com/vytor/lingoflash/internal/flashcard"
	"github.com/vytor/lingoflash/internal/logger"
	"github.com/vytor/lingoflash/internal/models"
	"github.com/vytor/lingoflash/internal/services"
)

type ratingRequest struct {
	Rating *flashcard.Rating `json:"rating"`
}

// decodeRating reads {"rating": "good"} or {"rating": 3}.
func decodeRating(w http.ResponseWriter, r *http.Request) (flashcard.Rating, error) {
	var req ratingRequest
	if err := decodeJSON(w, r, &req); err != nil {
		if stderrors.Is(err, flashcard.ErrInvalidRating) {
			return 0, errors.NewInvalidRatingError(err)
		}
		return 0, err
	}
	if req.Rating == nil {
		return 0, errors.NewValidationError("rating", "is required")
	}
	return *req.Rating, nil
}

func (s *Server) handleListSetCards(w http.ResponseWriter, r *http.Request) {
	cards, err := s.FlashcardService.ListSetCards(r.Context(), userFromContext(r.Context()), urlID(r))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"cards": cards})
}

func (s *Server) handleCreateCard(w http.ResponseWriter, r *http.Request) {
	var in services.CardInput
	if err := decodeJSON(w, r, &in); err != nil {
		handleError(w, r, err)
		return
	}

	card, err := s.FlashcardService.CreateCard(r.Context(), userFromContext(r.Context()), urlID(r), in)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, card)
}

func (s *Server) handleListCards(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	mode, err := services.ParseListMode(q.Get("mode"))
	if err != nil {
		handleError(w, r, err)
		return
	}

	filter := models.FlashcardFilter{
		SetID:  q.Get("set"),
		Tag:    strings.ToLower(strings.TrimSpace(q.Get("tag"))),
		Search: strings.TrimSpace(q.Get("q")),
	}
	if filter.Limit, err = queryInt(r, "limit", 0); err != nil {
		handleError(w, r, err)
		return
	}
	if filter.Offset, err = queryInt(r, "offset", 0); err != nil {
		handleError(w, r, err)
		return
	}
	if filter.Mastered, err = queryOptionalBool(r, "mastered"); err != nil {
		handleError(w, r, err)
		return
	}

	cards, err := s.FlashcardService.ListCards(r.Context(), userFromContext(r.Context()), mode, filter)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"mode": mode, "cards": cards})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.FlashcardService.Stats(r.Context(), userFromContext(r.Context()), r.URL.Query().Get("set"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, stats)
}

func (s *Server) handleReviewCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	id := urlID(r)

	rating, err := decodeRating(w, r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	card, err := s.FlashcardService.ReviewCard(r.Context(), userFromContext(r.Context()), id, rating)
	if err != nil {
		handleError(w, r, err)
		return
	}

	log.Info("card reviewed: id=%s, rating=%s", id, rating)
	writeJSON(w, r, http.StatusOK, card)
}

func (s *Server) handleCardHistory(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 50)
	if err != nil {
		handleError(w, r, err)
		return
	}

	events, err := s.FlashcardService.History(r.Context(), userFromContext(r.Context()), urlID(r), limit)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"history": events})
}

func (s *Server) handleDeleteCard(w http.ResponseWriter, r *http.Request) {
	if err := s.FlashcardService.DeleteCard(r.Context(), userFromContext(r.Context()), urlID(r)); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
