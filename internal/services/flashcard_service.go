package services

import (
	"context"
	stderrors "errors"
	"strings"

	"github.com/vytor/lingoflash/internal/errors"
	"github.com/vytor/lingoflash/internal/flashcard"
	"github.com/vytor/lingoflash/internal/importer"
	"github.com/vytor/lingoflash/internal/logger"
	"github.com/vytor/lingoflash/internal/models"
	"github.com/vytor/lingoflash/internal/repository"
)

// ListMode selects which scheduler query a card listing goes through.
type ListMode string

const (
	ListDue       ListMode = "due"
	ListDifficult ListMode = "difficult"
	ListMastered  ListMode = "mastered"
	ListAll       ListMode = "all"
)

// ParseListMode maps a query value to a ListMode. Empty means all.
func ParseListMode(s string) (ListMode, error) {
	switch m := ListMode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return ListAll, nil
	case ListDue, ListDifficult, ListMastered, ListAll:
		return m, nil
	default:
		return "", errors.NewValidationError("mode", "must be one of due, difficult, mastered, all")
	}
}

// CardInput carries the fields of a hand-written card.
type CardInput struct {
	Front      string   `json:"front"`
	Back       string   `json:"back"`
	Difficulty *int     `json:"difficulty"`
	Tags       []string `json:"tags"`
}

// FlashcardService handles flashcard-related business logic
type FlashcardService interface {
	CreateCard(ctx context.Context, userID, setID string, in CardInput) (*models.Flashcard, error)
	ListSetCards(ctx context.Context, userID, setID string) ([]models.Flashcard, error)
	ListCards(ctx context.Context, userID string, mode ListMode, filter models.FlashcardFilter) ([]models.Flashcard, error)
	ReviewCard(ctx context.Context, userID, cardID string, rating flashcard.Rating) (*models.Flashcard, error)
	History(ctx context.Context, userID, cardID string, limit int) ([]models.ReviewEvent, error)
	Stats(ctx context.Context, userID, setID string) (models.FlashcardStats, error)
	DeleteCard(ctx context.Context, userID, cardID string) error
}

type flashcardService struct {
	cardRepo   repository.FlashcardRepository
	setRepo    repository.SetRepository
	reviewRepo repository.ReviewRepository
	policy     flashcard.Policy
	now        Clock
	newID      importer.IDFunc
}

// NewFlashcardService creates a new FlashcardService
func NewFlashcardService(
	cardRepo repository.FlashcardRepository,
	setRepo repository.SetRepository,
	reviewRepo repository.ReviewRepository,
	policy flashcard.Policy,
) FlashcardService {
	return &flashcardService{
		cardRepo:   cardRepo,
		setRepo:    setRepo,
		reviewRepo: reviewRepo,
		policy:     policy,
		now:        systemClock,
		newID:      newID,
	}
}

func (s *flashcardService) CreateCard(ctx context.Context, userID, setID string, in CardInput) (*models.Flashcard, error) {
	log := logger.FromContext(ctx).WithField("set_id", setID)
	log.Debug("creating card")

	front := strings.TrimSpace(in.Front)
	back := strings.TrimSpace(in.Back)
	if front == "" {
		return nil, errors.NewValidationError("front", "cannot be empty")
	}
	if back == "" {
		return nil, errors.NewValidationError("back", "cannot be empty")
	}
	difficulty := models.DefaultDifficulty
	if in.Difficulty != nil {
		if *in.Difficulty < models.MinDifficulty || *in.Difficulty > models.MaxDifficulty {
			return nil, errors.NewValidationError("difficulty", "must be between 1 and 5")
		}
		difficulty = *in.Difficulty
	}

	if _, err := loadSet(ctx, s.setRepo, userID, setID, accessWrite); err != nil {
		return nil, err
	}

	id, err := s.newID()
	if err != nil {
		log.Error("failed to generate card id: %v", err)
		return nil, errors.NewInternalError(err)
	}

	now := s.now()
	card := models.Flashcard{
		ID:         id,
		SetID:      setID,
		Front:      front,
		Back:       back,
		Difficulty: difficulty,
		Tags:       importer.NormalizeTags(in.Tags),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.cardRepo.Insert(ctx, card); err != nil {
		log.Error("failed to insert card: %v", err)
		return nil, errors.NewInternalError(err)
	}

	log.Info("card created: id=%s", card.ID)
	return &card, nil
}

func (s *flashcardService) ListSetCards(ctx context.Context, userID, setID string) ([]models.Flashcard, error) {
	log := logger.FromContext(ctx)
	log.Debug("listing cards for set: set_id=%s", setID)

	if _, err := loadSet(ctx, s.setRepo, userID, setID, accessRead); err != nil {
		return nil, err
	}

	cards, err := s.cardRepo.ListForSet(ctx, setID)
	if err != nil {
		log.Error("failed to list cards: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return cards, nil
}

func (s *flashcardService) ListCards(ctx context.Context, userID string, mode ListMode, filter models.FlashcardFilter) ([]models.Flashcard, error) {
	log := logger.FromContext(ctx)
	log.Debug("listing cards: user_id=%s, mode=%s", userID, mode)

	if strings.TrimSpace(userID) == "" {
		return nil, errors.NewUnauthorizedError("missing user")
	}

	// The scheduler queries reorder, so paging applies to their output.
	limit, offset := filter.Limit, filter.Offset
	if mode != ListAll {
		filter.Limit, filter.Offset = 0, 0
	}

	cards, err := s.cardRepo.ListForUser(ctx, userID, filter)
	if err != nil {
		log.Error("failed to list cards: %v", err)
		return nil, errors.NewInternalError(err)
	}

	switch mode {
	case ListDue:
		cards = flashcard.DueCards(cards, s.now())
	case ListDifficult:
		cards = flashcard.DifficultCards(cards, s.policy)
	case ListMastered:
		cards = flashcard.MasteredCards(cards)
	case ListAll:
		return cards, nil
	default:
		return nil, errors.NewValidationError("mode", "must be one of due, difficult, mastered, all")
	}
	return page(cards, offset, limit), nil
}

func page(cards []models.Flashcard, offset, limit int) []models.Flashcard {
	if offset > 0 {
		if offset >= len(cards) {
			return []models.Flashcard{}
		}
		cards = cards[offset:]
	}
	if limit > 0 && limit < len(cards) {
		cards = cards[:limit]
	}
	return cards
}

// loadCard fetches a card and checks access through its set.
func (s *flashcardService) loadCard(ctx context.Context, userID, cardID string, mode access) (*models.Flashcard, error) {
	card, err := s.cardRepo.Get(ctx, cardID)
	if err != nil {
		logger.FromContext(ctx).Error("failed to get card %s: %v", cardID, err)
		return nil, errors.NewInternalError(err)
	}
	if card == nil {
		return nil, errors.NewNotFoundError("card", cardID)
	}
	if _, err := loadSet(ctx, s.setRepo, userID, card.SetID, mode); err != nil {
		if appErr, ok := errors.As(err); ok && appErr.Code == errors.ErrCodeNotFound {
			return nil, errors.NewNotFoundError("card", cardID)
		}
		return nil, err
	}
	return card, nil
}

func (s *flashcardService) ReviewCard(ctx context.Context, userID, cardID string, rating flashcard.Rating) (*models.Flashcard, error) {
	log := logger.FromContext(ctx).WithFields(map[string]any{
		"card_id": cardID,
		"rating":  rating.String(),
	})
	log.Debug("reviewing card")

	if !rating.IsValid() {
		return nil, errors.NewInvalidRatingError(flashcard.ErrInvalidRating)
	}

	card, err := s.loadCard(ctx, userID, cardID, accessWrite)
	if err != nil {
		return nil, err
	}

	updated, event, err := flashcard.Review(*card, rating, s.now(), s.policy)
	if err != nil {
		if stderrors.Is(err, flashcard.ErrInvalidRating) {
			return nil, errors.NewInvalidRatingError(err)
		}
		log.Error("failed to apply review: %v", err)
		return nil, errors.NewInternalError(err)
	}

	log.Debug("applied review: difficulty %d -> %d, next_review=%v, mastered=%v",
		event.DifficultyBefore, event.DifficultyAfter, updated.NextReview, updated.Mastered)

	if err := s.cardRepo.Update(ctx, updated); err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return nil, errors.NewNotFoundError("card", cardID)
		}
		log.Error("failed to update card: %v", err)
		return nil, errors.NewInternalError(err)
	}

	// History is best effort; the card update is what matters.
	if _, err := s.reviewRepo.Insert(ctx, event); err != nil {
		log.Warn("failed to store review history: %v", err)
	}

	return &updated, nil
}

func (s *flashcardService) History(ctx context.Context, userID, cardID string, limit int) ([]models.ReviewEvent, error) {
	log := logger.FromContext(ctx)
	log.Debug("listing review history: card_id=%s", cardID)

	if _, err := s.loadCard(ctx, userID, cardID, accessRead); err != nil {
		return nil, err
	}

	events, err := s.reviewRepo.ListForCard(ctx, cardID, limit)
	if err != nil {
		log.Error("failed to list review history: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return events, nil
}

func (s *flashcardService) Stats(ctx context.Context, userID, setID string) (models.FlashcardStats, error) {
	log := logger.FromContext(ctx)
	log.Debug("computing stats: user_id=%s, set_id=%s", userID, setID)

	if strings.TrimSpace(userID) == "" {
		return models.FlashcardStats{}, errors.NewUnauthorizedError("missing user")
	}

	var cards []models.Flashcard
	var err error
	if setID != "" {
		if _, err = loadSet(ctx, s.setRepo, userID, setID, accessRead); err != nil {
			return models.FlashcardStats{}, err
		}
		cards, err = s.cardRepo.ListForSet(ctx, setID)
	} else {
		cards, err = s.cardRepo.ListForUser(ctx, userID, models.FlashcardFilter{})
	}
	if err != nil {
		log.Error("failed to list cards for stats: %v", err)
		return models.FlashcardStats{}, errors.NewInternalError(err)
	}
	return flashcard.Stats(cards, s.now(), s.policy), nil
}

func (s *flashcardService) DeleteCard(ctx context.Context, userID, cardID string) error {
	log := logger.FromContext(ctx)
	log.Debug("deleting card: id=%s", cardID)

	if _, err := s.loadCard(ctx, userID, cardID, accessWrite); err != nil {
		return err
	}

	if err := s.cardRepo.Delete(ctx, cardID); err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return errors.NewNotFoundError("card", cardID)
		}
		log.Error("failed to delete card: %v", err)
		return errors.NewInternalError(err)
	}
	return nil
}
