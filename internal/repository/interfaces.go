package repository

import (
	"context"
	"errors"

	"github.com/vytor/lingoflash/internal/models"
)

// ErrNotFound is returned by mutations that matched no row. Lookups return a nil
// value and a nil error instead.
var ErrNotFound = errors.New("repository: not found")

// FlashcardRepository handles flashcard data access
type FlashcardRepository interface {
	Insert(ctx context.Context, card models.Flashcard) error
	InsertBatch(ctx context.Context, cards []models.Flashcard) error
	Get(ctx context.Context, id string) (*models.Flashcard, error)
	Update(ctx context.Context, card models.Flashcard) error
	Delete(ctx context.Context, id string) error
	ListForSet(ctx context.Context, setID string) ([]models.Flashcard, error)
	ListForUser(ctx context.Context, userID string, filter models.FlashcardFilter) ([]models.Flashcard, error)
}

// SetRepository handles flashcard set data access
type SetRepository interface {
	Insert(ctx context.Context, set models.FlashcardSet) error
	Get(ctx context.Context, id string) (*models.FlashcardSet, error)
	ListForUser(ctx context.Context, userID string, includePublic bool) ([]models.FlashcardSet, error)
	Update(ctx context.Context, set models.FlashcardSet) error
	Delete(ctx context.Context, id string) error
}

// ReviewRepository stores the history of ratings
type ReviewRepository interface {
	Insert(ctx context.Context, event models.ReviewEvent) (int64, error)
	ListForCard(ctx context.Context, cardID string, limit int) ([]models.ReviewEvent, error)
}
