package flashcard

import (
	"fmt"
	"time"

	"github.com/vytor/lingoflash/internal/models"
)

// difficultyDelta maps each rating to the step applied to a card's difficulty.
// It must stay non-decreasing in the rating.
var difficultyDelta = [...]int{
	Unknown: -2,
	Again:   -2,
	Hard:    -1,
	Good:    0,
	Easy:    +1,
	Perfect: +2,
}

// UpdateCardDifficulty applies one rating to card and returns the new scheduling
// state. The input card is not modified and nothing is persisted.
func UpdateCardDifficulty(card models.Flashcard, rating Rating, now time.Time, p Policy) (models.Flashcard, error) {
	updated, _, err := Review(card, rating, now, p)
	return updated, err
}

// Review is UpdateCardDifficulty plus the review event describing the change.
func Review(card models.Flashcard, rating Rating, now time.Time, p Policy) (models.Flashcard, models.ReviewEvent, error) {
	if !rating.IsValid() {
		return card, models.ReviewEvent{}, fmt.Errorf("%w: %d", ErrInvalidRating, int(rating))
	}

	// A clock running behind the last review must not move time backwards.
	reviewAt := now
	if card.LastReviewed != nil && card.LastReviewed.After(now) {
		reviewAt = *card.LastReviewed
	}

	before := clampDifficulty(card.Difficulty)
	after := clampDifficulty(before + difficultyDelta[rating])

	interval := p.IntervalFor(after)
	if rating == Unknown {
		interval = p.RelearnInterval
	}
	next := reviewAt.Add(interval)

	if after == models.MaxDifficulty {
		card.Streak++
	} else {
		card.Streak = 0
	}
	card.Mastered = card.Streak >= p.MasteryStreak

	card.Difficulty = after
	card.LastReviewed = &reviewAt
	card.NextReview = &next
	card.ReviewCount++
	card.UpdatedAt = reviewAt

	event := models.ReviewEvent{
		CardID:           card.ID,
		Rating:           int(rating),
		DifficultyBefore: before,
		DifficultyAfter:  after,
		ReviewedAt:       reviewAt,
	}
	return card, event, nil
}
