package flashcard

import (
	"time"

	"github.com/vytor/lingoflash/internal/models"
)

// Stats aggregates cards in a single pass. ToReview counts the cards DueCards
// would return at now.
func Stats(cards []models.Flashcard, now time.Time, p Policy) models.FlashcardStats {
	var s models.FlashcardStats
	s.Total = len(cards)
	for _, c := range cards {
		if c.Mastered {
			s.Mastered++
			continue
		}
		if c.NeverReviewed() {
			s.New++
		} else {
			s.Learning++
		}
		if IsDue(c, now) {
			s.ToReview++
		}
		if c.Difficulty <= p.DifficultThreshold {
			s.Difficult++
		}
	}
	return s
}
