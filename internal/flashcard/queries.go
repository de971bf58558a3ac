package flashcard

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/vytor/lingoflash/internal/models"
)

// IsDue reports whether a non-mastered card should be studied at now.
func IsDue(c models.Flashcard, now time.Time) bool {
	if c.Mastered {
		return false
	}
	return c.NextReview == nil || !c.NextReview.After(now)
}

// DueCards returns the non-mastered cards whose next review is unset or not after now.
// Cards never scheduled come first, then by ascending next review.
func DueCards(cards []models.Flashcard, now time.Time) []models.Flashcard {
	out := make([]models.Flashcard, 0, len(cards))
	for _, c := range cards {
		if IsDue(c, now) {
			out = append(out, c)
		}
	}
	slices.SortStableFunc(out, byNextReview)
	return out
}

// DifficultCards returns non-mastered cards at or below the policy's difficult
// threshold, hardest first.
func DifficultCards(cards []models.Flashcard, p Policy) []models.Flashcard {
	out := make([]models.Flashcard, 0)
	for _, c := range cards {
		if !c.Mastered && c.Difficulty <= p.DifficultThreshold {
			out = append(out, c)
		}
	}
	slices.SortStableFunc(out, func(a, b models.Flashcard) int {
		if d := cmp.Compare(a.Difficulty, b.Difficulty); d != 0 {
			return d
		}
		return byNextReview(a, b)
	})
	return out
}

// MasteredCards returns the cards that have left active rotation.
func MasteredCards(cards []models.Flashcard) []models.Flashcard {
	out := make([]models.Flashcard, 0)
	for _, c := range cards {
		if c.Mastered {
			out = append(out, c)
		}
	}
	slices.SortStableFunc(out, byCreated)
	return out
}

// AllCards returns a copy of cards in creation order.
func AllCards(cards []models.Flashcard) []models.Flashcard {
	out := slices.Clone(cards)
	if out == nil {
		out = []models.Flashcard{}
	}
	slices.SortStableFunc(out, byCreated)
	return out
}

func byNextReview(a, b models.Flashcard) int {
	switch {
	case a.NextReview == nil && b.NextReview != nil:
		return -1
	case a.NextReview != nil && b.NextReview == nil:
		return 1
	case a.NextReview != nil && b.NextReview != nil:
		if d := a.NextReview.Compare(*b.NextReview); d != 0 {
			return d
		}
	}
	return byCreated(a, b)
}

func byCreated(a, b models.Flashcard) int {
	if d := a.CreatedAt.Compare(b.CreatedAt); d != 0 {
		return d
	}
	return strings.Compare(a.ID, b.ID)
}
