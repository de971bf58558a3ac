package flashcard_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/lingoflash/internal/flashcard"
	"github.com/vytor/lingoflash/internal/models"
)

var baseTime = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func freshCard(id string) models.Flashcard {
	return models.Flashcard{
		ID:         id,
		Front:      "ciao",
		Back:       "hello",
		Difficulty: models.DefaultDifficulty,
		CreatedAt:  baseTime.Add(-24 * time.Hour),
	}
}

func interval(c models.Flashcard) time.Duration {
	return c.NextReview.Sub(*c.LastReviewed)
}

func TestUpdateCardDifficulty_UnknownOnFreshCard(t *testing.T) {
	p := flashcard.DefaultPolicy()
	card := freshCard("a")

	updated, err := flashcard.UpdateCardDifficulty(card, flashcard.Unknown, baseTime, p)
	require.NoError(t, err)

	assert.Less(t, updated.Difficulty, card.Difficulty, "difficulty should move toward the hard band")
	require.NotNil(t, updated.LastReviewed)
	require.NotNil(t, updated.NextReview)
	assert.Equal(t, baseTime, *updated.LastReviewed)
	assert.Equal(t, p.RelearnInterval, interval(updated), "unknown should re-show soon")
	assert.False(t, updated.Mastered)
	assert.Equal(t, 1, updated.ReviewCount)
	assert.Equal(t, baseTime, updated.UpdatedAt)
}

func TestUpdateCardDifficulty_DoesNotMutateInput(t *testing.T) {
	card := freshCard("a")

	_, err := flashcard.UpdateCardDifficulty(card, flashcard.Easy, baseTime, flashcard.DefaultPolicy())
	require.NoError(t, err)

	assert.Nil(t, card.LastReviewed)
	assert.Nil(t, card.NextReview)
	assert.Equal(t, models.DefaultDifficulty, card.Difficulty)
}

func TestUpdateCardDifficulty_InvalidRating(t *testing.T) {
	card := freshCard("a")

	for _, r := range []flashcard.Rating{-1, 6, 42} {
		updated, err := flashcard.UpdateCardDifficulty(card, r, baseTime, flashcard.DefaultPolicy())
		assert.ErrorIs(t, err, flashcard.ErrInvalidRating)
		assert.Equal(t, card, updated, "card must be unchanged on invalid rating")
	}
}

func TestUpdateCardDifficulty_DifficultyTransitions(t *testing.T) {
	tests := []struct {
		name   string
		start  int
		rating flashcard.Rating
		want   int
	}{
		{"unknown from mid", 3, flashcard.Unknown, 1},
		{"again from mid", 3, flashcard.Again, 1},
		{"hard from mid", 3, flashcard.Hard, 2},
		{"good keeps difficulty", 3, flashcard.Good, 3},
		{"easy from mid", 3, flashcard.Easy, 4},
		{"perfect from mid", 3, flashcard.Perfect, 5},
		{"again at floor", 1, flashcard.Again, 1},
		{"perfect at ceiling", 5, flashcard.Perfect, 5},
		{"out of range input is clamped first", 9, flashcard.Good, 5},
		{"zero difficulty is clamped first", 0, flashcard.Good, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			card := freshCard("a")
			card.Difficulty = tt.start
			updated, err := flashcard.UpdateCardDifficulty(card, tt.rating, baseTime, flashcard.DefaultPolicy())
			require.NoError(t, err)
			assert.Equal(t, tt.want, updated.Difficulty)
		})
	}
}

// Harder ratings never schedule further out than easier ones.
func TestUpdateCardDifficulty_IntervalMonotonicInRating(t *testing.T) {
	p := flashcard.DefaultPolicy()
	for start := models.MinDifficulty; start <= models.MaxDifficulty; start++ {
		var prev time.Duration
		for r := flashcard.Unknown; r <= flashcard.Perfect; r++ {
			card := freshCard("a")
			card.Difficulty = start
			updated, err := flashcard.UpdateCardDifficulty(card, r, baseTime, p)
			require.NoError(t, err)
			got := interval(updated)
			assert.GreaterOrEqual(t, got, prev, "start=%d rating=%s", start, r)
			prev = got
		}
	}
}

func TestUpdateCardDifficulty_TopBandMuchLongerThanBottom(t *testing.T) {
	p := flashcard.DefaultPolicy()
	low := freshCard("a")
	low.Difficulty = models.MinDifficulty
	high := freshCard("b")
	high.Difficulty = models.MaxDifficulty

	lowOut, err := flashcard.UpdateCardDifficulty(low, flashcard.Again, baseTime, p)
	require.NoError(t, err)
	highOut, err := flashcard.UpdateCardDifficulty(high, flashcard.Perfect, baseTime, p)
	require.NoError(t, err)

	assert.Greater(t, interval(highOut), 10*interval(lowOut))
}

func TestUpdateCardDifficulty_BoundedUnderRepetition(t *testing.T) {
	p := flashcard.DefaultPolicy()

	card := freshCard("a")
	now := baseTime
	for i := 0; i < 20; i++ {
		var err error
		card, err = flashcard.UpdateCardDifficulty(card, flashcard.Unknown, now, p)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, card.Difficulty, models.MinDifficulty)
		now = now.Add(time.Hour)
	}

	card = freshCard("b")
	for i := 0; i < 20; i++ {
		var err error
		card, err = flashcard.UpdateCardDifficulty(card, flashcard.Perfect, now, p)
		require.NoError(t, err)
		assert.LessOrEqual(t, card.Difficulty, models.MaxDifficulty)
		now = now.Add(time.Hour)
	}
}

func TestUpdateCardDifficulty_NextReviewNeverBeforeLastReviewed(t *testing.T) {
	p := flashcard.DefaultPolicy()
	for r := flashcard.Unknown; r <= flashcard.Perfect; r++ {
		updated, err := flashcard.UpdateCardDifficulty(freshCard("a"), r, baseTime, p)
		require.NoError(t, err)
		assert.False(t, updated.NextReview.Before(*updated.LastReviewed), "rating %s", r)
	}
}

func TestUpdateCardDifficulty_ClockSkewKeepsLastReviewedMonotonic(t *testing.T) {
	p := flashcard.DefaultPolicy()
	card := freshCard("a")
	last := baseTime.Add(time.Hour)
	card.LastReviewed = &last

	updated, err := flashcard.UpdateCardDifficulty(card, flashcard.Good, baseTime, p)
	require.NoError(t, err)

	assert.Equal(t, last, *updated.LastReviewed)
	assert.Equal(t, last.Add(p.IntervalFor(updated.Difficulty)), *updated.NextReview)
}

func TestMastery_ConsecutiveTopBandPolicy(t *testing.T) {
	p := flashcard.DefaultPolicy()
	p.MasteryStreak = 2
	card := freshCard("a")
	card.Difficulty = models.MaxDifficulty

	first, err := flashcard.UpdateCardDifficulty(card, flashcard.Easy, baseTime, p)
	require.NoError(t, err)
	assert.False(t, first.Mastered, "one top-band review is not enough")
	assert.Equal(t, 1, first.Streak)

	later := first.NextReview.Add(time.Minute)
	second, err := flashcard.UpdateCardDifficulty(first, flashcard.Easy, later, p)
	require.NoError(t, err)
	assert.True(t, second.Mastered)
	assert.Equal(t, 2, second.Streak)

	assert.Empty(t, flashcard.DueCards([]models.Flashcard{second}, second.NextReview.Add(time.Hour)))
}

func TestMastery_SingleRatingPolicy(t *testing.T) {
	p := flashcard.DefaultPolicy()
	p.MasteryStreak = 1
	card := freshCard("a")
	card.Difficulty = 4

	updated, err := flashcard.UpdateCardDifficulty(card, flashcard.Easy, baseTime, p)
	require.NoError(t, err)
	assert.Equal(t, models.MaxDifficulty, updated.Difficulty)
	assert.True(t, updated.Mastered)
}

func TestMastery_StreakResetsWhenLeavingTopBand(t *testing.T) {
	p := flashcard.DefaultPolicy()
	p.MasteryStreak = 3
	card := freshCard("a")
	card.Difficulty = models.MaxDifficulty

	card, err := flashcard.UpdateCardDifficulty(card, flashcard.Good, baseTime, p)
	require.NoError(t, err)
	card, err = flashcard.UpdateCardDifficulty(card, flashcard.Good, baseTime.Add(time.Hour), p)
	require.NoError(t, err)
	assert.Equal(t, 2, card.Streak)

	card, err = flashcard.UpdateCardDifficulty(card, flashcard.Hard, baseTime.Add(2*time.Hour), p)
	require.NoError(t, err)
	assert.Equal(t, 0, card.Streak)
	assert.False(t, card.Mastered)
}

func TestMastery_RevokedByLowRating(t *testing.T) {
	p := flashcard.DefaultPolicy()
	card := freshCard("a")
	card.Difficulty = models.MaxDifficulty
	card.Mastered = true
	card.Streak = 5

	updated, err := flashcard.UpdateCardDifficulty(card, flashcard.Again, baseTime, p)
	require.NoError(t, err)
	assert.False(t, updated.Mastered)
	assert.Equal(t, 0, updated.Streak)
}

func TestReview_ReturnsEvent(t *testing.T) {
	card := freshCard("card-1")

	updated, event, err := flashcard.Review(card, flashcard.Easy, baseTime, flashcard.DefaultPolicy())
	require.NoError(t, err)

	assert.Equal(t, "card-1", event.CardID)
	assert.Equal(t, int(flashcard.Easy), event.Rating)
	assert.Equal(t, 3, event.DifficultyBefore)
	assert.Equal(t, updated.Difficulty, event.DifficultyAfter)
	assert.Equal(t, baseTime, event.ReviewedAt)
}
