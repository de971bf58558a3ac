package flashcard_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/lingoflash/internal/flashcard"
	"github.com/vytor/lingoflash/internal/models"
)

func at(t time.Time) *time.Time { return &t }

func ids(cards []models.Flashcard) []string {
	out := make([]string, 0, len(cards))
	for _, c := range cards {
		out = append(out, c.ID)
	}
	return out
}

func TestDueCards_Scenario(t *testing.T) {
	unscheduled := freshCard("unscheduled")
	overdue := freshCard("overdue")
	overdue.NextReview = at(baseTime.Add(-time.Hour))
	overdue.LastReviewed = at(baseTime.Add(-2 * time.Hour))
	mastered := freshCard("mastered")
	mastered.Mastered = true
	mastered.NextReview = at(baseTime.Add(-time.Hour))

	due := flashcard.DueCards([]models.Flashcard{mastered, overdue, unscheduled}, baseTime)

	assert.Equal(t, []string{"unscheduled", "overdue"}, ids(due))
}

func TestDueCards_EmptyInput(t *testing.T) {
	due := flashcard.DueCards(nil, baseTime)
	assert.NotNil(t, due)
	assert.Empty(t, due)
}

func TestDueCards_UnscheduledAlwaysDue(t *testing.T) {
	card := freshCard("a")
	for _, now := range []time.Time{{}, baseTime, baseTime.AddDate(-30, 0, 0), baseTime.AddDate(30, 0, 0)} {
		assert.Len(t, flashcard.DueCards([]models.Flashcard{card}, now), 1, "now=%s", now)
	}
}

func TestDueCards_Boundary(t *testing.T) {
	onTime := freshCard("on-time")
	onTime.NextReview = at(baseTime)
	early := freshCard("early")
	early.NextReview = at(baseTime.Add(time.Millisecond))

	due := flashcard.DueCards([]models.Flashcard{onTime, early}, baseTime)

	assert.Equal(t, []string{"on-time"}, ids(due))
}

func TestDueCards_StableOrder(t *testing.T) {
	a := freshCard("a")
	a.NextReview = at(baseTime.Add(-time.Minute))
	b := freshCard("b")
	b.NextReview = at(baseTime.Add(-time.Hour))
	c := freshCard("c")
	d := freshCard("d")
	d.CreatedAt = c.CreatedAt.Add(-time.Second)
	e := freshCard("e")
	e.NextReview = at(baseTime.Add(-time.Hour))

	due := flashcard.DueCards([]models.Flashcard{a, b, c, d, e}, baseTime)

	assert.Equal(t, []string{"d", "c", "b", "e", "a"}, ids(due))
}

func TestMasteredExcludedFromActiveQueries(t *testing.T) {
	p := flashcard.DefaultPolicy()
	var cards []models.Flashcard
	for d := models.MinDifficulty; d <= models.MaxDifficulty; d++ {
		c := freshCard(string(rune('a' + d)))
		c.Difficulty = d
		c.Mastered = true
		c.NextReview = at(baseTime.Add(-time.Hour))
		cards = append(cards, c)
	}

	assert.Empty(t, flashcard.DueCards(cards, baseTime))
	assert.Empty(t, flashcard.DifficultCards(cards, p))
	assert.Len(t, flashcard.MasteredCards(cards), len(cards))
	assert.Len(t, flashcard.AllCards(cards), len(cards))
}

func TestDifficultCards(t *testing.T) {
	p := flashcard.DefaultPolicy()
	hardest := freshCard("hardest")
	hardest.Difficulty = 1
	hard := freshCard("hard")
	hard.Difficulty = 2
	mid := freshCard("mid")
	mid.Difficulty = 3
	masteredHard := freshCard("mastered")
	masteredHard.Difficulty = 1
	masteredHard.Mastered = true

	got := flashcard.DifficultCards([]models.Flashcard{mid, hard, masteredHard, hardest}, p)
	assert.Equal(t, []string{"hardest", "hard"}, ids(got))

	p.DifficultThreshold = 1
	got = flashcard.DifficultCards([]models.Flashcard{mid, hard, hardest}, p)
	assert.Equal(t, []string{"hardest"}, ids(got))

	assert.Empty(t, flashcard.DifficultCards(nil, p))
}

func TestStats_Empty(t *testing.T) {
	stats := flashcard.Stats(nil, baseTime, flashcard.DefaultPolicy())
	assert.Equal(t, models.FlashcardStats{}, stats)
}

func TestStats_Consistency(t *testing.T) {
	p := flashcard.DefaultPolicy()
	newCard := freshCard("new")
	learning := freshCard("learning")
	learning.Difficulty = 2
	learning.LastReviewed = at(baseTime.Add(-48 * time.Hour))
	learning.NextReview = at(baseTime.Add(-24 * time.Hour))
	waiting := freshCard("waiting")
	waiting.LastReviewed = at(baseTime.Add(-time.Hour))
	waiting.NextReview = at(baseTime.Add(time.Hour))
	mastered := freshCard("mastered")
	mastered.Mastered = true
	mastered.LastReviewed = at(baseTime.Add(-time.Hour))

	cards := []models.Flashcard{newCard, learning, waiting, mastered}
	stats := flashcard.Stats(cards, baseTime, p)

	assert.Equal(t, len(cards), stats.Total)
	assert.Equal(t, 1, stats.Mastered)
	assert.Equal(t, 2, stats.Learning)
	assert.Equal(t, 1, stats.New)
	assert.Equal(t, 1, stats.Difficult)
	assert.Equal(t, len(flashcard.DueCards(cards, baseTime)), stats.ToReview)
	assert.LessOrEqual(t, stats.Mastered+stats.Learning, stats.Total)
}

func TestPolicy_Validate(t *testing.T) {
	require.NoError(t, flashcard.DefaultPolicy().Validate())

	tests := []struct {
		name   string
		mutate func(*flashcard.Policy)
	}{
		{"threshold zero", func(p *flashcard.Policy) { p.DifficultThreshold = 0 }},
		{"streak zero", func(p *flashcard.Policy) { p.MasteryStreak = 0 }},
		{"relearn zero", func(p *flashcard.Policy) { p.RelearnInterval = 0 }},
		{"relearn longer than first interval", func(p *flashcard.Policy) { p.RelearnInterval = 5 * time.Hour }},
		{"intervals not increasing", func(p *flashcard.Policy) { p.Intervals[4] = p.Intervals[3] }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := flashcard.DefaultPolicy()
			tt.mutate(&p)
			assert.ErrorIs(t, p.Validate(), flashcard.ErrInvalidPolicy)
		})
	}
}

func TestParseRating(t *testing.T) {
	tests := map[string]flashcard.Rating{
		"unknown": flashcard.Unknown,
		"Again":   flashcard.Again,
		" hard ":  flashcard.Hard,
		"good":    flashcard.Good,
		"4":       flashcard.Easy,
		"5":       flashcard.Perfect,
		"0":       flashcard.Unknown,
	}
	for in, want := range tests {
		got, err := flashcard.ParseRating(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	for _, bad := range []string{"", "meh", "6", "-1"} {
		_, err := flashcard.ParseRating(bad)
		assert.ErrorIs(t, err, flashcard.ErrInvalidRating, bad)
	}
}

func TestRating_JSON(t *testing.T) {
	var body struct {
		Rating flashcard.Rating `json:"rating"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{"rating":"easy"}`), &body))
	assert.Equal(t, flashcard.Easy, body.Rating)

	require.NoError(t, json.Unmarshal([]byte(`{"rating":2}`), &body))
	assert.Equal(t, flashcard.Hard, body.Rating)

	assert.ErrorIs(t, json.Unmarshal([]byte(`{"rating":9}`), &body), flashcard.ErrInvalidRating)
	assert.ErrorIs(t, json.Unmarshal([]byte(`{"rating":"nope"}`), &body), flashcard.ErrInvalidRating)

	out, err := json.Marshal(body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"rating":"hard"}`, string(out))

	assert.Equal(t, "Rating(9)", flashcard.Rating(9).String())
}
