package models

import "time"

// Difficulty bounds shared by every layer that stores or schedules cards.
const (
	MinDifficulty     = 1
	MaxDifficulty     = 5
	DefaultDifficulty = 3
)

// Flashcard is the unit of study. NextReview == nil means the card is due now;
// LastReviewed == nil means it has never been rated.
type Flashcard struct {
	ID           string     `json:"id"`
	SetID        string     `json:"set_id"`
	Front        string     `json:"front"`
	Back         string     `json:"back"`
	Difficulty   int        `json:"difficulty"`
	Mastered     bool       `json:"mastered"`
	Streak       int        `json:"streak"`
	ReviewCount  int        `json:"review_count"`
	LastReviewed *time.Time `json:"last_reviewed"`
	NextReview   *time.Time `json:"next_review"`
	Tags         []string   `json:"tags"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// NeverReviewed reports whether the card has not been rated yet.
func (c Flashcard) NeverReviewed() bool {
	return c.LastReviewed == nil
}

// FlashcardSet groups cards. It carries no scheduling state.
type FlashcardSet struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Tags        []string  `json:"tags"`
	Language    string    `json:"language"`
	IsPublic    bool      `json:"is_public"`
	CardCount   int       `json:"card_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ReviewEvent records one rating applied to a card.
type ReviewEvent struct {
	ID               int64     `json:"id"`
	CardID           string    `json:"card_id"`
	Rating           int       `json:"rating"`
	DifficultyBefore int       `json:"difficulty_before"`
	DifficultyAfter  int       `json:"difficulty_after"`
	ReviewedAt       time.Time `json:"reviewed_at"`
}

// FlashcardFilter narrows a user's card listing.
type FlashcardFilter struct {
	SetID    string
	Tag      string
	Search   string
	Mastered *bool
	Limit    int
	Offset   int
}
