package models

// FlashcardStats aggregates a card collection.
type FlashcardStats struct {
	Total     int `json:"total"`
	Mastered  int `json:"mastered"`
	Learning  int `json:"learning"`
	ToReview  int `json:"to_review"`
	New       int `json:"new"`
	Difficult int `json:"difficult"`
}
