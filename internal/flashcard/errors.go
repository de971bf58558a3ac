package flashcard

import "errors"

var (
	ErrInvalidRating = errors.New("flashcard: invalid rating")
	ErrInvalidPolicy = errors.New("flashcard: invalid scheduling policy")
)
