package flashcard

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Rating is the learner's recall grade for one review.
type Rating int

const (
	Unknown Rating = iota // did not know the card at all
	Again                 // wrong answer
	Hard
	Good
	Easy
	Perfect
)

var ratingNames = [...]string{
	Unknown: "unknown",
	Again:   "again",
	Hard:    "hard",
	Good:    "good",
	Easy:    "easy",
	Perfect: "perfect",
}

// IsValid reports whether r is inside the accepted domain.
func (r Rating) IsValid() bool {
	return r >= Unknown && r <= Perfect
}

func (r Rating) String() string {
	if r.IsValid() {
		return ratingNames[r]
	}
	return fmt.Sprintf("Rating(%d)", int(r))
}

// ParseRating accepts either a rating name or its numeric value.
func ParseRating(s string) (Rating, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range ratingNames {
		if s == name {
			return Rating(i), nil
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil || !Rating(n).IsValid() {
		return 0, fmt.Errorf("%w: %q", ErrInvalidRating, s)
	}
	return Rating(n), nil
}

func (r Rating) MarshalText() ([]byte, error) {
	if !r.IsValid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidRating, int(r))
	}
	return []byte(ratingNames[r]), nil
}

func (r *Rating) UnmarshalText(text []byte) error {
	v, err := ParseRating(string(text))
	if err != nil {
		return err
	}
	*r = v
	return nil
}

// UnmarshalJSON accepts "good" as well as 3.
func (r *Rating) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		return r.UnmarshalText([]byte(s))
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidRating, data)
	}
	if !Rating(n).IsValid() {
		return fmt.Errorf("%w: %d", ErrInvalidRating, n)
	}
	*r = Rating(n)
	return nil
}
