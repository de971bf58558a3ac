package importer

import (
	"slices"
	"strings"
	"time"

	"github.com/vytor/lingoflash/internal/models"
)

// IDFunc generates card identifiers.
type IDFunc func() (string, error)

// Normalize coerces a raw card into the canonical shape. Missing sides fall back
// through the known aliases, difficulty defaults to the middle of the range and is
// clamped, and tags are cleaned. Every card gets a fresh ID; identifiers carried by
// the source are ignored. ok is false when the card has neither side.
func Normalize(raw RawCard, setID string, now time.Time, newID IDFunc) (card models.Flashcard, ok bool, err error) {
	front := firstNonEmpty(raw.Front, raw.Italian, raw.Term, raw.Question)
	back := firstNonEmpty(raw.Back, raw.English, raw.Definition, raw.Answer)
	if front == "" && back == "" {
		return models.Flashcard{}, false, nil
	}

	id, err := newID()
	if err != nil {
		return models.Flashcard{}, false, err
	}

	difficulty := models.DefaultDifficulty
	if raw.Difficulty != nil {
		difficulty = min(max(*raw.Difficulty, models.MinDifficulty), models.MaxDifficulty)
	}

	return models.Flashcard{
		ID:         id,
		SetID:      setID,
		Front:      front,
		Back:       back,
		Difficulty: difficulty,
		Tags:       NormalizeTags(raw.Tags),
		CreatedAt:  now,
		UpdatedAt:  now,
	}, true, nil
}

// NormalizeTags trims, lower-cases, de-duplicates and sorts tags.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			out = append(out, t)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
