package flashcard

import (
	"fmt"
	"time"

	"github.com/vytor/lingoflash/internal/models"
)

// Policy holds the tunable parts of the scheduler.
//
// MasteryStreak is the number of consecutive reviews a card must finish in the
// top difficulty band before it is marked mastered. 1 gives single-rating mastery.
type Policy struct {
	DifficultThreshold int
	MasteryStreak      int
	RelearnInterval    time.Duration
	Intervals          [models.MaxDifficulty + 1]time.Duration
}

// DefaultPolicy returns the scheduling policy used when nothing is configured.
func DefaultPolicy() Policy {
	p := Policy{
		DifficultThreshold: 2,
		MasteryStreak:      2,
		RelearnInterval:    10 * time.Minute,
	}
	p.Intervals[1] = 4 * time.Hour
	p.Intervals[2] = 24 * time.Hour
	p.Intervals[3] = 3 * 24 * time.Hour
	p.Intervals[4] = 7 * 24 * time.Hour
	p.Intervals[5] = 14 * 24 * time.Hour
	return p
}

// Validate checks the interval table is strictly increasing in difficulty and
// that relearning is sooner than any regular interval.
func (p Policy) Validate() error {
	if p.DifficultThreshold < models.MinDifficulty || p.DifficultThreshold > models.MaxDifficulty {
		return fmt.Errorf("%w: difficult threshold %d outside [%d,%d]", ErrInvalidPolicy, p.DifficultThreshold, models.MinDifficulty, models.MaxDifficulty)
	}
	if p.MasteryStreak < 1 {
		return fmt.Errorf("%w: mastery streak must be at least 1", ErrInvalidPolicy)
	}
	if p.RelearnInterval <= 0 {
		return fmt.Errorf("%w: relearn interval must be positive", ErrInvalidPolicy)
	}
	prev := p.RelearnInterval
	for d := models.MinDifficulty; d <= models.MaxDifficulty; d++ {
		if p.Intervals[d] <= prev {
			return fmt.Errorf("%w: interval for difficulty %d (%s) must exceed %s", ErrInvalidPolicy, d, p.Intervals[d], prev)
		}
		prev = p.Intervals[d]
	}
	return nil
}

// IntervalFor returns the review interval for a difficulty, clamping out of range values.
func (p Policy) IntervalFor(difficulty int) time.Duration {
	return p.Intervals[clampDifficulty(difficulty)]
}

func clampDifficulty(d int) int {
	if d < models.MinDifficulty {
		return models.MinDifficulty
	}
	if d > models.MaxDifficulty {
		return models.MaxDifficulty
	}
	return d
}
