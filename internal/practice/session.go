package practice

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/vytor/lingoflash/internal/flashcard"
	"github.com/vytor/lingoflash/internal/models"
)

var (
	ErrInvalidMode     = errors.New("practice: invalid mode")
	ErrNoSession       = errors.New("practice: session not started")
	ErrSessionComplete = errors.New("practice: session complete")
)

// Mode selects which cards enter the queue.
type Mode string

const (
	ModeDue       Mode = "due"
	ModeDifficult Mode = "difficult"
	ModeAll       Mode = "all"
)

// ParseMode returns ModeDue for an empty string.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return ModeDue, nil
	case ModeDue, ModeDifficult, ModeAll:
		return m, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidMode, s)
	}
}

// State is the lifecycle stage of a session.
type State string

const (
	StateIdle      State = "idle"
	StateInSession State = "in_session"
	StateComplete  State = "complete"
)

// Shuffler reorders n elements through swap, with the same contract as rand.Shuffle.
type Shuffler func(n int, swap func(i, j int))

// SeededShuffler returns a deterministic Shuffler.
func SeededShuffler(seed uint64) Shuffler {
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	return r.Shuffle
}

// Select picks the cards for a mode using the scheduler queries.
func Select(cards []models.Flashcard, mode Mode, now time.Time, p flashcard.Policy) ([]models.Flashcard, error) {
	switch mode {
	case ModeDue:
		return flashcard.DueCards(cards, now), nil
	case ModeDifficult:
		return flashcard.DifficultCards(cards, p), nil
	case ModeAll:
		return flashcard.AllCards(cards), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidMode, mode)
	}
}

// Progress is a snapshot of where a session stands.
type Progress struct {
	State    State `json:"state"`
	Index    int   `json:"index"`
	Total    int   `json:"total"`
	Rated    int   `json:"rated"`
	Skipped  int   `json:"skipped"`
	Flipped  bool  `json:"flipped"`
	Finished bool  `json:"finished"`
}

// Session is a single pass over a shuffled queue. It is not safe for
// concurrent use; callers serialize access per session.
type Session struct {
	mode    Mode
	policy  flashcard.Policy
	shuffle Shuffler

	state   State
	queue   []models.Flashcard
	index   int
	flipped bool
	rated   int
	skipped int
}

// NewSession returns an idle session. A nil shuffle leaves the selection order as is.
func NewSession(mode Mode, p flashcard.Policy, shuffle Shuffler) *Session {
	return &Session{mode: mode, policy: p, shuffle: shuffle, state: StateIdle}
}

// Start selects and shuffles the queue once. It moves to InSession when at
// least one card qualifies and stays Idle otherwise.
func (s *Session) Start(cards []models.Flashcard, now time.Time) error {
	queue, err := Select(cards, s.mode, now, s.policy)
	if err != nil {
		return err
	}
	if s.shuffle != nil {
		s.shuffle(len(queue), func(i, j int) { queue[i], queue[j] = queue[j], queue[i] })
	}

	s.queue = queue
	s.index = 0
	s.flipped = false
	s.rated = 0
	s.skipped = 0
	if len(queue) == 0 {
		s.state = StateIdle
	} else {
		s.state = StateInSession
	}
	return nil
}

func (s *Session) Mode() Mode   { return s.mode }
func (s *Session) State() State { return s.state }

// Queue returns a copy of the session's card order.
func (s *Session) Queue() []models.Flashcard {
	out := make([]models.Flashcard, len(s.queue))
	copy(out, s.queue)
	return out
}

func (s *Session) active() error {
	switch s.state {
	case StateIdle:
		return ErrNoSession
	case StateComplete:
		return ErrSessionComplete
	}
	return nil
}

// Current returns the card being studied.
func (s *Session) Current() (models.Flashcard, error) {
	if err := s.active(); err != nil {
		return models.Flashcard{}, err
	}
	return s.queue[s.index], nil
}

// Flip toggles which side of the current card is visible.
func (s *Session) Flip() (bool, error) {
	if err := s.active(); err != nil {
		return false, err
	}
	s.flipped = !s.flipped
	return s.flipped, nil
}

// CommitFunc persists a rated card. The session only advances once it succeeds.
type CommitFunc func(card models.Flashcard, event models.ReviewEvent) error

// Rate schedules the current card, hands it to commit (if non-nil) and advances.
// On any error the session stays on the same card.
func (s *Session) Rate(rating flashcard.Rating, now time.Time, commit CommitFunc) (models.Flashcard, models.ReviewEvent, error) {
	if err := s.active(); err != nil {
		return models.Flashcard{}, models.ReviewEvent{}, err
	}
	updated, event, err := flashcard.Review(s.queue[s.index], rating, now, s.policy)
	if err != nil {
		return models.Flashcard{}, models.ReviewEvent{}, err
	}
	if commit != nil {
		if err := commit(updated, event); err != nil {
			return models.Flashcard{}, models.ReviewEvent{}, err
		}
	}
	s.queue[s.index] = updated
	s.rated++
	s.advance()
	return updated, event, nil
}

// Skip advances without touching the card's scheduling state.
func (s *Session) Skip() error {
	if err := s.active(); err != nil {
		return err
	}
	s.skipped++
	s.advance()
	return nil
}

func (s *Session) advance() {
	s.index++
	s.flipped = false
	if s.index >= len(s.queue) {
		s.state = StateComplete
	}
}

func (s *Session) Progress() Progress {
	return Progress{
		State:    s.state,
		Index:    s.index,
		Total:    len(s.queue),
		Rated:    s.rated,
		Skipped:  s.skipped,
		Flipped:  s.flipped,
		Finished: s.state == StateComplete,
	}
}
