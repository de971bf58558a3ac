package services

import (
	"context"
	stderrors "errors"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vytor/lingoflash/internal/errors"
	"github.com/vytor/lingoflash/internal/flashcard"
	"github.com/vytor/lingoflash/internal/logger"
	"github.com/vytor/lingoflash/internal/models"
	"github.com/vytor/lingoflash/internal/practice"
	"github.com/vytor/lingoflash/internal/repository"
)

// PracticeOptions configures a new practice session.
type PracticeOptions struct {
	Mode  string  `json:"mode"`
	SetID string  `json:"set_id"`
	Tag   string  `json:"tag"`
	Seed  *uint64 `json:"seed"`
}

// PracticeView is what clients see of a session.
type PracticeView struct {
	ID        string              `json:"id"`
	Mode      practice.Mode       `json:"mode"`
	Progress  practice.Progress   `json:"progress"`
	Card      *models.Flashcard   `json:"card,omitempty"`
	Reviewed  *models.ReviewEvent `json:"reviewed,omitempty"`
	ExpiresAt time.Time           `json:"expires_at"`
}

// PracticeService runs in-memory practice sessions on top of the stored cards.
type PracticeService interface {
	Start(ctx context.Context, userID string, opts PracticeOptions) (*PracticeView, error)
	Get(ctx context.Context, userID, sessionID string) (*PracticeView, error)
	Flip(ctx context.Context, userID, sessionID string) (*PracticeView, error)
	Rate(ctx context.Context, userID, sessionID string, rating flashcard.Rating) (*PracticeView, error)
	Skip(ctx context.Context, userID, sessionID string) (*PracticeView, error)
	End(ctx context.Context, userID, sessionID string) error
	// Sweep drops expired sessions and returns how many were removed.
	Sweep() int
}

type practiceEntry struct {
	mu      sync.Mutex
	id      string
	userID  string
	session *practice.Session
	touched time.Time
}

type practiceService struct {
	cardRepo   repository.FlashcardRepository
	reviewRepo repository.ReviewRepository
	policy     flashcard.Policy
	ttl        time.Duration
	now        Clock

	mu       sync.Mutex
	sessions map[string]*practiceEntry
}

// NewPracticeService creates a new PracticeService. Sessions idle for longer
// than ttl are discarded.
func NewPracticeService(
	cardRepo repository.FlashcardRepository,
	reviewRepo repository.ReviewRepository,
	policy flashcard.Policy,
	ttl time.Duration,
) PracticeService {
	return &practiceService{
		cardRepo:   cardRepo,
		reviewRepo: reviewRepo,
		policy:     policy,
		ttl:        ttl,
		now:        systemClock,
		sessions:   make(map[string]*practiceEntry),
	}
}

func (s *practiceService) Start(ctx context.Context, userID string, opts PracticeOptions) (*PracticeView, error) {
	log := logger.FromContext(ctx).WithField("user_id", userID)

	if strings.TrimSpace(userID) == "" {
		return nil, errors.NewUnauthorizedError("missing user")
	}
	mode, err := practice.ParseMode(opts.Mode)
	if err != nil {
		return nil, errors.NewValidationError("mode", "must be one of due, difficult, all")
	}

	s.Sweep()

	cards, err := s.cardRepo.ListForUser(ctx, userID, models.FlashcardFilter{SetID: opts.SetID, Tag: opts.Tag})
	if err != nil {
		log.Error("failed to load cards for practice: %v", err)
		return nil, errors.NewInternalError(err)
	}

	seed := rand.Uint64()
	if opts.Seed != nil {
		seed = *opts.Seed
	}
	session := practice.NewSession(mode, s.policy, practice.SeededShuffler(seed))
	now := s.now()
	if err := session.Start(cards, now); err != nil {
		return nil, errors.NewValidationError("mode", err.Error())
	}

	entry := &practiceEntry{
		id:      uuid.NewString(),
		userID:  userID,
		session: session,
		touched: now,
	}
	view := s.view(entry, nil)

	s.mu.Lock()
	s.sessions[entry.id] = entry
	s.mu.Unlock()

	log.Info("practice session started: id=%s, mode=%s, cards=%d", entry.id, mode, view.Progress.Total)
	return view, nil
}

// lookup returns the caller's live session. Sessions of other users look missing.
func (s *practiceService) lookup(userID, sessionID string) (*practiceEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.sessions[sessionID]
	if !ok || entry.userID != userID {
		return nil, errors.NewNotFoundError("practice session", sessionID)
	}
	if s.expired(entry) {
		delete(s.sessions, sessionID)
		return nil, errors.NewNotFoundError("practice session", sessionID)
	}
	return entry, nil
}

// touch is called with entry.mu held; touched is read under either lock.
func (s *practiceService) touch(entry *practiceEntry, now time.Time) {
	s.mu.Lock()
	entry.touched = now
	s.mu.Unlock()
}

func (s *practiceService) expired(entry *practiceEntry) bool {
	return s.ttl > 0 && s.now().Sub(entry.touched) > s.ttl
}

func (s *practiceService) Get(ctx context.Context, userID, sessionID string) (*PracticeView, error) {
	logger.FromContext(ctx).Debug("getting practice session: id=%s", sessionID)
	entry, err := s.lookup(userID, sessionID)
	if err != nil {
		return nil, err
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	return s.view(entry, nil), nil
}

func (s *practiceService) Flip(ctx context.Context, userID, sessionID string) (*PracticeView, error) {
	entry, err := s.lookup(userID, sessionID)
	if err != nil {
		return nil, err
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()

	if _, err := entry.session.Flip(); err != nil {
		return nil, sessionError(err)
	}
	s.touch(entry, s.now())
	return s.view(entry, nil), nil
}

func (s *practiceService) Skip(ctx context.Context, userID, sessionID string) (*PracticeView, error) {
	entry, err := s.lookup(userID, sessionID)
	if err != nil {
		return nil, err
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()

	if err := entry.session.Skip(); err != nil {
		return nil, sessionError(err)
	}
	s.touch(entry, s.now())
	logger.FromContext(ctx).Debug("practice card skipped: session=%s", sessionID)
	return s.view(entry, nil), nil
}

// Rate applies the rating and persists the card before the session moves on,
// so a storage failure leaves the same card current.
func (s *practiceService) Rate(ctx context.Context, userID, sessionID string, rating flashcard.Rating) (*PracticeView, error) {
	log := logger.FromContext(ctx).WithFields(map[string]any{
		"session_id": sessionID,
		"rating":     rating.String(),
	})

	entry, err := s.lookup(userID, sessionID)
	if err != nil {
		return nil, err
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()

	commit := func(card models.Flashcard, event models.ReviewEvent) error {
		if err := s.cardRepo.Update(ctx, card); err != nil {
			return err
		}
		if _, err := s.reviewRepo.Insert(ctx, event); err != nil {
			log.Warn("failed to store review history: %v", err)
		}
		return nil
	}

	now := s.now()
	_, event, err := entry.session.Rate(rating, now, commit)
	if err != nil {
		switch {
		case stderrors.Is(err, flashcard.ErrInvalidRating):
			return nil, errors.NewInvalidRatingError(err)
		case stderrors.Is(err, repository.ErrNotFound):
			return nil, errors.NewNotFoundError("card", "current")
		case stderrors.Is(err, practice.ErrNoSession), stderrors.Is(err, practice.ErrSessionComplete):
			return nil, sessionError(err)
		}
		log.Error("failed to persist rated card: %v", err)
		return nil, errors.NewInternalError(err)
	}
	s.touch(entry, now)

	log.Debug("practice card rated: difficulty %d -> %d", event.DifficultyBefore, event.DifficultyAfter)
	return s.view(entry, &event), nil
}

func (s *practiceService) End(ctx context.Context, userID, sessionID string) error {
	if _, err := s.lookup(userID, sessionID); err != nil {
		return err
	}
	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()
	logger.FromContext(ctx).Debug("practice session ended: id=%s", sessionID)
	return nil
}

func (s *practiceService) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, entry := range s.sessions {
		if s.expired(entry) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// view must be called with entry.mu held.
func (s *practiceService) view(entry *practiceEntry, event *models.ReviewEvent) *PracticeView {
	v := &PracticeView{
		ID:        entry.id,
		Mode:      entry.session.Mode(),
		Progress:  entry.session.Progress(),
		Reviewed:  event,
		ExpiresAt: entry.touched.Add(s.ttl),
	}
	if card, err := entry.session.Current(); err == nil {
		v.Card = &card
	}
	return v
}

func sessionError(err error) error {
	switch {
	case stderrors.Is(err, practice.ErrNoSession):
		return errors.NewBadRequestError("no cards to practice")
	case stderrors.Is(err, practice.ErrSessionComplete):
		return errors.NewBadRequestError("practice session is complete")
	default:
		return errors.NewInternalError(err)
	}
}
