package services

import (
	"context"
	"strings"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/vytor/lingoflash/internal/errors"
	"github.com/vytor/lingoflash/internal/logger"
	"github.com/vytor/lingoflash/internal/models"
	"github.com/vytor/lingoflash/internal/repository"
)

// Clock returns the current time. Services take one so tests can pin it.
type Clock func() time.Time

func systemClock() time.Time {
	return time.Now().UTC()
}

// newID generates the public identifier for sets and cards.
func newID() (string, error) {
	return gonanoid.New()
}

type access int

const (
	accessRead access = iota
	accessWrite
)

// loadSet fetches a set and applies the ownership rules: a foreign private set
// is reported as missing, a foreign public set is readable but not writable.
func loadSet(ctx context.Context, sets repository.SetRepository, userID, setID string, mode access) (*models.FlashcardSet, error) {
	log := logger.FromContext(ctx)

	if strings.TrimSpace(userID) == "" {
		return nil, errors.NewUnauthorizedError("missing user")
	}

	set, err := sets.Get(ctx, setID)
	if err != nil {
		log.Error("failed to get set %s: %v", setID, err)
		return nil, errors.NewInternalError(err)
	}
	if set == nil {
		return nil, errors.NewNotFoundError("set", setID)
	}

	if set.OwnerID == userID {
		return set, nil
	}
	if !set.IsPublic {
		return nil, errors.NewNotFoundError("set", setID)
	}
	if mode == accessWrite {
		return nil, errors.NewForbiddenError("set belongs to another user")
	}
	return set, nil
}
