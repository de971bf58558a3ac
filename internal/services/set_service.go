package services

import (
	"context"
	stderrors "errors"
	"strings"

	"github.com/vytor/lingoflash/internal/errors"
	"github.com/vytor/lingoflash/internal/importer"
	"github.com/vytor/lingoflash/internal/logger"
	"github.com/vytor/lingoflash/internal/models"
	"github.com/vytor/lingoflash/internal/repository"
)

// SetInput carries the editable fields of a set.
type SetInput struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Language    string   `json:"language"`
	Tags        []string `json:"tags"`
	IsPublic    bool     `json:"is_public"`
}

// SetService handles flashcard set business logic
type SetService interface {
	CreateSet(ctx context.Context, userID string, in SetInput) (*models.FlashcardSet, error)
	GetSet(ctx context.Context, userID, id string) (*models.FlashcardSet, error)
	ListSets(ctx context.Context, userID string, includePublic bool) ([]models.FlashcardSet, error)
	UpdateSet(ctx context.Context, userID, id string, in SetInput) (*models.FlashcardSet, error)
	DeleteSet(ctx context.Context, userID, id string) error
	// Authorize returns the set if userID may modify it.
	Authorize(ctx context.Context, userID, id string) (*models.FlashcardSet, error)
}

type setService struct {
	setRepo repository.SetRepository
	now     Clock
	newID   importer.IDFunc
}

// NewSetService creates a new SetService
func NewSetService(setRepo repository.SetRepository) SetService {
	return &setService{setRepo: setRepo, now: systemClock, newID: newID}
}

func (in SetInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return errors.NewValidationError("name", "cannot be empty")
	}
	return nil
}

func (s *setService) CreateSet(ctx context.Context, userID string, in SetInput) (*models.FlashcardSet, error) {
	log := logger.FromContext(ctx)
	log.Debug("creating set: user_id=%s, name=%s", userID, in.Name)

	if strings.TrimSpace(userID) == "" {
		return nil, errors.NewUnauthorizedError("missing user")
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	id, err := s.newID()
	if err != nil {
		log.Error("failed to generate set id: %v", err)
		return nil, errors.NewInternalError(err)
	}

	now := s.now()
	set := models.FlashcardSet{
		ID:          id,
		OwnerID:     userID,
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		Language:    strings.ToLower(strings.TrimSpace(in.Language)),
		Tags:        importer.NormalizeTags(in.Tags),
		IsPublic:    in.IsPublic,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.setRepo.Insert(ctx, set); err != nil {
		log.Error("failed to insert set: %v", err)
		return nil, errors.NewInternalError(err)
	}

	log.Info("set created: id=%s", set.ID)
	return &set, nil
}

func (s *setService) GetSet(ctx context.Context, userID, id string) (*models.FlashcardSet, error) {
	logger.FromContext(ctx).Debug("getting set: id=%s", id)
	return loadSet(ctx, s.setRepo, userID, id, accessRead)
}

func (s *setService) Authorize(ctx context.Context, userID, id string) (*models.FlashcardSet, error) {
	return loadSet(ctx, s.setRepo, userID, id, accessWrite)
}

func (s *setService) ListSets(ctx context.Context, userID string, includePublic bool) ([]models.FlashcardSet, error) {
	log := logger.FromContext(ctx)
	log.Debug("listing sets: user_id=%s, include_public=%v", userID, includePublic)

	if strings.TrimSpace(userID) == "" {
		return nil, errors.NewUnauthorizedError("missing user")
	}

	sets, err := s.setRepo.ListForUser(ctx, userID, includePublic)
	if err != nil {
		log.Error("failed to list sets: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return sets, nil
}

func (s *setService) UpdateSet(ctx context.Context, userID, id string, in SetInput) (*models.FlashcardSet, error) {
	log := logger.FromContext(ctx)
	log.Debug("updating set: id=%s", id)

	if err := in.validate(); err != nil {
		return nil, err
	}

	set, err := loadSet(ctx, s.setRepo, userID, id, accessWrite)
	if err != nil {
		return nil, err
	}

	set.Name = strings.TrimSpace(in.Name)
	set.Description = strings.TrimSpace(in.Description)
	set.Language = strings.ToLower(strings.TrimSpace(in.Language))
	set.Tags = importer.NormalizeTags(in.Tags)
	set.IsPublic = in.IsPublic
	set.UpdatedAt = s.now()

	if err := s.setRepo.Update(ctx, *set); err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return nil, errors.NewNotFoundError("set", id)
		}
		log.Error("failed to update set: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return set, nil
}

func (s *setService) DeleteSet(ctx context.Context, userID, id string) error {
	log := logger.FromContext(ctx)
	log.Debug("deleting set: id=%s", id)

	if _, err := loadSet(ctx, s.setRepo, userID, id, accessWrite); err != nil {
		return err
	}

	if err := s.setRepo.Delete(ctx, id); err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return errors.NewNotFoundError("set", id)
		}
		log.Error("failed to delete set: %v", err)
		return errors.NewInternalError(err)
	}

	log.Info("set deleted: id=%s", id)
	return nil
}
