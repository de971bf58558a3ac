package services

import (
	"bytes"
	"context"
	stderrors "errors"

	"github.com/vytor/lingoflash/internal/errors"
	"github.com/vytor/lingoflash/internal/importer"
	"github.com/vytor/lingoflash/internal/logger"
	"github.com/vytor/lingoflash/internal/models"
	"github.com/vytor/lingoflash/internal/repository"
)

// ImportService handles deck import business logic
type ImportService interface {
	ImportDeck(ctx context.Context, req models.ImportRequest) (*models.ImportResult, error)
}

type importService struct {
	cardRepo repository.FlashcardRepository
	setRepo  repository.SetRepository
	now      Clock
	newID    importer.IDFunc
}

// NewImportService creates a new ImportService
func NewImportService(cardRepo repository.FlashcardRepository, setRepo repository.SetRepository) ImportService {
	return &importService{
		cardRepo: cardRepo,
		setRepo:  setRepo,
		now:      systemClock,
		newID:    newID,
	}
}

// ImportDeck parses the upload, normalizes every row and stores the cards in one
// batch. Rows with neither side are counted as skipped.
func (s *importService) ImportDeck(ctx context.Context, req models.ImportRequest) (*models.ImportResult, error) {
	log := logger.FromContext(ctx).WithFields(map[string]any{
		"set_id": req.SetID,
		"format": req.Format,
		"bytes":  len(req.Data),
	})
	log.Info("importing deck")

	format, err := importer.ParseFormat(req.Format)
	if err != nil {
		return nil, errors.NewValidationError("format", err.Error())
	}

	if _, err := loadSet(ctx, s.setRepo, req.UserID, req.SetID, accessWrite); err != nil {
		return nil, err
	}

	raw, err := importer.Parse(bytes.NewReader(req.Data), format)
	if err != nil {
		if stderrors.Is(err, importer.ErrMalformedInput) || stderrors.Is(err, importer.ErrUnsupportedFormat) {
			return nil, errors.NewBadRequestError(err.Error())
		}
		log.Error("failed to parse deck: %v", err)
		return nil, errors.NewInternalError(err)
	}

	now := s.now()
	result := &models.ImportResult{SetID: req.SetID, Format: string(format)}
	cards := make([]models.Flashcard, 0, len(raw))
	for i, rc := range raw {
		card, ok, err := importer.Normalize(rc, req.SetID, now, s.newID)
		if err != nil {
			log.Error("failed to normalize row %d: %v", i+1, err)
			return nil, errors.NewInternalError(err)
		}
		if !ok {
			log.Debug("skipping empty row %d", i+1)
			result.Skipped++
			continue
		}
		cards = append(cards, card)
	}

	if err := s.cardRepo.InsertBatch(ctx, cards); err != nil {
		log.Error("failed to store imported cards: %v", err)
		return nil, errors.NewInternalError(err)
	}
	result.Imported = len(cards)

	log.Info("deck imported: %d cards, %d skipped", result.Imported, result.Skipped)
	return result, nil
}
