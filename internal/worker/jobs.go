package worker

import (
	"context"

	"github.com/vytor/lingoflash/internal/logger"
	"github.com/vytor/lingoflash/internal/models"
)

// ImportDeckJob runs a deck import in the background.
type ImportDeckJob struct {
	Importer DeckImporter
	Request  models.ImportRequest
}

func (j *ImportDeckJob) Name() string { return "import_deck" }

func (j *ImportDeckJob) Run(ctx context.Context) error {
	log := logger.FromContext(ctx).WithFields(map[string]any{
		"user_id": j.Request.UserID,
		"set_id":  j.Request.SetID,
	})
	log.Info("starting background deck import")

	res, err := j.Importer.ImportDeck(ctx, j.Request)
	if err != nil {
		return err
	}

	log.Info("background import finished: %d imported, %d skipped", res.Imported, res.Skipped)
	return nil
}
