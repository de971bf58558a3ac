package worker

import (
	"context"

	"github.com/vytor/lingoflash/internal/models"
)

// DeckImporter imports an uploaded deck. It lives here so the worker package
// does not import services.
type DeckImporter interface {
	ImportDeck(ctx context.Context, req models.ImportRequest) (*models.ImportResult, error)
}
