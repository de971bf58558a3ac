package api

import (
	"context"

	"github.com/vytor/lingoflash/internal/jobs"
	"github.com/vytor/lingoflash/internal/services"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Server struct {
	DB               Pinger
	SetService       services.SetService
	FlashcardService services.FlashcardService
	ImportService    services.ImportService
	PracticeService  services.PracticeService
	JobQueue         jobs.JobQueue
	CORSOrigins      []string
	MaxImportBytes   int64
}
