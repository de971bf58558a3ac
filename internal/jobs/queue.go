package jobs

import "github.com/vytor/lingoflash/internal/models"

// JobQueue provides an abstraction for enqueueing background jobs
type JobQueue interface {
	EnqueueImport(req models.ImportRequest) error
}
