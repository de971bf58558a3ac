package jobs

import (
	"github.com/vytor/lingoflash/internal/models"
	"github.com/vytor/lingoflash/internal/worker"
)

// WorkerQueue implements JobQueue using a worker pool
type WorkerQueue struct {
	importPool *worker.Pool
	importer   worker.DeckImporter
}

// NewWorkerQueue creates a new WorkerQueue implementation
func NewWorkerQueue(importPool *worker.Pool, importer worker.DeckImporter) JobQueue {
	return &WorkerQueue{
		importPool: importPool,
		importer:   importer,
	}
}

// EnqueueImport hands the request to the pool. It returns worker.ErrQueueFull
// when the pool has no room.
func (q *WorkerQueue) EnqueueImport(req models.ImportRequest) error {
	return q.importPool.Submit(&worker.ImportDeckJob{
		Importer: q.importer,
		Request:  req,
	})
}
