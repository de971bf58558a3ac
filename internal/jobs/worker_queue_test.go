package jobs_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vytor/lingoflash/internal/jobs"
	"github.com/vytor/lingoflash/internal/models"
	"github.com/vytor/lingoflash/internal/worker"
)

type mockImporter struct {
	mock.Mock
	done chan struct{}
}

func (m *mockImporter) ImportDeck(ctx context.Context, req models.ImportRequest) (*models.ImportResult, error) {
	args := m.Called(ctx, req)
	defer close(m.done)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ImportResult), args.Error(1)
}

func TestWorkerQueue_EnqueueImportRunsJob(t *testing.T) {
	pool := worker.NewPool(1, 2)
	pool.Start(context.Background())
	defer pool.Stop()

	req := models.ImportRequest{UserID: "alice", SetID: "s1", Format: "csv", Data: []byte("a,b\n")}
	imp := &mockImporter{done: make(chan struct{})}
	imp.On("ImportDeck", mock.Anything, req).Return(&models.ImportResult{SetID: "s1", Imported: 1}, nil)

	q := jobs.NewWorkerQueue(pool, imp)
	require.NoError(t, q.EnqueueImport(req))

	select {
	case <-imp.done:
	case <-time.After(2 * time.Second):
		t.Fatal("import job did not run")
	}
	imp.AssertExpectations(t)
}

func TestWorkerQueue_ClosedPool(t *testing.T) {
	pool := worker.NewPool(1, 1)
	pool.Stop()

	q := jobs.NewWorkerQueue(pool, &mockImporter{done: make(chan struct{})})
	assert.ErrorIs(t, q.EnqueueImport(models.ImportRequest{}), worker.ErrPoolClosed)
}
