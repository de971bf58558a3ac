package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/lingoflash/internal/models"
)

// MockSetRepository is a mock implementation of repository.SetRepository
type MockSetRepository struct {
	mock.Mock
}

func (m *MockSetRepository) Insert(ctx context.Context, set models.FlashcardSet) error {
	args := m.Called(ctx, set)
	return args.Error(0)
}

func (m *MockSetRepository) Get(ctx context.Context, id string) (*models.FlashcardSet, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FlashcardSet), args.Error(1)
}

func (m *MockSetRepository) ListForUser(ctx context.Context, userID string, includePublic bool) ([]models.FlashcardSet, error) {
	args := m.Called(ctx, userID, includePublic)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.FlashcardSet), args.Error(1)
}

func (m *MockSetRepository) Update(ctx context.Context, set models.FlashcardSet) error {
	args := m.Called(ctx, set)
	return args.Error(0)
}

func (m *MockSetRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
