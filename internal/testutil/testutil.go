package testutil

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/vytor/lingoflash/internal/db"
	"github.com/vytor/lingoflash/internal/models"
)

// NewTestDB creates an in-memory SQLite database with all migrations applied.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.Open(":memory:")
	require.NoError(t, err)
	return database.DB
}

// MustClose closes a resource and fails the test on error.
func MustClose(t *testing.T, closer interface{ Close() error }) {
	require.NoError(t, closer.Close())
}

// InsertSet writes a set row directly, bypassing the repository under test.
func InsertSet(t *testing.T, db *sql.DB, id, ownerID string, public bool) {
	t.Helper()
	now := time.Now().UTC()
	_, err := db.ExecContext(context.Background(), `
		INSERT INTO flashcard_sets (id, owner_id, name, is_public, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, id, ownerID, "set "+id, public, now, now)
	require.NoError(t, err)
}

// Card builds a fresh, never-reviewed card.
func Card(id, setID string, createdAt time.Time) models.Flashcard {
	return models.Flashcard{
		ID:         id,
		SetID:      setID,
		Front:      "front " + id,
		Back:       "back " + id,
		Difficulty: models.DefaultDifficulty,
		Tags:       []string{},
		CreatedAt:  createdAt,
		UpdatedAt:  createdAt,
	}
}
