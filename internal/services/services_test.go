package services

import (
	"fmt"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/vytor/lingoflash/internal/errors"
	"github.com/vytor/lingoflash/internal/importer"
	"github.com/vytor/lingoflash/internal/models"
)

var fixedNow = time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func sequentialIDs(prefix string) importer.IDFunc {
	n := 0
	return func() (string, error) {
		n++
		return fmt.Sprintf("%s-%d", prefix, n), nil
	}
}

func ownedSet(id, owner string, public bool) *models.FlashcardSet {
	return &models.FlashcardSet{ID: id, OwnerID: owner, Name: "set " + id, IsPublic: public}
}

func assertCode(t assert.TestingT, err error, code string) {
	appErr, ok := errors.As(err)
	if assert.True(t, ok, "expected *AppError, got %v", err) {
		assert.Equal(t, code, appErr.Code)
	}
}
