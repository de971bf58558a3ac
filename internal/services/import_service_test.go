package services

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vytor/lingoflash/internal/errors"
	"github.com/vytor/lingoflash/internal/models"
	"github.com/vytor/lingoflash/internal/repository/sqlite"
	"github.com/vytor/lingoflash/internal/testutil"
	"github.com/vytor/lingoflash/internal/testutil/mocks"
)

func newTestImportService(cards *mocks.MockFlashcardRepository, sets *mocks.MockSetRepository) *importService {
	return &importService{cardRepo: cards, setRepo: sets, now: fixedClock, newID: sequentialIDs("imp")}
}

func TestImportService_ImportDeck(t *testing.T) {
	ctx := context.Background()
	cards := new(mocks.MockFlashcardRepository)
	sets := new(mocks.MockSetRepository)
	svc := newTestImportService(cards, sets)

	sets.On("Get", ctx, "s1").Return(ownedSet("s1", "alice", false), nil)
	cards.On("InsertBatch", ctx, mock.MatchedBy(func(batch []models.Flashcard) bool {
		return len(batch) == 2 &&
			batch[0].ID == "imp-1" && batch[0].Front == "cane" && batch[0].SetID == "s1" &&
			batch[1].Front == "gatto" && batch[1].Difficulty == models.MaxDifficulty
	})).Return(nil)

	data := []byte("italian,english,difficulty\ncane,dog,\n,,\ngatto,cat,9\n")
	res, err := svc.ImportDeck(ctx, models.ImportRequest{UserID: "alice", SetID: "s1", Format: "CSV", Data: data})
	require.NoError(t, err)
	assert.Equal(t, &models.ImportResult{SetID: "s1", Format: "csv", Imported: 2, Skipped: 0}, res)
	cards.AssertExpectations(t)
}

func TestImportService_CountsSkippedRows(t *testing.T) {
	ctx := context.Background()
	cards := new(mocks.MockFlashcardRepository)
	sets := new(mocks.MockSetRepository)
	svc := newTestImportService(cards, sets)

	sets.On("Get", ctx, "s1").Return(ownedSet("s1", "alice", false), nil)
	cards.On("InsertBatch", ctx, mock.MatchedBy(func(batch []models.Flashcard) bool { return len(batch) == 1 })).Return(nil)

	data := []byte(`[{"front":"uno","back":"one"},{"tags":"orphan"},{}]`)
	res, err := svc.ImportDeck(ctx, models.ImportRequest{UserID: "alice", SetID: "s1", Format: "json", Data: data})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Imported)
	assert.Equal(t, 2, res.Skipped)
}

func TestImportService_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown format", func(t *testing.T) {
		svc := newTestImportService(new(mocks.MockFlashcardRepository), new(mocks.MockSetRepository))
		_, err := svc.ImportDeck(ctx, models.ImportRequest{UserID: "alice", SetID: "s1", Format: "apkg"})
		assertCode(t, err, errors.ErrCodeValidation)
	})

	t.Run("malformed input", func(t *testing.T) {
		sets := new(mocks.MockSetRepository)
		sets.On("Get", ctx, "s1").Return(ownedSet("s1", "alice", false), nil)
		svc := newTestImportService(new(mocks.MockFlashcardRepository), sets)
		_, err := svc.ImportDeck(ctx, models.ImportRequest{UserID: "alice", SetID: "s1", Format: "json", Data: []byte(`{"cards":`)})
		assertCode(t, err, errors.ErrCodeBadRequest)
	})

	t.Run("foreign set", func(t *testing.T) {
		sets := new(mocks.MockSetRepository)
		sets.On("Get", ctx, "s1").Return(ownedSet("s1", "bob", true), nil)
		svc := newTestImportService(new(mocks.MockFlashcardRepository), sets)
		_, err := svc.ImportDeck(ctx, models.ImportRequest{UserID: "alice", SetID: "s1", Format: "csv", Data: []byte("a,b\n")})
		assertCode(t, err, errors.ErrCodeForbidden)
	})

	t.Run("batch insert fails", func(t *testing.T) {
		cards := new(mocks.MockFlashcardRepository)
		sets := new(mocks.MockSetRepository)
		sets.On("Get", ctx, "s1").Return(ownedSet("s1", "alice", false), nil)
		cards.On("InsertBatch", ctx, mock.Anything).Return(stderrors.New("constraint"))
		svc := newTestImportService(cards, sets)
		_, err := svc.ImportDeck(ctx, models.ImportRequest{UserID: "alice", SetID: "s1", Format: "quizlet", Data: []byte("a\tb\n")})
		assertCode(t, err, errors.ErrCodeInternal)
	})
}

func TestImportService_IgnoresSourceIDs(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewTestDB(t)
	defer testutil.MustClose(t, db)
	testutil.InsertSet(t, db, "alice-set", "alice", false)
	testutil.InsertSet(t, db, "bob-set", "bob", false)

	cardRepo := sqlite.NewFlashcardRepository(db)
	svc := &importService{
		cardRepo: cardRepo,
		setRepo:  sqlite.NewSetRepository(db),
		now:      fixedClock,
		newID:    sequentialIDs("imp"),
	}

	deck := []byte(`[{"id":"d1","front":"uno","back":"one"},{"id":"d2","front":"due","back":"two"}]`)
	for i := 0; i < 2; i++ {
		res, err := svc.ImportDeck(ctx, models.ImportRequest{UserID: "alice", SetID: "alice-set", Format: "json", Data: deck})
		require.NoError(t, err)
		assert.Equal(t, 2, res.Imported)
	}

	res, err := svc.ImportDeck(ctx, models.ImportRequest{UserID: "bob", SetID: "bob-set", Format: "json", Data: deck})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Imported)

	repeated := []byte("id,front,back\nd1,tre,three\nd1,quattro,four\n")
	res, err = svc.ImportDeck(ctx, models.ImportRequest{UserID: "bob", SetID: "bob-set", Format: "csv", Data: repeated})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Imported)

	aliceCards, err := cardRepo.ListForSet(ctx, "alice-set")
	require.NoError(t, err)
	assert.Len(t, aliceCards, 4)

	bobCards, err := cardRepo.ListForSet(ctx, "bob-set")
	require.NoError(t, err)
	require.Len(t, bobCards, 4)
	for _, c := range bobCards {
		assert.NotEqual(t, "d1", c.ID)
	}
}
