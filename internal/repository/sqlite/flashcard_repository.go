package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/lingoflash/internal/logger"
	"github.com/vytor/lingoflash/internal/models"
	"github.com/vytor/lingoflash/internal/repository"
)

var flashcardColumns = []string{
	"f.id", "f.set_id", "f.front", "f.back", "f.difficulty", "f.mastered", "f.streak", "f.review_count",
	"f.last_reviewed", "f.next_review", "f.tags", "f.created_at", "f.updated_at",
}

type flashcardRepository struct {
	db *sql.DB
}

// NewFlashcardRepository creates a new FlashcardRepository implementation
func NewFlashcardRepository(db *sql.DB) repository.FlashcardRepository {
	return &flashcardRepository{db: db}
}

func insertFlashcard(ctx context.Context, q queryer, c models.Flashcard) error {
	tags, err := encodeTags(c.Tags)
	if err != nil {
		return err
	}
	_, err = q.ExecContext(ctx, `
INSERT INTO flashcards (id, set_id, front, back, difficulty, mastered, streak, review_count, last_reviewed, next_review, tags, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`, c.ID, c.SetID, c.Front, c.Back, c.Difficulty, c.Mastered, c.Streak, c.ReviewCount,
		nullTime(c.LastReviewed), nullTime(c.NextReview), tags, c.CreatedAt.UTC(), c.UpdatedAt.UTC())
	return err
}

func (r *flashcardRepository) Insert(ctx context.Context, c models.Flashcard) error {
	log := logger.FromContext(ctx).WithPrefix("flashcard_repo")
	log.Debug("inserting flashcard: id=%s, set_id=%s", c.ID, c.SetID)

	if err := insertFlashcard(ctx, r.db, c); err != nil {
		log.Error("failed to insert flashcard: %v", err)
		return err
	}
	return nil
}

// InsertBatch inserts all cards in one transaction; either every card lands or none does.
func (r *flashcardRepository) InsertBatch(ctx context.Context, cards []models.Flashcard) error {
	log := logger.FromContext(ctx).WithPrefix("flashcard_repo")
	log.Debug("inserting %d flashcards", len(cards))
	if len(cards) == 0 {
		return nil
	}

	return tx(ctx, r.db, func(t *sql.Tx) error {
		for _, c := range cards {
			if err := insertFlashcard(ctx, t, c); err != nil {
				log.Error("failed to insert flashcard %s: %v", c.ID, err)
				return err
			}
		}
		return nil
	})
}

func (r *flashcardRepository) Get(ctx context.Context, id string) (*models.Flashcard, error) {
	log := logger.FromContext(ctx).WithPrefix("flashcard_repo")
	log.Debug("getting flashcard: id=%s", id)

	query, args, err := sqlBuilder.Select(flashcardColumns...).
		From("flashcards f").
		Where(squirrel.Eq{"f.id": id}).
		ToSql()
	if err != nil {
		return nil, err
	}

	c, err := scanFlashcard(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("flashcard not found: id=%s", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get flashcard: %v", err)
		return nil, err
	}
	return &c, nil
}

// Update persists the full card. Concurrent writers are last-write-wins.
func (r *flashcardRepository) Update(ctx context.Context, c models.Flashcard) error {
	log := logger.FromContext(ctx).WithPrefix("flashcard_repo")
	log.Debug("updating flashcard: id=%s, difficulty=%d, mastered=%t", c.ID, c.Difficulty, c.Mastered)

	tags, err := encodeTags(c.Tags)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `
UPDATE flashcards
SET front = ?, back = ?, difficulty = ?, mastered = ?, streak = ?, review_count = ?,
    last_reviewed = ?, next_review = ?, tags = ?, updated_at = ?
WHERE id = ?
`, c.Front, c.Back, c.Difficulty, c.Mastered, c.Streak, c.ReviewCount,
		nullTime(c.LastReviewed), nullTime(c.NextReview), tags, c.UpdatedAt.UTC(), c.ID)
	if err != nil {
		log.Error("failed to update flashcard: %v", err)
		return err
	}
	return expectAffected(res)
}

func (r *flashcardRepository) Delete(ctx context.Context, id string) error {
	log := logger.FromContext(ctx).WithPrefix("flashcard_repo")
	log.Debug("deleting flashcard: id=%s", id)

	res, err := r.db.ExecContext(ctx, `DELETE FROM flashcards WHERE id = ?`, id)
	if err != nil {
		log.Error("failed to delete flashcard: %v", err)
		return err
	}
	return expectAffected(res)
}

func (r *flashcardRepository) ListForSet(ctx context.Context, setID string) ([]models.Flashcard, error) {
	log := logger.FromContext(ctx).WithPrefix("flashcard_repo")
	log.Debug("listing flashcards for set: set_id=%s", setID)

	query := sqlBuilder.Select(flashcardColumns...).
		From("flashcards f").
		Where(squirrel.Eq{"f.set_id": setID}).
		OrderBy("f.created_at ASC", "f.id ASC")
	return r.list(ctx, query)
}

func (r *flashcardRepository) ListForUser(ctx context.Context, userID string, filter models.FlashcardFilter) ([]models.Flashcard, error) {
	log := logger.FromContext(ctx).WithPrefix("flashcard_repo")
	log.Debug("listing flashcards for user: user_id=%s, set_id=%s, tag=%s, search=%s",
		userID, filter.SetID, filter.Tag, filter.Search)

	query := sqlBuilder.Select(flashcardColumns...).
		From("flashcards f").
		Join("flashcard_sets s ON s.id = f.set_id").
		Where(squirrel.Eq{"s.owner_id": userID})

	if filter.SetID != "" {
		query = query.Where(squirrel.Eq{"f.set_id": filter.SetID})
	}
	if filter.Tag != "" {
		query = query.Where(squirrel.Expr("EXISTS (SELECT 1 FROM json_each(f.tags) WHERE json_each.value = ?)", filter.Tag))
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where(squirrel.Or{
			squirrel.Like{"f.front": pattern},
			squirrel.Like{"f.back": pattern},
		})
	}
	if filter.Mastered != nil {
		query = query.Where(squirrel.Eq{"f.mastered": *filter.Mastered})
	}

	query = query.OrderBy("f.created_at ASC", "f.id ASC")
	switch {
	case filter.Limit > 0:
		query = query.Limit(uint64(filter.Limit))
		if filter.Offset > 0 {
			query = query.Offset(uint64(filter.Offset))
		}
	case filter.Offset > 0:
		// SQLite only accepts OFFSET after a LIMIT; -1 means no limit.
		query = query.Suffix("LIMIT -1 OFFSET ?", filter.Offset)
	}
	return r.list(ctx, query)
}

func (r *flashcardRepository) list(ctx context.Context, b squirrel.SelectBuilder) ([]models.Flashcard, error) {
	log := logger.FromContext(ctx).WithPrefix("flashcard_repo")

	query, args, err := b.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query flashcards: %v", err)
		return nil, err
	}
	defer rows.Close()

	cards := []models.Flashcard{}
	for rows.Next() {
		c, err := scanFlashcard(rows)
		if err != nil {
			log.Error("failed to scan flashcard row: %v", err)
			return nil, err
		}
		cards = append(cards, c)
	}
	log.Debug("found %d flashcards", len(cards))
	return cards, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFlashcard(row rowScanner) (models.Flashcard, error) {
	var (
		c            models.Flashcard
		lastReviewed sql.NullTime
		nextReview   sql.NullTime
		tags         string
	)
	err := row.Scan(&c.ID, &c.SetID, &c.Front, &c.Back, &c.Difficulty, &c.Mastered, &c.Streak, &c.ReviewCount,
		&lastReviewed, &nextReview, &tags, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return models.Flashcard{}, err
	}
	c.LastReviewed = timePtr(lastReviewed)
	c.NextReview = timePtr(nextReview)
	c.CreatedAt = c.CreatedAt.UTC()
	c.UpdatedAt = c.UpdatedAt.UTC()
	if c.Tags, err = decodeTags(tags); err != nil {
		return models.Flashcard{}, err
	}
	return c, nil
}
