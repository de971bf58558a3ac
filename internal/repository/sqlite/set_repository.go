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

var setColumns = []string{
	"s.id", "s.owner_id", "s.name", "s.description", "s.tags", "s.language", "s.is_public",
	"(SELECT COUNT(*) FROM flashcards f WHERE f.set_id = s.id) AS card_count",
	"s.created_at", "s.updated_at",
}

type setRepository struct {
	db *sql.DB
}

// NewSetRepository creates a new SetRepository implementation
func NewSetRepository(db *sql.DB) repository.SetRepository {
	return &setRepository{db: db}
}

func (r *setRepository) Insert(ctx context.Context, s models.FlashcardSet) error {
	log := logger.FromContext(ctx).WithPrefix("set_repo")
	log.Debug("inserting set: id=%s, owner_id=%s", s.ID, s.OwnerID)

	tags, err := encodeTags(s.Tags)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
INSERT INTO flashcard_sets (id, owner_id, name, description, tags, language, is_public, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
`, s.ID, s.OwnerID, s.Name, s.Description, tags, s.Language, s.IsPublic, s.CreatedAt.UTC(), s.UpdatedAt.UTC())
	if err != nil {
		log.Error("failed to insert set: %v", err)
	}
	return err
}

func (r *setRepository) Get(ctx context.Context, id string) (*models.FlashcardSet, error) {
	log := logger.FromContext(ctx).WithPrefix("set_repo")
	log.Debug("getting set: id=%s", id)

	query, args, err := sqlBuilder.Select(setColumns...).
		From("flashcard_sets s").
		Where(squirrel.Eq{"s.id": id}).
		ToSql()
	if err != nil {
		return nil, err
	}
	s, err := scanSet(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("set not found: id=%s", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get set: %v", err)
		return nil, err
	}
	return &s, nil
}

func (r *setRepository) ListForUser(ctx context.Context, userID string, includePublic bool) ([]models.FlashcardSet, error) {
	log := logger.FromContext(ctx).WithPrefix("set_repo")
	log.Debug("listing sets: user_id=%s, include_public=%t", userID, includePublic)

	query := sqlBuilder.Select(setColumns...).From("flashcard_sets s")
	if includePublic {
		query = query.Where(squirrel.Or{squirrel.Eq{"s.owner_id": userID}, squirrel.Eq{"s.is_public": true}})
	} else {
		query = query.Where(squirrel.Eq{"s.owner_id": userID})
	}

	sqlStr, args, err := query.OrderBy("s.created_at ASC", "s.id ASC").ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to list sets: %v", err)
		return nil, err
	}
	defer rows.Close()

	sets := []models.FlashcardSet{}
	for rows.Next() {
		s, err := scanSet(rows)
		if err != nil {
			log.Error("failed to scan set row: %v", err)
			return nil, err
		}
		sets = append(sets, s)
	}
	log.Debug("found %d sets", len(sets))
	return sets, rows.Err()
}

func (r *setRepository) Update(ctx context.Context, s models.FlashcardSet) error {
	log := logger.FromContext(ctx).WithPrefix("set_repo")
	log.Debug("updating set: id=%s", s.ID)

	tags, err := encodeTags(s.Tags)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `
UPDATE flashcard_sets
SET name = ?, description = ?, tags = ?, language = ?, is_public = ?, updated_at = ?
WHERE id = ?
`, s.Name, s.Description, tags, s.Language, s.IsPublic, s.UpdatedAt.UTC(), s.ID)
	if err != nil {
		log.Error("failed to update set: %v", err)
		return err
	}
	return expectAffected(res)
}

// Delete removes the set; its cards and their history cascade.
func (r *setRepository) Delete(ctx context.Context, id string) error {
	log := logger.FromContext(ctx).WithPrefix("set_repo")
	log.Debug("deleting set: id=%s", id)

	res, err := r.db.ExecContext(ctx, `DELETE FROM flashcard_sets WHERE id = ?`, id)
	if err != nil {
		log.Error("failed to delete set: %v", err)
		return err
	}
	return expectAffected(res)
}

func scanSet(row rowScanner) (models.FlashcardSet, error) {
	var (
		s    models.FlashcardSet
		tags string
	)
	if err := row.Scan(&s.ID, &s.OwnerID, &s.Name, &s.Description, &tags, &s.Language, &s.IsPublic,
		&s.CardCount, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return models.FlashcardSet{}, err
	}
	s.CreatedAt = s.CreatedAt.UTC()
	s.UpdatedAt = s.UpdatedAt.UTC()
	var err error
	if s.Tags, err = decodeTags(tags); err != nil {
		return models.FlashcardSet{}, err
	}
	return s, nil
}
