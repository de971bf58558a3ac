package sqlite

import (
	"context"
	"database/sql"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/lingoflash/internal/logger"
	"github.com/vytor/lingoflash/internal/models"
	"github.com/vytor/lingoflash/internal/repository"
)

type reviewRepository struct {
	db *sql.DB
}

// NewReviewRepository creates a new ReviewRepository implementation
func NewReviewRepository(db *sql.DB) repository.ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Insert(ctx context.Context, e models.ReviewEvent) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("review_repo")
	log.Debug("inserting review: card_id=%s, rating=%d", e.CardID, e.Rating)

	res, err := r.db.ExecContext(ctx, `
INSERT INTO review_history (card_id, rating, difficulty_before, difficulty_after, reviewed_at)
VALUES (?, ?, ?, ?, ?)
`, e.CardID, e.Rating, e.DifficultyBefore, e.DifficultyAfter, e.ReviewedAt.UTC())
	if err != nil {
		log.Error("failed to insert review: %v", err)
		return 0, err
	}
	return res.LastInsertId()
}

// ListForCard returns the most recent reviews first. limit <= 0 means no limit.
func (r *reviewRepository) ListForCard(ctx context.Context, cardID string, limit int) ([]models.ReviewEvent, error) {
	log := logger.FromContext(ctx).WithPrefix("review_repo")

	query := sqlBuilder.Select("id", "card_id", "rating", "difficulty_before", "difficulty_after", "reviewed_at").
		From("review_history").
		Where(squirrel.Eq{"card_id": cardID}).
		OrderBy("reviewed_at DESC", "id DESC")
	if limit > 0 {
		query = query.Limit(uint64(limit))
	}
	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to list reviews: %v", err)
		return nil, err
	}
	defer rows.Close()

	events := []models.ReviewEvent{}
	for rows.Next() {
		var e models.ReviewEvent
		if err := rows.Scan(&e.ID, &e.CardID, &e.Rating, &e.DifficultyBefore, &e.DifficultyAfter, &e.ReviewedAt); err != nil {
			return nil, err
		}
		e.ReviewedAt = e.ReviewedAt.UTC()
		events = append(events, e)
	}
	return events, rows.Err()
}
