package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/kwhmarket/internal/apperr"
	"github.com/MrJamesThe3rd/kwhmarket/internal/offer"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// SaveFeedback writes the rating only while the side's feedback is still
// empty, then bumps the rated user's counters.
func (s *Store) SaveFeedback(ctx context.Context, offerID uuid.UUID, side offer.Side, fb offer.Feedback, ratedUserID int64) error {
	positiveCol, commentCol := "buyer_feedback_positive", "buyer_feedback_comment"
	if side == offer.SideSeller {
		positiveCol, commentCol = "seller_feedback_positive", "seller_feedback_comment"
	}

	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	query := `
		UPDATE offers
		SET ` + positiveCol + ` = $1, ` + commentCol + ` = $2, updated_at = NOW()
		WHERE id = $3 AND status = $4 AND ` + positiveCol + ` IS NULL
	`

	res, err := dbTx.ExecContext(ctx, query, fb.Positive, fb.Comment, offerID, offer.StatusCompleted)
	if err != nil {
		return fmt.Errorf("saving feedback: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("saving feedback: %w", err)
	}

	if n == 0 {
		return s.explainMissedUpdate(ctx, dbTx, offerID)
	}

	ratings := `
		UPDATE users
		SET total_ratings = total_ratings + 1,
			positive_ratings = positive_ratings + CASE WHEN $1 THEN 1 ELSE 0 END,
			updated_at = NOW()
		WHERE user_id = $2
	`

	if _, err := dbTx.ExecContext(ctx, ratings, fb.Positive, ratedUserID); err != nil {
		return fmt.Errorf("updating ratings: %w", err)
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

func (s *Store) explainMissedUpdate(ctx context.Context, dbTx *sql.Tx, offerID uuid.UUID) error {
	var status offer.Status

	err := dbTx.QueryRowContext(ctx, `SELECT status FROM offers WHERE id = $1`, offerID).Scan(&status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return offer.ErrNotFound
		}

		return fmt.Errorf("reading offer status: %w", err)
	}

	if status != offer.StatusCompleted {
		return fmt.Errorf("%w: offer %s is %s", apperr.ErrStateConflict, offerID, status)
	}

	return fmt.Errorf("feedback on offer %s: %w", offerID, apperr.ErrAlreadySubmitted)
}
