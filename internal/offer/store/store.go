package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/kwhmarket/internal/database"
	"github.com/MrJamesThe3rd/kwhmarket/internal/offer"
	"github.com/MrJamesThe3rd/kwhmarket/internal/transaction"
	txstore "github.com/MrJamesThe3rd/kwhmarket/internal/transaction/store"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

const selectOfferColumns = `
	id, announcement_id, buyer_id, seller_id, scheduled_at, location, brand, additional_info, status,
	kwh_charged, unit_price, total_amount, payment_method, rejection_reason, charger_connector, charger_photo,
	buyer_feedback_positive, buyer_feedback_comment, seller_feedback_positive, seller_feedback_comment,
	created_at, expires_at, completed_at, updated_at
`

// scanOffer reads an offer row in selectOfferColumns order.
func scanOffer(s scanner) (*offer.Offer, error) {
	var (
		o              offer.Offer
		announcementID uuid.NullUUID
		buyerPositive  sql.NullBool
		buyerComment   string
		sellerPositive sql.NullBool
		sellerComment  string
	)

	if err := s.Scan(
		&o.ID, &announcementID, &o.BuyerID, &o.SellerID, &o.ScheduledAt, &o.Location, &o.Brand, &o.AdditionalInfo, &o.Status,
		&o.KwhCharged, &o.UnitPrice, &o.TotalAmount, &o.PaymentMethod, &o.RejectionReason, &o.ChargerConnector, &o.ChargerPhoto,
		&buyerPositive, &buyerComment, &sellerPositive, &sellerComment,
		&o.CreatedAt, &o.ExpiresAt, &o.CompletedAt, &o.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if announcementID.Valid {
		o.AnnouncementID = &announcementID.UUID
	}

	if buyerPositive.Valid {
		o.BuyerFeedback = &offer.Feedback{Positive: buyerPositive.Bool, Comment: buyerComment}
	}

	if sellerPositive.Valid {
		o.SellerFeedback = &offer.Feedback{Positive: sellerPositive.Bool, Comment: sellerComment}
	}

	return &o, nil
}

func (s *Store) CreateOffer(ctx context.Context, o *offer.Offer) error {
	query := `
		INSERT INTO offers (
			announcement_id, buyer_id, seller_id, scheduled_at, location, brand,
			additional_info, charger_connector, status, expires_at, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW())
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query,
		o.AnnouncementID,
		o.BuyerID,
		o.SellerID,
		o.ScheduledAt,
		o.Location,
		o.Brand,
		o.AdditionalInfo,
		o.ChargerConnector,
		o.Status,
		o.ExpiresAt,
	).Scan(&o.ID, &o.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating offer: %w", err)
	}

	return nil
}

func (s *Store) GetOffer(ctx context.Context, id uuid.UUID) (*offer.Offer, error) {
	query := `SELECT ` + selectOfferColumns + ` FROM offers WHERE id = $1`

	o, err := scanOffer(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, offer.ErrNotFound
		}

		return nil, fmt.Errorf("getting offer: %w", err)
	}

	return o, nil
}

func (s *Store) ListOffers(ctx context.Context, filter offer.ListFilter) ([]*offer.Offer, error) {
	query := `SELECT ` + selectOfferColumns + ` FROM offers WHERE TRUE`

	var args []any

	argIdx := 1

	if filter.UserID != nil {
		query += fmt.Sprintf(" AND (buyer_id = $%d OR seller_id = $%d)", argIdx, argIdx)

		args = append(args, *filter.UserID)
		argIdx++
	}

	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argIdx)

		args = append(args, *filter.Status)
		argIdx++
	}

	query += " ORDER BY created_at DESC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIdx)

		args = append(args, filter.Limit)
	}

	return s.list(ctx, query, args...)
}

func (s *Store) ListExpired(ctx context.Context, now time.Time, statuses []offer.Status) ([]*offer.Offer, error) {
	names := make([]string, len(statuses))
	for i, st := range statuses {
		names[i] = string(st)
	}

	query := `SELECT ` + selectOfferColumns + `
		FROM offers
		WHERE status = ANY($1) AND expires_at < $2
		ORDER BY expires_at
	`

	return s.list(ctx, query, names, now)
}

func (s *Store) list(ctx context.Context, query string, args ...any) ([]*offer.Offer, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing offers: %w", err)
	}
	defer rows.Close()

	var offers []*offer.Offer

	for rows.Next() {
		o, err := scanOffer(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning offer: %w", err)
		}

		offers = append(offers, o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating offers: %w", err)
	}

	return offers, nil
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}

	return decimal.NewNullDecimal(*d)
}

// update is a compare-and-set on the status column. The amounts and the
// completion time are only written while still NULL.
func update(ctx context.Context, q querier, id uuid.UUID, from offer.Status, c offer.Change) (*offer.Offer, error) {
	query := `
		UPDATE offers
		SET status = $3,
			kwh_charged = COALESCE(kwh_charged, $4),
			unit_price = COALESCE(unit_price, $5),
			total_amount = COALESCE(total_amount, $6),
			payment_method = COALESCE($7, payment_method),
			rejection_reason = COALESCE($8, rejection_reason),
			charger_connector = COALESCE($9, charger_connector),
			charger_photo = COALESCE($10, charger_photo),
			completed_at = COALESCE(completed_at, $11),
			updated_at = NOW()
		WHERE id = $1 AND status = $2
		RETURNING ` + selectOfferColumns

	o, err := scanOffer(q.QueryRowContext(ctx, query,
		id,
		from,
		c.To,
		nullDecimal(c.KwhCharged),
		nullDecimal(c.UnitPrice),
		nullDecimal(c.TotalAmount),
		c.PaymentMethod,
		c.RejectionReason,
		c.ChargerConnector,
		c.ChargerPhoto,
		c.CompletedAt,
	))
	if err == nil {
		return o, nil
	}

	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("updating offer status: %w", err)
	}

	var actual offer.Status

	err = q.QueryRowContext(ctx, `SELECT status FROM offers WHERE id = $1`, id).Scan(&actual)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, offer.ErrNotFound
		}

		return nil, fmt.Errorf("reading offer status: %w", err)
	}

	return nil, &offer.StateConflictError{OfferID: id, Expected: from, Actual: actual}
}

func (s *Store) UpdateStatus(ctx context.Context, id uuid.UUID, from offer.Status, c offer.Change) (*offer.Offer, error) {
	return update(ctx, s.db, id, from, c)
}

// CompleteOffer moves the offer to its final status, records the transaction
// and runs settle, all in the same database transaction.
func (s *Store) CompleteOffer(ctx context.Context, id uuid.UUID, from offer.Status, c offer.Change, tx *transaction.Transaction, settle offer.SettleFunc) (*offer.Offer, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	o, err := update(ctx, dbTx, id, from, c)
	if err != nil {
		return nil, err
	}

	if err := txstore.Insert(ctx, dbTx, tx); err != nil {
		return nil, err
	}

	if settle != nil {
		if err := settle(database.WithTx(ctx, dbTx), o); err != nil {
			return nil, err
		}
	}

	if err := dbTx.Commit(); err != nil {
		return nil, fmt.Errorf("committing transaction: %w", err)
	}

	return o, nil
}
