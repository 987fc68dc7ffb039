package store

import (
	"context"
	"database/sql"
	"fmt"
	"hash/fnv"
	"strconv"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/kwhmarket/internal/database"
	"github.com/MrJamesThe3rd/kwhmarket/internal/ledger"
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

const selectDonationColumns = `
	id, donor_id, admin_id, kwh_amount, is_used, used_in_offer_id, created_at, updated_at
`

func scanDonation(s scanner) (*ledger.Donation, error) {
	var (
		d       ledger.Donation
		offerID uuid.NullUUID
	)

	if err := s.Scan(&d.ID, &d.DonorID, &d.AdminID, &d.KwhAmount, &d.IsUsed, &offerID, &d.CreatedAt, &d.UpdatedAt); err != nil {
		return nil, err
	}

	if offerID.Valid {
		d.UsedInOfferID = &offerID.UUID
	}

	return &d, nil
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func listDonations(ctx context.Context, q querier, query string, args ...any) ([]*ledger.Donation, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing donations: %w", err)
	}
	defer rows.Close()

	var donations []*ledger.Donation

	for rows.Next() {
		d, err := scanDonation(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning donation: %w", err)
		}

		donations = append(donations, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating donations: %w", err)
	}

	return donations, nil
}

// CreateDonation records the donation and credits the admin in one database
// transaction. The admin row is created if it does not exist yet.
func (s *Store) CreateDonation(ctx context.Context, d *ledger.Donation) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	query := `
		INSERT INTO donations (donor_id, admin_id, kwh_amount, is_used, created_at)
		VALUES ($1, $2, $3, FALSE, NOW())
		RETURNING id, created_at
	`

	if err := dbTx.QueryRowContext(ctx, query, d.DonorID, d.AdminID, d.KwhAmount).Scan(&d.ID, &d.CreatedAt); err != nil {
		return fmt.Errorf("inserting donation: %w", err)
	}

	credit := `
		INSERT INTO users (user_id, balance, created_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id) DO UPDATE
		SET balance = users.balance + EXCLUDED.balance, updated_at = NOW()
	`

	if _, err := dbTx.ExecContext(ctx, credit, d.AdminID, d.KwhAmount); err != nil {
		return fmt.Errorf("crediting admin balance: %w", err)
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

func (s *Store) SumDonations(ctx context.Context, adminID, donorID int64, used bool) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(kwh_amount), 0)
		FROM donations
		WHERE admin_id = $1 AND donor_id = $2 AND is_used = $3
	`

	var sum decimal.Decimal
	if err := s.db.QueryRowContext(ctx, query, adminID, donorID, used).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("summing donations: %w", err)
	}

	return sum, nil
}

func (s *Store) ListDonations(ctx context.Context, adminID, donorID int64) ([]*ledger.Donation, error) {
	query := `SELECT ` + selectDonationColumns + `
		FROM donations
		WHERE admin_id = $1 AND donor_id = $2
		ORDER BY created_at, id
	`

	return listDonations(ctx, s.db, query, adminID, donorID)
}

func (s *Store) Summary(ctx context.Context, adminID int64) ([]ledger.DonorSummary, error) {
	query := `
		SELECT donor_id,
			COALESCE(SUM(kwh_amount) FILTER (WHERE NOT is_used), 0),
			COALESCE(SUM(kwh_amount) FILTER (WHERE is_used), 0),
			COUNT(*)
		FROM donations
		WHERE admin_id = $1
		GROUP BY donor_id
		ORDER BY donor_id
	`

	rows, err := s.db.QueryContext(ctx, query, adminID)
	if err != nil {
		return nil, fmt.Errorf("summarizing donations: %w", err)
	}
	defer rows.Close()

	var out []ledger.DonorSummary

	for rows.Next() {
		var ds ledger.DonorSummary
		if err := rows.Scan(&ds.DonorID, &ds.Available, &ds.Used, &ds.Donations); err != nil {
			return nil, fmt.Errorf("scanning donor summary: %w", err)
		}

		out = append(out, ds)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating donor summaries: %w", err)
	}

	return out, nil
}

func consumeLockKey(adminID, donorID int64) int64 {
	h := fnv.New64a()
	h.Write([]byte("donations"))
	h.Write([]byte{0})
	h.Write([]byte(strconv.FormatInt(adminID, 10)))
	h.Write([]byte{0})
	h.Write([]byte(strconv.FormatInt(donorID, 10)))

	return int64(h.Sum64())
}

type consumeTx struct {
	tx *sql.Tx
	// joined is set when tx belongs to the caller, who commits or rolls it back.
	joined bool
}

// BeginConsume locks the donations of one admin and donor pair. When ctx
// carries a transaction the consumption runs inside it.
func (s *Store) BeginConsume(ctx context.Context, adminID, donorID int64) (ledger.ConsumeTx, error) {
	if outer, ok := database.TxFrom(ctx); ok {
		if _, err := outer.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", consumeLockKey(adminID, donorID)); err != nil {
			return nil, fmt.Errorf("acquiring donation lock: %w", err)
		}

		return &consumeTx{tx: outer, joined: true}, nil
	}

	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning consume tx: %w", err)
	}

	if _, err := dbTx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", consumeLockKey(adminID, donorID)); err != nil {
		dbTx.Rollback()
		return nil, fmt.Errorf("acquiring donation lock: %w", err)
	}

	return &consumeTx{tx: dbTx}, nil
}

func (ltx *consumeTx) Commit() error {
	if ltx.joined {
		return nil
	}

	return ltx.tx.Commit()
}

func (ltx *consumeTx) Rollback() error {
	if ltx.joined {
		return nil
	}

	return ltx.tx.Rollback()
}

func (ltx *consumeTx) UsedForOffer(ctx context.Context, offerID uuid.UUID) (decimal.Decimal, int, error) {
	query := `
		SELECT COALESCE(SUM(kwh_amount), 0), COUNT(*)
		FROM donations
		WHERE used_in_offer_id = $1
	`

	var (
		sum   decimal.Decimal
		count int
	)

	if err := ltx.tx.QueryRowContext(ctx, query, offerID).Scan(&sum, &count); err != nil {
		return decimal.Zero, 0, fmt.Errorf("summing donations used for offer: %w", err)
	}

	return sum, count, nil
}

func (ltx *consumeTx) ListUnused(ctx context.Context, adminID, donorID int64) ([]*ledger.Donation, error) {
	query := `SELECT ` + selectDonationColumns + `
		FROM donations
		WHERE admin_id = $1 AND donor_id = $2 AND NOT is_used
		ORDER BY created_at, id
		FOR UPDATE
	`

	return listDonations(ctx, ltx.tx, query, adminID, donorID)
}

func (ltx *consumeTx) MarkUsed(ctx context.Context, id, offerID uuid.UUID) error {
	query := `
		UPDATE donations
		SET is_used = TRUE, used_in_offer_id = $1, updated_at = NOW()
		WHERE id = $2 AND NOT is_used
	`

	res, err := ltx.tx.ExecContext(ctx, query, offerID, id)
	if err != nil {
		return fmt.Errorf("marking donation used: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("marking donation used: %w", err)
	}

	if n == 0 {
		return fmt.Errorf("donation %s is already used", id)
	}

	return nil
}

func (ltx *consumeTx) Shrink(ctx context.Context, id uuid.UUID, kwh decimal.Decimal) error {
	query := `
		UPDATE donations
		SET kwh_amount = $1, updated_at = NOW()
		WHERE id = $2 AND NOT is_used
	`

	if _, err := ltx.tx.ExecContext(ctx, query, kwh, id); err != nil {
		return fmt.Errorf("shrinking donation: %w", err)
	}

	return nil
}

// InsertDonation stores a record produced by a split. The creation time is
// copied from the original donation.
func (ltx *consumeTx) InsertDonation(ctx context.Context, d *ledger.Donation) error {
	query := `
		INSERT INTO donations (donor_id, admin_id, kwh_amount, is_used, used_in_offer_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	err := ltx.tx.QueryRowContext(ctx, query,
		d.DonorID,
		d.AdminID,
		d.KwhAmount,
		d.IsUsed,
		d.UsedInOfferID,
		d.CreatedAt,
	).Scan(&d.ID)
	if err != nil {
		return fmt.Errorf("inserting split donation: %w", err)
	}

	return nil
}

func (ltx *consumeTx) DebitBalance(ctx context.Context, userID int64, kwh decimal.Decimal, allowNegative bool) error {
	query := `UPDATE users SET balance = GREATEST(balance - $1, 0), updated_at = NOW() WHERE user_id = $2`
	if allowNegative {
		query = `UPDATE users SET balance = balance - $1, updated_at = NOW() WHERE user_id = $2`
	}

	if _, err := ltx.tx.ExecContext(ctx, query, kwh, userID); err != nil {
		return fmt.Errorf("debiting balance: %w", err)
	}

	return nil
}
