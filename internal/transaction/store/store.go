package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/kwhmarket/internal/transaction"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Querier is satisfied by *sql.DB and *sql.Tx.
type Querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanTransaction reads a transaction row from the scanner.
// Expected column order: id, offer_id, seller_id, buyer_id, kwh_amount, unit_price, total_amount, payment_method, status, created_at, updated_at
func scanTransaction(s scanner) (*transaction.Transaction, error) {
	var tx transaction.Transaction

	var statusStr string

	if err := s.Scan(
		&tx.ID, &tx.OfferID, &tx.SellerID, &tx.BuyerID,
		&tx.KwhAmount, &tx.UnitPrice, &tx.TotalAmount,
		&tx.PaymentMethod, &statusStr, &tx.CreatedAt, &tx.UpdatedAt,
	); err != nil {
		return nil, err
	}

	tx.Status = transaction.Status(statusStr)

	return &tx, nil
}

const selectTransactionColumns = `
	id, offer_id, seller_id, buyer_id, kwh_amount, unit_price, total_amount,
	payment_method, status, created_at, updated_at
`

// Insert writes a new transaction through q, which is usually the database
// transaction that completes the originating offer.
func Insert(ctx context.Context, q Querier, tx *transaction.Transaction) error {
	query := `
		INSERT INTO transactions (offer_id, seller_id, buyer_id, kwh_amount, unit_price, total_amount, payment_method, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		RETURNING id, created_at
	`

	err := q.QueryRowContext(ctx, query,
		tx.OfferID,
		tx.SellerID,
		tx.BuyerID,
		tx.KwhAmount,
		tx.UnitPrice,
		tx.TotalAmount,
		tx.PaymentMethod,
		tx.Status,
	).Scan(&tx.ID, &tx.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating transaction: %w", err)
	}

	return nil
}

func (s *Store) GetTransaction(ctx context.Context, id uuid.UUID) (*transaction.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + ` FROM transactions WHERE id = $1`

	tx, err := scanTransaction(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, transaction.ErrNotFound
		}

		return nil, fmt.Errorf("getting transaction: %w", err)
	}

	return tx, nil
}

func (s *Store) GetByOffer(ctx context.Context, offerID uuid.UUID) (*transaction.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + ` FROM transactions WHERE offer_id = $1`

	tx, err := scanTransaction(s.db.QueryRowContext(ctx, query, offerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, transaction.ErrNotFound
		}

		return nil, fmt.Errorf("getting transaction by offer: %w", err)
	}

	return tx, nil
}

func (s *Store) ListTransactions(ctx context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + ` FROM transactions WHERE TRUE`

	var args []any

	argIdx := 1

	if filter.UserID != nil {
		query += fmt.Sprintf(" AND (seller_id = $%d OR buyer_id = $%d)", argIdx, argIdx)

		args = append(args, *filter.UserID)
		argIdx++
	}

	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argIdx)

		args = append(args, *filter.Status)
	}

	query += " ORDER BY created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	defer rows.Close()

	var txs []*transaction.Transaction

	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}

		txs = append(txs, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating transactions: %w", err)
	}

	return txs, nil
}

func (s *Store) MarkDisputed(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE transactions
		SET status = $1, updated_at = NOW()
		WHERE id = $2
	`

	res, err := s.db.ExecContext(ctx, query, transaction.StatusDisputed, id)
	if err != nil {
		return fmt.Errorf("marking transaction disputed: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("marking transaction disputed: %w", err)
	}

	if n == 0 {
		return transaction.ErrNotFound
	}

	return nil
}
