package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/kwhmarket/internal/user"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

const selectUserColumns = `
	user_id, username, first_name, last_name, positive_ratings, total_ratings, balance,
	active_sell_announcement, active_buy_announcement, created_at, updated_at
`

func scanUser(row *sql.Row) (*user.User, error) {
	var (
		u          user.User
		activeSell uuid.NullUUID
		activeBuy  uuid.NullUUID
	)

	if err := row.Scan(
		&u.UserID, &u.Username, &u.FirstName, &u.LastName,
		&u.Reputation.Positive, &u.Reputation.Total, &u.Balance,
		&activeSell, &activeBuy, &u.CreatedAt, &u.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if activeSell.Valid {
		u.ActiveSellAnnouncement = &activeSell.UUID
	}

	if activeBuy.Valid {
		u.ActiveBuyAnnouncement = &activeBuy.UUID
	}

	return &u, nil
}

func (s *Store) UpsertUser(ctx context.Context, p user.Profile) (*user.User, error) {
	query := `
		INSERT INTO users (user_id, username, first_name, last_name, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (user_id) DO UPDATE
		SET username = EXCLUDED.username,
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			updated_at = NOW()
		RETURNING ` + selectUserColumns

	u, err := scanUser(s.db.QueryRowContext(ctx, query, p.UserID, p.Username, p.FirstName, p.LastName))
	if err != nil {
		return nil, fmt.Errorf("upserting user: %w", err)
	}

	return u, nil
}

func (s *Store) GetUser(ctx context.Context, id int64) (*user.User, error) {
	query := `SELECT ` + selectUserColumns + ` FROM users WHERE user_id = $1`

	u, err := scanUser(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, user.ErrNotFound
		}

		return nil, fmt.Errorf("getting user: %w", err)
	}

	return u, nil
}

func (s *Store) IsWhitelisted(ctx context.Context, id int64) (bool, error) {
	var ok bool

	err := s.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM whitelist WHERE user_id = $1)`, id).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("checking whitelist: %w", err)
	}

	return ok, nil
}
