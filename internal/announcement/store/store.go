package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"hash/fnv"
	"strconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/MrJamesThe3rd/kwhmarket/internal/announcement"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// pgTypes decodes TEXT[] columns, which database/sql cannot scan on its own.
var pgTypes = pgtype.NewMap()

type scanner interface {
	Scan(dest ...any) error
}

// scanAnnouncement reads an announcement row from the scanner.
// Expected column order: id, type, owner_id, price, connector_type, brands, location, status, offer_ids, created_at, updated_at
func scanAnnouncement(s scanner) (*announcement.Announcement, error) {
	var (
		a        announcement.Announcement
		offerIDs []string
	)

	if err := s.Scan(
		&a.ID, &a.Type, &a.OwnerID, &a.Price, &a.ConnectorType,
		pgTypes.SQLScanner(&a.Brands), &a.Location, &a.Status,
		pgTypes.SQLScanner(&offerIDs), &a.CreatedAt, &a.UpdatedAt,
	); err != nil {
		return nil, err
	}

	for _, raw := range offerIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("parsing offer id: %w", err)
		}

		a.OfferIDs = append(a.OfferIDs, id)
	}

	return &a, nil
}

const selectAnnouncementColumns = `
	a.id, a.type, a.owner_id, a.price, a.connector_type, a.brands, a.location, a.status,
	ARRAY(SELECT o.id::text FROM offers o WHERE o.announcement_id = a.id ORDER BY o.created_at),
	a.created_at, a.updated_at
`

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insert(ctx context.Context, q querier, a *announcement.Announcement) error {
	query := `
		INSERT INTO announcements (type, owner_id, price, connector_type, brands, location, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		RETURNING id, created_at
	`

	brands := a.Brands
	if brands == nil {
		brands = []string{}
	}

	err := q.QueryRowContext(ctx, query,
		a.Type,
		a.OwnerID,
		a.Price,
		a.ConnectorType,
		brands,
		a.Location,
		a.Status,
	).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating announcement: %w", err)
	}

	return nil
}

func (s *Store) CreateAnnouncement(ctx context.Context, a *announcement.Announcement) error {
	return insert(ctx, s.db, a)
}

func (s *Store) GetAnnouncement(ctx context.Context, id uuid.UUID) (*announcement.Announcement, error) {
	query := `SELECT ` + selectAnnouncementColumns + ` FROM announcements a WHERE a.id = $1`

	a, err := scanAnnouncement(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, announcement.ErrNotFound
		}

		return nil, fmt.Errorf("getting announcement: %w", err)
	}

	return a, nil
}

func (s *Store) GetActive(ctx context.Context, ownerID int64, t announcement.Type) (*announcement.Announcement, error) {
	query := `SELECT ` + selectAnnouncementColumns + `
		FROM announcements a
		WHERE a.owner_id = $1 AND a.type = $2 AND a.status = $3
		ORDER BY a.created_at DESC
		LIMIT 1
	`

	a, err := scanAnnouncement(s.db.QueryRowContext(ctx, query, ownerID, t, announcement.StatusActive))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("getting active announcement: %w", err)
	}

	return a, nil
}

func listingLockKey(ownerID int64, t announcement.Type) int64 {
	h := fnv.New64a()
	h.Write([]byte(strconv.FormatInt(ownerID, 10)))
	h.Write([]byte{0})
	h.Write([]byte(t))

	return int64(h.Sum64())
}

type listingTx struct {
	tx *sql.Tx
}

func (s *Store) BeginListing(ctx context.Context, ownerID int64, t announcement.Type) (announcement.ListingTx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning listing tx: %w", err)
	}

	if _, err := dbTx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", listingLockKey(ownerID, t)); err != nil {
		dbTx.Rollback()
		return nil, fmt.Errorf("acquiring listing lock: %w", err)
	}

	return &listingTx{tx: dbTx}, nil
}

func (ltx *listingTx) Commit() error   { return ltx.tx.Commit() }
func (ltx *listingTx) Rollback() error { return ltx.tx.Rollback() }

func (ltx *listingTx) ArchiveActive(ctx context.Context, ownerID int64, t announcement.Type) error {
	query := `
		UPDATE announcements
		SET status = $1, updated_at = NOW()
		WHERE owner_id = $2 AND type = $3 AND status = $4
	`

	if _, err := ltx.tx.ExecContext(ctx, query, announcement.StatusArchived, ownerID, t, announcement.StatusActive); err != nil {
		return fmt.Errorf("archiving active announcement: %w", err)
	}

	return nil
}

func (ltx *listingTx) CreateAnnouncement(ctx context.Context, a *announcement.Announcement) error {
	return insert(ctx, ltx.tx, a)
}

func (ltx *listingTx) SetStatus(ctx context.Context, id uuid.UUID, status announcement.Status) error {
	query := `UPDATE announcements SET status = $1, updated_at = NOW() WHERE id = $2`

	res, err := ltx.tx.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("updating announcement status: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating announcement status: %w", err)
	}

	if n == 0 {
		return announcement.ErrNotFound
	}

	return nil
}

// activeColumn names the users column pointing at the owner's active listing of type t.
func activeColumn(t announcement.Type) string {
	if t == announcement.TypeBuy {
		return "active_buy_announcement"
	}

	return "active_sell_announcement"
}

func (ltx *listingTx) SetActivePointer(ctx context.Context, ownerID int64, t announcement.Type, id uuid.UUID) error {
	query := `UPDATE users SET ` + activeColumn(t) + ` = $1, updated_at = NOW() WHERE user_id = $2`

	if _, err := ltx.tx.ExecContext(ctx, query, id, ownerID); err != nil {
		return fmt.Errorf("updating active announcement pointer: %w", err)
	}

	return nil
}

func (ltx *listingTx) ClearActivePointer(ctx context.Context, ownerID int64, t announcement.Type, id uuid.UUID) error {
	column := activeColumn(t)
	query := `UPDATE users SET ` + column + ` = NULL, updated_at = NOW() WHERE user_id = $1 AND ` + column + ` = $2`

	if _, err := ltx.tx.ExecContext(ctx, query, ownerID, id); err != nil {
		return fmt.Errorf("clearing active announcement pointer: %w", err)
	}

	return nil
}
