package database

import (
	"context"
	"database/sql"
)

type txKey struct{}

// WithTx returns a context carrying tx. Stores that find it join tx instead of
// opening their own, and leave commit and rollback to its owner.
func WithTx(ctx context.Context, tx *sql.Tx) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

// TxFrom returns the transaction carried by ctx, if any.
func TxFrom(ctx context.Context) (*sql.Tx, bool) {
	tx, ok := ctx.Value(txKey{}).(*sql.Tx)
	return tx, ok && tx != nil
}
