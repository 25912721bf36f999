package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

type beginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Transactor runs a function inside a database transaction. The open
// transaction rides on the context, so repositories called from fn issue
// their statements against it and the writes commit or roll back as one.
type Transactor struct {
	db beginner
}

func NewTransactor(db beginner) *Transactor {
	return &Transactor{db: db}
}

// InTx begins a transaction, runs fn with the transaction on the context,
// and commits. Any error from fn rolls everything back.
func (t *Transactor) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	tx, err := t.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(WithConn(ctx, tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
