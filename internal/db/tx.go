package db

import (
	"context"
	"database/sql"

	"github.com/sirupsen/logrus"
)

// WithTransaction runs fn inside a transaction, committing when fn returns
// nil and rolling back on error or panic.
func WithTransaction(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if r := recover(); r != nil {
			logrus.Warn("Panic occurred, rolling back transaction")
			_ = tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		logrus.WithError(err).Debug("Error occurred, rolling back transaction")
		return err
	}

	return tx.Commit()
}
