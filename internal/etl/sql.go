package etl

import (
	"context"
	"database/sql"

	pkgerrors "github.com/pkg/errors"

	"github.com/BartekS5/uncoupledetl/pkg/database"
	"github.com/BartekS5/uncoupledetl/pkg/etlerrors"
	"github.com/BartekS5/uncoupledetl/pkg/models"
)

// LoadToDatabase writes records into a relational target. The schema reset
// and every insert share one transaction committed once at the end, so a
// failure leaves the target as it was.
func LoadToDatabase[T models.Row](ctx context.Context, records []T, target string) error {
	t, err := database.ParseTarget(target)
	if err != nil {
		return etlerrors.NewPersistenceError("connect", target, err)
	}
	name := t.Redacted()

	db, err := database.OpenSQL(ctx, t)
	if err != nil {
		return etlerrors.NewPersistenceError("connect", name, err)
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return etlerrors.NewPersistenceError("begin", name, err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var zero T
	table, cols := zero.TableName(), zero.Columns()

	// 1. Reset schema
	if err := resetTable(ctx, tx, t.Dialect, table, cols); err != nil {
		return etlerrors.NewPersistenceError("reset", name, err)
	}

	// 2. Insert batch
	if err := insertRows(ctx, tx, t.Dialect, table, cols, records); err != nil {
		return etlerrors.NewPersistenceError("insert", name, err)
	}

	// 3. Commit once
	if err := tx.Commit(); err != nil {
		return etlerrors.NewPersistenceError("commit", name, err)
	}
	committed = true
	return nil
}

func resetTable(ctx context.Context, tx *sql.Tx, d database.Dialect, table string, cols []models.Column) error {
	if _, err := tx.ExecContext(ctx, d.DropTableSQL(table)); err != nil {
		return pkgerrors.WithMessage(err, "drop table")
	}
	if _, err := tx.ExecContext(ctx, d.CreateTableSQL(table, cols)); err != nil {
		return pkgerrors.WithMessage(err, "create table")
	}
	return nil
}

func insertRows[T models.Row](ctx context.Context, tx *sql.Tx, d database.Dialect, table string, cols []models.Column, records []T) error {
	if len(records) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, d.InsertSQL(table, cols))
	if err != nil {
		return pkgerrors.WithMessage(err, "prepare insert")
	}
	defer stmt.Close()

	for i, r := range records {
		if _, err := stmt.ExecContext(ctx, r.Values()...); err != nil {
			return pkgerrors.WithMessagef(err, "row %d", i)
		}
	}
	return nil
}
