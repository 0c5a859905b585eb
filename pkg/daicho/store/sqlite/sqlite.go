// Package sqlite exports the canonical transaction table into a SQLite
// database for downstream analysis. The engine itself never reads this
// database; it is a one-way dump.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/cognicore/daicho/pkg/daicho/canon"
)

// Store wraps the export database.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the export database with WAL mode enabled and
// the schema initialized.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}
	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS transactions (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	date TEXT,
	date_iso TEXT,
	ledger_type TEXT,
	type_norm TEXT,
	counterparty TEXT,
	item TEXT,
	quantity REAL,
	unit_price REAL,
	amount REAL,
	payment REAL,
	document_id TEXT,
	memo TEXT,
	search_index TEXT
);
CREATE INDEX IF NOT EXISTS idx_transactions_date_iso ON transactions(date_iso);
CREATE INDEX IF NOT EXISTS idx_transactions_type_norm ON transactions(type_norm);
CREATE INDEX IF NOT EXISTS idx_transactions_document_id ON transactions(document_id);
`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}

// Replace wipes the transactions table and inserts the given canonical
// rows in one database transaction. Absent numerics become NULL.
func (s *Store) Replace(ctx context.Context, txs []canon.Transaction) error {
	dbtx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer dbtx.Rollback()

	if _, err := dbtx.ExecContext(ctx, "DELETE FROM transactions"); err != nil {
		return err
	}

	stmt, err := dbtx.PrepareContext(ctx, `
INSERT INTO transactions (
	date, date_iso, ledger_type, type_norm, counterparty, item,
	quantity, unit_price, amount, payment, document_id, memo, search_index
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, tx := range txs {
		dateISO := ""
		if tx.HasDate {
			dateISO = tx.DateParsed.Format("2006-01-02")
		}
		_, err := stmt.ExecContext(ctx,
			tx.Date,
			dateISO,
			tx.LedgerType,
			tx.TypeNorm,
			tx.Counterparty,
			tx.Item,
			nullable(tx.Quantity),
			nullable(tx.UnitPrice),
			nullable(tx.Amount),
			nullable(tx.Payment),
			tx.DocumentID,
			tx.Memo,
			tx.SearchIndex,
		)
		if err != nil {
			return err
		}
	}

	return dbtx.Commit()
}

// Count reports the number of exported transactions.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM transactions").Scan(&n)
	return n, err
}

func nullable(f *float64) interface{} {
	if f == nil {
		return nil
	}
	return *f
}
