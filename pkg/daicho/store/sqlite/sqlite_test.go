package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/cognicore/daicho/pkg/daicho/canon"
)

func num(f float64) *float64 { return &f }

func openTestStore(t *testing.T) *Store {
	t.Helper()
	ctx := context.Background()
	s, err := Open(ctx, filepath.Join(t.TempDir(), "export.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestReplaceAndCount(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	txs := []canon.Transaction{
		{
			Date: "2024-03-05", DateParsed: time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), HasDate: true,
			LedgerType: "買掛", TypeNorm: "purchase", Counterparty: "山田商店",
			Item: "部品一式", Quantity: num(4), Amount: num(1000), DocumentID: "INV-2024",
		},
		{Date: "", LedgerType: "売掛", TypeNorm: "sale", Counterparty: "鈴木物産"},
	}

	if err := s.Replace(ctx, txs); err != nil {
		t.Fatal(err)
	}
	n, err := s.Count(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("Count() = %d, want 2", n)
	}
}

func TestReplaceWipesPreviousRows(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	if err := s.Replace(ctx, make([]canon.Transaction, 5)); err != nil {
		t.Fatal(err)
	}
	if err := s.Replace(ctx, make([]canon.Transaction, 2)); err != nil {
		t.Fatal(err)
	}

	n, err := s.Count(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("Count() = %d, want 2 after replace", n)
	}
}

func TestAbsentNumericsStoredAsNull(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	txs := []canon.Transaction{
		{DocumentID: "with", Amount: num(0)},
		{DocumentID: "without"},
	}
	if err := s.Replace(ctx, txs); err != nil {
		t.Fatal(err)
	}

	var nulls int64
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM transactions WHERE amount IS NULL").Scan(&nulls)
	if err != nil {
		t.Fatal(err)
	}
	if nulls != 1 {
		t.Errorf("NULL amounts = %d, want 1: absent is NULL, explicit zero is 0", nulls)
	}

	var zero float64
	err = s.db.QueryRowContext(ctx,
		"SELECT amount FROM transactions WHERE document_id = 'with'").Scan(&zero)
	if err != nil {
		t.Fatal(err)
	}
	if zero != 0 {
		t.Errorf("stored amount = %v, want 0", zero)
	}
}

func TestDateISOColumn(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	txs := []canon.Transaction{
		{DocumentID: "d", DateParsed: time.Date(2024, 7, 9, 0, 0, 0, 0, time.UTC), HasDate: true},
	}
	if err := s.Replace(ctx, txs); err != nil {
		t.Fatal(err)
	}

	var iso string
	err := s.db.QueryRowContext(ctx,
		"SELECT date_iso FROM transactions WHERE document_id = 'd'").Scan(&iso)
	if err != nil {
		t.Fatal(err)
	}
	if iso != "2024-07-09" {
		t.Errorf("date_iso = %q, want 2024-07-09", iso)
	}
}
