package daicho

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/cognicore/daicho/pkg/daicho/interchange"
	"github.com/cognicore/daicho/pkg/daicho/internalerr"
	"github.com/cognicore/daicho/pkg/daicho/ledger"
	"github.com/cognicore/daicho/pkg/daicho/query"
)

func writeInterchange(t *testing.T, path string, entries []ledger.Entry) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := interchange.Write(f, entries); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
}

func sampleEntries() []ledger.Entry {
	return []ledger.Entry{
		{
			Variant:      ledger.Payables,
			SupplierName: "山田商店",
			Kind:         ledger.KindSupplierHeader,
			BlockIndex:   1,
			LineInBlock:  1,
			SourceLine:   1,
		},
		{
			Variant:      ledger.Payables,
			SupplierName: "山田商店",
			Kind:         ledger.KindDetail,
			BlockIndex:   1,
			LineInBlock:  2,
			SourceLine:   2,
			Date:         "2024-03-05",
			Description:  "部品一式",
			References:   [ledger.ReferenceCount]string{"INV", "2024"},
			Quantity:     "4",
			Amount:       "1000",
		},
		{
			Variant:      ledger.Payables,
			SupplierName: "山田商店",
			Kind:         ledger.KindPayment,
			BlockIndex:   1,
			LineInBlock:  3,
			SourceLine:   3,
			Date:         "2024-03-31",
			Description:  "支払",
			Payment:      "1000",
		},
	}
}

func newTestEngine(t *testing.T, dataFile string) *Engine {
	t.Helper()
	return New(Options{
		DataFile: dataFile,
		Log:      zerolog.Nop(),
	})
}

func TestLoadMissingDataFile(t *testing.T) {
	e := newTestEngine(t, filepath.Join(t.TempDir(), "absent.tsv"))

	_, err := e.Load(false)
	if !errors.Is(err, internalerr.ErrNoData) {
		t.Errorf("Load() = %v, want ErrNoData", err)
	}
}

func TestLoadAndQuery(t *testing.T) {
	dataFile := filepath.Join(t.TempDir(), "normalized_ledgers.tsv")
	writeInterchange(t, dataFile, sampleEntries())

	e := newTestEngine(t, dataFile)

	records, err := e.Query(query.Filters{})
	if err != nil {
		t.Fatal(err)
	}
	// The supplier header row is dropped; detail and payment survive.
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0].DateISO != "2024-03-31" {
		t.Errorf("records[0].DateISO = %q, want newest first", records[0].DateISO)
	}
	if records[1].Counterparty != "山田商店" {
		t.Errorf("Counterparty = %q, want supplier carried onto detail rows", records[1].Counterparty)
	}
	if records[1].DocumentID != "INV-2024" {
		t.Errorf("DocumentID = %q, want reference fallback %q", records[1].DocumentID, "INV-2024")
	}
}

func TestLoadCachesSnapshot(t *testing.T) {
	dataFile := filepath.Join(t.TempDir(), "normalized_ledgers.tsv")
	writeInterchange(t, dataFile, sampleEntries())

	e := newTestEngine(t, dataFile)
	first, err := e.Load(false)
	if err != nil {
		t.Fatal(err)
	}
	second, err := e.Load(false)
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Error("Load(false) should return the cached snapshot")
	}
}

func TestForceLoadPicksUpNewData(t *testing.T) {
	dataFile := filepath.Join(t.TempDir(), "normalized_ledgers.tsv")
	writeInterchange(t, dataFile, sampleEntries())

	e := newTestEngine(t, dataFile)
	if _, err := e.Load(false); err != nil {
		t.Fatal(err)
	}

	writeInterchange(t, dataFile, sampleEntries()[:2])

	table, err := e.Load(true)
	if err != nil {
		t.Fatal(err)
	}
	if len(table.Transactions) != 1 {
		t.Errorf("got %d transactions after forced reload, want 1", len(table.Transactions))
	}
}

func TestRebuildKeepsSnapshotOnFailure(t *testing.T) {
	dir := t.TempDir()
	dataFile := filepath.Join(dir, "normalized_ledgers.tsv")
	writeInterchange(t, dataFile, sampleEntries())

	e := New(Options{
		DataFile:     dataFile,
		PurchasePath: filepath.Join(dir, "no-purchase"),
		SalesPath:    filepath.Join(dir, "no-sales"),
		Classifier:   []string{"daicho-classify"},
		Log:          zerolog.Nop(),
	})

	before, err := e.Load(false)
	if err != nil {
		t.Fatal(err)
	}

	if err := e.Rebuild(context.Background()); !errors.Is(err, internalerr.ErrMissingSource) {
		t.Fatalf("Rebuild() = %v, want ErrMissingSource", err)
	}

	after, err := e.Load(false)
	if err != nil {
		t.Fatal(err)
	}
	if before != after {
		t.Error("failed rebuild must leave the previous snapshot in place")
	}
}

func TestQueryFiltersApply(t *testing.T) {
	dataFile := filepath.Join(t.TempDir(), "normalized_ledgers.tsv")
	writeInterchange(t, dataFile, sampleEntries())

	e := newTestEngine(t, dataFile)

	records, err := e.Query(query.Filters{Keyword: "部品"})
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 || records[0].Item != "部品一式" {
		t.Errorf("keyword query returned %v, want only the detail row", records)
	}
}
