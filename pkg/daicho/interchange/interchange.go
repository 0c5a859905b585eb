// Package interchange reads and writes the tab-delimited file format
// exchanged between the row classifier and the canonicalizer: UTF-8 with
// a byte-order mark, a fixed header row, one data row per ledger entry.
package interchange

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/cognicore/daicho/pkg/daicho/ledger"
)

// Header is the exact column set, in order. Both ledger variants emit
// the same columns; only the upstream cell positions differ.
var Header = []string{
	"ledger_type",
	"supplier_name",
	"entry_type",
	"block_index",
	"line_in_block",
	"source_line",
	"transaction_date",
	"description",
	"description_raw",
	"reference_1",
	"reference_2",
	"reference_3",
	"reference_4",
	"reference_5",
	"quantity",
	"quantity_note",
	"unit",
	"tax_rate",
	"unit_price",
	"amount",
	"payment",
}

const bom = "\ufeff"

// Write emits the interchange file for a slice of entries.
func Write(w io.Writer, entries []ledger.Entry) error {
	if _, err := io.WriteString(w, bom); err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	cw.Comma = '\t'
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, e := range entries {
		if err := cw.Write(record(e)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func record(e ledger.Entry) []string {
	row := make([]string, 0, len(Header))
	row = append(row,
		string(e.Variant),
		e.SupplierName,
		string(e.Kind),
		strconv.Itoa(e.BlockIndex),
		strconv.Itoa(e.LineInBlock),
		strconv.Itoa(e.SourceLine),
		e.Date,
		e.Description,
		e.DescriptionRaw,
	)
	row = append(row, e.References[:]...)
	row = append(row,
		e.Quantity,
		e.QuantityNote,
		e.Unit,
		e.TaxRate,
		e.UnitPrice,
		e.Amount,
		e.Payment,
	)
	return row
}

// Table is a parsed interchange file: a header plus data rows, kept as
// raw strings for the canonicalizer to interpret.
type Table struct {
	Columns []string
	Rows    [][]string
}

// Read parses an interchange file, tolerating a leading byte-order mark
// and rows of uneven width.
func Read(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read interchange: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("read interchange: empty file")
	}

	columns := records[0]
	if len(columns) > 0 {
		columns[0] = strings.TrimPrefix(columns[0], bom)
	}
	return &Table{Columns: columns, Rows: records[1:]}, nil
}

// ReadFile parses the interchange file at path.
func ReadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f)
}

// Merge combines two interchange files into dst: the first file's full
// content followed by the second file's data rows with its header
// dropped. Column order must be identical across both files.
func Merge(dst string, first, second string) error {
	firstData, err := os.ReadFile(first)
	if err != nil {
		return fmt.Errorf("merge interchange: %w", err)
	}
	secondData, err := os.ReadFile(second)
	if err != nil {
		return fmt.Errorf("merge interchange: %w", err)
	}

	out := bytes.Clone(firstData)
	if len(out) > 0 && out[len(out)-1] != '\n' {
		out = append(out, '\n')
	}
	if i := bytes.IndexByte(secondData, '\n'); i >= 0 {
		out = append(out, secondData[i+1:]...)
	}

	return os.WriteFile(dst, out, 0o644)
}
