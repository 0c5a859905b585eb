package canon

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeForSearch prepares text for the keyword index: compatibility
// Unicode normalization (full-width and half-width forms collapse),
// removal of ASCII and full-width spaces, then upper-casing. Keywords go
// through the same transform, so search is case- and space-insensitive.
func NormalizeForSearch(value string) string {
	text := norm.NFKC.String(value)
	text = strings.ReplaceAll(text, " ", "")
	text = strings.ReplaceAll(text, "　", "")
	return strings.ToUpper(text)
}

// buildIndex concatenates every column of a row, normalized, in a fixed
// order: the canonical fields first, then each raw source cell. A
// keyword therefore may match across what were originally two adjacent
// fields. The index column itself is never part of its own input, so a
// stale search_index column in the source is skipped.
func buildIndex(tx Transaction, rawType string, row, columns []string) string {
	var b strings.Builder
	for _, v := range []string{
		tx.Date,
		rawType,
		tx.LedgerType,
		tx.Counterparty,
		tx.Item,
		FormatNumber(tx.Amount),
		FormatNumber(tx.Quantity),
		FormatNumber(tx.UnitPrice),
		tx.DocumentID,
		tx.Memo,
		tx.TypeNorm,
	} {
		b.WriteString(NormalizeForSearch(v))
	}
	for i, cell := range row {
		if i < len(columns) && columns[i] == "search_index" {
			continue
		}
		b.WriteString(NormalizeForSearch(cell))
	}
	return b.String()
}
