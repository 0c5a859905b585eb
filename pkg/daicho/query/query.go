// Package query answers read queries against a canonical transaction
// table: conjunctive optional filters, stable ordering and projection
// into display records with the two derived fields.
package query

import (
	"sort"
	"strings"

	"github.com/cognicore/daicho/pkg/daicho/canon"
)

// Filters are the optional query parameters, applied conjunctively.
// A filter with unparsable input is skipped, never an error.
type Filters struct {
	StartDate    string   // inclusive lower bound on the parsed date
	EndDate      string   // inclusive upper bound on the parsed date
	Types        []string // set membership against the normalized type
	Keyword      string   // substring match against the search index
	DocumentID   string   // exact match
	DocumentDate string   // exact match against the parsed date
}

// itemMemoSeparator joins item and memo in the derived item_memo field.
const itemMemoSeparator = "<br />"

// Record is one projected output row. Absent values render as empty
// strings, never as a null marker.
type Record struct {
	Date         string  `json:"date"`
	DateISO      string  `json:"date_iso"`
	LedgerType   string  `json:"ledger_type"`
	TypeNorm     string  `json:"type_norm"`
	DocumentID   string  `json:"document_id"`
	Counterparty string  `json:"counterparty"`
	Item         string  `json:"item"`
	Quantity     string  `json:"quantity"`
	UnitPrice    string  `json:"unit_price"`
	Amount       string  `json:"amount"`
	Memo         string  `json:"memo"`
	ItemMemo     string  `json:"item_memo"`
	TotalAmount  float64 `json:"total_amount"`
}

// Run filters, sorts and projects the table. The table is read-only; the
// result is freshly allocated.
func Run(table *canon.Table, f Filters) []Record {
	if table == nil {
		return nil
	}

	matched := filter(table, f)
	sortTransactions(matched)

	records := make([]Record, len(matched))
	for i, tx := range matched {
		records[i] = project(tx, table.HasPayment)
	}
	return records
}

func filter(table *canon.Table, f Filters) []canon.Transaction {
	start, hasStart := canon.ParseDate(f.StartDate)
	end, hasEnd := canon.ParseDate(f.EndDate)
	docDate, hasDocDate := canon.ParseDate(f.DocumentDate)
	keyword := canon.NormalizeForSearch(f.Keyword)

	types := make(map[string]bool, len(f.Types))
	for _, t := range f.Types {
		types[t] = true
	}

	var out []canon.Transaction
	for _, tx := range table.Transactions {
		if hasStart && (!tx.HasDate || tx.DateParsed.Before(start)) {
			continue
		}
		if hasEnd && (!tx.HasDate || tx.DateParsed.After(end)) {
			continue
		}
		if len(types) > 0 && !types[tx.TypeNorm] {
			continue
		}
		if keyword != "" && !strings.Contains(tx.SearchIndex, keyword) {
			continue
		}
		if f.DocumentID != "" && tx.DocumentID != f.DocumentID {
			continue
		}
		if hasDocDate && (!tx.HasDate || !tx.DateParsed.Equal(docDate)) {
			continue
		}
		out = append(out, tx)
	}
	return out
}

// sortTransactions orders by parsed date descending, ties broken by
// document id ascending. Rows without a parsed date sort last.
func sortTransactions(txs []canon.Transaction) {
	sort.SliceStable(txs, func(i, j int) bool {
		a, b := txs[i], txs[j]
		switch {
		case a.HasDate != b.HasDate:
			return a.HasDate
		case a.HasDate && !a.DateParsed.Equal(b.DateParsed):
			return a.DateParsed.After(b.DateParsed)
		}
		return a.DocumentID < b.DocumentID
	})
}

func project(tx canon.Transaction, hasPayment bool) Record {
	r := Record{
		Date:         tx.Date,
		LedgerType:   tx.LedgerType,
		TypeNorm:     tx.TypeNorm,
		DocumentID:   tx.DocumentID,
		Counterparty: tx.Counterparty,
		Item:         tx.Item,
		Quantity:     canon.FormatNumber(tx.Quantity),
		UnitPrice:    canon.FormatNumber(tx.UnitPrice),
		Amount:       canon.FormatNumber(tx.Amount),
		Memo:         tx.Memo,
		ItemMemo:     joinItemMemo(tx.Item, tx.Memo),
		TotalAmount:  totalAmount(tx, hasPayment),
	}
	if tx.HasDate {
		r.DateISO = tx.DateParsed.Format("2006-01-02")
	}
	return r
}

// joinItemMemo combines item and memo with the line-break marker,
// omitting either side when blank.
func joinItemMemo(item, memo string) string {
	item = strings.TrimSpace(item)
	memo = strings.TrimSpace(memo)
	switch {
	case item == "":
		return memo
	case memo == "":
		return item
	}
	return item + itemMemoSeparator + memo
}

// totalAmount sums amount and payment, treating absent values as zero
// for this sum only. Without a payment column in the source the amount
// stands alone.
func totalAmount(tx canon.Transaction, hasPayment bool) float64 {
	var total float64
	if tx.Amount != nil {
		total = *tx.Amount
	}
	if hasPayment && tx.Payment != nil {
		total += *tx.Payment
	}
	return total
}
