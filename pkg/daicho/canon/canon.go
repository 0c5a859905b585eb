// Package canon merges interchange tables from both ledger variants into
// one canonical transaction table: it resolves differently named source
// columns onto a single column set, reconciles document ids, coerces and
// back-fills numeric fields, normalizes the ledger-type vocabulary and
// attaches a normalized search index to every row.
package canon

import (
	"strings"
	"time"

	"github.com/cognicore/daicho/pkg/daicho/interchange"
)

// Transaction is one canonical row. Numeric fields are nil when the
// source value was blank or unparsable, never zero.
type Transaction struct {
	Date         string    // raw date text from the source
	DateParsed   time.Time // valid only when HasDate
	HasDate      bool
	LedgerType   string
	TypeNorm     string // "purchase", "sale", a lower-cased token, or "unknown"
	Counterparty string
	Item         string
	Quantity     *float64
	UnitPrice    *float64
	Amount       *float64
	Payment      *float64
	DocumentID   string
	Memo         string // combined reference fragments and quantity note
	SearchIndex  string
}

// Table is the canonical transaction table. It is immutable once built;
// rebuilds replace the whole table.
type Table struct {
	Transactions []Transaction
	// HasPayment records whether the source carried a payment column,
	// which decides how total_amount is derived at query time.
	HasPayment bool
}

// nonTransactional entry kinds carry only supplier-name context, which
// is already propagated onto the surrounding rows; they are dropped from
// the canonical table.
var nonTransactional = map[string]bool{
	"supplier_header": true,
	"customer_header": true,
}

// Canonicalize builds the canonical table from a parsed interchange
// table. Column aliases are resolved once per build.
func Canonicalize(src *interchange.Table) *Table {
	res := resolve(src.Columns)

	table := &Table{
		Transactions: make([]Transaction, 0, len(src.Rows)),
		HasPayment:   res.payment >= 0,
	}

	for _, row := range src.Rows {
		if res.entryType >= 0 && nonTransactional[cell(row, res.entryType)] {
			continue
		}
		table.Transactions = append(table.Transactions, canonicalizeRow(row, res, src.Columns))
	}
	return table
}

func canonicalizeRow(row []string, res resolved, columns []string) Transaction {
	tx := Transaction{
		Date:         cell(row, res.date),
		Counterparty: cell(row, res.counterparty),
		Item:         cell(row, res.item),
		Quantity:     ParseNumber(cell(row, res.quantity)),
		UnitPrice:    ParseNumber(cell(row, res.unitPrice)),
		Amount:       ParseNumber(cell(row, res.amount)),
		Payment:      ParseNumber(cell(row, res.payment)),
	}

	tx.DateParsed, tx.HasDate = ParseDate(tx.Date)

	rawType := cell(row, res.typ)
	tx.TypeNorm = NormalizeType(rawType)
	tx.LedgerType = cell(row, res.ledgerType)
	if tx.LedgerType == "" {
		tx.LedgerType = rawType
	}

	tx.DocumentID = documentID(row, res)
	tx.Memo = combineMemo(row, res)

	// Back-fill unit price when amount and a non-zero quantity exist.
	if tx.UnitPrice == nil && tx.Amount != nil && tx.Quantity != nil && *tx.Quantity != 0 {
		price := *tx.Amount / *tx.Quantity
		tx.UnitPrice = &price
	}

	tx.SearchIndex = buildIndex(tx, rawType, row, columns)
	return tx
}

// documentID prefers the direct document-id column; when that is absent
// or blank, the non-blank reference fragments joined with "-" stand in.
func documentID(row []string, res resolved) string {
	if id := cell(row, res.documentID); id != "" {
		return id
	}
	var frags []string
	for _, i := range res.references {
		if v := cell(row, i); v != "" {
			frags = append(frags, v)
		}
	}
	return strings.Join(frags, "-")
}

// combineMemo joins the non-blank reference fragments and the quantity
// note, space-separated, in fixed order.
func combineMemo(row []string, res resolved) string {
	var parts []string
	for _, i := range res.references {
		if v := cell(row, i); v != "" {
			parts = append(parts, v)
		}
	}
	if v := cell(row, res.quantityNote); v != "" {
		parts = append(parts, v)
	}
	return strings.Join(parts, " ")
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// purchaseTokens and saleTokens are the closed vocabulary mapped onto
// the two normalized ledger types.
var purchaseTokens = map[string]bool{
	"買掛": true, "仕入": true,
	"Purchase": true, "purchase": true, "buy": true,
	"supplier_detail": true, "supplier_balance": true, "opening_balance": true,
}

var saleTokens = map[string]bool{
	"売掛": true, "販売": true,
	"Sales": true, "sales": true, "sale": true,
	"customer_detail": true, "customer_balance": true,
}

// NormalizeType collapses a ledger-type label to "purchase" or "sale".
// Unrecognized labels become their own lower-cased token; blank becomes
// "unknown".
func NormalizeType(value string) string {
	v := strings.TrimSpace(value)
	switch {
	case purchaseTokens[v]:
		return "purchase"
	case saleTokens[v]:
		return "sale"
	case v == "":
		return "unknown"
	default:
		return strings.ToLower(v)
	}
}
