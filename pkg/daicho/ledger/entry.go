// Package ledger turns raw positional rows from the legacy accounting
// exports into typed ledger entries: it classifies each row, selects the
// description cell, extracts the transaction date and sanitizes the
// numeric fields according to the variant's fixed column layout.
package ledger

// Kind classifies what a ledger row represents.
type Kind string

const (
	KindSupplierHeader Kind = "supplier_header"
	KindDetail         Kind = "detail"
	KindPayment        Kind = "payment"
	KindTax            Kind = "tax"
	KindSummary        Kind = "summary"
	KindOpeningBalance Kind = "opening_balance"
)

// ReferenceCount is the fixed number of leftover positional cells carried
// on every entry.
const ReferenceCount = 5

// Entry is one classified ledger row. String fields hold sanitized text,
// not parsed numbers; parsing happens during canonicalization.
type Entry struct {
	Variant        Variant
	SupplierName   string // carried forward from the most recent header row
	Kind           Kind
	BlockIndex     int // increments at each header row
	LineInBlock    int // resets to 0 at each header row
	SourceLine     int // 1-based line in the source file, for traceability
	Date           string
	Description    string
	DescriptionRaw string
	References     [ReferenceCount]string
	Quantity       string
	QuantityNote   string
	Unit           string
	TaxRate        string
	UnitPrice      string
	Amount         string
	Payment        string
}
