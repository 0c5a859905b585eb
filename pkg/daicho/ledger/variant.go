package ledger

import "strings"

// Variant identifies which of the two source ledger layouts a file uses.
// The label doubles as the ledger_type value in the interchange output.
type Variant string

const (
	// Payables is the 買掛 (accounts payable) ledger.
	Payables Variant = "買掛"
	// Receivables is the 売掛 (accounts receivable) ledger.
	Receivables Variant = "売掛"
)

// DetectVariant guesses the ledger variant from a source filename.
// Files mentioning 売 are receivables, files mentioning 買 are payables;
// anything else defaults to payables.
func DetectVariant(filename string) Variant {
	if strings.Contains(filename, "売") {
		return Receivables
	}
	return Payables
}

// fieldMap fixes which source cell feeds each numeric field for a variant.
// The offsets encode the two legacy row layouts and are not inferable from
// column names; do not derive them from anything else.
type fieldMap struct {
	quantity     int
	quantityNote [2]int // first position with a non-blank sanitized value wins; -1 = unused
	unit         int
	taxRate      int
	unitPrice    int
	amount       int
	payment      [2]int // both positions combined into one payment value; -1 = unused
}

var fieldMaps = map[Variant]fieldMap{
	Payables: {
		quantity:     9,
		quantityNote: [2]int{10, -1},
		unit:         11,
		taxRate:      12,
		unitPrice:    13,
		amount:       14,
		payment:      [2]int{15, -1},
	},
	Receivables: {
		quantity:     11,
		quantityNote: [2]int{9, 10},
		unit:         13,
		taxRate:      12,
		unitPrice:    14,
		amount:       15,
		payment:      [2]int{16, 17},
	},
}

// descriptionCandidates lists, per variant, the cell positions tried in
// order when picking the description cell.
var descriptionCandidates = map[Variant][]int{
	Payables:    {3, 4, 5, 6, 7, 8},
	Receivables: {5, 6, 3, 4, 7, 8},
}
