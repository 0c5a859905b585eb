package ledger

import (
	"fmt"
	"strconv"
	"strings"
)

// minColumns is the minimum row width; shorter rows are padded with empty
// cells so positional access never goes out of range.
const minColumns = 18

// Normalizer converts raw rows of one ledger file into entries, carrying
// the supplier name and block/line counters across calls.
type Normalizer struct {
	variant    Variant
	fields     fieldMap
	candidates []int

	supplier    string
	blockIndex  int
	lineInBlock int
	sourceLine  int
}

// NewNormalizer creates a normalizer for the given ledger variant.
func NewNormalizer(v Variant) *Normalizer {
	return &Normalizer{
		variant:    v,
		fields:     fieldMaps[v],
		candidates: descriptionCandidates[v],
	}
}

// Next classifies the next raw row. It returns ok=false for rows with no
// non-blank cell, which are skipped entirely (the source line counter
// still advances).
func (n *Normalizer) Next(raw []string) (Entry, bool) {
	n.sourceLine++
	row := padRow(raw)

	descRaw, desc, descIdx := selectDescription(row, n.candidates)

	if blankRow(row) {
		return Entry{}, false
	}

	kind := classifyKind(row, desc)
	if kind == KindSupplierHeader {
		n.supplier = desc
		n.blockIndex++
		n.lineInBlock = 0
	} else {
		n.lineInBlock++
	}

	e := Entry{
		Variant:        n.variant,
		SupplierName:   n.supplier,
		Kind:           kind,
		BlockIndex:     n.blockIndex,
		LineInBlock:    n.lineInBlock,
		SourceLine:     n.sourceLine,
		Date:           extractDate(row),
		Description:    desc,
		DescriptionRaw: descRaw,
		References:     collectReferences(row, descIdx),
	}

	f := n.fields
	e.Quantity = sanitizeNumeric(row[f.quantity])
	e.QuantityNote = firstNumeric(row, f.quantityNote)
	e.Unit = strings.TrimSpace(row[f.unit])
	e.TaxRate = sanitizeNumeric(row[f.taxRate])
	e.UnitPrice = sanitizeNumeric(row[f.unitPrice])
	e.Amount = sanitizeNumeric(row[f.amount])
	e.Payment = combineNumeric(row, f.payment)

	return e, true
}

// NormalizeAll runs Next over every row, dropping the skipped ones.
func (n *Normalizer) NormalizeAll(rows [][]string) []Entry {
	entries := make([]Entry, 0, len(rows))
	for _, row := range rows {
		if e, ok := n.Next(row); ok {
			entries = append(entries, e)
		}
	}
	return entries
}

func padRow(row []string) []string {
	if len(row) >= minColumns {
		return row
	}
	padded := make([]string, minColumns)
	copy(padded, row)
	return padded
}

func blankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// selectDescription tries the variant's candidate positions in order and
// returns the first non-blank cell, falling back to the first non-blank
// cell anywhere in the row. Index -1 means no description was found.
func selectDescription(row []string, candidates []int) (raw, trimmed string, idx int) {
	for _, i := range candidates {
		if i < len(row) {
			if t := strings.TrimSpace(row[i]); t != "" {
				return row[i], t, i
			}
		}
	}
	for i, cell := range row {
		if t := strings.TrimSpace(cell); t != "" {
			return cell, t, i
		}
	}
	return "", "", -1
}

// referencePositions are walked in order when collecting leftover cells.
var referencePositions = []int{3, 4, 5, 6, 7, 8, 9}

// collectReferences gathers up to ReferenceCount leftover cells, skipping
// the cell already used for the description. The result always has
// exactly ReferenceCount values, padded with empty strings.
func collectReferences(row []string, descIdx int) [ReferenceCount]string {
	var refs [ReferenceCount]string
	count := 0
	for _, i := range referencePositions {
		if i == descIdx {
			continue
		}
		if i < len(row) {
			refs[count] = strings.TrimSpace(row[i])
		}
		count++
		if count == ReferenceCount {
			break
		}
	}
	return refs
}

// sanitizeNumeric trims a raw cell and strips thousands separators.
// Empty input yields empty output, never a parse failure.
func sanitizeNumeric(value string) string {
	return strings.ReplaceAll(strings.TrimSpace(value), ",", "")
}

func firstNumeric(row []string, positions [2]int) string {
	for _, i := range positions {
		if i < 0 {
			continue
		}
		if v := sanitizeNumeric(row[i]); v != "" {
			return v
		}
	}
	return ""
}

// combineNumeric merges the payment cells of a variant into one value.
// With a single populated cell the sanitized value passes through; with
// two parsable values they are summed.
func combineNumeric(row []string, positions [2]int) string {
	a := sanitizeNumeric(row[positions[0]])
	b := ""
	if positions[1] >= 0 {
		b = sanitizeNumeric(row[positions[1]])
	}
	switch {
	case a == "":
		return b
	case b == "":
		return a
	}
	fa, errA := strconv.ParseFloat(a, 64)
	fb, errB := strconv.ParseFloat(b, 64)
	if errA != nil || errB != nil {
		return a + b
	}
	return strconv.FormatFloat(fa+fb, 'f', -1, 64)
}

// extractDate combines the year/month/day fragments at positions 0-2
// into an ISO date, or empty if any fragment is missing or non-numeric.
func extractDate(row []string) string {
	year := strings.TrimSpace(row[0])
	month := strings.TrimSpace(row[1])
	day := strings.TrimSpace(row[2])
	if year == "" || month == "" || day == "" {
		return ""
	}
	y, err := strconv.Atoi(year)
	if err != nil {
		return ""
	}
	m, err := strconv.Atoi(month)
	if err != nil {
		return ""
	}
	d, err := strconv.Atoi(day)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%04d-%02d-%02d", y, m, d)
}
