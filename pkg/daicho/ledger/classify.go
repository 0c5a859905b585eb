package ledger

import "strings"

// Entry-kind policy as an ordered rule table. Rules are evaluated
// top-to-bottom; the first match wins.
type kindRule struct {
	match func(desc string) bool
	kind  Kind
}

// headerRules apply when the code cell (position 0) is blank and a
// description was found. Falls through to KindSupplierHeader.
var headerRules = []kindRule{
	{matchContains("繰 越 残 高"), KindOpeningBalance},
	{matchContainsAny("計", "―", "残高"), KindSummary},
}

// bodyRules apply to every other row, against the description with
// full-width spaces removed. Falls through to KindDetail.
var bodyRules = []kindRule{
	{matchPaymentLabel, KindPayment},
	{matchContains("消費税"), KindTax},
}

func matchContains(sub string) func(string) bool {
	return func(s string) bool { return strings.Contains(s, sub) }
}

func matchContainsAny(subs ...string) func(string) bool {
	return func(s string) bool {
		for _, sub := range subs {
			if strings.Contains(s, sub) {
				return true
			}
		}
		return false
	}
}

// 支払 marks a payment row unless the label is a subtotal (計) or a
// carry-over (繰越).
func matchPaymentLabel(s string) bool {
	return strings.Contains(s, "支払") &&
		!strings.Contains(s, "計") &&
		!strings.Contains(s, "繰越")
}

// classifyKind assigns an entry kind from the row's code cell and the
// selected description. It always yields a kind; malformed rows end up
// as KindDetail.
func classifyKind(row []string, desc string) Kind {
	if strings.TrimSpace(row[0]) == "" && desc != "" {
		for _, r := range headerRules {
			if r.match(desc) {
				return r.kind
			}
		}
		return KindSupplierHeader
	}

	label := strings.ReplaceAll(desc, "　", "")
	for _, r := range bodyRules {
		if r.match(label) {
			return r.kind
		}
	}
	return KindDetail
}
