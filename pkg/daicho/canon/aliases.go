package canon

// Canonical column resolution. Each canonical field accepts an ordered
// list of source column names; the first name present in the source
// wins. A field with no match is simply absent (position -1), not an
// error. Adding a new source schema is a data change here.

var fieldAliases = map[string][]string{
	"date":         {"date", "日付", "伝票日付", "transaction_date"},
	"type":         {"type", "種別", "区分", "ledger_type", "entry_type"},
	"counterparty": {"counterparty", "相手先", "得意先", "仕入先", "supplier_name", "customer_name"},
	"item":         {"item", "品目", "摘要", "品名", "description"},
	"amount":       {"amount", "金額", "税込金額", "税抜金額"},
	"quantity":     {"quantity", "数量"},
	"unit_price":   {"unit_price", "単価"},
	"document_id":  {"document_id", "伝票番号", "請求番号"},
}

var referenceColumns = []string{
	"reference_1", "reference_2", "reference_3", "reference_4", "reference_5",
}

// resolved holds source column positions for one table build, so row
// processing never repeats string comparisons.
type resolved struct {
	date         int
	typ          int
	counterparty int
	item         int
	amount       int
	quantity     int
	unitPrice    int
	documentID   int

	ledgerType   int
	entryType    int
	quantityNote int
	payment      int
	references   []int
}

func resolve(columns []string) resolved {
	pos := make(map[string]int, len(columns))
	for i, name := range columns {
		if _, ok := pos[name]; !ok {
			pos[name] = i
		}
	}

	find := func(field string) int {
		for _, alias := range fieldAliases[field] {
			if i, ok := pos[alias]; ok {
				return i
			}
		}
		return -1
	}
	direct := func(name string) int {
		if i, ok := pos[name]; ok {
			return i
		}
		return -1
	}

	res := resolved{
		date:         find("date"),
		typ:          find("type"),
		counterparty: find("counterparty"),
		item:         find("item"),
		amount:       find("amount"),
		quantity:     find("quantity"),
		unitPrice:    find("unit_price"),
		documentID:   find("document_id"),
		ledgerType:   direct("ledger_type"),
		entryType:    direct("entry_type"),
		quantityNote: direct("quantity_note"),
		payment:      direct("payment"),
	}
	for _, name := range referenceColumns {
		if i := direct(name); i >= 0 {
			res.references = append(res.references, i)
		}
	}
	return res
}
