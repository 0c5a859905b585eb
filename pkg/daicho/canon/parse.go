package canon

import (
	"strconv"
	"strings"
	"time"
)

// primaryDateLayout is the ISO form the classifier emits.
const primaryDateLayout = "2006-01-02"

// lenientDateLayouts are tried, in order, when the primary layout does
// not match. Go layout matching accepts zero-padded values for the
// unpadded reference forms.
var lenientDateLayouts = []string{
	"2006-1-2",
	"2006/1/2",
	"2006.1.2",
	"20060102",
	"2006年1月2日",
}

// ParseDate parses a date cell, primary strategy first, then the
// lenient layouts. Unparsable input yields ok=false, never an error.
func ParseDate(value string) (time.Time, bool) {
	v := strings.TrimSpace(value)
	if v == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(primaryDateLayout, v); err == nil {
		return t, true
	}
	for _, layout := range lenientDateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParseNumber coerces a cell to a number. Blank or unparsable values are
// nil, never zero. Thousands separators are tolerated.
func ParseNumber(value string) *float64 {
	v := strings.ReplaceAll(strings.TrimSpace(value), ",", "")
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil
	}
	return &f
}

// FormatNumber renders a parsed number back to text, with nil as the
// empty string.
func FormatNumber(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}
