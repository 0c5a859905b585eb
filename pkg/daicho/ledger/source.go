package ledger

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ResolveEncoding maps a source encoding name to a decoder. The legacy
// exports default to CP932 (Windows Shift-JIS).
func ResolveEncoding(name string) (encoding.Encoding, error) {
	switch strings.ToLower(strings.ReplaceAll(name, "-", "_")) {
	case "", "cp932", "shift_jis", "sjis", "windows_31j":
		return japanese.ShiftJIS, nil
	case "euc_jp", "eucjp":
		return japanese.EUCJP, nil
	case "utf_8", "utf8":
		return unicode.UTF8, nil
	default:
		return nil, fmt.Errorf("unknown source encoding %q", name)
	}
}

// ReadSource decodes a raw ledger export and splits it into rows of
// cells. Every physical line yields one row, including blank ones, so
// source line numbers stay traceable. Rows may have any number of cells;
// padding happens later in the normalizer.
func ReadSource(r io.Reader, encodingName string) ([][]string, error) {
	enc, err := ResolveEncoding(encodingName)
	if err != nil {
		return nil, err
	}

	data, err := io.ReadAll(transform.NewReader(r, enc.NewDecoder()))
	if err != nil {
		return nil, fmt.Errorf("read ledger source: %w", err)
	}

	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return nil, nil
	}

	lines := strings.Split(text, "\n")
	rows := make([][]string, 0, len(lines))
	for i, line := range lines {
		row, err := parseLine(line)
		if err != nil {
			return nil, fmt.Errorf("read ledger source line %d: %w", i+1, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// parseLine splits one comma-separated line into cells. A blank line is
// an empty row, not a dropped one.
func parseLine(line string) ([]string, error) {
	if line == "" {
		return nil, nil
	}
	cr := csv.NewReader(strings.NewReader(line))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = false
	return cr.Read()
}
