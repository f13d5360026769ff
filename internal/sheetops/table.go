package sheetops

import (
	"fmt"
	"strings"
)

// Table is an ordered grid of string cells. The first row of a sheet is
// conventionally the header; Normalize guarantees every row carries exactly
// len(Header) cells.
type Table struct {
	Header []string
	Rows   [][]string
}

// Normalize reconciles ragged rows against the header. Rows shorter than the
// header are padded with empty cells on the right; rows longer than the
// header grow it with synthesized Col_<n> labels. The header only ever grows
// across the pass.
func Normalize(header []string, rows [][]string) Table {
	hdr := append([]string(nil), header...)
	for _, row := range rows {
		for len(hdr) < len(row) {
			hdr = append(hdr, fmt.Sprintf("Col_%d", len(hdr)+1))
		}
	}

	body := make([][]string, len(rows))
	for i, row := range rows {
		r := make([]string, len(hdr))
		copy(r, row)
		body[i] = r
	}

	return Table{Header: hdr, Rows: body}
}

// Markdown renders the table as a fixed-width, pipe-delimited table.
func (t Table) Markdown() string {
	widths := make([]int, len(t.Header))
	for i, h := range t.Header {
		widths[i] = len(h)
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	var b strings.Builder
	writeRow := func(cells []string) {
		b.WriteString("|")
		for i, w := range widths {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			fmt.Fprintf(&b, " %-*s |", w, cell)
		}
		b.WriteString("\n")
	}

	writeRow(t.Header)
	b.WriteString("|")
	for _, w := range widths {
		b.WriteString(strings.Repeat("-", w+2))
		b.WriteString("|")
	}
	b.WriteString("\n")
	for _, row := range t.Rows {
		writeRow(row)
	}
	return strings.TrimRight(b.String(), "\n")
}

// ColumnLetters converts a 0-based column index to its spreadsheet letter
// reference (0 -> A, 25 -> Z, 26 -> AA).
func ColumnLetters(index int) string {
	n := index + 1
	var buf [8]byte
	i := len(buf)
	for n > 0 {
		n--
		i--
		buf[i] = byte('A' + n%26)
		n /= 26
	}
	return string(buf[i:])
}

// ColumnIndex is the inverse of ColumnLetters.
func ColumnIndex(letters string) (int, error) {
	letters = strings.ToUpper(strings.TrimSpace(letters))
	if letters == "" {
		return 0, fmt.Errorf("empty column")
	}

	col := 0
	for i := 0; i < len(letters); i++ {
		ch := letters[i]
		if ch < 'A' || ch > 'Z' {
			return 0, fmt.Errorf("invalid column %q", letters)
		}
		col = col*26 + int(ch-'A'+1)
	}
	return col - 1, nil
}
