package sheetops

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	// tailWindow is the number of trailing data rows returned by tail reads.
	tailWindow = 20
	// tailColumnEdge bounds tail fetches on the right. The Sheets API needs a
	// closed column range here; ZZ (702 columns) is generous without pulling
	// the sheet's actual extent into the request.
	tailColumnEdge = "ZZ"
)

var bareSheetTitleRe = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// quoteSheetTitle wraps a sheet title in single quotes when A1 notation
// requires it, escaping embedded quotes by doubling them.
func quoteSheetTitle(title string) string {
	if bareSheetTitleRe.MatchString(title) {
		return title
	}
	return "'" + strings.ReplaceAll(title, "'", "''") + "'"
}

// tailStart computes the first body row of a tail fetch. Row 1 is always
// reserved for the header, so the window floors at row 2.
func tailStart(totalRows int64) int64 {
	start := totalRows - (tailWindow - 1)
	if start < 2 {
		return 2
	}
	return start
}

func subRange(title, a1 string) string {
	return fmt.Sprintf("%s!%s", quoteSheetTitle(title), a1)
}

func tailBodyRange(title string, start, end int64) string {
	return fmt.Sprintf("%s!A%d:%s%d", quoteSheetTitle(title), start, tailColumnEdge, end)
}

func headerRange(title string) string {
	return fmt.Sprintf("%s!A1:%s1", quoteSheetTitle(title), tailColumnEdge)
}
