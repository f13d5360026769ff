package sheetops

import (
	"errors"
	"fmt"
)

// ErrNoData signals an empty result set. Boundaries render it as a friendly
// "No data found." rather than a failure.
var ErrNoData = errors.New("no data found")

type SheetNotFoundError struct {
	Title string
}

func (e *SheetNotFoundError) Error() string {
	return fmt.Sprintf("sheet %q not found in spreadsheet", e.Title)
}
