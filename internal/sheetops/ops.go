package sheetops

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/api/sheets/v4"
)

// Client wraps a Sheets service with the spreadsheet every operation targets.
// Each method issues at most two sequential API calls and returns typed
// results; rendering to user-facing strings happens at the tool boundary.
type Client struct {
	svc           *sheets.Service
	spreadsheetID string
}

func New(svc *sheets.Service, spreadsheetID string) *Client {
	return &Client{svc: svc, spreadsheetID: spreadsheetID}
}

type SheetInfo struct {
	Index   int64  `json:"index"`
	Title   string `json:"title"`
	SheetID int64  `json:"sheetId"`
	Rows    int64  `json:"rows"`
	Columns int64  `json:"columns"`
}

func (c *Client) ListSheets(ctx context.Context) ([]SheetInfo, error) {
	resp, err := c.svc.Spreadsheets.Get(c.spreadsheetID).
		Fields("sheets.properties").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("get spreadsheet metadata: %w", err)
	}

	infos := make([]SheetInfo, 0, len(resp.Sheets))
	for _, sheet := range resp.Sheets {
		props := sheet.Properties
		if props == nil {
			continue
		}
		info := SheetInfo{
			Index:   props.Index,
			Title:   props.Title,
			SheetID: props.SheetId,
		}
		if grid := props.GridProperties; grid != nil {
			info.Rows = grid.RowCount
			info.Columns = grid.ColumnCount
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// Read resolves the target range and returns the normalized table. With an
// explicit A1 sub-range the fetch is restricted to it; with tail set only the
// last rows of the sheet are fetched (header read separately); otherwise the
// whole sheet. Returns ErrNoData when the fetch comes back empty.
func (c *Client) Read(ctx context.Context, title, a1 string, tail bool) (Table, error) {
	if strings.TrimSpace(a1) != "" {
		return c.readRange(ctx, subRange(title, strings.TrimSpace(a1)))
	}
	if tail {
		return c.readTail(ctx, title)
	}
	return c.readRange(ctx, quoteSheetTitle(title))
}

func (c *Client) readRange(ctx context.Context, rangeSpec string) (Table, error) {
	values, err := c.fetch(ctx, rangeSpec)
	if err != nil {
		return Table{}, err
	}
	if len(values) == 0 {
		return Table{}, ErrNoData
	}
	return Normalize(values[0], values[1:]), nil
}

func (c *Client) readTail(ctx context.Context, title string) (Table, error) {
	props, err := c.sheetProperties(ctx, title)
	if err != nil {
		return Table{}, err
	}

	var totalRows int64
	if props.GridProperties != nil {
		totalRows = props.GridProperties.RowCount
	}
	if totalRows <= 1 {
		// Nothing beyond a (possible) header row; same as a whole-sheet read.
		return c.readRange(ctx, quoteSheetTitle(title))
	}

	body, err := c.fetch(ctx, tailBodyRange(title, tailStart(totalRows), totalRows))
	if err != nil {
		return Table{}, err
	}
	if len(body) == 0 {
		return Table{}, ErrNoData
	}

	header, err := c.fetch(ctx, headerRange(title))
	if err != nil {
		return Table{}, err
	}
	var labels []string
	if len(header) > 0 {
		labels = header[0]
	}
	return Normalize(labels, body), nil
}

func (c *Client) fetch(ctx context.Context, rangeSpec string) ([][]string, error) {
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rangeSpec).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("get values %s: %w", rangeSpec, err)
	}

	rows := make([][]string, len(resp.Values))
	for i, row := range resp.Values {
		cells := make([]string, len(row))
		for j, cell := range row {
			cells[j] = fmt.Sprintf("%v", cell)
		}
		rows[i] = cells
	}
	return rows, nil
}

func (c *Client) CreateSheet(ctx context.Context, title string) (int64, error) {
	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{
			{
				AddSheet: &sheets.AddSheetRequest{
					Properties: &sheets.SheetProperties{Title: title},
				},
			},
		},
	}
	resp, err := c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, req).Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("add sheet: %w", err)
	}
	for _, reply := range resp.Replies {
		if reply.AddSheet != nil && reply.AddSheet.Properties != nil {
			return reply.AddSheet.Properties.SheetId, nil
		}
	}
	return 0, nil
}

func (c *Client) RenameSheet(ctx context.Context, oldTitle, newTitle string) error {
	props, err := c.sheetProperties(ctx, oldTitle)
	if err != nil {
		return err
	}

	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{
			{
				UpdateSheetProperties: &sheets.UpdateSheetPropertiesRequest{
					Properties: &sheets.SheetProperties{
						SheetId: props.SheetId,
						Title:   newTitle,
					},
					Fields: "title",
				},
			},
		},
	}
	if _, err := c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	return nil
}

func (c *Client) DeleteSheet(ctx context.Context, title string) error {
	props, err := c.sheetProperties(ctx, title)
	if err != nil {
		return err
	}

	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{
			{
				DeleteSheet: &sheets.DeleteSheetRequest{SheetId: props.SheetId},
			},
		},
	}
	if _, err := c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("delete sheet: %w", err)
	}
	return nil
}

type AppendResult struct {
	UpdatedRange string
	UpdatedRows  int64
	UpdatedCells int64
}

func (c *Client) AppendRows(ctx context.Context, title string, rows [][]string) (AppendResult, error) {
	vr := &sheets.ValueRange{Values: toValues(rows)}
	resp, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, quoteSheetTitle(title), vr).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return AppendResult{}, fmt.Errorf("append values: %w", err)
	}
	if resp.Updates == nil {
		return AppendResult{}, nil
	}
	return AppendResult{
		UpdatedRange: resp.Updates.UpdatedRange,
		UpdatedRows:  resp.Updates.UpdatedRows,
		UpdatedCells: resp.Updates.UpdatedCells,
	}, nil
}

// AddColumn writes a header (and optional values) into the first unused
// column of the sheet. Returns the letter reference of the new column.
func (c *Client) AddColumn(ctx context.Context, title, header string, values []string) (string, error) {
	props, err := c.sheetProperties(ctx, title)
	if err != nil {
		return "", err
	}

	var colCount int64
	if props.GridProperties != nil {
		colCount = props.GridProperties.ColumnCount
	}
	letter := ColumnLetters(int(colCount))

	column := make([][]any, 0, len(values)+1)
	column = append(column, []any{header})
	for _, v := range values {
		column = append(column, []any{v})
	}

	rangeSpec := fmt.Sprintf("%s!%s1", quoteSheetTitle(title), letter)
	_, err = c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rangeSpec, &sheets.ValueRange{Values: column}).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("update values %s: %w", rangeSpec, err)
	}
	return letter, nil
}

func (c *Client) DeleteRows(ctx context.Context, title string, start, end int64) error {
	return c.deleteDimension(ctx, title, "ROWS", start, end)
}

func (c *Client) DeleteColumns(ctx context.Context, title string, start, end int64) error {
	return c.deleteDimension(ctx, title, "COLUMNS", start, end)
}

// deleteDimension removes the 1-based inclusive span [start, end] of rows or
// columns, translated to the API's 0-based half-open indexes.
func (c *Client) deleteDimension(ctx context.Context, title, dimension string, start, end int64) error {
	if start < 1 {
		return fmt.Errorf("start must be >= 1, got %d", start)
	}
	if end < start {
		return fmt.Errorf("end %d precedes start %d", end, start)
	}

	props, err := c.sheetProperties(ctx, title)
	if err != nil {
		return err
	}

	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{
			{
				DeleteDimension: &sheets.DeleteDimensionRequest{
					Range: &sheets.DimensionRange{
						SheetId:         props.SheetId,
						Dimension:       dimension,
						StartIndex:      start - 1,
						EndIndex:        end,
						ForceSendFields: []string{"StartIndex"},
					},
				},
			},
		},
	}
	if _, err := c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("delete %s: %w", strings.ToLower(dimension), err)
	}
	return nil
}

func (c *Client) sheetProperties(ctx context.Context, title string) (*sheets.SheetProperties, error) {
	resp, err := c.svc.Spreadsheets.Get(c.spreadsheetID).
		Fields("sheets.properties").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("get spreadsheet metadata: %w", err)
	}

	for _, sheet := range resp.Sheets {
		if sheet.Properties != nil && sheet.Properties.Title == title {
			return sheet.Properties, nil
		}
	}
	return nil, &SheetNotFoundError{Title: title}
}

func toValues(rows [][]string) [][]any {
	out := make([][]any, len(rows))
	for i, row := range rows {
		cells := make([]any, len(row))
		for j, cell := range row {
			cells[j] = cell
		}
		out[i] = cells
	}
	return out
}
