// Package mcpserver exposes the spreadsheet operations as MCP tools over
// stdio. Every tool returns a human-readable string: a table for reads, a
// status line for mutations, and an "Error <doing X>: <detail>" line on any
// failure. Remote failures never surface as protocol errors.
package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/sheetkit/sheets-mcp/internal/config"
	"github.com/sheetkit/sheets-mcp/internal/errfmt"
	"github.com/sheetkit/sheets-mcp/internal/googleapi"
	"github.com/sheetkit/sheets-mcp/internal/sheetops"
)

var newSheetsService = googleapi.NewSheets

type Server struct {
	cfg config.Config
	mcp *mcp.Server
}

func New(cfg config.Config, version string) *Server {
	s := &Server{cfg: cfg}

	srv := mcp.NewServer(&mcp.Implementation{
		Name:    config.AppName,
		Title:   "Google Sheets",
		Version: version,
	}, nil)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "list_sheets",
		Description: "Lists all sheets in the configured spreadsheet.",
	}, s.listSheets)
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "read_sheet_data",
		Description: "Reads data from a sheet as a markdown table. Optionally restrict to an A1 range, or fetch only the last 20 rows.",
	}, s.readSheetData)
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "create_sheet",
		Description: "Creates a new sheet (tab) in the spreadsheet.",
	}, s.createSheet)
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "rename_sheet",
		Description: "Renames an existing sheet.",
	}, s.renameSheet)
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "append_data",
		Description: "Appends rows of values after the last row with data.",
	}, s.appendData)
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "add_column",
		Description: "Adds a new column with a header (and optional values) after the sheet's last column.",
	}, s.addColumn)
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "delete_sheet",
		Description: "Deletes a sheet from the spreadsheet.",
	}, s.deleteSheet)
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "delete_row",
		Description: "Deletes one or more rows (1-based, inclusive).",
	}, s.deleteRow)
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "delete_column",
		Description: "Deletes one or more columns (1-based, inclusive).",
	}, s.deleteColumn)

	s.mcp = srv
	return s
}

// Run serves MCP over stdio until the context is canceled or the client
// disconnects.
func (s *Server) Run(ctx context.Context) error {
	return s.mcp.Run(ctx, &mcp.StdioTransport{})
}

// client builds an authenticated operations client. Configuration problems
// are reported before any remote call is attempted.
func (s *Server) client(ctx context.Context) (*sheetops.Client, error) {
	if err := s.cfg.RequireSpreadsheetID(); err != nil {
		return nil, err
	}
	svc, err := newSheetsService(ctx, s.cfg)
	if err != nil {
		return nil, err
	}
	return sheetops.New(svc, s.cfg.SpreadsheetID), nil
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

func errorResult(action string, err error) *mcp.CallToolResult {
	res := textResult(fmt.Sprintf("Error %s: %s", action, errfmt.Format(err)))
	res.IsError = true
	return res
}

type listSheetsInput struct{}

func (s *Server) listSheets(ctx context.Context, req *mcp.CallToolRequest, _ listSheetsInput) (*mcp.CallToolResult, any, error) {
	ops, err := s.client(ctx)
	if err != nil {
		return errorResult("listing sheets", err), nil, nil
	}

	infos, err := ops.ListSheets(ctx)
	if err != nil {
		return errorResult("listing sheets", err), nil, nil
	}
	if len(infos) == 0 {
		return textResult("No sheets found in this spreadsheet."), nil, nil
	}

	table := sheetops.Table{Header: []string{"Index", "Title", "Sheet ID", "Rows", "Columns"}}
	for _, info := range infos {
		table.Rows = append(table.Rows, []string{
			strconv.FormatInt(info.Index, 10),
			info.Title,
			strconv.FormatInt(info.SheetID, 10),
			strconv.FormatInt(info.Rows, 10),
			strconv.FormatInt(info.Columns, 10),
		})
	}
	return textResult(table.Markdown()), nil, nil
}

type readSheetDataInput struct {
	SheetName string `json:"sheet_name" jsonschema:"name of the sheet to read, e.g. Sheet1"`
	Range     string `json:"range,omitempty" jsonschema:"optional A1 notation sub-range, e.g. A1:C10; omit to read the whole sheet"`
	Tail      bool   `json:"tail,omitempty" jsonschema:"return only the last 20 data rows, keeping the header row"`
}

func (s *Server) readSheetData(ctx context.Context, req *mcp.CallToolRequest, in readSheetDataInput) (*mcp.CallToolResult, any, error) {
	ops, err := s.client(ctx)
	if err != nil {
		return errorResult("reading sheet data", err), nil, nil
	}

	table, err := ops.Read(ctx, in.SheetName, in.Range, in.Tail)
	if errors.Is(err, sheetops.ErrNoData) {
		return textResult("No data found."), nil, nil
	}
	if err != nil {
		return errorResult("reading sheet data", err), nil, nil
	}
	return textResult(table.Markdown()), nil, nil
}

type createSheetInput struct {
	Title string `json:"title" jsonschema:"title of the new sheet"`
}

func (s *Server) createSheet(ctx context.Context, req *mcp.CallToolRequest, in createSheetInput) (*mcp.CallToolResult, any, error) {
	ops, err := s.client(ctx)
	if err != nil {
		return errorResult("creating sheet", err), nil, nil
	}

	id, err := ops.CreateSheet(ctx, in.Title)
	if err != nil {
		return errorResult("creating sheet", err), nil, nil
	}
	return textResult(fmt.Sprintf("Created sheet %q (sheetId %d).", in.Title, id)), nil, nil
}

type renameSheetInput struct {
	OldTitle string `json:"old_title" jsonschema:"current title of the sheet"`
	NewTitle string `json:"new_title" jsonschema:"new title for the sheet"`
}

func (s *Server) renameSheet(ctx context.Context, req *mcp.CallToolRequest, in renameSheetInput) (*mcp.CallToolResult, any, error) {
	ops, err := s.client(ctx)
	if err != nil {
		return errorResult("renaming sheet", err), nil, nil
	}

	if err := ops.RenameSheet(ctx, in.OldTitle, in.NewTitle); err != nil {
		return errorResult("renaming sheet", err), nil, nil
	}
	return textResult(fmt.Sprintf("Renamed sheet %q to %q.", in.OldTitle, in.NewTitle)), nil, nil
}

type appendDataInput struct {
	SheetName string     `json:"sheet_name" jsonschema:"name of the sheet to append to"`
	Rows      [][]string `json:"rows" jsonschema:"rows of cell values to append"`
}

func (s *Server) appendData(ctx context.Context, req *mcp.CallToolRequest, in appendDataInput) (*mcp.CallToolResult, any, error) {
	ops, err := s.client(ctx)
	if err != nil {
		return errorResult("appending data", err), nil, nil
	}

	if len(in.Rows) == 0 {
		return errorResult("appending data", fmt.Errorf("no rows given")), nil, nil
	}

	res, err := ops.AppendRows(ctx, in.SheetName, in.Rows)
	if err != nil {
		return errorResult("appending data", err), nil, nil
	}
	return textResult(fmt.Sprintf("Appended %d rows (%d cells) to %q.", res.UpdatedRows, res.UpdatedCells, in.SheetName)), nil, nil
}

type addColumnInput struct {
	SheetName string   `json:"sheet_name" jsonschema:"name of the sheet to extend"`
	Header    string   `json:"header" jsonschema:"header label for the new column"`
	Values    []string `json:"values,omitempty" jsonschema:"optional cell values written below the header"`
}

func (s *Server) addColumn(ctx context.Context, req *mcp.CallToolRequest, in addColumnInput) (*mcp.CallToolResult, any, error) {
	ops, err := s.client(ctx)
	if err != nil {
		return errorResult("adding column", err), nil, nil
	}

	letter, err := ops.AddColumn(ctx, in.SheetName, in.Header, in.Values)
	if err != nil {
		return errorResult("adding column", err), nil, nil
	}
	return textResult(fmt.Sprintf("Added column %q at %s in %q.", in.Header, letter, in.SheetName)), nil, nil
}

type deleteSheetInput struct {
	SheetName string `json:"sheet_name" jsonschema:"name of the sheet to delete"`
}

func (s *Server) deleteSheet(ctx context.Context, req *mcp.CallToolRequest, in deleteSheetInput) (*mcp.CallToolResult, any, error) {
	ops, err := s.client(ctx)
	if err != nil {
		return errorResult("deleting sheet", err), nil, nil
	}

	if err := ops.DeleteSheet(ctx, in.SheetName); err != nil {
		return errorResult("deleting sheet", err), nil, nil
	}
	return textResult(fmt.Sprintf("Deleted sheet %q.", in.SheetName)), nil, nil
}

type deleteRowInput struct {
	SheetName string `json:"sheet_name" jsonschema:"name of the sheet"`
	StartRow  int64  `json:"start_row" jsonschema:"first row to delete (1-based)"`
	EndRow    int64  `json:"end_row,omitempty" jsonschema:"last row to delete (1-based, inclusive); defaults to start_row"`
}

func (s *Server) deleteRow(ctx context.Context, req *mcp.CallToolRequest, in deleteRowInput) (*mcp.CallToolResult, any, error) {
	ops, err := s.client(ctx)
	if err != nil {
		return errorResult("deleting rows", err), nil, nil
	}

	end := in.EndRow
	if end == 0 {
		end = in.StartRow
	}
	if err := ops.DeleteRows(ctx, in.SheetName, in.StartRow, end); err != nil {
		return errorResult("deleting rows", err), nil, nil
	}
	return textResult(fmt.Sprintf("Deleted rows %d-%d from %q.", in.StartRow, end, in.SheetName)), nil, nil
}

type deleteColumnInput struct {
	SheetName   string `json:"sheet_name" jsonschema:"name of the sheet"`
	StartColumn int64  `json:"start_col" jsonschema:"first column to delete (1-based)"`
	EndColumn   int64  `json:"end_col,omitempty" jsonschema:"last column to delete (1-based, inclusive); defaults to start_col"`
}

func (s *Server) deleteColumn(ctx context.Context, req *mcp.CallToolRequest, in deleteColumnInput) (*mcp.CallToolResult, any, error) {
	ops, err := s.client(ctx)
	if err != nil {
		return errorResult("deleting columns", err), nil, nil
	}

	end := in.EndColumn
	if end == 0 {
		end = in.StartColumn
	}
	if err := ops.DeleteColumns(ctx, in.SheetName, in.StartColumn, end); err != nil {
		return errorResult("deleting columns", err), nil, nil
	}
	return textResult(fmt.Sprintf("Deleted columns %d-%d from %q.", in.StartColumn, end, in.SheetName)), nil, nil
}
