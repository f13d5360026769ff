package mcpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/sheetkit/sheets-mcp/internal/config"
)

func fakeSheetsService(t *testing.T, handler http.HandlerFunc) *sheets.Service {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	svc, err := sheets.NewService(context.Background(),
		option.WithoutAuthentication(),
		option.WithHTTPClient(srv.Client()),
		option.WithEndpoint(srv.URL+"/"),
	)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func swapService(t *testing.T, svc *sheets.Service) {
	t.Helper()

	orig := newSheetsService
	t.Cleanup(func() { newSheetsService = orig })
	newSheetsService = func(context.Context, config.Config) (*sheets.Service, error) {
		return svc, nil
	}
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()

	if len(res.Content) != 1 {
		t.Fatalf("expected one content item, got %#v", res.Content)
	}
	tc, ok := res.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatalf("expected text content, got %T", res.Content[0])
	}
	return tc.Text
}

func testConfig() config.Config {
	return config.Config{SpreadsheetID: "s1", ServiceAccountFile: "/tmp/sa.json"}
}

func TestTools_MissingSpreadsheetID(t *testing.T) {
	// No remote call may be attempted when the spreadsheet is not configured.
	svc := fakeSheetsService(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("unexpected remote call")
	})
	swapService(t, svc)

	s := New(config.Config{ServiceAccountFile: "/tmp/sa.json"}, "test")
	ctx := context.Background()

	calls := map[string]func() (*mcp.CallToolResult, any, error){
		"list_sheets": func() (*mcp.CallToolResult, any, error) {
			return s.listSheets(ctx, nil, listSheetsInput{})
		},
		"read_sheet_data": func() (*mcp.CallToolResult, any, error) {
			return s.readSheetData(ctx, nil, readSheetDataInput{SheetName: "Sheet1"})
		},
		"create_sheet": func() (*mcp.CallToolResult, any, error) {
			return s.createSheet(ctx, nil, createSheetInput{Title: "New"})
		},
		"rename_sheet": func() (*mcp.CallToolResult, any, error) {
			return s.renameSheet(ctx, nil, renameSheetInput{OldTitle: "a", NewTitle: "b"})
		},
		"append_data": func() (*mcp.CallToolResult, any, error) {
			return s.appendData(ctx, nil, appendDataInput{SheetName: "Sheet1", Rows: [][]string{{"x"}}})
		},
		"add_column": func() (*mcp.CallToolResult, any, error) {
			return s.addColumn(ctx, nil, addColumnInput{SheetName: "Sheet1", Header: "h"})
		},
		"delete_sheet": func() (*mcp.CallToolResult, any, error) {
			return s.deleteSheet(ctx, nil, deleteSheetInput{SheetName: "Sheet1"})
		},
		"delete_row": func() (*mcp.CallToolResult, any, error) {
			return s.deleteRow(ctx, nil, deleteRowInput{SheetName: "Sheet1", StartRow: 2})
		},
		"delete_column": func() (*mcp.CallToolResult, any, error) {
			return s.deleteColumn(ctx, nil, deleteColumnInput{SheetName: "Sheet1", StartColumn: 1})
		},
	}

	for name, call := range calls {
		res, _, err := call()
		if err != nil {
			t.Fatalf("%s: protocol error: %v", name, err)
		}
		if !res.IsError {
			t.Fatalf("%s: expected error result", name)
		}
		text := resultText(t, res)
		if !strings.HasPrefix(text, "Error ") || !strings.Contains(text, "SPREADSHEET_ID") {
			t.Fatalf("%s: unexpected text: %q", name, text)
		}
	}
}

func TestListSheets_RendersTable(t *testing.T) {
	svc := fakeSheetsService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"sheets": []map[string]any{
				{"properties": map[string]any{
					"sheetId": 0, "title": "Sheet1", "index": 0,
					"gridProperties": map[string]any{"rowCount": 100, "columnCount": 26},
				}},
				{"properties": map[string]any{
					"sheetId": 42, "title": "db_master_barang", "index": 1,
					"gridProperties": map[string]any{"rowCount": 500, "columnCount": 8},
				}},
			},
		})
	})
	swapService(t, svc)

	s := New(testConfig(), "test")
	res, _, err := s.listSheets(context.Background(), nil, listSheetsInput{})
	if err != nil {
		t.Fatalf("listSheets: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected error result: %s", resultText(t, res))
	}

	text := resultText(t, res)
	for _, want := range []string{"| Index", "| Title", "Sheet1", "db_master_barang", "42"} {
		if !strings.Contains(text, want) {
			t.Fatalf("missing %q in:\n%s", want, text)
		}
	}
}

func TestListSheets_Empty(t *testing.T) {
	svc := fakeSheetsService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{})
	})
	swapService(t, svc)

	s := New(testConfig(), "test")
	res, _, err := s.listSheets(context.Background(), nil, listSheetsInput{})
	if err != nil {
		t.Fatalf("listSheets: %v", err)
	}
	if got := resultText(t, res); got != "No sheets found in this spreadsheet." {
		t.Fatalf("unexpected text: %q", got)
	}
}

func TestReadSheetData_Table(t *testing.T) {
	svc := fakeSheetsService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"values": [][]any{{"name", "qty"}, {"widget", 2}},
		})
	})
	swapService(t, svc)

	s := New(testConfig(), "test")
	res, _, err := s.readSheetData(context.Background(), nil, readSheetDataInput{SheetName: "Sheet1"})
	if err != nil {
		t.Fatalf("readSheetData: %v", err)
	}

	text := resultText(t, res)
	if !strings.Contains(text, "| name") || !strings.Contains(text, "| widget") {
		t.Fatalf("unexpected table:\n%s", text)
	}
}

func TestReadSheetData_NoData(t *testing.T) {
	svc := fakeSheetsService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{})
	})
	swapService(t, svc)

	s := New(testConfig(), "test")
	res, _, err := s.readSheetData(context.Background(), nil, readSheetDataInput{SheetName: "Sheet1"})
	if err != nil {
		t.Fatalf("readSheetData: %v", err)
	}
	if res.IsError {
		t.Fatal("empty result must not be an error")
	}
	if got := resultText(t, res); got != "No data found." {
		t.Fatalf("unexpected text: %q", got)
	}
}

func TestReadSheetData_RemoteFailure(t *testing.T) {
	svc := fakeSheetsService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{
				"code":    403,
				"message": "The caller does not have permission",
				"errors":  []map[string]any{{"reason": "forbidden"}},
			},
		})
	})
	swapService(t, svc)

	s := New(testConfig(), "test")
	res, _, err := s.readSheetData(context.Background(), nil, readSheetDataInput{SheetName: "Sheet1"})
	if err != nil {
		t.Fatalf("readSheetData: %v", err)
	}
	if !res.IsError {
		t.Fatal("expected error result")
	}

	text := resultText(t, res)
	if !strings.HasPrefix(text, "Error reading sheet data: ") {
		t.Fatalf("unexpected prefix: %q", text)
	}
	if !strings.Contains(text, "403") {
		t.Fatalf("expected status code in: %q", text)
	}
}

func TestCreateSheet_Status(t *testing.T) {
	svc := fakeSheetsService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"replies": []map[string]any{
				{"addSheet": map[string]any{"properties": map[string]any{"sheetId": 7, "title": "Budget"}}},
			},
		})
	})
	swapService(t, svc)

	s := New(testConfig(), "test")
	res, _, err := s.createSheet(context.Background(), nil, createSheetInput{Title: "Budget"})
	if err != nil {
		t.Fatalf("createSheet: %v", err)
	}
	if got := resultText(t, res); got != `Created sheet "Budget" (sheetId 7).` {
		t.Fatalf("unexpected text: %q", got)
	}
}

func TestDeleteRow_DefaultsEndToStart(t *testing.T) {
	var gotReq *sheets.BatchUpdateSpreadsheetRequest
	svc := fakeSheetsService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if strings.Contains(r.URL.Path, ":batchUpdate") {
			var req sheets.BatchUpdateSpreadsheetRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Fatalf("decode: %v", err)
			}
			gotReq = &req
			_ = json.NewEncoder(w).Encode(map[string]any{})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"sheets": []map[string]any{
				{"properties": map[string]any{"sheetId": 3, "title": "Sheet1"}},
			},
		})
	})
	swapService(t, svc)

	s := New(testConfig(), "test")
	res, _, err := s.deleteRow(context.Background(), nil, deleteRowInput{SheetName: "Sheet1", StartRow: 5})
	if err != nil {
		t.Fatalf("deleteRow: %v", err)
	}
	if got := resultText(t, res); got != `Deleted rows 5-5 from "Sheet1".` {
		t.Fatalf("unexpected text: %q", got)
	}

	rng := gotReq.Requests[0].DeleteDimension.Range
	if rng.StartIndex != 4 || rng.EndIndex != 5 {
		t.Fatalf("indexes: %d..%d", rng.StartIndex, rng.EndIndex)
	}
}

func TestAppendData_RejectsEmptyRows(t *testing.T) {
	svc := fakeSheetsService(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("unexpected remote call")
	})
	swapService(t, svc)

	s := New(testConfig(), "test")
	res, _, err := s.appendData(context.Background(), nil, appendDataInput{SheetName: "Sheet1"})
	if err != nil {
		t.Fatalf("appendData: %v", err)
	}
	if !res.IsError || !strings.Contains(resultText(t, res), "no rows") {
		t.Fatalf("unexpected result: %q", resultText(t, res))
	}
}

func TestRenameSheet_UnknownSheet(t *testing.T) {
	svc := fakeSheetsService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"sheets": []map[string]any{
				{"properties": map[string]any{"sheetId": 0, "title": "Other"}},
			},
		})
	})
	swapService(t, svc)

	s := New(testConfig(), "test")
	res, _, err := s.renameSheet(context.Background(), nil, renameSheetInput{OldTitle: "Sheet1", NewTitle: "X"})
	if err != nil {
		t.Fatalf("renameSheet: %v", err)
	}

	text := resultText(t, res)
	if !strings.HasPrefix(text, "Error renaming sheet: ") || !strings.Contains(text, `"Sheet1"`) {
		t.Fatalf("unexpected text: %q", text)
	}
}
