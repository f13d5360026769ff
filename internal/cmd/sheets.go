package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sheetkit/sheets-mcp/internal/config"
	"github.com/sheetkit/sheets-mcp/internal/googleapi"
	"github.com/sheetkit/sheets-mcp/internal/outfmt"
	"github.com/sheetkit/sheets-mcp/internal/sheetops"
	"github.com/sheetkit/sheets-mcp/internal/ui"
)

var newSheetsService = googleapi.NewSheets

func newOpsClient(ctx context.Context, cfg *config.Config) (*sheetops.Client, error) {
	if err := cfg.RequireSpreadsheetID(); err != nil {
		return nil, err
	}
	svc, err := newSheetsService(ctx, *cfg)
	if err != nil {
		return nil, err
	}
	return sheetops.New(svc, cfg.SpreadsheetID), nil
}

func newListCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List sheets in the spreadsheet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			u := ui.FromContext(cmd.Context())

			ops, err := newOpsClient(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			infos, err := ops.ListSheets(cmd.Context())
			if err != nil {
				return err
			}

			if outfmt.IsJSON(cmd.Context()) {
				return outfmt.WriteJSON(os.Stdout, map[string]any{"sheets": infos})
			}

			if len(infos) == 0 {
				u.Err().Println("No sheets found")
				return nil
			}

			tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "INDEX\tTITLE\tID\tROWS\tCOLS")
			for _, info := range infos {
				fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%d\n", info.Index, info.Title, info.SheetID, info.Rows, info.Columns)
			}
			_ = tw.Flush()
			return nil
		},
	}
}

func newReadCmd(cfg *config.Config) *cobra.Command {
	var rangeSpec string
	var tail bool

	cmd := &cobra.Command{
		Use:   "read <sheet>",
		Short: "Read a sheet (or a range of it) as a table",
		Long:  "Read data from a sheet.\nExample: sheets-mcp read db_master_barang --range A1:E5",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u := ui.FromContext(cmd.Context())

			ops, err := newOpsClient(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			table, err := ops.Read(cmd.Context(), args[0], rangeSpec, tail)
			if errors.Is(err, sheetops.ErrNoData) {
				u.Err().Println("No data found.")
				return nil
			}
			if err != nil {
				return err
			}

			if outfmt.IsJSON(cmd.Context()) {
				return outfmt.WriteJSON(os.Stdout, map[string]any{
					"header": table.Header,
					"rows":   table.Rows,
				})
			}

			tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, strings.Join(table.Header, "\t"))
			for _, row := range table.Rows {
				fmt.Fprintln(tw, strings.Join(row, "\t"))
			}
			_ = tw.Flush()
			return nil
		},
	}

	cmd.Flags().StringVar(&rangeSpec, "range", "", "A1 notation sub-range, e.g. A1:C10")
	cmd.Flags().BoolVar(&tail, "tail", false, "Read only the last 20 data rows (header preserved)")
	cmd.MarkFlagsMutuallyExclusive("range", "tail")
	return cmd
}
