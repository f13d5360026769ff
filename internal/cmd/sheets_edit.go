package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sheetkit/sheets-mcp/internal/config"
	"github.com/sheetkit/sheets-mcp/internal/outfmt"
	"github.com/sheetkit/sheets-mcp/internal/ui"
)

func newCreateCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "create <title>",
		Short: "Create a new sheet (tab)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u := ui.FromContext(cmd.Context())
			title := strings.TrimSpace(strings.Join(args, " "))
			if title == "" {
				return errors.New("empty title")
			}

			ops, err := newOpsClient(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			id, err := ops.CreateSheet(cmd.Context(), title)
			if err != nil {
				return err
			}

			if outfmt.IsJSON(cmd.Context()) {
				return outfmt.WriteJSON(os.Stdout, map[string]any{"title": title, "sheetId": id})
			}
			u.Out().Printf("title\t%s", title)
			u.Out().Printf("sheetId\t%d", id)
			return nil
		},
	}
}

func newRenameCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <old> <new>",
		Short: "Rename a sheet",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			u := ui.FromContext(cmd.Context())

			ops, err := newOpsClient(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			if err := ops.RenameSheet(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}

			if outfmt.IsJSON(cmd.Context()) {
				return outfmt.WriteJSON(os.Stdout, map[string]any{"old": args[0], "new": args[1]})
			}
			u.Out().Printf("Renamed %q to %q", args[0], args[1])
			return nil
		},
	}
}

func newDeleteSheetCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "delete-sheet <sheet>",
		Short: "Delete a sheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u := ui.FromContext(cmd.Context())

			ops, err := newOpsClient(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			if err := ops.DeleteSheet(cmd.Context(), args[0]); err != nil {
				return err
			}

			if outfmt.IsJSON(cmd.Context()) {
				return outfmt.WriteJSON(os.Stdout, map[string]any{"deleted": args[0]})
			}
			u.Out().Printf("Deleted sheet %q", args[0])
			return nil
		},
	}
}

func newAppendCmd(cfg *config.Config) *cobra.Command {
	var rowsJSON string

	cmd := &cobra.Command{
		Use:   "append <sheet>",
		Short: "Append rows after the last row with data",
		Long:  "Append rows to a sheet.\nExample: sheets-mcp append Sheet1 --rows-json '[[\"a\",\"b\"],[\"c\",\"d\"]]'",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u := ui.FromContext(cmd.Context())

			rows, err := parseRowsJSON(rowsJSON)
			if err != nil {
				return err
			}

			ops, err := newOpsClient(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			res, err := ops.AppendRows(cmd.Context(), args[0], rows)
			if err != nil {
				return err
			}

			if outfmt.IsJSON(cmd.Context()) {
				return outfmt.WriteJSON(os.Stdout, map[string]any{
					"updatedRange": res.UpdatedRange,
					"updatedRows":  res.UpdatedRows,
					"updatedCells": res.UpdatedCells,
				})
			}
			u.Out().Printf("Appended %d rows (%d cells) at %s", res.UpdatedRows, res.UpdatedCells, res.UpdatedRange)
			return nil
		},
	}

	cmd.Flags().StringVar(&rowsJSON, "rows-json", "", "Rows as a JSON array of string arrays (required)")
	_ = cmd.MarkFlagRequired("rows-json")
	return cmd
}

func newAddColumnCmd(cfg *config.Config) *cobra.Command {
	var valuesJSON string

	cmd := &cobra.Command{
		Use:   "add-column <sheet> <header>",
		Short: "Add a column after the sheet's last column",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			u := ui.FromContext(cmd.Context())

			var values []string
			if valuesJSON != "" {
				if err := json.Unmarshal([]byte(valuesJSON), &values); err != nil {
					return fmt.Errorf("parse --values-json: %w", err)
				}
			}

			ops, err := newOpsClient(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			letter, err := ops.AddColumn(cmd.Context(), args[0], args[1], values)
			if err != nil {
				return err
			}

			if outfmt.IsJSON(cmd.Context()) {
				return outfmt.WriteJSON(os.Stdout, map[string]any{"header": args[1], "column": letter})
			}
			u.Out().Printf("Added column %q at %s", args[1], letter)
			return nil
		},
	}

	cmd.Flags().StringVar(&valuesJSON, "values-json", "", "Cell values below the header as a JSON array of strings")
	return cmd
}

func newDeleteRowsCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "delete-rows <sheet> <start> [end]",
		Short: "Delete rows (1-based, inclusive)",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDeleteDimension(cmd, cfg, "rows", args)
		},
	}
}

func newDeleteColsCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "delete-cols <sheet> <start> [end]",
		Short: "Delete columns (1-based, inclusive)",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDeleteDimension(cmd, cfg, "cols", args)
		},
	}
}

func runDeleteDimension(cmd *cobra.Command, cfg *config.Config, kind string, args []string) error {
	u := ui.FromContext(cmd.Context())

	start, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid argument %q: expected a number", args[1])
	}
	end := start
	if len(args) == 3 {
		end, err = strconv.ParseInt(args[2], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid argument %q: expected a number", args[2])
		}
	}

	ops, err := newOpsClient(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	if kind == "rows" {
		err = ops.DeleteRows(cmd.Context(), args[0], start, end)
	} else {
		err = ops.DeleteColumns(cmd.Context(), args[0], start, end)
	}
	if err != nil {
		return err
	}

	if outfmt.IsJSON(cmd.Context()) {
		return outfmt.WriteJSON(os.Stdout, map[string]any{
			"sheet": args[0],
			"kind":  kind,
			"start": start,
			"end":   end,
		})
	}
	u.Out().Printf("Deleted %s %d-%d from %q", kind, start, end, args[0])
	return nil
}

func parseRowsJSON(raw string) ([][]string, error) {
	var rows [][]string
	if err := json.Unmarshal([]byte(raw), &rows); err != nil {
		return nil, fmt.Errorf("parse --rows-json: %w", err)
	}
	if len(rows) == 0 {
		return nil, errors.New("--rows-json contains no rows")
	}
	return rows, nil
}
