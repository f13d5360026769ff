package main

import (
	"os"

	"github.com/sheetkit/sheets-mcp/internal/cmd"
)

func main() {
	if err := cmd.Execute(os.Args[1:]); err != nil {
		os.Exit(cmd.ExitCode(err))
	}
}
