package commands

import (
	"os"
	"yotagrabber/internal/output"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var showLimit *int

func init() {
	showLimit = showCmd.Flags().Int("limit", 0, "Only show the first n rows, 0 shows everything.")
	rootCmd.AddCommand(showCmd)
}

var showCmd = &cobra.Command{
	Use:   "show <file.csv> [--limit <n>]",
	Short: "Renders a curated csv file as a table.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		f, err := os.Open(args[0])
		if err != nil {
			fatal("failed to open file", err)
		}
		defer f.Close()

		header, rows, err := output.ReadCSV(f)
		if err != nil {
			fatal("failed to read csv", err)
		}
		if *showLimit > 0 && len(rows) > *showLimit {
			rows = rows[:*showLimit]
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.SetStyle(table.StyleRounded)
		t.AppendHeader(toRow(header))
		for _, row := range rows {
			t.AppendRow(toRow(row))
		}
		t.AppendFooter(table.Row{"rows", len(rows)})
		t.Render()
	},
}

func toRow(values []string) table.Row {
	row := make(table.Row, len(values))
	for i, v := range values {
		row[i] = v
	}
	return row
}
