package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/inspector/pkg/types"
)

// rowsResult is the JSON form of the rows command.
type rowsResult struct {
	Table   string                   `json:"table"`
	Start   int                      `json:"start"`
	Columns []types.ColumnDescriptor `json:"columns"`
	Rows    []types.Row              `json:"rows"`
}

func newRowsCmd(a *app) *cobra.Command {
	var (
		start   int
		count   int
		sortCol string
		desc    bool
	)
	cmd := &cobra.Command{
		Use:   "rows <table>",
		Short: "Print a page of rows",
		Long: "Print rows [start, start+count) of a table, in storage order or ordered\n" +
			"by --sort. Out-of-range pages are clamped, never rejected. --count\n" +
			"defaults to page_size from the configuration. The header and the rows\n" +
			"are read in separate sessions; if the table's columns change in between,\n" +
			"the command fails rather than print misaligned cells.",
		Args: cobra.ExactArgs(1),
	}
	cmd.Flags().IntVar(&start, "start", 0, "index of the first row")
	cmd.Flags().IntVar(&count, "count", 0, "number of rows (default: page_size)")
	cmd.Flags().StringVar(&sortCol, "sort", "", "column to order rows by")
	cmd.Flags().BoolVar(&desc, "desc", false, "sort in descending order")

	cmd.RunE = a.readCmd(func(cmd *cobra.Command, args []string) error {
		table := args[0]
		if !cmd.Flags().Changed("count") {
			count = a.settings.PageSize
		}
		var sort *types.SortSpec
		if sortCol != "" {
			sort = &types.SortSpec{Column: sortCol}
			if desc {
				sort.Direction = types.SortDescending
			}
		}

		cols, err := a.inspector.ListColumns(a.cfg, table)
		if err != nil {
			return err
		}
		rows, err := a.inspector.ScanRows(a.cfg, table, start, count, sort)
		if err != nil {
			return err
		}
		for _, r := range rows {
			if len(r.Cells) != len(cols) {
				return fmt.Errorf("columns of %q changed while reading rows (%d in header, %d in row %s); retry",
					table, len(cols), len(r.Cells), r.Position)
			}
		}

		out := cmd.OutOrStdout()
		if a.flags.jsonMode {
			return writeJSON(out, rowsResult{Table: table, Start: max(start, 0), Columns: cols, Rows: rows})
		}
		tw := newTable(out)
		header := make([]string, 0, len(cols)+1)
		header = append(header, "#")
		for _, c := range cols {
			header = append(header, tabSafe(c.Name))
		}
		writeRow(tw, header...)
		for _, r := range rows {
			line := make([]string, 0, len(r.Cells)+1)
			line = append(line, r.Position.String())
			for _, c := range r.Cells {
				line = append(line, tabSafe(c.String()))
			}
			writeRow(tw, line...)
		}
		return tw.Flush()
	})
	return cmd
}
