package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newTablesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tables",
		Short: "List the tables of the database",
		Args:  cobra.NoArgs,
		RunE: a.readCmd(func(cmd *cobra.Command, args []string) error {
			names, err := a.inspector.ListTables(a.cfg)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if a.flags.jsonMode {
				return writeJSON(out, names)
			}
			for _, name := range names {
				fmt.Fprintln(out, name)
			}
			return nil
		}),
	}
}

func newColumnsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "columns <table>",
		Short: "Describe the columns of a table",
		Args:  cobra.ExactArgs(1),
		RunE: a.readCmd(func(cmd *cobra.Command, args []string) error {
			cols, err := a.inspector.ListColumns(a.cfg, args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if a.flags.jsonMode {
				return writeJSON(out, cols)
			}
			tw := newTable(out)
			writeRow(tw, "NAME", "TYPE", "NULLABLE")
			for _, c := range cols {
				writeRow(tw, tabSafe(c.Name), describeType(c), strconv.FormatBool(c.Nullable))
			}
			return tw.Flush()
		}),
	}
}

// countResult is the JSON form of the count command.
type countResult struct {
	Table string `json:"table"`
	Rows  int    `json:"rows"`
}

func newCountCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "count <table>",
		Short: "Print the number of rows in a table",
		Args:  cobra.ExactArgs(1),
		RunE: a.readCmd(func(cmd *cobra.Command, args []string) error {
			n, err := a.inspector.CountRows(a.cfg, args[0])
			if err != nil {
				return err
			}
			if a.flags.jsonMode {
				return writeJSON(cmd.OutOrStdout(), countResult{Table: args[0], Rows: n})
			}
			fmt.Fprintln(cmd.OutOrStdout(), n)
			return nil
		}),
	}
}
