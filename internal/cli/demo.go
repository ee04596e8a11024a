package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/inspector/internal/sqlite"
)

func newDemoCmd(a *app) *cobra.Command {
	var loads []string
	cmd := &cobra.Command{
		Use:   "demo <path>",
		Short: "Write a sample database",
		Long: "Write a sample object database with users, dogs and readings tables,\n" +
			"replacing any file at <path>. Each --load table=file.jsonl appends the\n" +
			"records of a JSONL file to one of the sample tables.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			type load struct{ table, file string }
			var pending []load
			for _, spec := range loads {
				table, file, ok := strings.Cut(spec, "=")
				if !ok || table == "" || file == "" {
					return fmt.Errorf("--load wants table=file.jsonl, got %q", spec)
				}
				pending = append(pending, load{table, file})
			}

			path, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}
			b, err := sqlite.Create(path)
			if err != nil {
				return fmt.Errorf("create %s: %w", path, err)
			}
			defer func() {
				if cerr := b.Close(); cerr != nil && err == nil {
					err = cerr
				}
			}()
			if err := sqlite.SeedInto(b); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, l := range pending {
				res, err := sqlite.LoadJSONL(b, l.table, l.file)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Loaded %d rows into %s (%d skipped)\n", res.Loaded, l.table, res.Skipped)
			}
			fmt.Fprintf(out, "Wrote sample database to %s\n", path)
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&loads, "load", nil, "append table=file.jsonl records (repeatable)")
	return cmd
}
