package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/inspector/pkg/inspector"
)

const modulePath = "github.com/mesh-intelligence/inspector"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the inspector version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "inspector v%s\nmodule: %s\n", inspector.Version, modulePath)
			return nil
		},
	}
}
