package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/deploymenttheory/go-workflow-autofix/internal/config"
	"github.com/deploymenttheory/go-workflow-autofix/pkg/tooling"
)

// newVersionCmd shows the application version
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s v%s\n", config.AppName, tooling.GetVersion())
		},
	}
}
