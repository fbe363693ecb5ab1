package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eleven-am/couchstorm/pkg/couchstorm"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Long:  "Display couchstorm version and build information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprint(cmd.OutOrStdout(), couchstorm.FullVersionInfo())
	},
}
