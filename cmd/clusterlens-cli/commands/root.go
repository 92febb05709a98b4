package commands

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "clusterlens-cli",
	Short: "Management cli",
	Long:  `The clusterlens cli can be used to run reports and maintenance jobs against the clusterlens database.`,
}

func GetRootCmd() *cobra.Command {
	return rootCmd
}
