package cmd

import (
	"github.com/spf13/cobra"
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list [path]",
	Short: "List all locked dependencies of a project with their licenses",
	Long: `List all locked dependencies of a project with their licenses.

Unlike the root command, list prints one dependency per line unless --bundle is given.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		err := doListCmd(cmd, args)
		if err != nil {
			exitWithError(err)
		}
	},
}

var listBundleFlag bool

func init() {
	listCmd.Flags().BoolVar(&listBundleFlag, "bundle", false, "Bundle dependencies by license in text output")
	rootCmd.AddCommand(listCmd)
}

func doListCmd(cmd *cobra.Command, args []string) error {
	appConfig.DoNotBundle = !listBundleFlag
	return doReportCmd(cmd, args)
}
