package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xrsl/cvlift/pkg/cache"
	"github.com/xrsl/cvlift/pkg/style"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the history of completed runs",
	Long: `cvlift remembers which documents were enhanced with which settings so
"cvlift enhance" can ask before repeating a run.`,
}

var cachePathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the run history directory",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), cache.Dir())
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget every recorded run",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cache.Clear(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s Run history cleared\n", style.Check())
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cachePathCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}
