package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xrsl/cvlift/pkg/improve"
	"github.com/xrsl/cvlift/pkg/style"
)

var optionsJSON bool

var optionsCmd = &cobra.Command{
	Use:   "options",
	Short: "List the improvement types",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		opts := improve.Options()
		if optionsJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(opts)
		}
		for _, o := range opts {
			fmt.Fprintf(out, "  %-20s %s\n", style.Cmd(o.Value), o.Label)
		}
		fmt.Fprintf(out, "\n%s\n", style.Dim("Any other text is accepted as a free-form improvement."))
		return nil
	},
}

func init() {
	optionsCmd.Flags().BoolVar(&optionsJSON, "json", false, "Output as JSON")
	rootCmd.AddCommand(optionsCmd)
}
