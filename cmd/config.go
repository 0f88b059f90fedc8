package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/xrsl/cvlift/pkg/config"
	"github.com/xrsl/cvlift/pkg/style"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage cvlift configuration",
	Long: `Read and write settings in .cvlift.yaml.

Every key can also be set through the environment: server.port becomes
CVLIFT_SERVER_PORT. Environment values win over the file.

  cvlift config list
  cvlift config get <key>
  cvlift config set <key> <value>`,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value",
	Long: `Set a configuration value. The file is only written when the resulting
configuration is valid.

Examples:
  cvlift config set server.port 9000
  cvlift config set workflow.phase_delay 500ms
  cvlift config set backend.endpoint https://api.example.com/edit-resume
  cvlift config set backend.max_retries 2`,
	Args:              cobra.ExactArgs(2),
	ValidArgsFunction: completeKeys,
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]
		if err := config.Set(key, value); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s Set %s = %s\n", style.Check(), key, value)
		return nil
	},
}

var configGetCmd = &cobra.Command{
	Use:               "get <key>",
	Short:             "Get a config value",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeKeys,
	RunE: func(cmd *cobra.Command, args []string) error {
		value, err := config.Get(args[0])
		if err != nil {
			return err
		}
		if value == "" {
			fmt.Fprintln(cmd.OutOrStdout(), "(not set)")
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), value)
		}
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all config values",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		all := config.All()

		fmt.Fprintf(out, "\n%s\n", style.B("cvlift config"))
		fmt.Fprintf(out, "%s\n", style.Dim(config.Path()))

		section := ""
		for _, key := range config.SortedKeys() {
			group, name, _ := strings.Cut(key, ".")
			if group != section {
				section = group
				fmt.Fprintf(out, "\n%s\n", style.Cmd(group))
			}
			printConfigRow(out, name, displayValue(key, all[key]))
		}
		fmt.Fprintln(out)
		return nil
	},
}

// displayValue hides secrets in listings.
func displayValue(key, value string) string {
	if key == "backend.token" && value != "" {
		return "********"
	}
	return value
}

func printConfigRow(out io.Writer, key, value string) {
	if value == "" {
		fmt.Fprintf(out, "  %-18s %s\n", key, style.Dim("(not set)"))
		return
	}
	fmt.Fprintf(out, "  %-18s %s\n", key, value)
}

func completeKeys(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) != 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return config.SortedKeys(), cobra.ShellCompDirectiveNoFileComp
}

func init() {
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configListCmd)
	rootCmd.AddCommand(configCmd)
}
