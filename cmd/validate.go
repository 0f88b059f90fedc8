package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xrsl/cvlift/pkg/docs"
	"github.com/xrsl/cvlift/pkg/form"
	"github.com/xrsl/cvlift/pkg/improve"
	"github.com/xrsl/cvlift/pkg/notify"
	"github.com/xrsl/cvlift/pkg/style"
	"github.com/xrsl/cvlift/pkg/workflow"
)

var (
	validateType string
	validateJSON bool
)

var validateCmd = &cobra.Command{
	Use:   "validate <google-docs-link>",
	Short: "Check a link and improvement type without running anything",
	Long: `Check input the same way the editor does before a run starts.
Without --type only the link is checked.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringVarP(&validateType, "type", "t", "", "Improvement type to check as well")
	validateCmd.Flags().BoolVar(&validateJSON, "json", false, "Output as JSON")
	rootCmd.AddCommand(validateCmd)
}

type validation struct {
	Valid        bool                 `json:"valid"`
	DocumentID   string               `json:"documentId,omitempty"`
	Improvement  *improve.Option      `json:"improvement,omitempty"`
	Notification *notify.Notification `json:"notification,omitempty"`
}

func check(link, selection string) validation {
	var v validation
	v.DocumentID, _ = docs.DocumentID(link)
	if selection == "" {
		// Only the link was asked about.
		selection = "-"
	} else if o, ok := improve.Lookup(selection); ok {
		v.Improvement = &o
	}
	if err := form.Validate(link, selection); err != nil {
		n := workflow.Notification(err)
		v.Notification = &n
		return v
	}
	v.Valid = true
	return v
}

func runValidate(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	res := check(args[0], validateType)

	if validateJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			return err
		}
	} else if res.Valid {
		fmt.Fprintf(out, "%s Valid Google Docs link %s\n", style.Check(), style.Dim("("+res.DocumentID+")"))
		if res.Improvement != nil {
			fmt.Fprintf(out, "%s Improvement: %s\n", style.Check(), res.Improvement.Label)
		} else if validateType != "" {
			fmt.Fprintf(out, "%s Improvement: %s %s\n", style.Check(), validateType, style.Dim("(free text)"))
		}
	} else {
		fmt.Fprintln(out, style.Notification(*res.Notification))
	}

	if !res.Valid {
		return reportedError{fmt.Errorf("invalid input: %s", res.Notification.Title)}
	}
	return nil
}
