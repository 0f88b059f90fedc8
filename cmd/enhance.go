package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/AlecAivazis/survey/v2"
	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"

	"github.com/xrsl/cvlift/pkg/cache"
	"github.com/xrsl/cvlift/pkg/config"
	"github.com/xrsl/cvlift/pkg/docs"
	"github.com/xrsl/cvlift/pkg/form"
	"github.com/xrsl/cvlift/pkg/improve"
	clog "github.com/xrsl/cvlift/pkg/log"
	"github.com/xrsl/cvlift/pkg/notify"
	"github.com/xrsl/cvlift/pkg/signal"
	"github.com/xrsl/cvlift/pkg/style"
	"github.com/xrsl/cvlift/pkg/workflow"
)

var (
	enhanceType         string
	enhanceInstructions string
	enhanceDelay        time.Duration
	enhanceYes          bool
	enhanceNoInput      bool
)

const writeOwn = "Write my own..."

var enhanceCmd = &cobra.Command{
	Use:   "enhance [google-docs-link]",
	Short: "Enhance a Google Docs resume from the terminal",
	Long: `Run the resume enhancement workflow for a Google Doc.

Missing input is prompted for when stdin is a terminal. The improvement type
may be an option label, an option value (see "cvlift options"), or free text.`,
	Example: `  cvlift enhance https://docs.google.com/document/d/1AbC/edit -t ats-optimize
  cvlift enhance https://docs.google.com/document/d/1AbC/edit -t custom -i "Lead with metrics"
  cvlift enhance`,
	Args: cobra.MaximumNArgs(1),
	RunE: runEnhance,
}

func init() {
	enhanceCmd.Flags().StringVarP(&enhanceType, "type", "t", "", "Improvement type (label, value or free text)")
	enhanceCmd.Flags().StringVarP(&enhanceInstructions, "instructions", "i", "", "Custom instructions for the custom improvement type")
	enhanceCmd.Flags().DurationVar(&enhanceDelay, "delay", 0, "Wait per phase (default from config, 1.5s)")
	enhanceCmd.Flags().BoolVarP(&enhanceYes, "yes", "y", false, "Run again without asking when this resume was already enhanced the same way")
	enhanceCmd.Flags().BoolVar(&enhanceNoInput, "no-input", false, "Never prompt for missing input")
	rootCmd.AddCommand(enhanceCmd)
}

func runEnhance(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if !verbose {
		clog.SetLevel("warn")
	}

	ctx, cancel := signal.WithInterrupt(cmd.Context())
	defer cancel()

	in := form.Values{Selection: enhanceType, Instructions: enhanceInstructions}
	if len(args) > 0 {
		in.Link = args[0]
	}
	if !enhanceNoInput && isInteractive() {
		if err := promptMissing(&in); err != nil {
			return promptErr(err)
		}
	}
	if !improve.IsCustom(in.Selection) {
		in.Instructions = ""
	}

	out := cmd.OutOrStdout()
	if prev, ok := cache.Lookup(in); ok && !enhanceYes {
		fmt.Fprintf(out, "%s This resume was already enhanced this way on %s\n",
			style.Warn(), prev.CompletedAt.Local().Format("2006-01-02 15:04"))
		again := false
		if !enhanceNoInput && isInteractive() {
			if err := survey.AskOne(&survey.Confirm{Message: "Run it again?", Default: false}, &again); err != nil {
				return promptErr(err)
			}
		}
		if !again {
			fmt.Fprintln(out, style.Dim("Skipped. Use --yes to run anyway."))
			return nil
		}
	}

	enhancer, err := newEnhancer(cfg.Backend)
	if err != nil {
		return err
	}

	delay := cfg.Workflow.RunnerDelay()
	if cmd.Flags().Changed("delay") {
		delay = enhanceDelay
		if delay == 0 {
			delay = -1
		}
	}

	rep := newReporter(out, quiet)
	runner := workflow.Runner{
		Delay:    delay,
		Sink:     rep,
		Observer: rep,
		Enhancer: enhancer,
	}

	if err := runner.Submit(ctx, form.New(in.Link, in.Selection, in.Instructions)); err != nil {
		return reportedError{err}
	}

	if id, ok := docs.DocumentID(in.Link); ok {
		fmt.Fprintf(out, "  %s\n", style.Cmd(docs.EditURL(id)))
	}
	if err := cache.Write(in, time.Now()); err != nil {
		clog.Warn("could not record run", "error", err)
	}
	return nil
}

// promptMissing asks for the fields not given on the command line.
func promptMissing(in *form.Values) error {
	if strings.TrimSpace(in.Link) == "" {
		err := survey.AskOne(&survey.Input{
			Message: "Google Docs link:",
			Help:    `Make sure your Google Doc is set to "Anyone with the link can edit"`,
		}, &in.Link, survey.WithValidator(linkValidator))
		if err != nil {
			return err
		}
	}

	if strings.TrimSpace(in.Selection) == "" {
		choices := append(improve.Labels(), writeOwn)
		var choice string
		if err := survey.AskOne(&survey.Select{
			Message: "Improvement type:",
			Options: choices,
		}, &choice); err != nil {
			return err
		}
		if choice == writeOwn {
			if err := survey.AskOne(&survey.Input{
				Message: "How should your resume be improved?",
			}, &in.Selection, survey.WithValidator(survey.Required)); err != nil {
				return err
			}
		} else {
			in.Selection = choice
		}
	}

	if improve.ShowsInstructions(in.Selection) && strings.TrimSpace(in.Instructions) == "" {
		if err := survey.AskOne(&survey.Multiline{
			Message: "Custom instructions:",
			Help:    "Describe specific improvements you'd like to make to your resume",
		}, &in.Instructions); err != nil {
			return err
		}
	}
	return nil
}

func linkValidator(ans any) error {
	s, _ := ans.(string)
	switch s = strings.TrimSpace(s); {
	case s == "":
		return errors.New(workflow.Notification(form.ErrMissingLink).Description)
	case !docs.IsGoogleDocsLink(s):
		return errors.New(workflow.Notification(form.ErrInvalidLink).Description)
	}
	return nil
}

// reporter renders workflow events in the terminal: notifications as lines
// and progress on a spinner while a run is active.
type reporter struct {
	mu       sync.Mutex
	out      io.Writer
	quiet    bool
	spin     *spinner.Spinner
	spinning bool
}

func newReporter(out io.Writer, quiet bool) *reporter {
	s := spinner.New(spinner.CharSets[11], 100*time.Millisecond, spinner.WithWriter(out))
	return &reporter{out: out, quiet: quiet, spin: s}
}

func (r *reporter) Notify(n notify.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.quiet && n.Severity == notify.Normal && n.Title == "Processing" {
		return
	}
	if r.spinning {
		r.spin.Stop()
	}
	fmt.Fprintln(r.out, style.Notification(n))
	if r.spinning {
		r.spin.Start()
	}
}

func (r *reporter) StateChanged(s workflow.State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	switch s {
	case workflow.Running:
		if !r.quiet && isTerminal(r.out) {
			r.spinning = true
			r.spin.Start()
		}
	case workflow.Succeeded, workflow.Failed:
		if r.spinning {
			r.spin.Stop()
			r.spinning = false
		}
	}
}

func (r *reporter) Progressed(p int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.spin.Suffix = " " + style.ProgressBar(p, 20)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fi, err := f.Stat()
	return err == nil && fi.Mode()&os.ModeCharDevice != 0
}
