// Package style provides consistent terminal styling for the cvlift CLI.
// Help output follows Typer's layout: magenta headings, cyan commands.
package style

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/xrsl/cvlift/pkg/notify"
)

var (
	heading = color.New(color.Bold, color.FgMagenta)
	command = color.New(color.FgCyan)
	muted   = color.New(color.FgHiBlack)
	green   = color.New(color.FgGreen)
	yellow  = color.New(color.FgYellow, color.Bold)
	red     = color.New(color.FgRed)
	blue    = color.New(color.FgBlue)
	strong  = color.New(color.Bold)
)

func init() {
	if os.Getenv("CVLIFT_NO_COLOR") != "" {
		color.NoColor = true
	}
}

// DisableColor turns off all styling, e.g. for --no-color.
func DisableColor() { color.NoColor = true }

// B makes text bold
func B(text string) string { return strong.Sprint(text) }

// Cmd styles a command or value
func Cmd(text string) string { return command.Sprint(text) }

// Dim styles secondary text
func Dim(text string) string { return muted.Sprint(text) }

// Status markers used in command output.
func Check() string { return green.Sprint("✓") }

func Cross() string { return red.Sprint("✗") }

func Warn() string { return yellow.Sprint("⚠") }

func Arrow() string { return blue.Sprint("→") }

// Success formats a success label
func Success(label string) string {
	return green.Sprint(label+":") + " "
}

// Notification renders a notification as a single terminal line.
func Notification(n notify.Notification) string {
	title := green.Sprint(n.Title)
	marker := Check()
	if n.Severity == notify.Destructive {
		title = red.Sprint(n.Title)
		marker = Cross()
	}
	if n.Title == "Processing" {
		marker = Arrow()
		title = blue.Sprint(n.Title)
	}
	if n.Description == "" {
		return fmt.Sprintf("%s %s", marker, title)
	}
	return fmt.Sprintf("%s %s %s", marker, title, n.Description)
}

// ProgressBar renders percent (0 to 100) as a bar of the given width.
func ProgressBar(percent, width int) string {
	if width <= 0 {
		width = 20
	}
	percent = max(0, min(percent, 100))
	filled := percent * width / 100
	bar := green.Sprint(strings.Repeat("█", filled)) + muted.Sprint(strings.Repeat("░", width-filled))
	return fmt.Sprintf("%s %3d%%", bar, percent)
}

// SetupHelp configures Typer-style help templates for a Cobra command
func SetupHelp(cmd *cobra.Command) {
	cobra.AddTemplateFunc("styleHeading", styleHeading)
	cobra.AddTemplateFunc("styleCommand", styleCommand)
	cobra.AddTemplateFunc("rpadStyled", rpadStyled)

	cmd.SetUsageTemplate(usageTemplate)
	cmd.SetHelpTemplate(helpTemplate)
}

func styleHeading(s string) string { return heading.Sprint(s) }

func styleCommand(s string) string { return command.Sprint(s) }

func rpadStyled(s string, padding int) string {
	styled := styleCommand(s)
	// Pad on the raw length, escape codes take no columns
	padLen := padding - len(s)
	if padLen > 0 {
		return styled + strings.Repeat(" ", padLen)
	}
	return styled
}

const usageTemplate = `{{ styleHeading "Usage:" }}
  {{ styleCommand .UseLine }}{{if .HasAvailableSubCommands}} [command]{{end}}
{{if .HasAvailableSubCommands}}
{{ styleHeading "Commands:" }}{{range .Commands}}{{if .IsAvailableCommand}}
  {{rpadStyled .Name .NamePadding }}  {{.Short}}{{end}}{{end}}

Use "{{.CommandPath}} [command] --help" for more information about a command.{{end}}
`

const helpTemplate = `{{if .Long}}{{.Long}}

{{else if .Short}}{{.Short}}

{{end}}{{ styleHeading "Usage:" }}
  {{ styleCommand .UseLine }}{{if .HasAvailableSubCommands}} [command]{{end}}
{{if .HasExample}}
{{ styleHeading "Examples:" }}
{{.Example}}
{{end}}{{if .HasAvailableSubCommands}}
{{ styleHeading "Commands:" }}{{range .Commands}}{{if .IsAvailableCommand}}
  {{rpadStyled .Name .NamePadding }}  {{.Short}}{{end}}{{end}}
{{end}}{{if .HasAvailableLocalFlags}}
{{ styleHeading "Options:" }}
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}
{{end}}{{if .HasAvailableInheritedFlags}}
{{ styleHeading "Global Options:" }}
{{.InheritedFlags.FlagUsages | trimTrailingWhitespaces}}
{{end}}{{if .HasAvailableSubCommands}}
Use "{{.CommandPath}} [command] --help" for more information about a command.
{{end}}`
