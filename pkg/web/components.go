package web

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io"

	"github.com/a-h/templ"

	"github.com/xrsl/cvlift/pkg/notify"
)

// Toast renders a notification as a dismissible toast.
func Toast(n notify.Notification) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		class := "toast"
		role := "status"
		if n.Severity == notify.Destructive {
			class += " toast-destructive"
			role = "alert"
		}
		_, err := fmt.Fprintf(w,
			`<div class="%s" role="%s"><div class="toast-title">%s</div><div class="toast-description">%s</div></div>`,
			class, role, templ.EscapeString(n.Title), templ.EscapeString(n.Description))
		return err
	})
}

// InstructionsField renders the custom instructions textarea.
func InstructionsField(value string, disabled bool) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		attrs := ""
		if disabled {
			attrs = " disabled"
		}
		_, err := fmt.Fprintf(w,
			`<div class="field" id="instructions-field"><label for="instructions">Custom Instructions</label>`+
				`<textarea id="instructions" name="instructions" rows="4" placeholder="Describe specific improvements you'd like to make to your resume..."%s>%s</textarea></div>`,
			attrs, templ.EscapeString(value))
		return err
	})
}

// ProgressBar renders the processing indicator at percent.
func ProgressBar(percent int) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		percent = max(0, min(percent, 100))
		_, err := fmt.Fprintf(w,
			`<div class="progress" role="progressbar" aria-valuemin="0" aria-valuemax="100" aria-valuenow="%d">`+
				`<div class="progress-fill" style="width: %d%%"></div></div>`+
				`<p class="progress-label">Processing your resume...</p>`,
			percent, percent)
		return err
	})
}

// renderHTML renders a component for embedding in an html/template page.
func renderHTML(ctx context.Context, c templ.Component) (template.HTML, error) {
	var buf bytes.Buffer
	if err := c.Render(ctx, &buf); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}
