package web

import (
	"context"
	"strings"
	"testing"

	"github.com/xrsl/cvlift/pkg/notify"
)

func TestToastEscapes(t *testing.T) {
	html, err := renderHTML(context.Background(), Toast(notify.Alert("<b>Invalid</b>", `a "quote"`)))
	if err != nil {
		t.Fatal(err)
	}
	doc := parseHTML(t, string(html))
	toast := doc.Find(".toast")
	if !toast.HasClass("toast-destructive") {
		t.Error("destructive toast missing class")
	}
	if role, _ := toast.Attr("role"); role != "alert" {
		t.Errorf("role = %q", role)
	}
	if got := toast.Find(".toast-title").Text(); got != "<b>Invalid</b>" {
		t.Errorf("title = %q", got)
	}
	if strings.Contains(string(html), "<b>") {
		t.Error("title was not escaped")
	}
}

func TestToastNormal(t *testing.T) {
	html, err := renderHTML(context.Background(), Toast(notify.Info("Processing", "Analyzing content with AI...")))
	if err != nil {
		t.Fatal(err)
	}
	toast := parseHTML(t, string(html)).Find(".toast")
	if toast.HasClass("toast-destructive") {
		t.Error("normal toast has destructive class")
	}
	if got := toast.Find(".toast-description").Text(); got != "Analyzing content with AI..." {
		t.Errorf("description = %q", got)
	}
}

func TestInstructionsField(t *testing.T) {
	html, err := renderHTML(context.Background(), InstructionsField("</textarea><script>", true))
	if err != nil {
		t.Fatal(err)
	}
	doc := parseHTML(t, string(html))
	area := doc.Find("textarea#instructions")
	if area.Text() != "</textarea><script>" {
		t.Errorf("value = %q", area.Text())
	}
	if _, ok := area.Attr("disabled"); !ok {
		t.Error("expected disabled textarea")
	}
	if doc.Find("script").Length() != 0 {
		t.Error("value escaped incorrectly")
	}
}

func TestProgressBarClamps(t *testing.T) {
	tests := map[int]string{-10: "0", 50: "50", 250: "100"}
	for in, want := range tests {
		html, err := renderHTML(context.Background(), ProgressBar(in))
		if err != nil {
			t.Fatal(err)
		}
		if got, _ := parseHTML(t, string(html)).Find(".progress").Attr("aria-valuenow"); got != want {
			t.Errorf("ProgressBar(%d) = %q, want %q", in, got, want)
		}
	}
}
